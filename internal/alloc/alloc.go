// Package alloc hands out unused six-digit account numbers.
package alloc

import (
	"fmt"
	"math/rand/v2"
	"strconv"
)

const (
	numberMin = 100000
	numberMax = 999999
)

// ExistenceChecker tests whether an account number is already taken.
type ExistenceChecker interface {
	Exists(number string) (bool, error)
}

// Allocator samples the six-digit space and rejects numbers the store
// already holds.
type Allocator struct {
	store ExistenceChecker
	intn  func(n int) int
}

// New creates an Allocator backed by the store's uniqueness check.
func New(store ExistenceChecker) *Allocator {
	return &Allocator{store: store, intn: rand.IntN}
}

// Allocate retries until it finds a free number. The space holds 900000 ids,
// so collisions stay rare at single-user scale and no retry bound is needed.
func (a *Allocator) Allocate() (string, error) {
	for {
		number := strconv.Itoa(numberMin + a.intn(numberMax-numberMin+1))
		taken, err := a.store.Exists(number)
		if err != nil {
			return "", fmt.Errorf("checking account number: %w", err)
		}
		if !taken {
			return number, nil
		}
	}
}
