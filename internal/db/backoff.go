// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package db

import (
	"math"
	"math/rand"
	"time"
)

// Backoff defines an interface for providing a back off for retrying
// transactions.  See DoTx.
type Backoff interface {
	Duration(attemptNumber uint) time.Duration
}

// ConstBackoff defines a constant backoff for retrying transactions.  See
// DoTx.
type ConstBackoff struct {
	DurationMs time.Duration
}

func (b ConstBackoff) Duration(attempt uint) time.Duration {
	return time.Millisecond * time.Duration(b.DurationMs)
}

// ExpBackoff defines an exponential backoff for retrying transactions.  See
// DoTx.
type ExpBackoff struct{}

func (b ExpBackoff) Duration(attempt uint) time.Duration {
	r := rand.Float64()
	return time.Millisecond * time.Duration(math.Exp2(float64(attempt))*5*(r+0.5))
}
