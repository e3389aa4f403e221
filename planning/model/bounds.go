// Copyright 2010-2024 Google LLC
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package model

import (
	"fmt"
	"math"
)

// Interval stores the closed interval `[Lower,Upper]` of real values. An infinite `Lower` or
// `Upper` represents an unbounded side. If `Lower` is greater than `Upper` the interval is
// considered empty.
type Interval struct {
	Lower float64
	Upper float64
}

// NewInterval creates the interval `[lower,upper]`.
func NewInterval(lower, upper float64) Interval {
	return Interval{Lower: lower, Upper: upper}
}

// Unbounded returns `(-inf,+inf)`.
func Unbounded() Interval {
	return Interval{Lower: math.Inf(-1), Upper: math.Inf(1)}
}

// NonNegative returns `[0,+inf)`.
func NonNegative() Interval {
	return Interval{Lower: 0, Upper: math.Inf(1)}
}

// Fixed returns the singleton interval `[v,v]`.
func Fixed(v float64) Interval {
	return Interval{Lower: v, Upper: v}
}

// IsEmpty reports whether the interval contains no value.
func (i Interval) IsEmpty() bool {
	return i.Lower > i.Upper
}

// IsFixed reports whether the interval contains exactly one value.
func (i Interval) IsFixed() bool {
	return i.Lower == i.Upper
}

// Contains reports whether `v` lies in the interval, widened by `tol` on both sides.
func (i Interval) Contains(v, tol float64) bool {
	return v >= i.Lower-tol && v <= i.Upper+tol
}

// Distance returns how far `v` lies outside the interval, 0 if it is inside.
func (i Interval) Distance(v float64) float64 {
	switch {
	case v < i.Lower:
		return i.Lower - v
	case v > i.Upper:
		return v - i.Upper
	}
	return 0
}

// IsSubsetOf reports whether every value of `i` is also in `o`.
func (i Interval) IsSubsetOf(o Interval) bool {
	if i.IsEmpty() {
		return true
	}
	return i.Lower >= o.Lower && i.Upper <= o.Upper
}

func (i Interval) String() string {
	return fmt.Sprintf("[%g,%g]", i.Lower, i.Upper)
}

// validate checks that both sides are numbers and that a finite interval is not empty.
func (i Interval) validate() error {
	if math.IsNaN(i.Lower) || math.IsNaN(i.Upper) {
		return fmt.Errorf("%v has a NaN side: %w", i, ErrInvalidBounds)
	}
	if math.IsInf(i.Lower, 1) || math.IsInf(i.Upper, -1) {
		return fmt.Errorf("%v is empty: %w", i, ErrInvalidBounds)
	}
	if i.IsEmpty() {
		return fmt.Errorf("lower bound %g is greater than upper bound %g: %w", i.Lower, i.Upper, ErrInvalidBounds)
	}
	return nil
}

func isIntegral(v float64) bool {
	return v == math.Trunc(v)
}
