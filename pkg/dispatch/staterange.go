// Copyright 2026 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package dispatch

import (
	"fmt"
	"strconv"
	"strings"
)

// StateRange is the inclusive interval of candidate hidden-state counts a
// fitting run evaluates. Low <= High always holds for a valid range.
type StateRange struct {
	Low  int
	High int
}

// String renders the range in the "low-high" wire format the worker expects.
func (r StateRange) String() string {
	return fmt.Sprintf("%d-%d", r.Low, r.High)
}

// Span is the number of values in the range.
func (r StateRange) Span() int {
	return r.High - r.Low + 1
}

// ParseStateRange parses the "low-high" form back into a StateRange.
// Parsing is the exact inverse of String for every valid range.
func ParseStateRange(s string) (StateRange, error) {
	parts := strings.SplitN(s, "-", 2)
	if len(parts) != 2 {
		return StateRange{}, Configurationf("state range %q is not of the form \"low-high\"", s)
	}
	low, err := strconv.Atoi(parts[0])
	if err != nil {
		return StateRange{}, Configurationf("state range %q has a non-integer lower bound", s)
	}
	high, err := strconv.Atoi(parts[1])
	if err != nil {
		return StateRange{}, Configurationf("state range %q has a non-integer upper bound", s)
	}
	if low > high {
		return StateRange{}, Configurationf("state range %q is inverted: %d > %d", s, low, high)
	}
	return StateRange{Low: low, High: high}, nil
}
