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

// Partition splits r into splits contiguous, ordered sub-ranges whose union is
// exactly r. Sub-range sizes differ by at most one; the remainder of
// span/splits lands on the later sub-ranges through floor truncation:
//
//	start_i = low + floor(span * i / splits)
//	end_i   = low + floor(span * (i+1) / splits) - 1
//
// splits must be between 1 and r.Span() inclusive, so that no sub-range is
// empty and no empty-range job can reach the scheduler.
func Partition(r StateRange, splits int) ([]StateRange, error) {
	span := r.Span()
	if span < 1 {
		return nil, Configurationf("state range %s is inverted", r)
	}
	if splits < 1 {
		return nil, Configurationf("split count must be at least 1, got %d", splits)
	}
	if splits > span {
		return nil, Configurationf("cannot split %s (%d values) into %d non-empty sub-ranges", r, span, splits)
	}

	plan := make([]StateRange, splits)
	for i := 0; i < splits; i++ {
		plan[i] = StateRange{
			Low:  r.Low + span*i/splits,
			High: r.Low + span*(i+1)/splits - 1,
		}
	}
	return plan, nil
}
