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

// JobRequest identifies one model-fitting run: one experiment, one bin size,
// one state-count range. Construct it fully and treat it as immutable.
type JobRequest struct {
	DataSource string
	Experiment string
	BinSizeMs  int
	StateRange StateRange
	Surrogate  string
	Method     string
}

// Validate reports the first invalid field as a ConfigurationError.
func (r JobRequest) Validate() error {
	if r.DataSource == "" {
		return Configurationf("job for experiment %q has no data source", r.Experiment)
	}
	if r.Experiment == "" {
		return Configurationf("job for source %q has no experiment", r.DataSource)
	}
	if r.BinSizeMs <= 0 {
		return Configurationf("job for experiment %q has non-positive bin size %d", r.Experiment, r.BinSizeMs)
	}
	if r.StateRange.Low > r.StateRange.High {
		return Configurationf("job for experiment %q has inverted state range %s", r.Experiment, r.StateRange)
	}
	if r.Surrogate == "" {
		return Configurationf("job for experiment %q has no surrogate flag", r.Experiment)
	}
	if r.Method == "" {
		return Configurationf("job for experiment %q has no method", r.Experiment)
	}
	return nil
}
