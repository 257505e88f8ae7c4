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

import "fmt"

// ConfigurationError reports invalid dispatch parameters: bad split counts,
// malformed state ranges, or job templates referencing unmapped fields.
// It is always raised before any submission attempt.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return e.Reason
}

// Configurationf builds a ConfigurationError from a format string.
func Configurationf(format string, args ...interface{}) *ConfigurationError {
	return &ConfigurationError{Reason: fmt.Sprintf(format, args...)}
}

// SubmissionError reports a scheduler rejection or unreachability for a
// specific job, identified by the name it would have been tracked under.
type SubmissionError struct {
	JobName string
	Err     error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("submitting job %q: %v", e.JobName, e.Err)
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}
