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
	"strings"
	"sync/atomic"
	"time"
)

// maxNameLength is the DNS-1123 label limit enforced by the API server.
const maxNameLength = 63

// uniquifier format matches the image tag datetimes used by the builder.
const nameTimeLayout = "2006-01-02-15-04-05"

var nameSequence uint64

// JobName maps an experiment name onto the scheduler's identifier alphabet.
// The mapping is total and idempotent on already-safe input: uppercase folds
// to lowercase, underscores become hyphens, commas become periods, and any
// remaining disallowed rune becomes a hyphen.
func JobName(experiment string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(experiment) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.', r == '-':
			b.WriteRune(r)
		case r == '_':
			b.WriteByte('-')
		case r == ',':
			b.WriteByte('.')
		default:
			b.WriteByte('-')
		}
	}

	name := strings.Trim(b.String(), "-.")
	if name == "" {
		name = "job"
	}
	if len(name) > maxNameLength {
		name = strings.Trim(name[:maxNameLength], "-.")
	}
	return name
}

// UniqueJobName derives a scheduler-safe name that cannot collide with any
// other name issued by this process, even within the same clock tick: the
// timestamp distinguishes processes, the sequence distinguishes dispatches.
func UniqueJobName(experiment string, now time.Time) string {
	seq := atomic.AddUint64(&nameSequence, 1)
	suffix := fmt.Sprintf("-%s-%d", now.UTC().Format(nameTimeLayout), seq)

	base := JobName(experiment)
	if len(base)+len(suffix) > maxNameLength {
		base = strings.Trim(base[:maxNameLength-len(suffix)], "-.")
	}
	return base + suffix
}
