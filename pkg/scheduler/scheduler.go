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

// Package scheduler defines the cluster-side contract of the dispatcher.
package scheduler

import "context"

// Scheduler accepts a rendered job manifest and makes its execution the
// cluster's responsibility. Apply has update semantics: re-applying a
// manifest with an existing job name updates that job rather than
// duplicating it. Implementations block until the cluster has accepted or
// rejected the manifest.
type Scheduler interface {
	Apply(ctx context.Context, manifest string) error
}
