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

// Package resolve expands experiment selectors against the recording store.
package resolve

import (
	"context"
	"fmt"
	"path"
	"strings"
)

// Wildcard selects every experiment found under the data source's prefix.
const Wildcard = "*"

// DefaultDataSuffix is the extension of experiment recording files.
const DefaultDataSuffix = ".mat"

// Lister lists object names under a prefix in the recording store. It is the
// only side-effecting call in resolution, kept behind an interface so the
// expansion logic stays pure and testable.
type Lister interface {
	ListObjects(ctx context.Context, prefix string) ([]string, error)
}

// ResolutionError reports that the store listing for a data source was
// unavailable.
type ResolutionError struct {
	Source string
	Err    error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolving experiments for source %q: %v", e.Source, e.Err)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// Experiments resolves the selector for a data source. A concrete selector
// returns a singleton without touching the store. The wildcard lists the
// source's prefix, keeps objects with the data suffix, and returns their base
// names in listing order. An empty listing is an empty result, not an error.
func Experiments(ctx context.Context, lister Lister, source, selector, suffix string) ([]string, error) {
	if selector != Wildcard {
		return []string{selector}, nil
	}

	objects, err := lister.ListObjects(ctx, source+"/")
	if err != nil {
		return nil, &ResolutionError{Source: source, Err: err}
	}

	var experiments []string
	for _, obj := range objects {
		if !strings.HasSuffix(obj, suffix) {
			continue
		}
		experiments = append(experiments, strings.TrimSuffix(path.Base(obj), suffix))
	}
	return experiments, nil
}
