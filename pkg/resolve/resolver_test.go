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

package resolve

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"
)

// fakeLister serves a canned listing and records the prefixes it was asked
// for.
type fakeLister struct {
	objects  []string
	err      error
	prefixes []string
}

func (f *fakeLister) ListObjects(ctx context.Context, prefix string) ([]string, error) {
	f.prefixes = append(f.prefixes, prefix)
	if f.err != nil {
		return nil, f.err
	}
	return f.objects, nil
}

func TestExperimentsConcreteSelector(t *testing.T) {
	// A concrete name must resolve without touching the store; a nil lister
	// proves no listing call can happen.
	got, err := Experiments(context.Background(), nil, "organoid", "Fr0222_sorted", DefaultDataSuffix)
	if err != nil {
		t.Fatalf("Experiments failed: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"Fr0222_sorted"}) {
		t.Errorf("Experiments = %v, want the selector itself", got)
	}
}

func TestExperimentsWildcard(t *testing.T) {
	lister := &fakeLister{objects: []string{
		"organoid/Fr0222_sorted.mat",
		"organoid/readme.txt",
		"organoid/HC52.mat",
		"organoid/checkpoints/model.bin",
		"organoid/L1_210101.mat",
	}}

	got, err := Experiments(context.Background(), lister, "organoid", Wildcard, DefaultDataSuffix)
	if err != nil {
		t.Fatalf("Experiments failed: %v", err)
	}

	// Listing order is preserved; non-matching objects are skipped.
	want := []string{"Fr0222_sorted", "HC52", "L1_210101"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Experiments = %v, want %v", got, want)
	}

	if !reflect.DeepEqual(lister.prefixes, []string{"organoid/"}) {
		t.Errorf("listing used prefixes %v, want [organoid/]", lister.prefixes)
	}
}

func TestExperimentsWildcardEmptyListing(t *testing.T) {
	lister := &fakeLister{}

	got, err := Experiments(context.Background(), lister, "organoid", Wildcard, DefaultDataSuffix)
	if err != nil {
		t.Fatalf("empty listing should not be an error, got %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Experiments = %v, want empty", got)
	}
}

func TestExperimentsWildcardListingFailure(t *testing.T) {
	lister := &fakeLister{err: fmt.Errorf("storage unavailable")}

	_, err := Experiments(context.Background(), lister, "organoid", Wildcard, DefaultDataSuffix)
	if err == nil {
		t.Fatalf("Experiments succeeded despite a failed listing")
	}

	var resErr *ResolutionError
	if !errors.As(err, &resErr) {
		t.Fatalf("Experiments returned %T, want ResolutionError", err)
	}
	if resErr.Source != "organoid" {
		t.Errorf("ResolutionError names source %q, want organoid", resErr.Source)
	}
}
