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
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"sigs.k8s.io/yaml" // For parsing rendered manifests in assertions
)

// fakeScheduler records applied manifests and optionally fails a specific
// submission.
type fakeScheduler struct {
	manifests []string
	failAt    int // 1-based index of the Apply call to fail; 0 never fails
}

func (f *fakeScheduler) Apply(ctx context.Context, manifest string) error {
	f.manifests = append(f.manifests, manifest)
	if f.failAt != 0 && len(f.manifests) == f.failAt {
		return fmt.Errorf("cluster unreachable")
	}
	return nil
}

func testRequest(experiment string, r StateRange) JobRequest {
	return JobRequest{
		DataSource: "organoid",
		Experiment: experiment,
		BinSizeMs:  30,
		StateRange: r,
		Surrogate:  "real",
		Method:     "default",
	}
}

func testDispatcher(fake *fakeScheduler) *Dispatcher {
	return &Dispatcher{
		Scheduler:   fake,
		Image:       "gcr.io/my-project/hmm-worker:test",
		CPULimit:    "4",
		MemoryLimit: "8Gi",
		Now: func() time.Time {
			return time.Date(2026, 2, 22, 12, 0, 0, 0, time.UTC)
		},
	}
}

type manifestComponents struct {
	metadata  map[string]interface{}
	container map[string]interface{}
	env       map[string]string
}

func parseManifest(t *testing.T, manifest string) manifestComponents {
	t.Helper()

	var result map[string]interface{}
	if err := yaml.Unmarshal([]byte(manifest), &result); err != nil {
		t.Fatalf("Failed to unmarshal rendered manifest: %v", err)
	}

	if kind := result["kind"]; kind != "Job" {
		t.Fatalf("Expected kind Job, got %v", kind)
	}
	metadata, ok := result["metadata"].(map[string]interface{})
	if !ok {
		t.Fatalf("metadata not found or not a map")
	}
	spec, ok := result["spec"].(map[string]interface{})
	if !ok {
		t.Fatalf("spec not found or not a map")
	}
	podTemplate, ok := spec["template"].(map[string]interface{})
	if !ok {
		t.Fatalf("spec.template not found or not a map")
	}
	podSpec, ok := podTemplate["spec"].(map[string]interface{})
	if !ok {
		t.Fatalf("spec.template.spec not found or not a map")
	}
	containers, ok := podSpec["containers"].([]interface{})
	if !ok || len(containers) == 0 {
		t.Fatalf("containers not found or empty")
	}
	container, ok := containers[0].(map[string]interface{})
	if !ok {
		t.Fatalf("container not found or not a map")
	}

	env := map[string]string{}
	envList, ok := container["env"].([]interface{})
	if !ok {
		t.Fatalf("container env not found or not a list")
	}
	for _, e := range envList {
		entry, ok := e.(map[string]interface{})
		if !ok {
			t.Fatalf("env entry not a map: %v", e)
		}
		env[fmt.Sprintf("%v", entry["name"])] = fmt.Sprintf("%v", entry["value"])
	}

	return manifestComponents{metadata: metadata, container: container, env: env}
}

func TestDispatchRendersManifest(t *testing.T) {
	fake := &fakeScheduler{}
	d := testDispatcher(fake)

	req := testRequest("Fr0222_sorted", StateRange{Low: 10, High: 50})
	if err := d.Dispatch(context.Background(), req); err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}
	if len(fake.manifests) != 1 {
		t.Fatalf("expected 1 submission, got %d", len(fake.manifests))
	}

	components := parseManifest(t, fake.manifests[0])

	jobName := fmt.Sprintf("%v", components.metadata["name"])
	if !strings.HasPrefix(jobName, "fr0222-sorted-2026-02-22") {
		t.Errorf("job name %q does not carry the sanitized experiment and timestamp", jobName)
	}

	wantEnv := map[string]string{
		"HMM_DATA_SOURCE": "organoid",
		"HMM_EXPERIMENT":  "Fr0222_sorted",
		"HMM_BIN_SIZE_MS": "30",
		"HMM_K_RANGE":     "10-50",
		"HMM_SURROGATE":   "real",
		"HMM_METHOD":      "default",
		"JOB_NAME":        jobName,
	}
	for name, want := range wantEnv {
		if got := components.env[name]; got != want {
			t.Errorf("env %s = %q, want %q", name, got, want)
		}
	}

	if img := components.container["image"]; img != "gcr.io/my-project/hmm-worker:test" {
		t.Errorf("container image = %v, want the dispatcher's image", img)
	}
}

func TestDispatchAllFailFast(t *testing.T) {
	fake := &fakeScheduler{failAt: 2}
	d := testDispatcher(fake)

	requests := []JobRequest{
		testRequest("exp-a", StateRange{10, 19}),
		testRequest("exp-b", StateRange{20, 29}),
		testRequest("exp-c", StateRange{30, 50}),
	}

	submitted, err := d.DispatchAll(context.Background(), requests)
	if err == nil {
		t.Fatalf("DispatchAll succeeded, want failure on second unit")
	}
	if submitted != 1 {
		t.Errorf("submitted = %d, want 1", submitted)
	}
	// The third unit must never be attempted.
	if len(fake.manifests) != 2 {
		t.Errorf("scheduler saw %d submission attempts, want 2", len(fake.manifests))
	}

	var subErr *SubmissionError
	if !errors.As(err, &subErr) {
		t.Errorf("DispatchAll error is %T, want SubmissionError", err)
	}
	if !strings.Contains(err.Error(), "exp-b") {
		t.Errorf("error %q does not name the failing experiment", err)
	}
}

func TestDispatchAllEmpty(t *testing.T) {
	fake := &fakeScheduler{}
	d := testDispatcher(fake)

	submitted, err := d.DispatchAll(context.Background(), nil)
	if err != nil {
		t.Fatalf("DispatchAll of empty batch failed: %v", err)
	}
	if submitted != 0 || len(fake.manifests) != 0 {
		t.Errorf("empty batch performed %d submissions", len(fake.manifests))
	}
}

func TestDispatchTemplateUnmappedField(t *testing.T) {
	fake := &fakeScheduler{}
	d := testDispatcher(fake)
	d.Template = "name: {{.NoSuchField}}"

	err := d.Dispatch(context.Background(), testRequest("exp", StateRange{10, 50}))
	if err == nil {
		t.Fatalf("Dispatch succeeded with an unmapped template field")
	}
	var confErr *ConfigurationError
	if !errors.As(err, &confErr) {
		t.Errorf("Dispatch returned %T, want ConfigurationError", err)
	}
	// The failure must precede any submission attempt.
	if len(fake.manifests) != 0 {
		t.Errorf("scheduler saw %d submissions despite the template error", len(fake.manifests))
	}
}

func TestDispatchInvalidRequest(t *testing.T) {
	fake := &fakeScheduler{}
	d := testDispatcher(fake)

	req := testRequest("exp", StateRange{10, 50})
	req.BinSizeMs = 0

	err := d.Dispatch(context.Background(), req)
	if err == nil {
		t.Fatalf("Dispatch succeeded with an invalid request")
	}
	var confErr *ConfigurationError
	if !errors.As(err, &confErr) {
		t.Errorf("Dispatch returned %T, want ConfigurationError", err)
	}
	if len(fake.manifests) != 0 {
		t.Errorf("scheduler saw %d submissions for an invalid request", len(fake.manifests))
	}
}
