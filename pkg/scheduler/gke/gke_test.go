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

package gke

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const validManifest = `
apiVersion: batch/v1
kind: Job
metadata:
  name: fr0222-sorted-2026-02-22-12-00-00-1
spec:
  backoffLimit: 0
  template:
    spec:
      restartPolicy: Never
      containers:
      - name: hmm-worker
        image: gcr.io/my-project/hmm-worker:test
        command: ["/bin/bash", "-c", "python hmm_worker.py"]
`

func TestDecodeJob(t *testing.T) {
	job, err := decodeJob(validManifest)
	if err != nil {
		t.Fatalf("decodeJob failed: %v", err)
	}
	if job.Name != "fr0222-sorted-2026-02-22-12-00-00-1" {
		t.Errorf("decoded job name = %q", job.Name)
	}
	if len(job.Spec.Template.Spec.Containers) != 1 {
		t.Fatalf("decoded job has %d containers, want 1", len(job.Spec.Template.Spec.Containers))
	}
	if img := job.Spec.Template.Spec.Containers[0].Image; img != "gcr.io/my-project/hmm-worker:test" {
		t.Errorf("decoded container image = %q", img)
	}
}

func TestDecodeJobRejectsOtherKinds(t *testing.T) {
	tests := []struct {
		name     string
		manifest string
	}{
		{
			name: "wrong kind",
			manifest: `
apiVersion: v1
kind: Pod
metadata:
  name: not-a-job
`,
		},
		{
			name: "missing name",
			manifest: `
apiVersion: batch/v1
kind: Job
metadata:
  labels:
    hmm-toolkit/workload: unnamed
`,
		},
		{
			name:     "not yaml",
			manifest: "{{{",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := decodeJob(tt.manifest); err == nil {
				t.Errorf("decodeJob accepted manifest %q", tt.name)
			}
		})
	}
}

func TestApplyWritesOutputManifest(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "jobs.yaml")
	s := NewScheduler(Options{OutputManifest: outPath})

	if err := s.Apply(context.Background(), validManifest); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if err := s.Apply(context.Background(), validManifest); err != nil {
		t.Fatalf("second Apply failed: %v", err)
	}

	content, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("reading output manifest: %v", err)
	}
	if got := strings.Count(string(content), "kind: Job"); got != 2 {
		t.Errorf("output manifest holds %d job documents, want 2", got)
	}
	if got := strings.Count(string(content), "---"); got != 2 {
		t.Errorf("output manifest has %d document separators, want 2", got)
	}
}
