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

// Package dispatch turns model-fitting job requests into scheduler
// submissions: range partitioning, job-name derivation, and templated
// manifest generation.
package dispatch

import (
	"bytes"
	"context"
	"strconv"
	"text/template"
	"time"

	"github.com/pkg/errors"

	"hmm-toolkit/pkg/logging"
	"hmm-toolkit/pkg/scheduler"
)

// JobTemplate is the Go template for the batch/v1 Job submitted per fitting
// run. The worker reads its parameters from the HMM_* environment variables.
const JobTemplate = `
apiVersion: batch/v1
kind: Job
metadata:
  name: {{.JobName}}
  labels:
    hmm-toolkit/workload: {{.JobName}}
spec:
  backoffLimit: 0
  template:
    metadata:
      labels:
        hmm-toolkit/workload: {{.JobName}}
    spec:
      restartPolicy: Never
      containers:
      - name: hmm-worker
        image: {{.Image}}
        command: ["/bin/bash", "-c", "python hmm_worker.py"]
        env:
        - name: HMM_DATA_SOURCE
          value: "{{.DataSource}}"
        - name: HMM_EXPERIMENT
          value: "{{.Experiment}}"
        - name: HMM_BIN_SIZE_MS
          value: "{{.BinSizeMs}}"
        - name: HMM_K_RANGE
          value: "{{.KRange}}"
        - name: HMM_SURROGATE
          value: "{{.Surrogate}}"
        - name: HMM_METHOD
          value: "{{.Method}}"
        - name: JOB_NAME
          value: "{{.JobName}}"
        resources:
          limits:
            cpu: {{.CPULimit}}
            memory: {{.MemoryLimit}}
`

// Dispatcher renders and submits one scheduler job per JobRequest.
type Dispatcher struct {
	Scheduler   scheduler.Scheduler
	Image       string
	CPULimit    string
	MemoryLimit string

	// Template overrides JobTemplate when set.
	Template string

	// Now overrides the clock used for name uniquification in tests.
	Now func() time.Time
}

func (d *Dispatcher) clock() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// substitutions exposes the request as the template's named substitution
// points. Every template field must appear here: rendering runs with
// missingkey=error so an unmapped field fails before any submission.
func (d *Dispatcher) substitutions(req JobRequest, jobName string) map[string]string {
	return map[string]string{
		"JobName":     jobName,
		"Image":       d.Image,
		"DataSource":  req.DataSource,
		"Experiment":  req.Experiment,
		"BinSizeMs":   strconv.Itoa(req.BinSizeMs),
		"KRange":      req.StateRange.String(),
		"Surrogate":   req.Surrogate,
		"Method":      req.Method,
		"CPULimit":    d.CPULimit,
		"MemoryLimit": d.MemoryLimit,
	}
}

// Render produces the job manifest for req under the given job name.
func (d *Dispatcher) Render(req JobRequest, jobName string) (string, error) {
	text := d.Template
	if text == "" {
		text = JobTemplate
	}

	tmpl, err := template.New("job").Option("missingkey=error").Parse(text)
	if err != nil {
		return "", Configurationf("job template does not parse: %v", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, d.substitutions(req, jobName)); err != nil {
		return "", Configurationf("job template for experiment %q references an unmapped field: %v", req.Experiment, err)
	}
	return buf.String(), nil
}

// Dispatch validates req, derives its job identity, renders the manifest, and
// hands it to the scheduler. Template and validation failures surface as
// ConfigurationError before any submission attempt; scheduler failures
// surface as SubmissionError naming the job.
func (d *Dispatcher) Dispatch(ctx context.Context, req JobRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	jobName := UniqueJobName(req.Experiment, d.clock())
	manifest, err := d.Render(req, jobName)
	if err != nil {
		return err
	}

	if err := d.Scheduler.Apply(ctx, manifest); err != nil {
		return &SubmissionError{JobName: jobName, Err: err}
	}

	logging.Info("Submitted job %s (%s/%s, bin %dms, k %s, %s/%s).",
		jobName, req.DataSource, req.Experiment, req.BinSizeMs, req.StateRange, req.Surrogate, req.Method)
	return nil
}

// DispatchAll submits the requests strictly in order and stops at the first
// failure; later requests are never attempted. It returns the number of
// successful submissions alongside any error.
func (d *Dispatcher) DispatchAll(ctx context.Context, reqs []JobRequest) (int, error) {
	for i, req := range reqs {
		if err := d.Dispatch(ctx, req); err != nil {
			return i, errors.Wrapf(err, "dispatching %s k=%s (unit %d of %d)", req.Experiment, req.StateRange, i+1, len(reqs))
		}
	}
	return len(reqs), nil
}
