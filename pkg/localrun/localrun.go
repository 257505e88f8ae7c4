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

// Package localrun executes the fitting worker on the host instead of
// submitting a job, using the same parameter contract.
package localrun

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"

	"hmm-toolkit/pkg/dispatch"
	"hmm-toolkit/pkg/logging"
	"hmm-toolkit/pkg/shell"
)

// Environment renders the request as the worker's environment variables.
// This is the same contract the job template bakes into the container spec.
func Environment(req dispatch.JobRequest, jobName string) []string {
	return []string{
		"HMM_DATA_SOURCE=" + req.DataSource,
		"HMM_EXPERIMENT=" + req.Experiment,
		"HMM_BIN_SIZE_MS=" + strconv.Itoa(req.BinSizeMs),
		"HMM_K_RANGE=" + req.StateRange.String(),
		"HMM_SURROGATE=" + req.Surrogate,
		"HMM_METHOD=" + req.Method,
		"JOB_NAME=" + jobName,
	}
}

// Run executes the worker with the request's parameters, attached to the
// caller's terminal. The worker's exit status propagates as the error.
func Run(workerPath string, req dispatch.JobRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	if workerPath == "" {
		return fmt.Errorf("no worker executable configured")
	}

	jobName := dispatch.JobName(req.Experiment)
	logging.Info("Running %s locally for %s/%s (bin %dms, k %s).",
		workerPath, req.DataSource, req.Experiment, req.BinSizeMs, req.StateRange)

	cmd := shell.NewCommand(workerPath)
	cmd.SetEnv(Environment(req, jobName))
	if err := cmd.ExecuteInteractive(); err != nil {
		return errors.Wrapf(err, "running worker for experiment %q", req.Experiment)
	}
	return nil
}
