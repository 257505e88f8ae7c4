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

package cmd

import (
	"github.com/spf13/cobra"

	"hmm-toolkit/pkg/dispatch"
	"hmm-toolkit/pkg/localrun"
	"hmm-toolkit/pkg/logging"
)

var (
	localBinSize   int
	localKRange    string
	localSurrogate string
	localMethod    string
	localWorker    string
)

func init() {
	rootCmd.AddCommand(localCmd)

	localCmd.Flags().IntVar(&localBinSize, "bin-size", 30, "Spike-count bin size in milliseconds.")
	localCmd.Flags().StringVar(&localKRange, "k-range", "10-50", "Inclusive state-count range to evaluate, as \"low-high\".")
	localCmd.Flags().StringVar(&localSurrogate, "surrogate", "real", "Run against 'real' data or a shuffled baseline.")
	localCmd.Flags().StringVar(&localMethod, "method", "default", "Fitting method passed to the worker.")
	localCmd.Flags().StringVar(&localWorker, "worker", "./hmm_worker.py", "Path to the fitting worker executable.")
}

var localCmd = &cobra.Command{
	Use:          "local SOURCE EXPERIMENT",
	Short:        "Runs the fitting worker directly on this machine, bypassing the scheduler.",
	Args:         cobra.ExactArgs(2),
	Run:          runLocalCmd,
	SilenceUsage: true,
}

func runLocalCmd(cmd *cobra.Command, args []string) {
	stateRange, err := dispatch.ParseStateRange(localKRange)
	if err != nil {
		logging.Fatal("Invalid --k-range: %v", err)
	}

	req := dispatch.JobRequest{
		DataSource: args[0],
		Experiment: args[1],
		BinSizeMs:  localBinSize,
		StateRange: stateRange,
		Surrogate:  localSurrogate,
		Method:     localMethod,
	}

	if err := localrun.Run(localWorker, req); err != nil {
		logging.Fatal("Local fitting run failed: %v", err)
	}
}
