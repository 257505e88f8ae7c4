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
	"strconv"

	"github.com/spf13/cobra"

	"hmm-toolkit/pkg/dispatch"
	"hmm-toolkit/pkg/logging"
)

// Anchor of the state-count search space: candidate counts 10 through 50.
const (
	searchSpaceLow  = 10
	searchSpaceSpan = 41
)

func init() {
	rootCmd.AddCommand(splitDeployCmd)
	addDispatchFlags(splitDeployCmd)
}

var splitDeployCmd = &cobra.Command{
	Use:   "split-deploy SOURCE EXPERIMENT SPLITS",
	Short: "Partitions the state-count search range and submits one job per sub-range.",
	Long: `The 'split-deploy' command splits the state-count search range (10-50) into
SPLITS contiguous sub-ranges of near-equal size and submits one fitting job
per sub-range for SOURCE/EXPERIMENT, in range order. The batch stops at the
first failed submission.`,
	Args:         cobra.ExactArgs(3),
	Run:          runSplitDeployCmd,
	SilenceUsage: true,
}

func runSplitDeployCmd(cmd *cobra.Command, args []string) {
	source, experiment := args[0], args[1]

	splits, err := strconv.Atoi(args[2])
	if err != nil {
		logging.Fatal("SPLITS must be an integer: %v", err)
	}

	anchor := dispatch.StateRange{Low: searchSpaceLow, High: searchSpaceLow + searchSpaceSpan - 1}
	plan, err := dispatch.Partition(anchor, splits)
	if err != nil {
		logging.Fatal("%v", err)
	}

	requests := make([]dispatch.JobRequest, 0, len(plan))
	for _, subRange := range plan {
		requests = append(requests, dispatch.JobRequest{
			DataSource: source,
			Experiment: experiment,
			BinSizeMs:  binSizeMs,
			StateRange: subRange,
			Surrogate:  surrogate,
			Method:     method,
		})
	}

	submitted, err := newDispatcher().DispatchAll(cmd.Context(), requests)
	if err != nil {
		logging.Fatal("Split deploy aborted after %d successful submissions: %v", submitted, err)
	}
	logging.Info("Submitted %d job(s) covering %s.", submitted, anchor)
}
