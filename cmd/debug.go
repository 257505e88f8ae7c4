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

	"hmm-toolkit/pkg/logging"
	"hmm-toolkit/pkg/shell"
)

func init() {
	rootCmd.AddCommand(debugCmd)
}

var debugCmd = &cobra.Command{
	Use:          "debug IMAGE",
	Short:        "Opens an interactive shell inside the worker image.",
	Args:         cobra.ExactArgs(1),
	Run:          runDebugCmd,
	SilenceUsage: true,
}

func runDebugCmd(cmd *cobra.Command, args []string) {
	err := shell.ExecuteInteractive("docker", "run", "-it", "--rm", "--entrypoint", "/bin/bash", args[0])
	if err != nil {
		logging.Fatal("Debug shell exited with error: %v", err)
	}
}
