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

	"hmm-toolkit/pkg/imagebuilder"
	"hmm-toolkit/pkg/logging"
)

var pushProject string

func init() {
	rootCmd.AddCommand(pushCmd)

	pushCmd.Flags().StringVarP(&pushProject, "project", "p", "", "Google Cloud Project ID the image is pushed under. Required.")
	_ = pushCmd.MarkFlagRequired("project")
}

var pushCmd = &cobra.Command{
	Use:          "push IMAGE",
	Short:        "Copies an already-built worker image to the project registry.",
	Args:         cobra.ExactArgs(1),
	Run:          runPushCmd,
	SilenceUsage: true,
}

func runPushCmd(cmd *cobra.Command, args []string) {
	dst, err := imagebuilder.Push(args[0], pushProject)
	if err != nil {
		logging.Fatal("Image push failed: %v", err)
	}
	logging.Info("Worker image available at: %s", dst)
}
