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

var (
	buildBaseImage  string
	buildContextDir string
	buildPlatform   string
	buildProject    string
)

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().StringVar(&buildBaseImage, "base-image", "python:3.11-slim", "Base image the worker layer is appended to.")
	buildCmd.Flags().StringVarP(&buildContextDir, "context", "c", ".", "Path to the worker directory to layer into the image.")
	buildCmd.Flags().StringVarP(&buildPlatform, "platform", "f", "linux/amd64", "Target platform for the image (e.g., 'linux/amd64').")
	buildCmd.Flags().StringVarP(&buildProject, "project", "p", "", "Google Cloud Project ID the image is pushed under. Required.")

	_ = buildCmd.MarkFlagRequired("project")
}

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Builds and pushes the fitting worker image using Crane.",
	Long: `The 'build' command layers the worker directory onto a base image with
Crane and pushes the result to the project's registry. No local Docker
daemon is involved. Files matched by .dockerignore or the built-in ignore
patterns are excluded from the layer.`,
	Run:          runBuildCmd,
	SilenceUsage: true,
}

func runBuildCmd(cmd *cobra.Command, args []string) {
	imageName, err := imagebuilder.Build(imagebuilder.Options{
		ProjectID:  buildProject,
		BaseImage:  buildBaseImage,
		ContextDir: buildContextDir,
		Platform:   buildPlatform,
	})
	if err != nil {
		logging.Fatal("Worker image build failed: %v", err)
	}
	logging.Info("Worker image available at: %s", imageName)
}
