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
	"hmm-toolkit/pkg/logging"
	"hmm-toolkit/pkg/resolve"
	"hmm-toolkit/pkg/scheduler/gke"
)

// Flags shared by deploy and split-deploy.
var (
	image           string
	bucketName      string
	dataSuffix      string
	binSizeMs       int
	surrogate       string
	method          string
	clusterName     string
	clusterLocation string
	projectID       string
	namespace       string
	outputManifest  string
	cpuLimit        string
	memoryLimit     string
)

var deployKRange string

func addDispatchFlags(c *cobra.Command) {
	c.Flags().StringVarP(&image, "image", "i", "", "Worker image to run (e.g., gcr.io/my-project/hmm-worker:tag). Required.")
	c.Flags().StringVar(&bucketName, "bucket", "", "Cloud Storage bucket holding experiment recordings. Required for wildcard deploys.")
	c.Flags().StringVar(&dataSuffix, "data-suffix", resolve.DefaultDataSuffix, "Extension of recording files considered during wildcard expansion.")
	c.Flags().IntVar(&binSizeMs, "bin-size", 30, "Spike-count bin size in milliseconds.")
	c.Flags().StringVar(&surrogate, "surrogate", "real", "Run against 'real' data or a shuffled baseline.")
	c.Flags().StringVar(&method, "method", "default", "Fitting method passed to the worker.")
	c.Flags().StringVar(&clusterName, "cluster-name", "", "Name of the GKE cluster to submit jobs to. If empty, the current kubeconfig context is used.")
	c.Flags().StringVar(&clusterLocation, "cluster-location", "", "Location (zone or region) of the GKE cluster.")
	c.Flags().StringVarP(&projectID, "project", "p", "", "Google Cloud Project ID. If not provided, it will be inferred from your gcloud configuration.")
	c.Flags().StringVar(&namespace, "namespace", "default", "Kubernetes namespace for submitted jobs.")
	c.Flags().StringVarP(&outputManifest, "output-manifest", "o", "", "Path to append generated manifests to instead of applying them.")
	c.Flags().StringVar(&cpuLimit, "cpu-limit", "4", "CPU limit for each fitting job.")
	c.Flags().StringVar(&memoryLimit, "memory-limit", "8Gi", "Memory limit for each fitting job.")

	_ = c.MarkFlagRequired("image")
}

func newDispatcher() *dispatch.Dispatcher {
	sched := gke.NewScheduler(gke.Options{
		ProjectID:       projectID,
		ClusterName:     clusterName,
		ClusterLocation: clusterLocation,
		Namespace:       namespace,
		OutputManifest:  outputManifest,
	})
	return &dispatch.Dispatcher{
		Scheduler:   sched,
		Image:       image,
		CPULimit:    cpuLimit,
		MemoryLimit: memoryLimit,
	}
}

func init() {
	rootCmd.AddCommand(deployCmd)
	addDispatchFlags(deployCmd)
	deployCmd.Flags().StringVar(&deployKRange, "k-range", "10-50", "Inclusive state-count range to evaluate, as \"low-high\".")
}

var deployCmd = &cobra.Command{
	Use:   "deploy SOURCE EXPERIMENT",
	Short: "Submits one fitting job, or one per experiment when EXPERIMENT is '*'.",
	Long: `The 'deploy' command submits a fitting job for SOURCE/EXPERIMENT. When
EXPERIMENT is the wildcard '*', the recording store is listed and one job is
submitted per experiment found under the source's prefix, in listing order.
The batch stops at the first failed submission.`,
	Args:         cobra.ExactArgs(2),
	Run:          runDeployCmd,
	SilenceUsage: true,
}

func runDeployCmd(cmd *cobra.Command, args []string) {
	source, selector := args[0], args[1]

	stateRange, err := dispatch.ParseStateRange(deployKRange)
	if err != nil {
		logging.Fatal("Invalid --k-range: %v", err)
	}

	ctx := cmd.Context()

	var lister resolve.Lister
	if selector == resolve.Wildcard {
		if bucketName == "" {
			logging.Fatal("--bucket is required when EXPERIMENT is '*'.")
		}
		lister, err = resolve.NewGCSLister(ctx, bucketName)
		if err != nil {
			logging.Fatal("Failed to open bucket %q: %v", bucketName, err)
		}
	}

	experiments, err := resolve.Experiments(ctx, lister, source, selector, dataSuffix)
	if err != nil {
		logging.Fatal("%v", err)
	}
	if len(experiments) == 0 {
		logging.Info("No experiments matched under %s/; nothing to submit.", source)
		return
	}

	requests := make([]dispatch.JobRequest, 0, len(experiments))
	for _, experiment := range experiments {
		requests = append(requests, dispatch.JobRequest{
			DataSource: source,
			Experiment: experiment,
			BinSizeMs:  binSizeMs,
			StateRange: stateRange,
			Surrogate:  surrogate,
			Method:     method,
		})
	}

	submitted, err := newDispatcher().DispatchAll(ctx, requests)
	if err != nil {
		logging.Fatal("Deploy aborted after %d successful submissions: %v", submitted, err)
	}
	logging.Info("Submitted %d job(s).", submitted)
}
