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

// Package gke submits job manifests to a GKE cluster.
package gke

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	yamlv2 "gopkg.in/yaml.v2"
	batchv1 "k8s.io/api/batch/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/tools/clientcmd"
	sigsyaml "sigs.k8s.io/yaml"

	"hmm-toolkit/pkg/logging"
	"hmm-toolkit/pkg/shell"
)

const fieldManager = "hmm-toolkit"

// Options configures the target cluster. ClusterName and ClusterLocation are
// optional: when set, kubeconfig credentials are refreshed through gcloud
// before the first submission.
type Options struct {
	ProjectID       string
	ClusterName     string
	ClusterLocation string
	Namespace       string

	// OutputManifest writes rendered manifests to this file instead of
	// applying them.
	OutputManifest string
}

// Scheduler applies batch/v1 Job manifests to a GKE cluster with server-side
// apply semantics: re-applying an existing job name updates it.
type Scheduler struct {
	opts      Options
	clientset kubernetes.Interface
}

// NewScheduler creates a Scheduler for the given cluster options.
func NewScheduler(opts Options) *Scheduler {
	if opts.Namespace == "" {
		opts.Namespace = "default"
	}
	return &Scheduler{opts: opts}
}

// Apply submits one job manifest, blocking until the cluster accepts or
// rejects it. With OutputManifest set, the manifest is appended to that file
// and nothing reaches the cluster.
func (s *Scheduler) Apply(ctx context.Context, manifest string) error {
	job, err := decodeJob(manifest)
	if err != nil {
		return err
	}

	if s.opts.OutputManifest != "" {
		logging.Info("Saving manifest for job %q to %s", job.Name, s.opts.OutputManifest)
		return writeManifest(s.opts.OutputManifest, manifest)
	}

	cs, err := s.clients(ctx)
	if err != nil {
		return err
	}

	data, err := sigsyaml.YAMLToJSON([]byte(manifest))
	if err != nil {
		return errors.Wrapf(err, "converting manifest for job %q to JSON", job.Name)
	}

	force := true
	_, err = cs.BatchV1().Jobs(s.opts.Namespace).Patch(ctx, job.Name, types.ApplyPatchType, data, metav1.PatchOptions{
		FieldManager: fieldManager,
		Force:        &force,
	})
	if err != nil {
		return errors.Wrapf(err, "applying job %q to namespace %q", job.Name, s.opts.Namespace)
	}
	return nil
}

// decodeJob checks the manifest is a single batch/v1 Job with a name before
// anything is sent to the cluster.
func decodeJob(manifest string) (*batchv1.Job, error) {
	var doc struct {
		APIVersion string `yaml:"apiVersion"`
		Kind       string `yaml:"kind"`
	}
	if err := yamlv2.Unmarshal([]byte(manifest), &doc); err != nil {
		return nil, errors.Wrap(err, "parsing job manifest")
	}
	if doc.APIVersion != "batch/v1" || doc.Kind != "Job" {
		return nil, fmt.Errorf("manifest is %s/%s, expected batch/v1 Job", doc.APIVersion, doc.Kind)
	}

	var job batchv1.Job
	if err := sigsyaml.Unmarshal([]byte(manifest), &job); err != nil {
		return nil, errors.Wrap(err, "decoding job manifest")
	}
	if job.Name == "" {
		return nil, fmt.Errorf("job manifest has no metadata.name")
	}
	return &job, nil
}

func writeManifest(path, manifest string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return errors.Wrapf(err, "opening manifest file %s", path)
	}
	defer f.Close()

	if _, err := f.WriteString(manifest + "---\n"); err != nil {
		return errors.Wrapf(err, "writing manifest to %s", path)
	}
	return nil
}

// clients builds the Kubernetes clientset on first use, refreshing GKE
// credentials through gcloud when cluster coordinates were provided.
func (s *Scheduler) clients(ctx context.Context) (kubernetes.Interface, error) {
	if s.clientset != nil {
		return s.clientset, nil
	}

	if s.opts.ClusterName != "" {
		projectID, err := resolveProjectID(s.opts.ProjectID)
		if err != nil {
			return nil, err
		}
		s.opts.ProjectID = projectID

		logging.Info("Configuring credentials for GKE cluster '%s'...", s.opts.ClusterName)
		if err := fetchClusterCredentials(s.opts.ClusterName, s.opts.ClusterLocation, projectID); err != nil {
			return nil, err
		}
	}

	rules := clientcmd.NewDefaultClientConfigLoadingRules()
	config, err := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(rules, &clientcmd.ConfigOverrides{}).ClientConfig()
	if err != nil {
		return nil, errors.Wrap(err, "loading kubeconfig")
	}

	cs, err := kubernetes.NewForConfig(config)
	if err != nil {
		return nil, errors.Wrap(err, "creating Kubernetes client")
	}
	s.clientset = cs
	return cs, nil
}

// resolveProjectID falls back to the gcloud configuration when no project was
// given on the command line.
func resolveProjectID(initial string) (string, error) {
	if initial != "" {
		logging.Info("Using provided GCP Project ID: %s", initial)
		return initial, nil
	}

	res := shell.ExecuteCommand("gcloud", "config", "get-value", "project")
	if res.ExitCode != 0 {
		return "", fmt.Errorf("failed to get GCP project ID from gcloud config: %s", res.Stderr)
	}
	projectID := strings.TrimSpace(res.Stdout)
	if projectID == "" {
		return "", fmt.Errorf("GCP project ID is empty; provide it via --project or configure the gcloud CLI")
	}
	logging.Info("Using GCP Project ID inferred from gcloud config: %s", projectID)
	return projectID, nil
}

func fetchClusterCredentials(clusterName, clusterLocation, projectID string) error {
	res := shell.ExecuteCommand("gcloud", "container", "clusters", "get-credentials", clusterName,
		"--zone", clusterLocation, "--project", projectID)
	if res.ExitCode != 0 {
		return fmt.Errorf("failed to get GKE cluster credentials: %s\n%s", res.Stderr, res.Stdout)
	}
	return nil
}
