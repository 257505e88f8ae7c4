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

// Package imagebuilder builds and publishes the fitting worker image with
// crane, without a local Docker daemon.
package imagebuilder

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/go-containerregistry/pkg/compression"
	"github.com/google/go-containerregistry/pkg/crane"
	"github.com/google/go-containerregistry/pkg/name"
	v1 "github.com/google/go-containerregistry/pkg/v1"
	"github.com/google/go-containerregistry/pkg/v1/mutate"
	"github.com/google/go-containerregistry/pkg/v1/tarball"
	"github.com/moby/patternmatcher"
	"github.com/moby/patternmatcher/ignorefile"
	"github.com/sirupsen/logrus"

	"hmm-toolkit/pkg/shell"
)

// defaultIgnorePatterns keeps notebooks, caches, and recordings out of the
// worker image layer.
var defaultIgnorePatterns = []string{
	".git",
	"__pycache__",
	"*.pyc",
	".ipynb_checkpoints",
	".DS_Store",
	"*.log",
	"tmp/",
	"data/",
	"*.mat",
}

// Options configures a worker image build.
type Options struct {
	ProjectID  string
	BaseImage  string
	ContextDir string
	Platform   string // "os/arch", e.g. "linux/amd64"
}

// Build creates the worker image by appending a filtered layer of ContextDir
// onto BaseImage, pushes it to the project registry, and returns the full
// image reference.
func Build(opts Options) (string, error) {
	platform, err := parsePlatform(opts.Platform)
	if err != nil {
		return "", err
	}

	imageName := WorkerImageName(opts.ProjectID)

	logrus.Infof("Starting image build process for %s", imageName)
	logrus.Infof("Base image: %s", opts.BaseImage)
	logrus.Infof("Worker directory: %s", opts.ContextDir)
	logrus.Infof("Target platform: %s/%s", platform.OS, platform.Architecture)

	matcher, err := readIgnorePatterns(opts.ContextDir, defaultIgnorePatterns)
	if err != nil {
		return "", fmt.Errorf("failed to read .dockerignore patterns: %w", err)
	}

	tempTarballPath, err := createFilteredTar(opts.ContextDir, matcher)
	if err != nil {
		return "", fmt.Errorf("failed to create filtered tarball: %w", err)
	}
	defer func() {
		os.Remove(tempTarballPath)
		logrus.Debugf("Cleaned up temporary tarball file: %s", tempTarballPath)
	}()

	tarLayer, err := tarball.LayerFromOpener(func() (io.ReadCloser, error) {
		file, openErr := os.Open(tempTarballPath)
		if openErr != nil {
			return nil, fmt.Errorf("failed to open temporary tarball %q: %w", tempTarballPath, openErr)
		}
		return file, nil
	}, tarball.WithCompression(compression.GZip))
	if err != nil {
		return "", fmt.Errorf("failed to create layer from tarball: %w", err)
	}

	baseRef, err := name.ParseReference(opts.BaseImage)
	if err != nil {
		return "", fmt.Errorf("failed to parse base image reference %q: %w", opts.BaseImage, err)
	}

	baseImg, err := crane.Pull(baseRef.String(), crane.WithPlatform(&platform))
	if err != nil {
		return "", fmt.Errorf("failed to pull base image %q: %w", opts.BaseImage, err)
	}

	newImg, err := mutate.AppendLayers(baseImg, tarLayer)
	if err != nil {
		return "", fmt.Errorf("failed to append layer: %w", err)
	}

	imageRef, err := name.ParseReference(imageName)
	if err != nil {
		return "", fmt.Errorf("failed to parse new image reference %q: %w", imageName, err)
	}

	logrus.Infof("Uploading worker image to %s", imageName)
	if err := crane.Push(newImg, imageRef.String(), crane.WithPlatform(&platform)); err != nil {
		return "", fmt.Errorf("failed to push image %q: %w", imageName, err)
	}

	logrus.Infof("Image %s built and uploaded successfully.", imageName)
	return imageName, nil
}

// Push copies an already-built image reference into the project registry and
// returns the destination reference.
func Push(srcImage, projectID string) (string, error) {
	dst := WorkerImageName(projectID)

	if _, err := name.ParseReference(srcImage); err != nil {
		return "", fmt.Errorf("failed to parse source image reference %q: %w", srcImage, err)
	}

	logrus.Infof("Copying image %s to %s", srcImage, dst)
	if err := crane.Copy(srcImage, dst); err != nil {
		return "", fmt.Errorf("failed to copy image %q to %q: %w", srcImage, dst, err)
	}
	return dst, nil
}

// WorkerImageName derives a fresh, collision-resistant image reference for
// the project's worker image.
func WorkerImageName(projectID string) string {
	tagRandomPrefix := shell.RandomString(4)
	tagDatetime := time.Now().Format("2006-01-02-15-04-05")
	return fmt.Sprintf("gcr.io/%s/hmm-worker:%s-%s", projectID, tagRandomPrefix, tagDatetime)
}

// parsePlatform converts a platform string (e.g., "linux/amd64") into a
// v1.Platform struct.
func parsePlatform(platformStr string) (v1.Platform, error) {
	parts := strings.Split(platformStr, "/")
	if len(parts) != 2 {
		return v1.Platform{}, fmt.Errorf("invalid platform format: %q, expected \"os/arch\"", platformStr)
	}
	return v1.Platform{
		OS:           parts[0],
		Architecture: parts[1],
	}, nil
}

func readIgnorePatterns(dir string, defaults []string) (*patternmatcher.PatternMatcher, error) {
	dockerignorePath := filepath.Join(dir, ".dockerignore")

	patterns := make([]string, len(defaults))
	copy(patterns, defaults)

	if _, err := os.Stat(dockerignorePath); err == nil {
		file, err := os.Open(dockerignorePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open .dockerignore file %q: %w", dockerignorePath, err)
		}
		defer file.Close()

		filePatterns, err := ignorefile.ReadAll(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read .dockerignore file %q: %w", dockerignorePath, err)
		}
		patterns = append(patterns, filePatterns...)
		logrus.Infof("Found %d patterns in .dockerignore at %q", len(filePatterns), dockerignorePath)
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to stat .dockerignore file %q: %w", dockerignorePath, err)
	}

	matcher, err := patternmatcher.New(patterns)
	if err != nil {
		return nil, fmt.Errorf("failed to create pattern matcher: %w", err)
	}
	return matcher, nil
}

// processTarEntry adds a single file or directory to the context tarball.
func processTarEntry(tarWriter *tar.Writer, sourceDir string, ignoreMatcher *patternmatcher.PatternMatcher, path string, info fs.FileInfo, errFromWalk error) error {
	if errFromWalk != nil {
		return errFromWalk
	}

	relPath, err := filepath.Rel(sourceDir, path)
	if err != nil {
		return fmt.Errorf("failed to get relative path for %q: %w", path, err)
	}
	if relPath == "." {
		return nil
	}

	// Directories need a trailing slash for pattern matching, per
	// moby/patternmatcher conventions.
	relPathSlash := filepath.ToSlash(relPath)
	if info.IsDir() && !strings.HasSuffix(relPathSlash, "/") {
		relPathSlash += "/"
	}

	ignored, err := ignoreMatcher.MatchesOrParentMatches(relPathSlash)
	if err != nil {
		return fmt.Errorf("failed to check ignore patterns for %q: %w", path, err)
	}
	if ignored {
		if info.IsDir() {
			logrus.Debugf("Ignoring directory %q", relPath)
			return filepath.SkipDir
		}
		logrus.Debugf("Ignoring file %q", relPath)
		return nil
	}

	header, err := tar.FileInfoHeader(info, relPath)
	if err != nil {
		return fmt.Errorf("failed to create tar header for %q: %w", path, err)
	}
	header.Name = relPath

	if err := tarWriter.WriteHeader(header); err != nil {
		return fmt.Errorf("failed to write tar header for %q: %w", path, err)
	}

	if info.Mode().IsRegular() {
		file, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open file %q: %w", path, err)
		}
		defer file.Close()

		if _, err := io.Copy(tarWriter, file); err != nil {
			return fmt.Errorf("failed to write file content for %q: %w", path, err)
		}
	}

	return nil
}

func createFilteredTar(sourceDir string, ignoreMatcher *patternmatcher.PatternMatcher) (string, error) {
	tmpFile, err := os.CreateTemp("", "hmm-build-context-*.tar.gz")
	if err != nil {
		return "", fmt.Errorf("failed to create temporary file for tarball: %w", err)
	}
	defer tmpFile.Close()

	gzipWriter := gzip.NewWriter(tmpFile)
	tarWriter := tar.NewWriter(gzipWriter)

	logrus.Infof("Creating filtered tar from %s to temporary file %s", sourceDir, tmpFile.Name())

	var walkErr error
	defer func() {
		if closeErr := tarWriter.Close(); closeErr != nil && walkErr == nil {
			walkErr = fmt.Errorf("failed to close tar writer: %w", closeErr)
		}
		if closeErr := gzipWriter.Close(); closeErr != nil && walkErr == nil {
			walkErr = fmt.Errorf("failed to close gzip writer: %w", closeErr)
		}
	}()

	walkErr = filepath.Walk(sourceDir, func(path string, info fs.FileInfo, err error) error {
		return processTarEntry(tarWriter, sourceDir, ignoreMatcher, path, info, err)
	})
	if walkErr != nil {
		os.Remove(tmpFile.Name())
		return "", walkErr
	}

	return tmpFile.Name(), nil
}
