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

// Package shell runs external commands and captures their results.
package shell

import (
	"bytes"
	"math/rand"
	"os"
	"os/exec"
	"strings"
	"time"
)

// Result holds the outcome of an executed command.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Command describes an external command to execute.
type Command struct {
	name  string
	args  []string
	input string
	env   []string
}

// NewCommand creates a Command for the given executable and arguments.
func NewCommand(name string, args ...string) *Command {
	return &Command{name: name, args: args}
}

// SetInput provides the command's standard input.
func (c *Command) SetInput(input string) {
	c.input = input
}

// SetEnv appends extra KEY=VALUE entries to the command's environment.
func (c *Command) SetEnv(env []string) {
	c.env = env
}

// Execute runs the command to completion, capturing stdout and stderr.
// Failure to start is reported with exit code -1 and the error text on Stderr.
func (c *Command) Execute() Result {
	cmd := exec.Command(c.name, c.args...)
	if c.input != "" {
		cmd.Stdin = strings.NewReader(c.input)
	}
	if len(c.env) > 0 {
		cmd.Env = append(os.Environ(), c.env...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{Stdout: stdout.String(), Stderr: stderr.String()}
	if err == nil {
		return res
	}
	if exitErr, ok := err.(*exec.ExitError); ok {
		res.ExitCode = exitErr.ExitCode()
	} else {
		res.ExitCode = -1
		res.Stderr = err.Error()
	}
	return res
}

// ExecuteInteractive runs the command attached to the caller's terminal.
func (c *Command) ExecuteInteractive() error {
	cmd := exec.Command(c.name, c.args...)
	if len(c.env) > 0 {
		cmd.Env = append(os.Environ(), c.env...)
	}
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// ExecuteCommand runs a command and captures its output.
func ExecuteCommand(name string, args ...string) Result {
	return NewCommand(name, args...).Execute()
}

// ExecuteInteractive runs a command attached to the caller's terminal.
func ExecuteInteractive(name string, args ...string) error {
	return NewCommand(name, args...).ExecuteInteractive()
}

// RandomString generates a random lowercase string of the specified length.
func RandomString(length int) string {
	const charset = "abcdefghijklmnopqrstuvwxyz"
	var seededRand *rand.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	b := make([]byte, length)
	for i := range b {
		b[i] = charset[seededRand.Intn(len(charset))]
	}
	return string(b)
}
