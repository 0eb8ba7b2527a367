package domain

import (
	"errors"
	"strconv"
)

// Command is one build tool invocation run by a worker.
type Command struct {
	// Name identifies the command in logs, usually the goal it runs.
	Name string
	Args []string
	Dir  string
	// Env holds "KEY=VALUE" pairs appended to the worker environment.
	Env []string
}

// BuildTool describes how a worker invokes the build tool for one goal.
type BuildTool struct {
	Command string   `json:"command" yaml:"command"`
	Args    []string `json:"args,omitempty" yaml:"args"`
	// OutputDir is the module relative directory published after a build.
	OutputDir string `json:"output_dir,omitempty" yaml:"outputDir"`
	// UnstableExitCode marks a completed build with problems, such as failing tests.
	// Zero disables the mapping.
	UnstableExitCode int `json:"unstable_exit_code,omitempty" yaml:"unstableExitCode"`
}

// CommandFor returns the invocation of goal for a module checked out in dir.
func (t BuildTool) CommandFor(goal, dir string, env []string) *Command {
	args := make([]string, 0, len(t.Args)+2)
	args = append(args, t.Command)
	args = append(args, t.Args...)
	args = append(args, goal)
	return &Command{
		Name: goal,
		Args: args,
		Dir:  dir,
		Env:  env,
	}
}

// ExitError reports a build tool that ran and exited with a non zero code.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return "exit status " + strconv.Itoa(e.Code)
}

// ExitCode returns the exit code carried by err, 0 for nil and -1 when the
// command did not run to an exit.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return -1
}
