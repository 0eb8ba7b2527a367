package shell_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/b3rserker/gridmaven/internal/adapters/shell"
	"github.com/b3rserker/gridmaven/internal/core/domain"
	"github.com/b3rserker/gridmaven/internal/core/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newExecutor(t *testing.T) (*shell.Executor, *mocks.MockLogger) {
	t.Helper()
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug(gomock.Any(), gomock.Any()).AnyTimes()
	return shell.NewExecutor(log), log
}

func shCommand(dir, script string, env ...string) *domain.Command {
	return &domain.Command{
		Name: "test",
		Args: []string{"sh", "-c", script},
		Dir:  dir,
		Env:  env,
	}
}

func TestExecutor_Execute_MultiLineOutput(t *testing.T) {
	executor, _ := newExecutor(t)

	var stdout bytes.Buffer
	err := executor.Execute(context.Background(), shCommand(t.TempDir(), "echo line1; echo line2"), &stdout, io.Discard)
	require.NoError(t, err)

	require.Contains(t, stdout.String(), "line1")
	require.Contains(t, stdout.String(), "line2")
}

func TestExecutor_Execute_FragmentedOutput(t *testing.T) {
	executor, _ := newExecutor(t)

	var stdout bytes.Buffer
	err := executor.Execute(context.Background(), shCommand(t.TempDir(), "printf part1; sleep 0.1; echo part2"), &stdout, io.Discard)
	require.NoError(t, err)

	require.Contains(t, stdout.String(), "part1part2")
}

func TestExecutor_Execute_LogsLines(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug("hello", "command", "test").Times(1)
	log.EXPECT().Debug("tail", "command", "test").Times(1)

	err := shell.NewExecutor(log).Execute(context.Background(), shCommand(t.TempDir(), "echo hello; printf tail"), io.Discard, io.Discard)
	require.NoError(t, err)
}

func TestExecutor_Execute_EnvironmentVariables(t *testing.T) {
	executor, _ := newExecutor(t)

	var stdout bytes.Buffer
	err := executor.Execute(context.Background(), shCommand(t.TempDir(), "echo $MAVEN_OPTS", "MAVEN_OPTS=-Xmx2g"), &stdout, io.Discard)
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "-Xmx2g")
}

func TestExecutor_Execute_WorkingDirectory(t *testing.T) {
	executor, _ := newExecutor(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "module.yaml"), []byte("artifact: x"), domain.PrivateFilePerm))

	var stdout bytes.Buffer
	err := executor.Execute(context.Background(), shCommand(dir, "cat module.yaml"), &stdout, io.Discard)
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "artifact: x")
}

func TestExecutor_Execute_ExitCode(t *testing.T) {
	executor, _ := newExecutor(t)

	err := executor.Execute(context.Background(), shCommand(t.TempDir(), "exit 3"), io.Discard, io.Discard)
	require.Error(t, err)

	var exitErr *domain.ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 3, exitErr.Code)
	assert.Equal(t, 3, domain.ExitCode(err))
}

func TestExecutor_Execute_CommandNotFound(t *testing.T) {
	executor, _ := newExecutor(t)

	cmd := &domain.Command{Name: "missing", Args: []string{"gridmaven-no-such-tool"}, Dir: t.TempDir()}
	err := executor.Execute(context.Background(), cmd, io.Discard, io.Discard)
	require.Error(t, err)
	assert.Equal(t, -1, domain.ExitCode(err))
}

func TestExecutor_Execute_EmptyCommand(t *testing.T) {
	executor, _ := newExecutor(t)
	assert.NoError(t, executor.Execute(context.Background(), &domain.Command{Name: "noop"}, io.Discard, io.Discard))
}

func TestExecutor_Execute_Canceled(t *testing.T) {
	executor, _ := newExecutor(t)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := executor.Execute(ctx, shCommand(t.TempDir(), "exec sleep 10"), io.Discard, io.Discard)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestExecutor_Execute_BuildToolCommand(t *testing.T) {
	executor, _ := newExecutor(t)

	tool := domain.BuildTool{Command: "echo", Args: []string{"-n", "running"}}
	var stdout bytes.Buffer
	err := executor.Execute(context.Background(), tool.CommandFor("install", t.TempDir(), nil), &stdout, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, "running install", strings.TrimSpace(stdout.String()))
}

func TestExecutor_Execute_TerminalSize(t *testing.T) {
	executor, _ := newExecutor(t)

	var stdout bytes.Buffer
	err := executor.Execute(context.Background(), shCommand(t.TempDir(), "stty size"), &stdout, io.Discard)
	require.NoError(t, err)

	assert.Equal(t, "50 200", strings.TrimSpace(stdout.String()))
}
