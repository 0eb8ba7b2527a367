package commands_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/b3rserker/gridmaven/cmd/gridmaven/commands"
	"github.com/b3rserker/gridmaven/internal/app"
	"github.com/b3rserker/gridmaven/internal/build"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockApp struct {
	run     *app.RunOptions
	watch   *app.RunOptions
	clean   *app.CleanOptions
	stopDir *string
	worker  *app.WorkerOptions
	store   *app.StoreOptions
	err     error
}

func (m *mockApp) Run(_ context.Context, opts app.RunOptions) error {
	m.run = &opts
	return m.err
}

func (m *mockApp) Watch(_ context.Context, opts app.RunOptions) error {
	m.watch = &opts
	return m.err
}

func (m *mockApp) Clean(_ context.Context, opts app.CleanOptions) error {
	m.clean = &opts
	return m.err
}

func (m *mockApp) StopWorkers(_ context.Context, dir string) error {
	m.stopDir = &dir
	return m.err
}

func (m *mockApp) ServeWorker(_ context.Context, opts app.WorkerOptions) error {
	m.worker = &opts
	return m.err
}

func (m *mockApp) ServeStore(_ context.Context, opts app.StoreOptions) error {
	m.store = &opts
	return m.err
}

type mockLogger struct {
	json, verbose bool
}

func (l *mockLogger) SetJSON(enable bool)    { l.json = enable }
func (l *mockLogger) SetVerbose(enable bool) { l.verbose = enable }

func execute(t *testing.T, a commands.Application, args ...string) (string, error) {
	t.Helper()
	cli := commands.New(a, &mockLogger{})
	buf := new(bytes.Buffer)
	cli.SetOutput(buf, buf)
	cli.SetArgs(args)
	err := cli.Execute(context.Background())
	return buf.String(), err
}

func TestCommands_Run(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want app.RunOptions
	}{
		{
			name: "defaults",
			args: []string{"run"},
			want: app.RunOptions{OutputMode: "auto"},
		},
		{
			name: "full build in ci",
			args: []string{"run", "--full", "--ci"},
			want: app.RunOptions{Full: true, OutputMode: "linear"},
		},
		{
			name: "config directory",
			args: []string{"run", "-c", "/srv/shop", "-o", "tui"},
			want: app.RunOptions{Dir: "/srv/shop", OutputMode: "tui"},
		},
		{
			name: "config file",
			args: []string{"run", "--config", "/srv/shop/gridmaven.yaml"},
			want: app.RunOptions{Dir: "/srv/shop", OutputMode: "auto"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &mockApp{}
			_, err := execute(t, m, tt.args...)
			require.NoError(t, err)
			require.NotNil(t, m.run)
			assert.Equal(t, tt.want, *m.run)
		})
	}
}

func TestCommands_RunError(t *testing.T) {
	m := &mockApp{err: errors.New("simulated error")}
	_, err := execute(t, m, "run")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "simulated error")
}

func TestCommands_RunRejectsArguments(t *testing.T) {
	m := &mockApp{}
	_, err := execute(t, m, "run", "core")
	require.Error(t, err)
	assert.Nil(t, m.run)
}

func TestCommands_ConfigFilePath(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "ci.yaml")
	require.NoError(t, os.WriteFile(file, []byte("job: x\n"), 0o600))

	m := &mockApp{}
	_, err := execute(t, m, "clean", "--config", file)
	require.NoError(t, err)
	require.NotNil(t, m.clean)
	assert.Equal(t, dir, m.clean.Dir)
}

func TestCommands_GlobalFlagsConfigureLogger(t *testing.T) {
	logger := &mockLogger{}
	cli := commands.New(&mockApp{}, logger)
	cli.SetOutput(new(bytes.Buffer), new(bytes.Buffer))
	cli.SetArgs([]string{"run", "--verbose", "--json"})

	require.NoError(t, cli.Execute(context.Background()))
	assert.True(t, logger.verbose)
	assert.True(t, logger.json)
}

func TestCommands_Watch(t *testing.T) {
	t.Run("leaves the output mode to watch", func(t *testing.T) {
		m := &mockApp{}
		_, err := execute(t, m, "watch")
		require.NoError(t, err)
		require.NotNil(t, m.watch)
		assert.Empty(t, m.watch.OutputMode)
	})

	t.Run("explicit output mode", func(t *testing.T) {
		m := &mockApp{}
		_, err := execute(t, m, "watch", "-o", "tui")
		require.NoError(t, err)
		assert.Equal(t, "tui", m.watch.OutputMode)
	})
}

func TestCommands_Clean(t *testing.T) {
	m := &mockApp{}
	_, err := execute(t, m, "clean", "--workspace")
	require.NoError(t, err)
	require.NotNil(t, m.clean)
	assert.Equal(t, app.CleanOptions{Workspace: true}, *m.clean)
}

func TestCommands_Worker(t *testing.T) {
	t.Run("serve on tcp", func(t *testing.T) {
		m := &mockApp{}
		_, err := execute(t, m, "worker", "serve", "--listen", ":9000", "--idle-timeout", "10m")
		require.NoError(t, err)
		require.NotNil(t, m.worker)
		assert.Equal(t, app.WorkerOptions{Listen: ":9000", IdleTimeout: 10 * time.Minute}, *m.worker)
	})

	t.Run("serve defaults", func(t *testing.T) {
		m := &mockApp{}
		_, err := execute(t, m, "worker", "serve", "--socket", "/tmp/w.sock")
		require.NoError(t, err)
		assert.Equal(t, app.WorkerOptions{Socket: "/tmp/w.sock", IdleTimeout: app.DefaultIdleTimeout}, *m.worker)
	})

	t.Run("socket and listen are exclusive", func(t *testing.T) {
		m := &mockApp{}
		_, err := execute(t, m, "worker", "serve", "--socket", "/tmp/w.sock", "--listen", ":9000")
		require.Error(t, err)
		assert.Nil(t, m.worker)
	})

	t.Run("stop", func(t *testing.T) {
		m := &mockApp{}
		_, err := execute(t, m, "worker", "stop", "-c", "/srv/shop")
		require.NoError(t, err)
		require.NotNil(t, m.stopDir)
		assert.Equal(t, "/srv/shop", *m.stopDir)
	})
}

func TestCommands_StoreServe(t *testing.T) {
	m := &mockApp{}
	_, err := execute(t, m, "store", "serve", "--dir", "/var/blobs")
	require.NoError(t, err)
	require.NotNil(t, m.store)
	assert.Equal(t, app.StoreOptions{Dir: "/var/blobs", Listen: commands.DefaultStoreListen}, *m.store)
}

func TestCommands_Version(t *testing.T) {
	out, err := execute(t, &mockApp{}, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "gridmaven version "+build.Version)
}

func TestCommands_VersionFlag(t *testing.T) {
	out, err := execute(t, &mockApp{}, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, build.Commit)
}
