package daemon_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/b3rserker/gridmaven/internal/adapters/daemon"
	"github.com/b3rserker/gridmaven/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseChannel(t *testing.T) {
	tests := []struct {
		name    string
		want    daemon.Channel
		wantErr bool
	}{
		{name: "local", want: daemon.Channel{Name: "local", Local: true}},
		{name: "local:3", want: daemon.Channel{Name: "local:3", Local: true, Index: 3}},
		{name: " local:1 ", want: daemon.Channel{Name: "local:1", Local: true, Index: 1}},
		{name: "build-01:7070", want: daemon.Channel{Name: "build-01:7070", Target: "build-01:7070"}},
		{name: "unix:///run/gm.sock", want: daemon.Channel{Name: "unix:///run/gm.sock", Target: "unix:///run/gm.sock"}},
		{name: "", wantErr: true},
		{name: "local:x", wantErr: true},
		{name: "local:-1", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := daemon.ParseChannel(tt.name)
			if tt.wantErr {
				require.ErrorIs(t, err, domain.ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConnector_SocketLayout(t *testing.T) {
	root := t.TempDir()
	base, err := daemon.NewConnector()
	require.NoError(t, err)
	c := base.Bind(root, time.Minute)

	sock := c.SocketPath(2)
	assert.Equal(t, filepath.Join(root, domain.DefaultSocketDir(), "worker-2.sock"), sock)

	channels, err := c.LocalChannels()
	require.NoError(t, err)
	assert.Empty(t, channels)

	dir := filepath.Dir(sock)
	require.NoError(t, os.MkdirAll(dir, domain.DirPerm))
	for _, name := range []string{"worker-2.sock", "worker-0.sock", "worker-x.sock", "worker-0.sock.pid"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, domain.FilePerm))
	}

	channels, err = c.LocalChannels()
	require.NoError(t, err)
	assert.Equal(t, []string{"local:0", "local:2"}, channels)
}

func TestConnector_DialWithoutWorker(t *testing.T) {
	base, err := daemon.NewConnector()
	require.NoError(t, err)
	c := base.Bind(t.TempDir(), 0)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err = c.Dial(ctx, "local:1")
	require.ErrorIs(t, err, domain.ErrDaemonNotRunning)
	assert.False(t, c.IsRunning(daemon.LocalChannel))
}

func TestConnector_SpawnRejectsRemote(t *testing.T) {
	base, err := daemon.NewConnector()
	require.NoError(t, err)

	err = base.Spawn(context.Background(), "build-01:7070")
	require.Error(t, err)
}

func TestConnector_DialsRunningWorker(t *testing.T) {
	f := newFixture(t)
	rs := startServer(t, f)
	base, err := daemon.NewConnector()
	require.NoError(t, err)

	client, err := base.Dial(context.Background(), "unix://"+rs.socket)
	require.NoError(t, err)
	defer func() { _ = client.Close() }()

	worker, err := base.Workers().Connect(context.Background(), "unix://"+rs.socket)
	require.NoError(t, err)
	defer func() { _ = worker.Close() }()
	assert.Equal(t, "unix://"+rs.socket, worker.Channel())
}
