package daemon

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/b3rserker/gridmaven/internal/adapters/worker"
	"github.com/b3rserker/gridmaven/internal/core/domain"
	"github.com/b3rserker/gridmaven/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.DaemonConnector = (*Connector)(nil)

const (
	pollInterval    = 100 * time.Millisecond
	maxPollDuration = 5 * time.Second
)

// LocalChannel is the channel of the first local worker. "local:<n>" names further ones.
const LocalChannel = "local"

// Channel is a parsed worker channel.
type Channel struct {
	Name string
	// Local channels are served by worker processes spawned on this host.
	Local bool
	// Index numbers the local worker; its socket is worker-<Index>.sock.
	Index int
	// Target is the gRPC target of a remote channel.
	Target string
}

// ParseChannel parses "local", "local:<n>", "unix:///path" or "host:port".
func ParseChannel(name string) (Channel, error) {
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		return Channel{}, zerr.With(zerr.Wrap(domain.ErrInvalidConfig, "empty worker channel"), "channel", name)
	case name == LocalChannel:
		return Channel{Name: name, Local: true}, nil
	case strings.HasPrefix(name, LocalChannel+":"):
		n, err := strconv.Atoi(strings.TrimPrefix(name, LocalChannel+":"))
		if err != nil || n < 0 {
			return Channel{}, zerr.With(zerr.Wrap(domain.ErrInvalidConfig, "invalid local worker index"), "channel", name)
		}
		return Channel{Name: name, Local: true, Index: n}, nil
	default:
		return Channel{Name: name, Target: name}, nil
	}
}

// Connector starts and dials the workers of one reactor root.
// It implements ports.DaemonConnector; Workers adapts it to ports.WorkerFactory.
type Connector struct {
	executablePath string
	root           string
	idleTimeout    time.Duration
}

// NewConnector creates a connector for the current directory.
func NewConnector() (*Connector, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, zerr.Wrap(err, "failed to determine executable path")
	}
	return (&Connector{executablePath: exe}).Bind(".", 0), nil
}

// Bind returns a copy of the connector for the reactor at root. Local workers it
// spawns exit after idleTimeout without activity; zero keeps the worker default.
func (c *Connector) Bind(root string, idleTimeout time.Duration) *Connector {
	bound := *c
	bound.root = root
	if abs, err := filepath.Abs(root); err == nil {
		bound.root = abs
	}
	bound.idleTimeout = idleTimeout
	return &bound
}

// SocketPath returns the socket of the local worker with the given index.
func (c *Connector) SocketPath(index int) string {
	return filepath.Join(c.root, domain.DefaultSocketDir(), fmt.Sprintf("worker-%d.sock", index))
}

// LocalChannels lists the channels of local workers that left a socket behind.
func (c *Connector) LocalChannels() ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(c.root, domain.DefaultSocketDir(), "worker-*.sock"))
	if err != nil {
		return nil, err
	}
	channels := make([]string, 0, len(matches))
	for _, m := range matches {
		idx := strings.TrimSuffix(strings.TrimPrefix(filepath.Base(m), "worker-"), ".sock")
		if _, err := strconv.Atoi(idx); err != nil {
			continue
		}
		channels = append(channels, LocalChannel+":"+idx)
	}
	slices.Sort(channels)
	return channels, nil
}

// Connect returns a client, spawning a local worker if necessary.
func (c *Connector) Connect(ctx context.Context, channel string) (ports.DaemonClient, error) {
	return c.connect(ctx, channel)
}

// Dial returns a client to an already running worker.
func (c *Connector) Dial(ctx context.Context, channel string) (ports.DaemonClient, error) {
	ch, err := ParseChannel(channel)
	if err != nil {
		return nil, err
	}
	client, err := c.dial(ch)
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx); err != nil {
		_ = client.Close()
		return nil, zerr.With(errors.Join(domain.ErrDaemonNotRunning, err), "channel", channel)
	}
	return client, nil
}

// IsRunning checks if the worker of channel is running and responsive.
func (c *Connector) IsRunning(channel string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	client, err := c.Dial(ctx, channel)
	if err != nil {
		return false
	}
	_ = client.Close()
	return true
}

// Spawn starts the local worker of channel in the background.
func (c *Connector) Spawn(ctx context.Context, channel string) error {
	ch, err := ParseChannel(channel)
	if err != nil {
		return err
	}
	if !ch.Local {
		return zerr.With(zerr.New("only local workers can be spawned"), "channel", channel)
	}

	socket := c.SocketPath(ch.Index)
	if mkdirErr := os.MkdirAll(filepath.Dir(socket), domain.DirPerm); mkdirErr != nil {
		return zerr.Wrap(mkdirErr, "failed to create socket directory")
	}

	logPath := filepath.Join(c.root, domain.DefaultDebugLogPath())
	//nolint:gosec // G304: logPath is from root + domain constant, not user input
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, domain.PrivateFilePerm)
	if err != nil {
		return zerr.Wrap(err, "failed to open worker log")
	}

	args := []string{"worker", "serve", "--socket", socket}
	if c.idleTimeout > 0 {
		args = append(args, "--idle-timeout", c.idleTimeout.String())
	}
	//nolint:gosec // G204: executablePath is controlled, args are fixed literals
	cmd := exec.Command(c.executablePath, args...)
	cmd.Dir = c.root
	cmd.Stdout = logFile
	cmd.Stderr = logFile
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setsid: true,
	}

	if err := cmd.Start(); err != nil {
		_ = logFile.Close()
		return zerr.With(zerr.Wrap(err, "failed to spawn worker"), "channel", channel)
	}

	go func() {
		_ = cmd.Wait()
		_ = logFile.Close()
	}()

	return c.waitForStartup(ctx, ch)
}

func (c *Connector) connect(ctx context.Context, channel string) (*worker.Client, error) {
	ch, err := ParseChannel(channel)
	if err != nil {
		return nil, err
	}

	client, err := c.dial(ch)
	if err == nil {
		if pingErr := client.Ping(ctx); pingErr == nil {
			return client, nil
		}
		_ = client.Close()
	}
	if !ch.Local {
		return nil, zerr.With(zerr.Wrap(domain.ErrWorkerUnreachable, "remote worker did not answer"), "channel", channel)
	}

	if spawnErr := c.Spawn(ctx, channel); spawnErr != nil {
		return nil, spawnErr
	}

	client, err = c.dial(ch)
	if err != nil {
		return nil, err
	}
	if pingErr := client.Ping(ctx); pingErr != nil {
		_ = client.Close()
		return nil, zerr.Wrap(pingErr, "worker started but is not responsive")
	}
	return client, nil
}

func (c *Connector) dial(ch Channel) (*worker.Client, error) {
	target := ch.Target
	if ch.Local {
		target = "unix://" + c.SocketPath(ch.Index)
	}
	return worker.Dial(ch.Name, target)
}

// waitForStartup polls the health service of a freshly spawned worker.
func (c *Connector) waitForStartup(ctx context.Context, ch Channel) error {
	client, err := c.dial(ch)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	start := time.Now()
	for time.Since(start) < maxPollDuration {
		if client.Healthy(ctx) {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(pollInterval):
		}
	}
	return zerr.With(zerr.New("worker failed to start within timeout"), "channel", ch.Name)
}

// Workers returns the connector as a ports.WorkerFactory.
func (c *Connector) Workers() ports.WorkerFactory {
	return workerFactory{c}
}

type workerFactory struct {
	connector *Connector
}

func (f workerFactory) Connect(ctx context.Context, channel string) (ports.Worker, error) {
	client, err := f.connector.connect(ctx, channel)
	if err != nil {
		return nil, err
	}
	return client, nil
}
