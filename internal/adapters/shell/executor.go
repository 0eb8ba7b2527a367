// Package shell runs build tool commands for a worker.
package shell

import (
	"bytes"
	"context"
	"errors"
	"io"
	"maps"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"

	"github.com/b3rserker/gridmaven/internal/core/domain"
	"github.com/b3rserker/gridmaven/internal/core/ports"
	"github.com/creack/pty"
	"go.trai.ch/zerr"
)

var _ ports.Executor = (*Executor)(nil)

// Build tools see a terminal this size, wide enough that they do not wrap
// their own progress lines.
const (
	termRows = 50
	termCols = 200
)

// Executor runs build tool commands in a pseudo terminal so tools keep their
// colored, interactive output.
type Executor struct {
	logger ports.Logger
}

// NewExecutor creates a new Executor.
func NewExecutor(logger ports.Logger) *Executor {
	return &Executor{logger: logger}
}

// Execute runs cmd and waits for it to complete. Output is copied to stdout
// and, line by line, to the debug log. A pty merges stderr into stdout.
// A non zero exit is returned with a *domain.ExitError in its chain.
func (e *Executor) Execute(ctx context.Context, cmd *domain.Command, stdout, _ io.Writer) error {
	if len(cmd.Args) == 0 {
		return nil
	}
	if stdout == nil {
		stdout = io.Discard
	}

	c := command(ctx, cmd)
	ptmx, err := pty.StartWithSize(c, &pty.Winsize{Rows: termRows, Cols: termCols})
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to start build tool"), "command", cmd.Name)
	}

	lines := &logWriter{logger: e.logger, command: cmd.Name}
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		_, _ = io.Copy(io.MultiWriter(lines, stdout), ptmx)
		_ = lines.Close()
	}()

	waitErr := c.Wait()
	<-drained
	_ = ptmx.Close()

	if waitErr == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return zerr.With(zerr.Wrap(ctxErr, "command canceled"), "command", cmd.Name)
	}
	exitCode := -1
	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) {
		exitCode = exitErr.ExitCode()
	}
	return zerr.With(zerr.Wrap(&domain.ExitError{Code: exitCode}, "command failed"), "command", cmd.Name)
}

// command resolves the executable against the PATH the build will see, not
// the PATH of the worker.
func command(ctx context.Context, cmd *domain.Command) *exec.Cmd {
	name := cmd.Args[0]
	env := resolveEnvironment(os.Environ(), cmd.Env)

	executable := name
	if !strings.ContainsRune(name, filepath.Separator) {
		if lp, err := lookPath(name, env); err == nil {
			executable = lp
		}
	}

	c := exec.CommandContext(ctx, executable, cmd.Args[1:]...) //nolint:gosec // configured build tool
	c.Args[0] = name
	c.Dir = cmd.Dir
	c.Env = env
	return c
}

type logWriter struct {
	logger  ports.Logger
	command string
	buf     []byte
}

func (w *logWriter) Write(p []byte) (n int, err error) {
	w.buf = append(w.buf, p...)

	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		w.logLine(w.buf[:i])
		w.buf = w.buf[i+1:]
	}

	return len(p), nil
}

func (w *logWriter) Close() error {
	if len(w.buf) > 0 {
		w.logLine(w.buf)
		w.buf = nil
	}
	return nil
}

func (w *logWriter) logLine(line []byte) {
	// PTYs may introduce \r.
	msg := strings.TrimSuffix(string(line), "\r")
	w.logger.Debug(msg, "command", w.command)
}

// allowListedEnvVars are the system environment variables a build inherits.
// Everything else comes from the project env.
var allowListedEnvVars = map[string]struct{}{
	"HOME":       {},
	"TERM":       {},
	"USER":       {},
	"PATH":       {},
	"LANG":       {},
	"TMPDIR":     {},
	"JAVA_HOME":  {},
	"MAVEN_HOME": {},
	"M2_HOME":    {},
}

// resolveEnvironment merges the allow listed system environment with the
// command environment, sorted by key. A PATH in the command environment is
// prepended to the system PATH.
func resolveEnvironment(sysEnv, cmdEnv []string) []string {
	envMap := filterSystemEnv(sysEnv)

	for _, entry := range cmdEnv {
		k, v, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		if k == "PATH" {
			if sysPath := envMap["PATH"]; sysPath != "" {
				v = v + string(os.PathListSeparator) + sysPath
			}
		}
		envMap[k] = v
	}

	result := make([]string, 0, len(envMap))
	for _, k := range slices.Sorted(maps.Keys(envMap)) {
		result = append(result, k+"="+envMap[k])
	}
	return result
}

func filterSystemEnv(sysEnv []string) map[string]string {
	envMap := make(map[string]string)
	for _, entry := range sysEnv {
		k, v, ok := strings.Cut(entry, "=")
		if ok {
			if _, allowed := allowListedEnvVars[k]; allowed {
				envMap[k] = v
			}
		}
	}
	return envMap
}

// lookPath searches for an executable in the directories named by the PATH of env.
func lookPath(file string, env []string) (string, error) {
	var path string
	for _, e := range env {
		if strings.HasPrefix(e, "PATH=") {
			path = strings.TrimPrefix(e, "PATH=")
			break
		}
	}

	if path == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		path := filepath.Join(dir, file)
		if err := findExecutable(path); err == nil {
			return path, nil
		}
	}
	return "", exec.ErrNotFound
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0o111 != 0 {
		return nil
	}
	return os.ErrPermission
}
