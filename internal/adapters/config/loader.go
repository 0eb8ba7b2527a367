// Package config provides the configuration loader for gridmaven.
package config

import (
	"fmt"
	"net/url"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/b3rserker/gridmaven/internal/core/domain"
	"github.com/b3rserker/gridmaven/internal/core/ports"
	"github.com/joho/godotenv"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultMaxWorkers bounds the worker pool when workers.max is unset.
	DefaultMaxWorkers = 5
	// DefaultIdleTimeout is how long a local worker daemon waits for work before exiting.
	DefaultIdleTimeout = 3 * time.Hour
	// DefaultStoreEndpoint is the blob store served by "gridmaven store serve" without flags.
	DefaultStoreEndpoint = "http://127.0.0.1:7070"
	// LocalChannel is the channel of the default local worker daemon.
	LocalChannel = "local"
)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
	fs     FileSystem
}

// NewLoader creates a new Loader reading from the operating system.
func NewLoader(logger ports.Logger) *Loader {
	return NewLoaderWithFS(logger, OSFS{})
}

// NewLoaderWithFS creates a new Loader reading from fsys.
func NewLoaderWithFS(logger ports.Logger, fsys FileSystem) *Loader {
	return &Loader{Logger: logger, fs: fsys}
}

// Defaults returns the configuration applied before gridmaven.yaml is read.
func Defaults() ProjectFile {
	recursive := true
	return ProjectFile{
		Root:             ".",
		Recursive:        &recursive,
		Goals:            []string{"install"},
		Policy:           string(domain.PolicyIncremental),
		PublishThreshold: domain.ResultSuccess.String(),
		TriggerThreshold: domain.ResultSuccess.String(),
		Store:            StoreDTO{Endpoint: DefaultStoreEndpoint},
		Workers: WorkersDTO{
			Max:         DefaultMaxWorkers,
			Channels:    []string{LocalChannel},
			IdleTimeout: DefaultIdleTimeout.String(),
		},
		BuildTool: BuildToolDTO{
			Command:   "mvn",
			Args:      []string{"-B"},
			OutputDir: "target",
		},
		Reporters: []string{"log", "history"},
	}
}

// Load finds gridmaven.yaml from cwd upward and returns the project it describes.
func (l *Loader) Load(cwd string) (*domain.Project, error) {
	configPath, err := l.findConfiguration(cwd)
	if err != nil {
		return nil, err
	}

	file := Defaults()
	if err := l.readAndUnmarshalYAML(configPath, &file); err != nil {
		return nil, err
	}

	return l.buildProject(configPath, &file)
}

// DiscoverRoot walks up from cwd and returns the directory containing gridmaven.yaml.
func (l *Loader) DiscoverRoot(cwd string) (string, error) {
	configPath, err := l.findConfiguration(cwd)
	if err != nil {
		return "", err
	}
	return filepath.Dir(configPath), nil
}

func (l *Loader) findConfiguration(cwd string) (string, error) {
	currentDir, err := filepath.Abs(cwd)
	if err != nil {
		return "", zerr.Wrap(err, domain.ErrFailedToGetRoot.Error())
	}

	for {
		candidate := filepath.Join(currentDir, domain.ConfigFileName)
		if _, err := l.fs.Stat(candidate); err == nil {
			return candidate, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			break
		}
		currentDir = parentDir
	}

	return "", zerr.With(zerr.Wrap(domain.ErrConfigNotFound, ""), "cwd", cwd)
}

func (l *Loader) buildProject(configPath string, file *ProjectFile) (*domain.Project, error) {
	configDir := filepath.Dir(configPath)

	p := &domain.Project{
		Root:           configDir,
		ConfigPath:     configPath,
		Job:            file.Job,
		RootDescriptor: file.Root,
		Recursive:      file.Recursive == nil || *file.Recursive,
		Goals:          slices.Clone(file.Goals),
		StoreEndpoint:  strings.TrimRight(file.Store.Endpoint, "/"),
		BuildTool: domain.BuildTool{
			Command:          file.BuildTool.Command,
			Args:             slices.Clone(file.BuildTool.Args),
			OutputDir:        file.BuildTool.OutputDir,
			UnstableExitCode: file.BuildTool.UnstableExitCode,
		},
		Reporters:    compactNames(file.Reporters),
		Downstream:   compactNames(file.Downstream),
		HostQueueURL: file.HostQueue.URL,
		MetricsAddr:  file.Metrics.Addr,
	}
	if p.Job == "" {
		p.Job = filepath.Base(configDir)
	}

	if err := l.applyPolicy(p, file); err != nil {
		return nil, err
	}
	if err := l.applyWorkers(p, file.Workers); err != nil {
		return nil, err
	}
	if err := validateProject(p); err != nil {
		return nil, err
	}

	env, err := l.loadEnv(configDir, file)
	if err != nil {
		return nil, err
	}
	p.Env = env

	return p, nil
}

func (l *Loader) applyPolicy(p *domain.Project, file *ProjectFile) error {
	switch policy := domain.Policy(strings.ToLower(file.Policy)); policy {
	case domain.PolicyIncremental, domain.PolicyFull:
		p.Policy = policy
	default:
		return invalidField("policy", file.Policy)
	}

	publish, err := domain.ParseResult(file.PublishThreshold)
	if err != nil {
		return invalidField("publishThreshold", file.PublishThreshold)
	}
	trigger, err := domain.ParseResult(file.TriggerThreshold)
	if err != nil {
		return invalidField("triggerThreshold", file.TriggerThreshold)
	}
	if !publish.IsCompleteBuild() || !trigger.IsCompleteBuild() {
		return invalidField("threshold", file.PublishThreshold+"/"+file.TriggerThreshold)
	}
	p.PublishThreshold = publish
	p.TriggerThreshold = trigger
	return nil
}

func (l *Loader) applyWorkers(p *domain.Project, w WorkersDTO) error {
	if w.Max < 1 {
		return invalidField("workers.max", w.Max)
	}

	idle, err := time.ParseDuration(w.IdleTimeout)
	if err != nil || idle <= 0 {
		return invalidField("workers.idleTimeout", w.IdleTimeout)
	}

	channels := compactNames(w.Channels)
	if len(channels) == 0 {
		return invalidField("workers.channels", w.Channels)
	}

	p.Workers = domain.WorkerSettings{
		Max:         w.Max,
		Channels:    channels,
		IdleTimeout: idle,
	}
	return nil
}

func validateProject(p *domain.Project) error {
	if len(p.Goals) == 0 {
		return invalidField("goals", p.Goals)
	}
	if p.BuildTool.Command == "" {
		return invalidField("buildTool.command", p.BuildTool.Command)
	}
	if err := validateURL("store.endpoint", p.StoreEndpoint); err != nil {
		return err
	}
	if p.HostQueueURL != "" {
		if err := validateURL("hostQueue.url", p.HostQueueURL); err != nil {
			return err
		}
	}
	return nil
}

func validateURL(field, raw string) error {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return invalidField(field, raw)
	}
	return nil
}

// loadEnv merges the env file below the explicit env entries.
func (l *Loader) loadEnv(configDir string, file *ProjectFile) (map[string]string, error) {
	env := make(map[string]string, len(file.Env))

	if file.EnvFile != "" {
		path := file.EnvFile
		if !filepath.IsAbs(path) {
			path = filepath.Join(configDir, path)
		}

		data, err := l.fs.ReadFile(path)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrEnvFileReadFailed.Error()), "env_file", file.EnvFile)
		}

		fromFile, err := godotenv.Unmarshal(string(data))
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrEnvFileReadFailed.Error()), "env_file", file.EnvFile)
		}
		for k, v := range fromFile {
			env[k] = v
		}
	}

	for k, v := range file.Env {
		if _, shadowed := env[k]; shadowed {
			l.Logger.Debug("env entry overrides env file", "key", k)
		}
		env[k] = v
	}

	return env, nil
}

// readAndUnmarshalYAML reads a YAML file and unmarshals it into the target struct.
func (l *Loader) readAndUnmarshalYAML(configPath string, target *ProjectFile) error {
	data, err := l.fs.ReadFile(configPath)
	if err != nil {
		return zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
	}

	if err := yaml.Unmarshal(data, target); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "file", configPath)
	}

	return nil
}

func invalidField(field string, value any) error {
	return zerr.With(zerr.Wrap(domain.ErrInvalidConfig, field), "value", fmt.Sprint(value))
}

// compactNames trims, drops empty entries and removes duplicates while keeping order.
func compactNames(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" || slices.Contains(out, n) {
			continue
		}
		out = append(out, n)
	}
	return out
}
