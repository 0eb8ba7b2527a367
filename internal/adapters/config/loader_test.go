package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/b3rserker/gridmaven/internal/adapters/config"
	"github.com/b3rserker/gridmaven/internal/core/domain"
	"github.com/b3rserker/gridmaven/internal/core/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newLoader(t *testing.T, root string, files fstest.MapFS) *config.Loader {
	t.Helper()
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug(gomock.Any(), gomock.Any()).AnyTimes()
	return config.NewLoaderWithFS(log, config.Mount(root, files))
}

func TestLoader_Load_Defaults(t *testing.T) {
	t.Parallel()

	loader := newLoader(t, "/work/shop", fstest.MapFS{
		"gridmaven.yaml": {Data: []byte("{}\n")},
	})

	p, err := loader.Load("/work/shop")
	require.NoError(t, err)

	assert.Equal(t, "/work/shop", p.Root)
	assert.Equal(t, "/work/shop/gridmaven.yaml", p.ConfigPath)
	assert.Equal(t, "shop", p.Job)
	assert.True(t, p.Recursive)
	assert.Equal(t, []string{"install"}, p.Goals)
	assert.Equal(t, domain.PolicyIncremental, p.Policy)
	assert.Equal(t, domain.ResultSuccess, p.PublishThreshold)
	assert.Equal(t, domain.ResultSuccess, p.TriggerThreshold)
	assert.Equal(t, config.DefaultStoreEndpoint, p.StoreEndpoint)
	assert.Equal(t, config.DefaultMaxWorkers, p.Workers.Max)
	assert.Equal(t, []string{config.LocalChannel}, p.Workers.Channels)
	assert.Equal(t, config.DefaultIdleTimeout, p.Workers.IdleTimeout)
	assert.Equal(t, "mvn", p.BuildTool.Command)
	assert.Equal(t, "target", p.BuildTool.OutputDir)
	assert.Equal(t, []string{"log", "history"}, p.Reporters)
	assert.Empty(t, p.Env)
}

func TestLoader_Load_Overrides(t *testing.T) {
	t.Parallel()

	yml := `
job: checkout
root: services/pom.xml
recursive: false
goals: [clean, verify]
policy: full
publishThreshold: unstable
triggerThreshold: SUCCESS
store:
  endpoint: https://store.internal:8443/
workers:
  max: 12
  channels: [local, "tcp:10.0.0.4:9000", local]
  idleTimeout: 45m
buildTool:
  command: ./mvnw
  args: ["-B", "-q"]
  outputDir: build
  unstableExitCode: 3
reporters: [log, history, metrics]
downstream: [deploy-staging]
hostQueue:
  url: http://jobs.internal/queue
metrics:
  addr: ":9464"
`
	loader := newLoader(t, "/work/checkout", fstest.MapFS{
		"gridmaven.yaml": {Data: []byte(yml)},
	})

	p, err := loader.Load("/work/checkout")
	require.NoError(t, err)

	assert.Equal(t, "checkout", p.Job)
	assert.Equal(t, "services/pom.xml", p.RootDescriptor)
	assert.Equal(t, "/work/checkout/services/pom.xml", p.RootDescriptorPath())
	assert.False(t, p.Recursive)
	assert.Equal(t, []string{"clean", "verify"}, p.Goals)
	assert.Equal(t, domain.PolicyFull, p.Policy)
	assert.Equal(t, domain.ResultUnstable, p.PublishThreshold)
	assert.Equal(t, "https://store.internal:8443", p.StoreEndpoint)
	assert.Equal(t, 12, p.Workers.Max)
	assert.Equal(t, []string{"local", "tcp:10.0.0.4:9000"}, p.Workers.Channels)
	assert.Equal(t, 45*time.Minute, p.Workers.IdleTimeout)
	assert.Equal(t, domain.BuildTool{
		Command:          "./mvnw",
		Args:             []string{"-B", "-q"},
		OutputDir:        "build",
		UnstableExitCode: 3,
	}, p.BuildTool)
	assert.Equal(t, []string{"log", "history", "metrics"}, p.Reporters)
	assert.Equal(t, []string{"deploy-staging"}, p.Downstream)
	assert.Equal(t, "http://jobs.internal/queue", p.HostQueueURL)
	assert.Equal(t, ":9464", p.MetricsAddr)
}

func TestLoader_Load_Discovery(t *testing.T) {
	t.Parallel()

	loader := newLoader(t, "/repo", fstest.MapFS{
		"gridmaven.yaml":           {Data: []byte("job: mono\n")},
		"services/api/module.yaml": {Data: []byte("group: g\n")},
	})

	p, err := loader.Load("/repo/services/api")
	require.NoError(t, err)
	assert.Equal(t, "/repo", p.Root)
	assert.Equal(t, "mono", p.Job)

	root, err := loader.DiscoverRoot("/repo/services/api")
	require.NoError(t, err)
	assert.Equal(t, "/repo", root)
}

func TestLoader_Load_NotFound(t *testing.T) {
	t.Parallel()

	loader := newLoader(t, "/empty", fstest.MapFS{})

	_, err := loader.Load("/empty/sub")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConfigNotFound))

	_, err = loader.DiscoverRoot("/empty")
	assert.True(t, errors.Is(err, domain.ErrConfigNotFound))
}

func TestLoader_Load_ParseError(t *testing.T) {
	t.Parallel()

	loader := newLoader(t, "/bad", fstest.MapFS{
		"gridmaven.yaml": {Data: []byte("goals: [install\n")},
	})

	_, err := loader.Load("/bad")
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrConfigParseFailed.Error())
}

func TestLoader_Load_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		yaml  string
		field string
	}{
		{"zero workers", "workers:\n  max: 0\n", "workers.max"},
		{"unknown policy", "policy: sometimes\n", "policy"},
		{"unknown threshold", "publishThreshold: GREEN\n", "publishThreshold"},
		{"incomplete threshold", "triggerThreshold: ABORTED\n", "threshold"},
		{"bad idle timeout", "workers:\n  idleTimeout: soon\n", "workers.idleTimeout"},
		{"no channels", "workers:\n  channels: [\" \"]\n", "workers.channels"},
		{"no goals", "goals: []\n", "goals"},
		{"no command", "buildTool:\n  command: \"\"\n", "buildTool.command"},
		{"bad store scheme", "store:\n  endpoint: ftp://store\n", "store.endpoint"},
		{"bad host queue", "hostQueue:\n  url: queue\n", "hostQueue.url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			loader := newLoader(t, "/p", fstest.MapFS{
				"gridmaven.yaml": {Data: []byte(tt.yaml)},
			})

			_, err := loader.Load("/p")
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrInvalidConfig))
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestLoader_Load_EnvFile(t *testing.T) {
	t.Parallel()

	yml := `
envFile: ci.env
env:
  MAVEN_OPTS: -Xmx2g
`
	envFile := "# shared\nMAVEN_OPTS=-Xmx512m\nREGISTRY=\"registry.internal\"\nexport REGION=eu-west-1\n"

	loader := newLoader(t, "/p", fstest.MapFS{
		"gridmaven.yaml": {Data: []byte(yml)},
		"ci.env":         {Data: []byte(envFile)},
	})

	p, err := loader.Load("/p")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"MAVEN_OPTS": "-Xmx2g",
		"REGISTRY":   "registry.internal",
		"REGION":     "eu-west-1",
	}, p.Env)
}

func TestLoader_Load_MissingEnvFile(t *testing.T) {
	t.Parallel()

	loader := newLoader(t, "/p", fstest.MapFS{
		"gridmaven.yaml": {Data: []byte("envFile: missing.env\n")},
	})

	_, err := loader.Load("/p")
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrEnvFileReadFailed.Error())
}

func TestLoader_Load_OSFS(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "gridmaven.yaml"), []byte("job: disk\n"), domain.FilePerm))
	nested := filepath.Join(dir, "a", "b")
	require.NoError(t, os.MkdirAll(nested, domain.DirPerm))

	ctrl := gomock.NewController(t)
	loader := config.NewLoader(mocks.NewMockLogger(ctrl))

	p, err := loader.Load(nested)
	require.NoError(t, err)
	assert.Equal(t, "disk", p.Job)
	assert.Equal(t, dir, p.Root)
}
