package config

// ProjectFile represents the structure of the gridmaven.yaml configuration file.
type ProjectFile struct {
	Job              string            `yaml:"job"`
	Root             string            `yaml:"root"`
	Recursive        *bool             `yaml:"recursive"`
	Goals            []string          `yaml:"goals"`
	Policy           string            `yaml:"policy"`
	PublishThreshold string            `yaml:"publishThreshold"`
	TriggerThreshold string            `yaml:"triggerThreshold"`
	Store            StoreDTO          `yaml:"store"`
	Workers          WorkersDTO        `yaml:"workers"`
	BuildTool        BuildToolDTO      `yaml:"buildTool"`
	Env              map[string]string `yaml:"env"`
	EnvFile          string            `yaml:"envFile"`
	Reporters        []string          `yaml:"reporters"`
	Downstream       []string          `yaml:"downstream"`
	HostQueue        HostQueueDTO      `yaml:"hostQueue"`
	Metrics          MetricsDTO        `yaml:"metrics"`
}

// StoreDTO configures the blob store.
type StoreDTO struct {
	Endpoint string `yaml:"endpoint"`
}

// WorkersDTO configures the worker pool.
type WorkersDTO struct {
	Max         int      `yaml:"max"`
	Channels    []string `yaml:"channels"`
	IdleTimeout string   `yaml:"idleTimeout"`
}

// BuildToolDTO configures the build tool run by workers.
type BuildToolDTO struct {
	Command          string   `yaml:"command"`
	Args             []string `yaml:"args"`
	OutputDir        string   `yaml:"outputDir"`
	UnstableExitCode int      `yaml:"unstableExitCode"`
}

// HostQueueDTO configures the host job queue.
type HostQueueDTO struct {
	URL string `yaml:"url"`
}

// MetricsDTO configures the metrics endpoint.
type MetricsDTO struct {
	Addr string `yaml:"addr"`
}
