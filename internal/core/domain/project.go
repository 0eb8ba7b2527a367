package domain

import (
	"cmp"
	"path/filepath"
	"time"
)

// Policy selects how the build set of a run is computed.
type Policy string

const (
	// PolicyIncremental builds changed modules, ledgered modules and their downstream.
	PolicyIncremental Policy = "incremental"
	// PolicyFull builds every module.
	PolicyFull Policy = "full"
)

// Project is the loaded build configuration of one job.
type Project struct {
	// Root is the absolute reactor root directory.
	Root string
	// ConfigPath is the absolute path of the configuration file.
	ConfigPath string

	Job string
	// RootDescriptor is the root module descriptor, relative to Root.
	RootDescriptor string
	Recursive      bool
	Goals          []string
	Policy         Policy

	PublishThreshold Result
	TriggerThreshold Result

	StoreEndpoint string
	Workers       WorkerSettings
	BuildTool     BuildTool

	// Env is the build environment after merging the env file and explicit entries.
	Env map[string]string

	Reporters    []string
	Downstream   []string
	HostQueueURL string
	MetricsAddr  string
}

// WorkerSettings bounds and addresses the worker pool.
type WorkerSettings struct {
	Max         int
	Channels    []string
	IdleTimeout time.Duration
}

// RootDescriptorPath returns the absolute location of the root descriptor.
func (p *Project) RootDescriptorPath() string {
	if p.RootDescriptor == "" || filepath.IsAbs(p.RootDescriptor) {
		return cmp.Or(p.RootDescriptor, p.Root)
	}
	return filepath.Join(p.Root, p.RootDescriptor)
}
