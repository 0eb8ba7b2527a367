package domain

import (
	"maps"
	"slices"
	"time"
)

// BuildRequest is the immutable unit of work sent to a worker.
// It is created once per module per run and never mutated after dispatch.
type BuildRequest struct {
	Module       ModuleSnapshot    `json:"module"`
	Goals        []string          `json:"goals"`
	SourceKey    ArtifactKey       `json:"source_key"`
	ReactorKey   ArtifactKey       `json:"reactor_key,omitempty"`
	UpstreamKeys []ArtifactKey     `json:"upstream_keys,omitempty"`
	Env          map[string]string `json:"env,omitempty"`
	RunNumber    int               `json:"run_number"`
	// Publish asks the worker to publish the module output when the build
	// reaches at least this result.
	Publish Result `json:"publish"`
	// Tool is the build tool the worker runs for each goal.
	Tool BuildTool `json:"tool"`
	// StoreEndpoint is the blob store the worker fetches from and publishes to.
	StoreEndpoint string `json:"store_endpoint"`
}

// Clone returns a deep copy so a transport can never alias the original.
func (r BuildRequest) Clone() BuildRequest {
	c := r
	c.Module.Upstream = slices.Clone(r.Module.Upstream)
	c.Goals = slices.Clone(r.Goals)
	c.UpstreamKeys = slices.Clone(r.UpstreamKeys)
	c.Env = maps.Clone(r.Env)
	c.Tool.Args = slices.Clone(r.Tool.Args)
	return c
}

// StepTiming is the wall clock duration of one build step.
type StepTiming struct {
	Step     string        `json:"step"`
	Duration time.Duration `json:"duration"`
}

// BuildOutcome is the result of one module build as reported by a worker.
type BuildOutcome struct {
	Module      string        `json:"module"`
	Result      Result        `json:"result"`
	Duration    time.Duration `json:"duration"`
	Steps       []StepTiming  `json:"steps,omitempty"`
	ArtifactKey ArtifactKey   `json:"artifact_key,omitempty"`
	Cause       string        `json:"cause,omitempty"`
	Reporter    string        `json:"reporter,omitempty"`
	FinishedAt  time.Time     `json:"finished_at,omitzero"`
}

// NotBuilt returns the outcome of a module that was never dispatched.
func NotBuilt(module, cause string) BuildOutcome {
	return BuildOutcome{Module: module, Result: ResultNotBuilt, Cause: cause}
}
