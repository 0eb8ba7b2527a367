package domain

import "time"

// EventKind tags the variant carried by an Event.
type EventKind string

const (
	// EventModuleEntered opens the lifecycle of one module.
	EventModuleEntered EventKind = "module_entered"
	// EventStepStarted is emitted right before a build step runs.
	EventStepStarted EventKind = "step_started"
	// EventStepFinished is emitted right after a build step ran.
	EventStepFinished EventKind = "step_finished"
	// EventModuleLeft closes the lifecycle of one module.
	EventModuleLeft EventKind = "module_left"
	// EventReportGenerated announces a report produced by the build, such as a published output.
	EventReportGenerated EventKind = "report_generated"
	// EventOutput carries raw build tool output. It is not part of the lifecycle.
	EventOutput EventKind = "output"
)

// Event is one message of the worker event stream.
// Kind selects which of the optional fields are meaningful.
type Event struct {
	Kind   EventKind `json:"kind"`
	Module string    `json:"module,omitempty"`
	Time   time.Time `json:"time,omitzero"`

	// Step is set for StepStarted and StepFinished.
	Step string `json:"step,omitempty"`
	// Err is set on StepFinished when the step failed, and on ModuleLeft when
	// the module failed.
	Err string `json:"err,omitempty"`
	// Result is set on ModuleLeft.
	Result Result `json:"result,omitempty"`
	// Report is set on ReportGenerated.
	Report *Report `json:"report,omitempty"`
	// Data is set on Output.
	Data []byte `json:"data,omitempty"`
}

// IsLifecycle reports whether the event requires an acknowledgement.
func (e Event) IsLifecycle() bool {
	return e.Kind != EventOutput
}

// Report describes something a build produced.
type Report struct {
	Name        string      `json:"name"`
	ArtifactKey ArtifactKey `json:"artifact_key,omitempty"`
	Files       []string    `json:"files,omitempty"`
}
