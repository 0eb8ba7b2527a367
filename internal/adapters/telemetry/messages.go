package telemetry

import (
	"time"
)

// MsgPlan announces the modules of a run in build order.
type MsgPlan struct {
	Modules []string
	// Upstream maps a module id to the modules it depends on.
	Upstream map[string][]string
	// Targets lists the modules in the build set.
	Targets []string
}

// MsgModuleStart reports that a module span started.
type MsgModuleStart struct {
	SpanID    string
	ParentID  string
	Module    string
	StartTime time.Time
}

// MsgModuleLog carries a chunk of build output of one span.
type MsgModuleLog struct {
	SpanID string
	Data   []byte
}

// MsgModuleComplete reports that a module span ended. Err is nil on success.
type MsgModuleComplete struct {
	SpanID  string
	EndTime time.Time
	Err     error
}
