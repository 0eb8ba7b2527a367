package domain

import "time"

// BuildInfo is the last published build of a module.
// The incremental policy compares SourceHash against the current source tree.
type BuildInfo struct {
	Module      string      `json:"module,omitzero"`
	SourceHash  string      `json:"source_hash,omitzero"`
	ArtifactKey ArtifactKey `json:"artifact_key,omitzero"`
	Result      Result      `json:"result"`
	RunNumber   int         `json:"run_number,omitzero"`
	Timestamp   time.Time   `json:"timestamp,omitzero"`
}

// HistoryLimit is the number of outcomes kept per module.
const HistoryLimit = 50

// HistoryEntry is one past outcome of a module.
type HistoryEntry struct {
	RunNumber int           `json:"run_number"`
	Result    Result        `json:"result"`
	Duration  time.Duration `json:"duration"`
	Steps     []StepTiming  `json:"steps,omitempty"`
	Cause     string        `json:"cause,omitempty"`
	Timestamp time.Time     `json:"timestamp,omitzero"`
}

// AppendHistory appends e to entries and drops the oldest entries beyond HistoryLimit.
func AppendHistory(entries []HistoryEntry, e HistoryEntry) []HistoryEntry {
	entries = append(entries, e)
	if over := len(entries) - HistoryLimit; over > 0 {
		entries = append(entries[:0:0], entries[over:]...)
	}
	return entries
}
