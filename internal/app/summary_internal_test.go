package app

import (
	"bytes"
	"testing"
	"time"

	"github.com/b3rserker/gridmaven/internal/adapters/detector"
	"github.com/b3rserker/gridmaven/internal/core/domain"
	"github.com/b3rserker/gridmaven/internal/engine/orchestrator"
	"github.com/stretchr/testify/assert"
)

func TestWriteSummary(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	rep := &orchestrator.RunReport{
		RunNumber: 7,
		Result:    domain.ResultFailure,
		BuildSet:  []string{"g:core", "g:app"},
		Modules: []domain.BuildOutcome{
			{Module: "g:core", Result: domain.ResultFailure, Duration: 1500 * time.Millisecond, Cause: "exit status 1"},
			domain.NotBuilt("g:app", "upstream failed"),
		},
		Duration:  2 * time.Second,
		Triggered: []string{"deploy"},
	}

	var buf bytes.Buffer
	writeSummary(&buf, detector.ModeLinear, rep)

	want := "Reactor summary (run #7, incremental, 2 selected):\n" +
		"  ✗ g:core FAILURE   1.5s (exit status 1)\n" +
		"  ~ g:app  NOT_BUILT (upstream failed)\n" +
		"Run #7 FAILURE in 2s\n" +
		"Triggered [deploy]\n"
	assert.Equal(t, want, buf.String())
}
