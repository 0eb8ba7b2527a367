package logger_test

import (
	"errors"
	"testing"

	"github.com/b3rserker/gridmaven/internal/adapters/logger"
	"github.com/b3rserker/gridmaven/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"go.trai.ch/zerr"
)

func TestCollectErrorEntries_Messages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want []string
	}{
		{
			name: "plain error ends the chain",
			err:  errors.New("dial tcp 127.0.0.1:7070: connection refused"),
			want: []string{"dial tcp 127.0.0.1:7070: connection refused"},
		},
		{
			name: "wrapped sentinel",
			err:  zerr.Wrap(domain.ErrStoreUnavailable, "failed to stage g:core"),
			want: []string{"failed to stage g:core", "artifact store unavailable"},
		},
		{
			name: "three layers down to a plain cause",
			err: zerr.Wrap(
				zerr.Wrap(errors.New("exit status 1"), "build tool failed"),
				"module g:app failed",
			),
			want: []string{"module g:app failed", "build tool failed", "exit status 1"},
		},
		{
			name: "joined errors are one entry",
			err:  zerr.Wrap(errors.Join(domain.ErrBuildFailed, errors.New("FAILURE")), "run 4"),
			want: []string{"run 4", domain.ErrBuildFailed.Error() + "\nFAILURE"},
		},
		{
			name: "nil",
			err:  nil,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries := logger.CollectErrorEntriesExported(tt.err)

			var got []string
			for _, e := range entries {
				got = append(got, e.Message)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCollectErrorEntries_Metadata(t *testing.T) {
	t.Run("metadata stays with its layer", func(t *testing.T) {
		inner := zerr.With(zerr.Wrap(domain.ErrSourceNotFound, "no tree"), "path", "core/src")
		outer := zerr.With(zerr.Wrap(inner, "staging failed"), "module", "g:core")

		entries := logger.CollectErrorEntriesExported(outer)

		assert.Len(t, entries, 3)
		assert.Equal(t, "g:core", entries[0].Metadata["module"])
		assert.Equal(t, "core/src", entries[1].Metadata["path"])
		assert.NotContains(t, entries[0].Metadata, "path")
	})

	t.Run("metadata on a plain error is carried to it", func(t *testing.T) {
		err := zerr.With(errors.New("connection refused"), "endpoint", "http://store:8080")

		entries := logger.CollectErrorEntriesExported(err)

		assert.Equal(t, []logger.ErrorEntry{{
			Message:  "connection refused",
			Metadata: map[string]any{"endpoint": "http://store:8080"},
		}}, entries)
	})

	t.Run("repeated With merges", func(t *testing.T) {
		err := zerr.With(zerr.With(zerr.New("lease expired"), "channel", "local:0"), "attempt", 2)

		entries := logger.CollectErrorEntriesExported(err)

		assert.Len(t, entries, 1)
		assert.Equal(t, map[string]any{"channel": "local:0", "attempt": 2}, entries[0].Metadata)
	})
}

func TestFormatErrorEntries(t *testing.T) {
	tests := []struct {
		name    string
		entries []logger.ErrorEntry
		want    string
	}{
		{
			name:    "nothing",
			entries: nil,
			want:    "",
		},
		{
			name:    "one entry",
			entries: []logger.ErrorEntry{{Message: "no such module descriptor"}},
			want:    "Error: no such module descriptor",
		},
		{
			name: "causes",
			entries: []logger.ErrorEntry{
				{Message: "failed to resolve reactor"},
				{Message: "malformed module descriptor"},
				{Message: "yaml: line 3: did not find expected key"},
			},
			want: "Error: failed to resolve reactor\n\n" +
				"  Caused by:\n" +
				"    → malformed module descriptor\n" +
				"    → yaml: line 3: did not find expected key",
		},
		{
			name: "metadata sorted under each entry",
			entries: []logger.ErrorEntry{
				{Message: "dispatch failed", Metadata: map[string]any{"run": 3, "module": "g:app"}},
				{Message: "no worker", Metadata: map[string]any{"channel": "remote:0"}},
			},
			want: "Error: dispatch failed\n" +
				"       module: g:app\n" +
				"       run: 3\n\n" +
				"  Caused by:\n" +
				"    → no worker\n" +
				"      channel: remote:0",
		},
		{
			name: "multiline messages keep the indent",
			entries: []logger.ErrorEntry{
				{Message: "build failed\n[ERROR] compilation failure"},
				{Message: "exit status 1\nsee log"},
			},
			want: "Error: build failed\n" +
				"       [ERROR] compilation failure\n\n" +
				"  Caused by:\n" +
				"    → exit status 1\n" +
				"      see log",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, logger.FormatErrorEntriesExported(tt.entries))
		})
	}
}

func TestCollectAndFormat(t *testing.T) {
	err := zerr.With(
		zerr.Wrap(zerr.With(zerr.New("lease expired"), "channel", "local:1"), "module g:core aborted"),
		"run", 12,
	)

	got := logger.FormatErrorEntriesExported(logger.CollectErrorEntriesExported(err))

	assert.Equal(t, "Error: module g:core aborted\n"+
		"       run: 12\n\n"+
		"  Caused by:\n"+
		"    → lease expired\n"+
		"      channel: local:1", got)
}
