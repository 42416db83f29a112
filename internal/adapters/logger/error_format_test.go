package logger_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/memo/internal/adapters/logger"
	"go.trai.ch/memo/internal/core/domain"
	"go.trai.ch/zerr"
)

func TestCollectErrorEntries(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		wantMessages []string
		wantMetadata []map[string]any
	}{
		{
			name:         "standard error",
			err:          errors.New("exit status 1"),
			wantMessages: []string{"exit status 1"},
			wantMetadata: []map[string]any{nil},
		},
		{
			name:         "sentinel",
			err:          domain.ErrEntryNotFound,
			wantMessages: []string{"cache entry not found"},
			wantMetadata: []map[string]any{{}},
		},
		{
			name: "wrapped replay failure",
			err: zerr.Wrap(
				zerr.Wrap(errors.New("broken pipe"), "failed to write stdout"),
				"failed to replay output",
			),
			wantMessages: []string{"failed to replay output", "failed to write stdout", "broken pipe"},
			wantMetadata: []map[string]any{{}, {}, nil},
		},
		{
			name:         "stale entry keeps its path",
			err:          zerr.With(zerr.Wrap(domain.ErrStale, "entry is stale"), "path", "/work/go.mod"),
			wantMessages: []string{"entry is stale", "dependency modified since entry was stored"},
			wantMetadata: []map[string]any{{"path": "/work/go.mod"}, {}},
		},
		{
			name: "collision metadata accumulates",
			err: zerr.With(
				zerr.With(domain.ErrCollision, "key", "3f2a"),
				"namespace", "go",
			),
			wantMessages: []string{"cache key collision"},
			wantMetadata: []map[string]any{{"key": "3f2a", "namespace": "go"}},
		},
		{
			name:         "joined sentinel moves metadata to the cause",
			err:          zerr.With(errors.Join(domain.ErrCommandFailed, errors.New("exit status 3")), "exit_code", 3),
			wantMessages: []string{"command failed\nexit status 3"},
			wantMetadata: []map[string]any{{"exit_code": 3}},
		},
		{
			name: "config field metadata merges onto the parse error",
			err: zerr.Wrap(
				zerr.With(zerr.With(errors.Join(domain.ErrInvalidDuration, errors.New("bad unit")), "value", "3x"), "field", "ttl"),
				"failed to load configuration",
			),
			wantMessages: []string{"failed to load configuration", "invalid duration\nbad unit"},
			wantMetadata: []map[string]any{{}, {"field": "ttl", "value": "3x"}},
		},
		{
			name:         "nil error handling",
			err:          nil,
			wantMessages: nil,
			wantMetadata: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries := logger.CollectErrorEntriesExported(tt.err)

			if tt.err == nil {
				assert.Empty(t, entries, "nil error should produce no entries")
				return
			}

			assert.Len(t, entries, len(tt.wantMessages), "entry count mismatch")
			for i, wantMsg := range tt.wantMessages {
				assert.Equal(t, wantMsg, entries[i].Message, "message mismatch at index %d", i)
				assert.Equal(t, tt.wantMetadata[i], entries[i].Metadata, "metadata mismatch at index %d", i)
			}
		})
	}
}

func TestFormatErrorEntries(t *testing.T) {
	tests := []struct {
		name    string
		entries []logger.ErrorEntry
		want    string
	}{
		{
			name:    "single entry",
			entries: []logger.ErrorEntry{{Message: "no command specified"}},
			want:    "Error: no command specified",
		},
		{
			name: "three entries",
			entries: []logger.ErrorEntry{
				{Message: "failed to replay output"},
				{Message: "failed to write stdout"},
				{Message: "broken pipe"},
			},
			want: "Error: failed to replay output\n\n  Caused by:\n    → failed to write stdout\n    → broken pipe",
		},
		{
			name: "entry with metadata on cause",
			entries: []logger.ErrorEntry{
				{Message: "failed to load configuration"},
				{Message: "invalid duration", Metadata: map[string]any{"field": "ttl"}},
			},
			want: "Error: failed to load configuration\n\n  Caused by:\n    → invalid duration\n      field: ttl",
		},
		{
			name:    "multiline joined message",
			entries: []logger.ErrorEntry{{Message: "command failed\nexit status 2"}},
			want:    "Error: command failed\n       exit status 2",
		},
		{
			name: "metadata sorted alphabetically",
			entries: []logger.ErrorEntry{{
				Message:  "cache key collision",
				Metadata: map[string]any{"namespace": "go", "key": "3f2a", "path": "/work"},
			}},
			want: "Error: cache key collision\n       key: 3f2a\n       namespace: go\n       path: /work",
		},
		{
			name:    "empty entries",
			entries: []logger.ErrorEntry{},
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, logger.FormatErrorEntriesExported(tt.entries))
		})
	}
}
