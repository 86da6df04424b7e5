package logger

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: slog.LevelInfo, Format: "json", Writer: &buf})

	log.Info("imported item", "item", "li_1")

	assert.Contains(t, buf.String(), `"msg":"imported item"`)
	assert.Contains(t, buf.String(), `"level":"INFO"`)
	assert.Contains(t, buf.String(), `"item":"li_1"`)
}

func TestNew_DefaultsToPretty(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Writer: &buf, NoColor: true})

	log.Info("hello", "count", 3)

	out := buf.String()
	assert.Contains(t, out, "INF hello count=3")
	assert.NotContains(t, out, "\033[")
}

func TestNew_ProductionUsesJSON(t *testing.T) {
	var buf bytes.Buffer
	New(Config{Writer: &buf, Environment: "production"}).Info("test")

	assert.Contains(t, buf.String(), `"msg":"test"`)
}

func TestPrettyHandler_Levels(t *testing.T) {
	tests := []struct {
		name    string
		level   slog.Level
		logFn   func(*Logger)
		want    string
		written bool
	}{
		{name: "debug filtered at info", level: slog.LevelInfo, logFn: func(l *Logger) { l.Debug("x") }, written: false},
		{name: "debug shown at debug", level: slog.LevelDebug, logFn: func(l *Logger) { l.Debug("x") }, want: "DBG", written: true},
		{name: "warn", level: slog.LevelInfo, logFn: func(l *Logger) { l.Warn("x") }, want: "WRN", written: true},
		{name: "error", level: slog.LevelInfo, logFn: func(l *Logger) { l.Error("x") }, want: "ERR", written: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFn(New(Config{Writer: &buf, Level: tt.level, NoColor: true}))
			if !tt.written {
				assert.Empty(t, buf.String())
				return
			}
			assert.Contains(t, buf.String(), tt.want)
		})
	}
}

func TestPrettyHandler_GroupsAndAttrs(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Writer: &buf, NoColor: true})

	log.With("op", "abc").WithGroup("track").Info("removed", "localFileId", "f1", slog.Group("book", "tracks", 2))

	line := strings.TrimSpace(buf.String())
	assert.True(t, strings.HasSuffix(line, "removed op=abc track.localFileId=f1 track.book.tracks=2"), line)
}

func TestPrettyHandler_QuotesSpaces(t *testing.T) {
	var buf bytes.Buffer
	New(Config{Writer: &buf, NoColor: true}).Info("x", "title", "The Final Empire")

	assert.Contains(t, buf.String(), `title="The Final Empire"`)
}

func TestPrettyHandler_Color(t *testing.T) {
	var buf bytes.Buffer
	New(Config{Writer: &buf}).Info("x")

	assert.Contains(t, buf.String(), colorGreen+"INF"+colorReset)
}

func TestLogger_Helpers(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Writer: &buf, Format: "json"})

	log.WithError(errors.New("boom")).WithField("item", "li_1").WithOperation("op-1").
		WithFields(map[string]any{"tracks": 2}).Warn("failed")

	out := buf.String()
	require.NotEmpty(t, out)
	assert.Contains(t, out, `"error":"boom"`)
	assert.Contains(t, out, `"item":"li_1"`)
	assert.Contains(t, out, `"op":"op-1"`)
	assert.Contains(t, out, `"tracks":2`)
}

func TestDiscard(t *testing.T) {
	log := Discard()
	require.NotNil(t, log)
	log.Error("nothing happens")
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"Error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
		"":        slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}
