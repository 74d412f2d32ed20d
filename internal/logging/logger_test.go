package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func newBufferedLogger(level Level, jsonFormat bool) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	l := New()
	l.SetOutput(&buf)
	l.SetLevel(level)
	l.SetJSON(jsonFormat)
	return l, &buf
}

func TestLevelFiltering(t *testing.T) {
	cases := []struct {
		name      string
		setLevel  Level
		logLevel  Level
		shouldLog bool
	}{
		{"debug at debug", LevelDebug, LevelDebug, true},
		{"debug at info", LevelInfo, LevelDebug, false},
		{"warn at info", LevelInfo, LevelWarn, true},
		{"info at warn", LevelWarn, LevelInfo, false},
		{"error at warn", LevelWarn, LevelError, true},
		{"warn at error", LevelError, LevelWarn, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			l, buf := newBufferedLogger(c.setLevel, false)
			switch c.logLevel {
			case LevelDebug:
				l.Debug("skipping candidate")
			case LevelInfo:
				l.Info("skipping candidate")
			case LevelWarn:
				l.Warn("skipping candidate")
			case LevelError:
				l.Error("skipping candidate")
			}
			if got := buf.Len() > 0; got != c.shouldLog {
				t.Errorf("shouldLog=%v, output=%q", c.shouldLog, buf.String())
			}
		})
	}
}

func TestJSONOutputCarriesFields(t *testing.T) {
	l, buf := newBufferedLogger(LevelDebug, true)

	l.WithField("op_id", "abc123").Debug("skipping %s: TARGET metafile unreadable", "core/redis/5.0.1/20180704142702")

	var entry Entry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if entry.Level != "DEBUG" {
		t.Errorf("level = %q, want DEBUG", entry.Level)
	}
	if !strings.Contains(entry.Message, "core/redis/5.0.1/20180704142702") {
		t.Errorf("message = %q", entry.Message)
	}
	if entry.Fields["op_id"] != "abc123" {
		t.Errorf("op_id field = %v", entry.Fields["op_id"])
	}
	if entry.Timestamp == "" {
		t.Error("timestamp missing")
	}
}

func TestTextOutput(t *testing.T) {
	l, buf := newBufferedLogger(LevelInfo, false)

	l.WithField("op_id", "abc123").Info("resolved %s", "core/redis")

	out := buf.String()
	if !strings.Contains(out, "[INFO]") || !strings.Contains(out, "resolved core/redis") {
		t.Errorf("unexpected output: %s", out)
	}
	if !strings.Contains(out, "op_id=abc123") {
		t.Errorf("expected op_id field in output: %s", out)
	}
}

func TestWithFieldsDoesNotMutateParent(t *testing.T) {
	l, buf := newBufferedLogger(LevelInfo, true)

	derived := l.WithFields(map[string]interface{}{"op_id": "abc123", "command": "resolve"})

	l.Info("from parent")
	var entry Entry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatal(err)
	}
	if entry.Fields != nil {
		t.Errorf("parent logger gained fields: %v", entry.Fields)
	}

	buf.Reset()
	derived.Info("from derived")
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatal(err)
	}
	if entry.Fields["op_id"] != "abc123" || entry.Fields["command"] != "resolve" {
		t.Errorf("derived logger fields = %v", entry.Fields)
	}
}

func TestDefaultLoggerCarriesInstalledFields(t *testing.T) {
	l, buf := newBufferedLogger(LevelDebug, true)
	prev := Default()
	defer SetDefault(prev)

	// The cmd/habpkg pattern: derive once with an op_id, install as the
	// process default, and every package-level call carries it.
	SetDefault(l.WithField("op_id", "abc123"))
	Debug("skipping %s: invalid identifier", "a/b/1.0.0/bogus")

	var entry Entry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatal(err)
	}
	if entry.Fields["op_id"] != "abc123" {
		t.Errorf("op_id = %v, want abc123", entry.Fields["op_id"])
	}
}

func TestParseLevel(t *testing.T) {
	cases := []struct {
		input string
		want  Level
	}{
		{"DEBUG", LevelDebug},
		{"debug", LevelDebug},
		{"INFO", LevelInfo},
		{"warn", LevelWarn},
		{"WARNING", LevelWarn},
		{"error", LevelError},
		{"bogus", LevelInfo},
		{"", LevelInfo},
	}
	for _, c := range cases {
		if got := ParseLevel(c.input); got != c.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestLevelString(t *testing.T) {
	cases := map[Level]string{
		LevelDebug: "DEBUG",
		LevelInfo:  "INFO",
		LevelWarn:  "WARN",
		LevelError: "ERROR",
		Level(99):  "UNKNOWN",
	}
	for level, want := range cases {
		if got := level.String(); got != want {
			t.Errorf("Level(%d).String() = %q, want %q", level, got, want)
		}
	}
}
