package slogobs

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"go.uber.org/goleak"

	"github.com/NetPo4ki/go-siblings/sibling"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type record struct {
	Level    string `json:"level"`
	Msg      string `json:"msg"`
	Siblings *int   `json:"siblings"`
}

func decode(t *testing.T, buf *bytes.Buffer) []record {
	t.Helper()
	var out []record
	dec := json.NewDecoder(buf)
	for dec.More() {
		var r record
		if err := dec.Decode(&r); err != nil {
			t.Fatalf("decode log line: %v", err)
		}
		out = append(out, r)
	}
	return out
}

func TestLogsLifecycle(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	l := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tok := sibling.NewToken(sibling.WithHooks(New(l)))
	tok.Clone().Close()
	tok.Close()

	recs := decode(t, &buf)
	want := []struct {
		msg      string
		siblings int
	}{
		{"sibling added", 1},
		{"sibling added", 2},
		{"sibling removed", 1},
		{"sibling removed", 0},
		{"sibling state released", -1},
	}
	if len(recs) != len(want) {
		t.Fatalf("expected %d records, got %d: %+v", len(want), len(recs), recs)
	}
	for i, w := range want {
		r := recs[i]
		if r.Msg != w.msg || r.Level != "DEBUG" {
			t.Fatalf("record %d: got %s %q, want DEBUG %q", i, r.Level, r.Msg, w.msg)
		}
		if w.siblings >= 0 && (r.Siblings == nil || *r.Siblings != w.siblings) {
			t.Fatalf("record %d: expected siblings=%d, got %v", i, w.siblings, r.Siblings)
		}
	}
}

func TestLeakLoggedAtWarn(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	h := New(slog.New(slog.NewJSONHandler(&buf, nil)))
	h.SiblingAdded(1)
	h.SiblingLeaked(0)

	recs := decode(t, &buf)
	if len(recs) != 1 || recs[0].Level != "WARN" || recs[0].Msg != "sibling leaked" {
		t.Fatalf("expected a single WARN leak record, got %+v", recs)
	}
}
