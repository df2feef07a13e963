package prom

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/goleak"

	"github.com/NetPo4ki/go-siblings/sibling"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestMetricsTrackCounter(t *testing.T) {
	t.Parallel()
	reg := prometheus.NewRegistry()
	m := New(reg, "test")

	obs := sibling.New(sibling.WithHooks(m))
	a := obs.AddSibling()
	b := a.Clone()
	c := obs.AddSibling()
	if got := testutil.ToFloat64(m.active); got != 3 {
		t.Fatalf("expected 3 active, got %v", got)
	}
	a.Close()
	b.Close()
	if got := testutil.ToFloat64(m.active); got != 1 {
		t.Fatalf("expected 1 active, got %v", got)
	}
	obs.Close()
	if got := testutil.ToFloat64(m.released); got != 0 {
		t.Fatal("state released while a token is live")
	}
	c.Close()

	if got := testutil.ToFloat64(m.added); got != 3 {
		t.Fatalf("expected 3 added, got %v", got)
	}
	if got := testutil.ToFloat64(m.removed); got != 3 {
		t.Fatalf("expected 3 removed, got %v", got)
	}
	if got := testutil.ToFloat64(m.released); got != 1 {
		t.Fatalf("expected 1 release, got %v", got)
	}
}

func TestMetricsExposition(t *testing.T) {
	t.Parallel()
	reg := prometheus.NewRegistry()
	m := New(reg, "app")
	tok := sibling.NewToken(sibling.WithHooks(m))
	defer tok.Close()

	want := `
# HELP app_siblings_active Number of live sibling tokens.
# TYPE app_siblings_active gauge
app_siblings_active 1
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(want), "app_siblings_active"); err != nil {
		t.Fatal(err)
	}
	n, err := testutil.GatherAndCount(reg)
	if err != nil {
		t.Fatal(err)
	}
	if n != 5 {
		t.Fatalf("expected 5 metrics, got %d", n)
	}
}

func TestLeakedGaugeDecrement(t *testing.T) {
	t.Parallel()
	m := New(nil, "")
	m.SiblingAdded(1)
	m.SiblingLeaked(0)
	if got := testutil.ToFloat64(m.active); got != 0 {
		t.Fatalf("expected 0 active, got %v", got)
	}
	if got := testutil.ToFloat64(m.leaked); got != 1 {
		t.Fatalf("expected 1 leaked, got %v", got)
	}
}
