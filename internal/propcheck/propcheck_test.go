package propcheck_test

import (
	"context"
	"errors"
	"slices"
	"testing"

	"swiftcore/internal/propcheck"
	"swiftcore/internal/trace"
	"swiftcore/swift"
)

func TestRegistryHolds(t *testing.T) {
	r := &propcheck.Runner{Seed: 1, Iterations: 40, MaxSize: 16, Jobs: 4}
	report, err := r.Run(context.Background(), propcheck.All(), nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, res := range report.Results {
		if res.Status != propcheck.StatusPassed {
			t.Fatalf("%s: %s after %d cases: %v", res.Property, res.Status, res.Cases, res.Failure)
		}
		if res.Cases != 40 {
			t.Fatalf("%s ran %d cases", res.Property, res.Cases)
		}
	}
}

func TestSelect(t *testing.T) {
	tests := []struct {
		name    string
		names   []string
		want    []string
		wantErr bool
	}{
		{"all", nil, nil, false},
		{"subset", []string{"set-algebra", "open-slice"}, []string{"set-algebra", "open-slice"}, false},
		{"dedup", []string{"open-slice", "open-slice"}, []string{"open-slice"}, false},
		{"unknown", []string{"open-slice", "nope"}, nil, true},
	}
	for _, tt := range tests {
		props, err := propcheck.Select(tt.names)
		if (err != nil) != tt.wantErr {
			t.Fatalf("%s: err = %v", tt.name, err)
		}
		if tt.wantErr {
			continue
		}
		if tt.want == nil {
			if len(props) != len(propcheck.All()) {
				t.Fatalf("%s: selected %d properties", tt.name, len(props))
			}
			continue
		}
		var got []string
		for _, p := range props {
			got = append(got, p.Name)
		}
		if !slices.Equal(got, tt.want) {
			t.Fatalf("%s: got %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestGenIsDeterministic(t *testing.T) {
	a, b := propcheck.NewGen(99, 8), propcheck.NewGen(99, 8)
	if !a.IntArray().Equal(b.IntArray()) || !a.Dictionary().Equal(b.Dictionary()) {
		t.Fatalf("generators with equal seeds diverged")
	}
	if propcheck.CaseSeed(1, "x", 0) == propcheck.CaseSeed(1, "x", 1) ||
		propcheck.CaseSeed(1, "x", 0) == propcheck.CaseSeed(1, "y", 0) {
		t.Fatalf("case seeds collide")
	}
	for range 50 {
		if n := propcheck.NewGen(3, 5).IntArray().Count(); n > 5 {
			t.Fatalf("array of %d elements exceeds size 5", n)
		}
	}
}

func TestFailureIsShrunk(t *testing.T) {
	prop := propcheck.Property{
		Name: "small-only",
		Check: func(g *propcheck.Gen) error {
			if g.Size() >= 3 {
				return errors.New("too big")
			}
			return nil
		},
	}
	r := &propcheck.Runner{Seed: 5, Iterations: 10, MaxSize: 10, Jobs: 1}
	report, err := r.Run(context.Background(), []propcheck.Property{prop}, nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !report.Failed() {
		t.Fatalf("failure not reported")
	}
	f := report.Results[0].Failure
	if f.Size != 3 || f.Case != 2 || f.Message != "too big" {
		t.Fatalf("failure = %+v", f)
	}
	if f.Seed != propcheck.CaseSeed(5, "small-only", 2) {
		t.Fatalf("failure seed %d does not match case seed", f.Seed)
	}
}

func TestCorePanicBecomesFailure(t *testing.T) {
	prop := propcheck.Property{
		Name: "out-of-bounds",
		Check: func(g *propcheck.Gen) error {
			swift.ArrayOf(1).At(5)
			return nil
		},
	}
	err := propcheck.RunCase(prop, propcheck.NewGen(1, 1))
	if !errors.Is(err, swift.ErrOutOfBounds) {
		t.Fatalf("RunCase = %v", err)
	}

	foreign := propcheck.Property{Name: "foreign", Check: func(*propcheck.Gen) error { panic("boom") }}
	if err := propcheck.RunCase(foreign, propcheck.NewGen(1, 1)); err == nil {
		t.Fatalf("foreign panic not reported")
	}

	r := &propcheck.Runner{Seed: 1, Iterations: 3, MaxSize: 2, Jobs: 2}
	report, _ := r.Run(context.Background(), []propcheck.Property{prop, foreign}, nil)
	if got := report.Failures(); len(got) != 2 || got[0].Code != "SW2001" || got[1].Code != "" {
		t.Fatalf("failures = %+v", got)
	}
}

func TestEventsAndSpans(t *testing.T) {
	ch := make(chan propcheck.Event, 64)
	ring := trace.NewRingTracer(256, trace.LevelCase)
	props, _ := propcheck.Select([]string{"literal-round-trip"})
	r := &propcheck.Runner{Seed: 2, Iterations: 5, MaxSize: 4, Jobs: 1, Tracer: ring}
	if _, err := r.Run(context.Background(), props, propcheck.ChannelSink{Ch: ch}); err != nil {
		t.Fatalf("run: %v", err)
	}
	close(ch)
	var statuses []propcheck.Status
	for ev := range ch {
		statuses = append(statuses, ev.Status)
	}
	want := []propcheck.Status{propcheck.StatusQueued, propcheck.StatusRunning, propcheck.StatusPassed}
	if !slices.Equal(statuses, want) {
		t.Fatalf("statuses = %v", statuses)
	}
	if n := len(ring.Filter(trace.ScopeCase)); n == 0 {
		t.Fatalf("no case spans traced")
	}
	if n := len(ring.Filter(trace.ScopeProperty)); n == 0 {
		t.Fatalf("no property spans traced")
	}
}

func TestCanceledRunSkips(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := &propcheck.Runner{Seed: 1, Iterations: 5, MaxSize: 4, Jobs: 2}
	report, err := r.Run(ctx, propcheck.All(), nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v", err)
	}
	for _, res := range report.Results {
		if res.Status != propcheck.StatusSkipped {
			t.Fatalf("%s: %s", res.Property, res.Status)
		}
	}
}
