package propcheck_test

import (
	"context"
	"errors"
	"testing"

	"swiftcore/internal/propcheck"
)

func TestCorpusSaveListReplayClear(t *testing.T) {
	c, err := propcheck.OpenCorpus(t.TempDir())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	failing := propcheck.Property{
		Name:  "always-fails",
		Check: func(*propcheck.Gen) error { return errors.New("no") },
	}
	r := &propcheck.Runner{Seed: 9, Iterations: 4, MaxSize: 4, Jobs: 1, Corpus: c}
	if _, err := r.Run(context.Background(), []propcheck.Property{failing}, nil); err != nil {
		t.Fatalf("run: %v", err)
	}
	entries, err := c.List()
	if err != nil || len(entries) != 1 {
		t.Fatalf("list = %v, %v", entries, err)
	}
	f := entries[0]
	if f.Property != "always-fails" || f.Size != 0 || f.RunSeed != 9 {
		t.Fatalf("entry = %+v", f)
	}
	loaded, err := c.Load(f.Key())
	if err != nil || loaded.Seed != f.Seed {
		t.Fatalf("load = %+v, %v", loaded, err)
	}

	// Unregistered properties cannot be replayed.
	if _, err := r.Replay(context.Background(), entries, nil); err == nil {
		t.Fatalf("replay of unknown property succeeded")
	}

	fixed := *f
	fixed.Property = "set-algebra"
	if err := c.Save(&fixed); err != nil {
		t.Fatalf("save: %v", err)
	}
	report, err := r.Replay(context.Background(), []*propcheck.Failure{&fixed}, nil)
	if err != nil || report.Failed() || len(report.Results) != 1 {
		t.Fatalf("replay = %+v, %v", report, err)
	}

	n, err := c.Clear()
	if err != nil || n != 2 {
		t.Fatalf("clear = %d, %v", n, err)
	}
	if entries, _ := c.List(); len(entries) != 0 {
		t.Fatalf("entries after clear: %v", entries)
	}
	if err := c.Remove("missing"); err != nil {
		t.Fatalf("remove missing: %v", err)
	}
}
