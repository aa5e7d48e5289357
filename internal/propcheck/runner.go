package propcheck

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"swiftcore/internal/trace"
	"swiftcore/swift"
)

// Runner checks properties in parallel, one goroutine per property.
type Runner struct {
	Seed       uint64
	Iterations int
	MaxSize    int
	Jobs       int
	// Tracer overrides the tracer carried by the run context.
	Tracer trace.Tracer
	// Corpus receives every failure when set.
	Corpus *Corpus

	cases  atomic.Int64
	failed atomic.Int64
}

// Progress summarizes the cases run so far. Safe to call while running.
func (r *Runner) Progress() string {
	return fmt.Sprintf("cases=%d failed=%d", r.cases.Load(), r.failed.Load())
}

func (r *Runner) tracingContext(ctx context.Context) context.Context {
	if r.Tracer != nil {
		return trace.WithTracer(ctx, r.Tracer)
	}
	return ctx
}

// sizeFor ramps the collection size up over the run so early cases are small.
func (r *Runner) sizeFor(i int) int {
	if r.Iterations <= 1 {
		return r.MaxSize
	}
	return r.MaxSize * (i + 1) / r.Iterations
}

func emit(sink ProgressSink, ev Event) {
	if sink != nil {
		sink.OnEvent(ev)
	}
}

// Run checks every property for r.Iterations cases. Results keep the order
// of props. The returned error reports cancellation or corpus failures; a
// failing property is reported in the Report, not as an error.
func (r *Runner) Run(ctx context.Context, props []Property, sink ProgressSink) (*Report, error) {
	start := time.Now()
	runSpan, ctx := trace.BeginCtx(r.tracingContext(ctx), trace.ScopeRun, "check")
	runSpan.WithExtra("seed", strconv.FormatUint(r.Seed, 10)).
		WithExtra("properties", strconv.Itoa(len(props)))

	report := &Report{Seed: r.Seed, Results: make([]Result, len(props))}
	for _, p := range props {
		emit(sink, Event{Property: p.Name, Status: StatusQueued, Total: r.Iterations})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(r.Jobs, len(props))))
	for i, p := range props {
		g.Go(func() error {
			// Each goroutine writes to its own index; no mutex needed
			if err := gctx.Err(); err != nil {
				report.Results[i] = Result{Property: p.Name, Status: StatusSkipped}
				emit(sink, Event{Property: p.Name, Status: StatusSkipped, Total: r.Iterations})
				return err
			}
			report.Results[i] = r.runProperty(gctx, p, sink)
			return nil
		})
	}
	err := g.Wait()
	report.Elapsed = time.Since(start)

	var saveErrs []error
	for _, f := range report.Failures() {
		if serr := r.Corpus.Save(f); serr != nil {
			saveErrs = append(saveErrs, fmt.Errorf("save %s: %w", f.Key(), serr))
		}
	}
	runSpan.End(fmt.Sprintf("failed=%d", len(report.Failures())))
	return report, errors.Join(err, errors.Join(saveErrs...))
}

func (r *Runner) runProperty(ctx context.Context, p Property, sink ProgressSink) Result {
	span, caseCtx := trace.BeginCtx(ctx, trace.ScopeProperty, p.Name)
	start := time.Now()
	emit(sink, Event{Property: p.Name, Status: StatusRunning, Total: r.Iterations})

	res := Result{Property: p.Name, Status: StatusPassed}
	for i := range r.Iterations {
		if ctx.Err() != nil {
			res.Status = StatusSkipped
			break
		}
		seed := CaseSeed(r.Seed, p.Name, i)
		size := r.sizeFor(i)
		caseSpan, _ := trace.BeginCtx(caseCtx, trace.ScopeCase, p.Name)
		caseSpan.WithExtra("case", strconv.Itoa(i)).WithExtra("size", strconv.Itoa(size))
		err := RunCase(p, NewGen(seed, size))
		res.Cases++
		r.cases.Add(1)
		if err == nil {
			caseSpan.End("ok")
			continue
		}
		caseSpan.End("failed")
		f := r.shrink(p, seed, size, err)
		f.Case = i
		span.Fail(trace.FromContext(ctx), f.Error())
		r.failed.Add(1)
		res.Status = StatusFailed
		res.Failure = f
		break
	}
	res.Elapsed = time.Since(start)
	span.End(string(res.Status))

	ev := Event{Property: p.Name, Status: res.Status, Case: res.Cases, Total: r.Iterations, Elapsed: res.Elapsed}
	if res.Failure != nil {
		ev.Err = res.Failure
	}
	emit(sink, ev)
	return res
}

// shrink replays the failing seed at smaller sizes and keeps the smallest
// size that still fails.
func (r *Runner) shrink(p Property, seed uint64, size int, err error) *Failure {
	for s := range size {
		if serr := RunCase(p, NewGen(seed, s)); serr != nil {
			size, err = s, serr
			break
		}
	}
	return newFailure(p.Name, r.Seed, seed, size, err)
}

// Replay reruns recorded failures. A replayed case that now passes is
// reported as passed.
func (r *Runner) Replay(ctx context.Context, failures []*Failure, sink ProgressSink) (*Report, error) {
	start := time.Now()
	runSpan, ctx := trace.BeginCtx(r.tracingContext(ctx), trace.ScopeRun, "replay")
	runSpan.WithExtra("entries", strconv.Itoa(len(failures)))
	tr := trace.FromContext(ctx)
	report := &Report{Seed: r.Seed, Results: make([]Result, 0, len(failures))}

	var errs []error
	for _, f := range failures {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		p, ok := Lookup(f.Property)
		if !ok {
			errs = append(errs, fmt.Errorf("corpus entry %s: unknown property %q", f.Key(), f.Property))
			continue
		}
		emit(sink, Event{Property: p.Name, Status: StatusRunning, Total: 1})
		span, _ := trace.BeginCtx(ctx, trace.ScopeProperty, p.Name)
		span.WithExtra("seed", strconv.FormatUint(f.Seed, 10))
		caseStart := time.Now()
		res := Result{Property: p.Name, Cases: 1, Status: StatusPassed}
		r.cases.Add(1)
		if err := RunCase(p, NewGen(f.Seed, f.Size)); err != nil {
			r.failed.Add(1)
			nf := newFailure(p.Name, f.RunSeed, f.Seed, f.Size, err)
			nf.Case = f.Case
			span.Fail(tr, nf.Error())
			res.Status = StatusFailed
			res.Failure = nf
		}
		res.Elapsed = time.Since(caseStart)
		span.End(string(res.Status))

		ev := Event{Property: p.Name, Status: res.Status, Case: 1, Total: 1, Elapsed: res.Elapsed}
		if res.Failure != nil {
			ev.Err = res.Failure
		}
		emit(sink, ev)
		report.Results = append(report.Results, res)
	}
	report.Elapsed = time.Since(start)
	runSpan.End(fmt.Sprintf("failed=%d", len(report.Failures())))
	return report, errors.Join(errs...)
}

// RunCase evaluates one case. Core panics and foreign panics both become
// errors.
func RunCase(p Property, g *Gen) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
		}
	}()
	var checkErr error
	if perr := swift.Try(func() { checkErr = p.Check(g) }); perr != nil {
		return perr
	}
	return checkErr
}
