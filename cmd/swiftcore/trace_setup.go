package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"swiftcore/internal/trace"
	"swiftcore/swift"
)

// setupTracing merges trace flags over the configuration and installs the
// tracer on the command context and on the swift storage hooks. progress
// feeds the heartbeat detail. The returned cleanup stops the heartbeat and
// closes the tracer.
func setupTracing(cmd *cobra.Command, progress func() string) (trace.Tracer, func(), error) {
	flags := cmd.Root().PersistentFlags()
	tc := cfg.Trace

	if flags.Changed("trace") {
		out, err := flags.GetString("trace")
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get trace flag: %w", err)
		}
		tc.Output = out
		// An explicit output without a level means "trace the run".
		if !flags.Changed("trace-level") && tc.Level == "off" {
			tc.Level = trace.LevelRun.String()
		}
	}
	if flags.Changed("trace-level") {
		lvl, err := flags.GetString("trace-level")
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get trace-level flag: %w", err)
		}
		tc.Level = lvl
	}
	if flags.Changed("trace-mode") {
		mode, err := flags.GetString("trace-mode")
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get trace-mode flag: %w", err)
		}
		tc.Mode = mode
	}
	if flags.Changed("trace-ring-size") {
		n, err := flags.GetInt("trace-ring-size")
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get trace-ring-size flag: %w", err)
		}
		tc.RingSize = n
	}
	if flags.Changed("trace-heartbeat") {
		d, err := flags.GetDuration("trace-heartbeat")
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get trace-heartbeat flag: %w", err)
		}
		tc.Heartbeat = d
	}

	level, err := trace.ParseLevel(tc.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid trace level: %w", err)
	}
	if level == trace.LevelOff {
		cmd.SetContext(trace.WithTracer(cmd.Context(), trace.Nop))
		return trace.Nop, func() {}, nil
	}
	mode, err := trace.ParseMode(tc.Mode)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid trace mode: %w", err)
	}

	tracer, err := trace.New(trace.Config{
		Level:      level,
		Mode:       mode,
		OutputPath: tc.Output,
		RingSize:   tc.RingSize,
		Heartbeat:  tc.Heartbeat,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create tracer: %w", err)
	}
	cmd.SetContext(trace.WithTracer(cmd.Context(), tracer))
	swift.SetTracer(tracer)

	heartbeat := trace.StartHeartbeat(tracer, tc.Heartbeat, progress)
	cleanup := func() {
		if heartbeat != nil {
			heartbeat.Stop()
		}
		swift.SetTracer(nil)
		if err := tracer.Flush(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: flush error: %v\n", err)
		}
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: close error: %v\n", err)
		}
	}
	return tracer, cleanup, nil
}

// dumpRing writes the ring buffer, if the tracer keeps one, after a failed
// run.
func dumpRing(w io.Writer, t trace.Tracer) {
	var ring *trace.RingTracer
	switch rt := t.(type) {
	case *trace.RingTracer:
		ring = rt
	case *trace.MultiTracer:
		ring = rt.Ring()
	}
	if ring == nil {
		return
	}
	fmt.Fprintln(w, "--- trace ring ---")
	if err := ring.DumpFailures(w, trace.FormatText); err != nil {
		fmt.Fprintf(w, "trace: dump error: %v\n", err)
	}
}
