package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ec/internal/trace"
)

var (
	activeTracer   trace.Tracer = trace.Nop
	traceOutput    string
	traceHeartbeat *trace.Heartbeat
)

// setupTracing inspects trace-related flags and attaches a tracer to the
// command context.
func setupTracing(cmd *cobra.Command) error {
	root := cmd.Root()

	output, err := root.PersistentFlags().GetString("trace")
	if err != nil {
		return fmt.Errorf("failed to get trace flag: %w", err)
	}
	levelStr, err := root.PersistentFlags().GetString("trace-level")
	if err != nil {
		return fmt.Errorf("failed to get trace-level flag: %w", err)
	}
	modeStr, err := root.PersistentFlags().GetString("trace-mode")
	if err != nil {
		return fmt.Errorf("failed to get trace-mode flag: %w", err)
	}
	ringSize, err := root.PersistentFlags().GetInt("trace-ring-size")
	if err != nil {
		return fmt.Errorf("failed to get trace-ring-size flag: %w", err)
	}
	heartbeatInterval, err := root.PersistentFlags().GetDuration("trace-heartbeat")
	if err != nil {
		return fmt.Errorf("failed to get trace-heartbeat flag: %w", err)
	}

	level, err := trace.ParseLevel(levelStr)
	if err != nil {
		return err
	}
	// --trace alone means phase-level stream output
	if level == trace.LevelOff && output != "" {
		level = trace.LevelPhase
	}
	if level == trace.LevelOff {
		cmd.SetContext(trace.WithTracer(cmd.Context(), trace.Nop))
		return nil
	}
	mode, err := trace.ParseMode(modeStr)
	if err != nil {
		return err
	}

	tracer, err := trace.New(trace.Config{
		Level:      level,
		Mode:       mode,
		OutputPath: output,
		RingSize:   ringSize,
		Heartbeat:  heartbeatInterval,
	})
	if err != nil {
		return fmt.Errorf("failed to create tracer: %w", err)
	}
	activeTracer = tracer
	traceOutput = output

	ctx := trace.WithTracer(cmd.Context(), tracer)
	cmd.SetContext(ctx)
	traceHeartbeat = trace.StartHeartbeat(tracer, heartbeatInterval)
	return nil
}

// finishTracing stops the heartbeat and flushes the tracer. When the command
// failed and the tracer keeps a ring, the ring is dumped so the stage history
// leading to the failure is not lost.
func finishTracing(cmdErr error) {
	traceHeartbeat.Stop()
	if cmdErr != nil {
		if err := dumpRing(activeTracer, traceOutput); err != nil {
			fmt.Fprintf(os.Stderr, "trace: dump error: %v\n", err)
		}
	}
	if err := activeTracer.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "trace: flush error: %v\n", err)
	}
	if err := activeTracer.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "trace: close error: %v\n", err)
	}
}

// dumpRing writes the ring behind tracer. A ring-only tracer dumps to the
// trace output; a ring next to a stream dumps to stderr, unless the stream
// already went there.
func dumpRing(tracer trace.Tracer, output string) error {
	ring := trace.RingOf(tracer)
	if ring == nil {
		return nil
	}
	toStderr := output == "" || output == "-"
	ringOnly := trace.Tracer(ring) == tracer
	if !ringOnly && toStderr {
		return nil
	}
	if !ringOnly || toStderr {
		return ring.Dump(os.Stderr, trace.FormatText)
	}
	f, err := os.Create(output)
	if err != nil {
		return err
	}
	if err := ring.Dump(f, trace.FormatForPath(output)); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
