package main

import (
	"fmt"
	"io"
	"time"

	"ec/internal/buildpipeline"
)

// printStageTimings writes one line per stage that ran, in pipeline order.
func printStageTimings(out io.Writer, timings buildpipeline.Timings) {
	if out == nil {
		return
	}
	for _, stage := range buildpipeline.Stages {
		if !timings.Has(stage) {
			continue
		}
		fmt.Fprintf(out, "%-8s %.1f ms\n", stage, toMillis(timings.Duration(stage)))
	}
	if total := timings.Sum(buildpipeline.Stages...); total > 0 {
		fmt.Fprintf(out, "%-8s %.1f ms\n", "total", toMillis(total))
	}
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
