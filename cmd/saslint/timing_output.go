package main

import (
	"fmt"
	"io"
	"time"

	"saslint/internal/pipeline"
)

// printStageTimings writes the summed wall time of every recorded stage.
func printStageTimings(out io.Writer, timings pipeline.Timings, files int) error {
	if out == nil {
		return nil
	}
	for _, st := range pipeline.Stages {
		if !timings.Has(st) {
			continue
		}
		if _, err := fmt.Fprintf(out, "%-7s %.1f ms\n", st, toMillis(timings.Duration(st))); err != nil {
			return err
		}
	}
	total := timings.Sum(pipeline.Stages...)
	_, err := fmt.Fprintf(out, "linted %d file(s) in %.1f ms\n", files, toMillis(total))
	return err
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
