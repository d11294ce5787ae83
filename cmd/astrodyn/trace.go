package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-kit/log/level"
	"github.com/spf13/cobra"

	"github.com/san-kum/astrodyn/internal/dynamo"
	"github.com/san-kum/astrodyn/internal/experiment"
)

// runTrace streams every n-th state of a scenario to stdout as CSV without
// storing the run.
func runTrace(cmd *cobra.Command, args []string) error {
	model := args[0]
	cfg, err := resolveScenario(cmd, model)
	if err != nil {
		return err
	}
	if traceEvery < 1 {
		return fmt.Errorf("--every must be at least 1, got %d", traceEvery)
	}
	if cfg.Adaptive {
		level.Warn(logger).Log("msg", "trace ignores adaptive stepping", "dt", cfg.Dt)
	}

	exp := experiment.New(cfg, experiment.WithLogger(logger))
	if err := exp.Setup(); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	w := bufio.NewWriter(os.Stdout)
	defer w.Flush()

	fmt.Fprintf(w, "time,%s\n", strings.Join(experiment.NewRegistry().Slots(model), ","))
	i := 0
	err = exp.Stream(ctx, func(x dynamo.State, t float64) bool {
		if i%traceEvery == 0 {
			w.WriteString(strconv.FormatFloat(t, 'g', -1, 64))
			for _, v := range x {
				w.WriteByte(',')
				w.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
			}
			w.WriteByte('\n')
		}
		i++
		return true
	})
	if dynamo.IsCanceled(err) {
		level.Warn(logger).Log("msg", "trace interrupted", "samples", i)
		return nil
	}
	return err
}
