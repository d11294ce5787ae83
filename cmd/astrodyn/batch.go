package main

import (
	"fmt"

	"github.com/go-kit/log/level"
	"github.com/spf13/cobra"

	"github.com/san-kum/astrodyn/internal/automation"
	"github.com/san-kum/astrodyn/internal/experiment"
	"github.com/san-kum/astrodyn/internal/storage"
)

func runBatch(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	results, runErr := automation.RunScenario(ctx, sc, logger)

	reg := experiment.NewRegistry()
	w := newTabWriter()
	fmt.Fprintln(w, "STEP\tMODEL\tRUN ID\tSTEPS")
	for _, r := range results {
		cfg := r.Step.Config
		id, err := st.Save(storage.RunMetadata{
			Model:      cfg.Model,
			Preset:     r.Step.Preset,
			Seed:       cfg.Seed,
			Dt:         cfg.Dt,
			Duration:   cfg.Duration,
			Adaptive:   cfg.Adaptive,
			Integrator: cfg.Integrator,
			Controller: cfg.Controller,
			EpochJD:    cfg.EpochJD(),
			Slots:      reg.Slots(cfg.Model),
		}, r.Result)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", r.Step.Name, cfg.Model, id, r.Result.StepsTaken)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if runErr != nil {
		level.Error(logger).Log("msg", "scenario stopped", "scenario", sc.Name, "completed", len(results), "of", len(sc.Steps))
		return runErr
	}
	return nil
}
