package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/go-kit/log/level"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/spf13/cobra"

	"github.com/san-kum/astrodyn/internal/config"
	"github.com/san-kum/astrodyn/internal/dynamo"
	"github.com/san-kum/astrodyn/internal/experiment"
	"github.com/san-kum/astrodyn/internal/models"
	"github.com/san-kum/astrodyn/internal/storage"
	"github.com/san-kum/astrodyn/internal/tui"
)

func runSimulation(cmd *cobra.Command, args []string) error {
	model := args[0]
	cfg, err := resolveScenario(cmd, model)
	if err != nil {
		return err
	}
	if saveConfig != "" {
		if err := config.Save(saveConfig, cfg); err != nil {
			return fmt.Errorf("save config: %w", err)
		}
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	exp := experiment.New(cfg, experiment.WithLogger(logger), experiment.WithRegisterer(reg))
	if err := exp.Setup(); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("running %s simulation...\n", model)
	start := time.Now()

	result, err := exp.Run(ctx)
	if err != nil && !dynamo.IsCanceled(err) {
		return err
	}
	if err != nil {
		level.Warn(logger).Log("msg", "run interrupted, storing partial result", "err", err)
	}

	elapsed := time.Since(start)

	runID, err := st.Save(storage.RunMetadata{
		Model:      model,
		Preset:     preset,
		Seed:       cfg.Seed,
		Dt:         cfg.Dt,
		Duration:   cfg.Duration,
		Adaptive:   cfg.Adaptive,
		Integrator: cfg.Integrator,
		Controller: cfg.Controller,
		EpochJD:    cfg.EpochJD(),
		Slots:      experiment.NewRegistry().Slots(model),
	}, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	if x, t := result.Final(); x != nil {
		fmt.Printf("final t: %.3f s\n", t)
	}
	for _, e := range result.Errors {
		fmt.Printf("error: %v\n", e)
	}

	fmt.Println("\nmetrics:")
	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, result.Metrics[name])
	}

	fmt.Println("\nprometheus:")
	return printGathered(os.Stdout, reg)
}

// printGathered writes every gathered series in a compact one-line form.
func printGathered(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			fmt.Fprintf(w, "  %s%s %s\n", mf.GetName(), formatLabels(m.GetLabel()), formatValue(mf.GetType(), m))
		}
	}
	return nil
}

func formatLabels(labels []*dto.LabelPair) string {
	if len(labels) == 0 {
		return ""
	}
	parts := make([]string, len(labels))
	for i, l := range labels {
		parts[i] = fmt.Sprintf("%s=%q", l.GetName(), l.GetValue())
	}
	return "{" + strings.Join(parts, ",") + "}"
}

func formatValue(t dto.MetricType, m *dto.Metric) string {
	switch t {
	case dto.MetricType_COUNTER:
		return fmt.Sprintf("%g", m.GetCounter().GetValue())
	case dto.MetricType_GAUGE:
		return fmt.Sprintf("%g", m.GetGauge().GetValue())
	case dto.MetricType_HISTOGRAM:
		h := m.GetHistogram()
		mean := 0.0
		if h.GetSampleCount() > 0 {
			mean = h.GetSampleSum() / float64(h.GetSampleCount())
		}
		return fmt.Sprintf("count=%d mean=%g", h.GetSampleCount(), mean)
	default:
		return "-"
	}
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	model := args[0]
	cfg, err := resolveScenario(cmd, model)
	if err != nil {
		return err
	}

	reg := experiment.NewRegistry()
	slots := reg.Slots(model)
	sigma := make([]float64, len(slots))
	if len(slots) == len(models.OrbitSlots) {
		for i := 0; i < 3; i++ {
			sigma[i] = sigmaPos
			sigma[i+3] = sigmaVel
		}
	} else if len(sigma) > 0 {
		sigma[0] = sigmaPos
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("running %d %s simulations...\n", runs, model)
	start := time.Now()
	results, err := experiment.RunEnsemble(ctx, cfg, runs, sigma, experiment.WithLogger(logger))
	if err != nil {
		return err
	}
	fmt.Printf("completed in %v\n\n", time.Since(start))

	w := newTabWriter()
	fmt.Fprintln(w, "SLOT\tMEAN\tSTD")
	for j, name := range slots {
		mean, std := experiment.Spread(results, j)
		fmt.Fprintf(w, "%s\t%.6g\t%.6g\n", name, mean, std)
	}
	return w.Flush()
}

func runLive(cmd *cobra.Command, args []string) error {
	model := args[0]
	cfg, err := resolveScenario(cmd, model)
	if err != nil {
		return err
	}

	exp := experiment.New(cfg, experiment.WithLogger(logger))
	if err := exp.Setup(); err != nil {
		return err
	}
	x0, err := exp.InitialState()
	if err != nil {
		return err
	}

	reg := experiment.NewRegistry()
	dyn := exp.Model()
	integ, err := reg.GetIntegrator(cfg.Integrator)
	if err != nil {
		return err
	}
	ctrl, err := reg.GetController(cfg.Controller, cfg.GetControllerParams(dyn.ControlDim()))
	if err != nil {
		return err
	}

	c, err := dynamo.NewContainer(dyn, integ, x0, reg.Slots(model)...)
	if err != nil {
		return err
	}

	var alt func(dynamo.State, float64) float64
	if a, ok := dyn.(experiment.Altimeter); ok {
		alt = a.AltitudeAt
	}
	return tui.Run(tui.NewModel(c, ctrl, cfg.Dt, model, alt))
}
