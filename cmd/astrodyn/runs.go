package main

import (
	"fmt"
	"os"

	"github.com/go-kit/log/level"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/astrodyn/internal/analysis"
	"github.com/san-kum/astrodyn/internal/export"
	"github.com/san-kum/astrodyn/internal/storage"
)

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := newTabWriter()
	fmt.Fprintln(w, "ID\tMODEL\tTIME\tDURATION\tDT\tINTEG\tCTRL\tSTEPS")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.1fs\t%.4gs\t%s\t%s\t%d\n",
			run.ID,
			run.Model,
			run.Timestamp.Local().Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Integrator,
			run.Controller,
			run.Steps,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	result, meta, err := st.LoadResult(runID)
	if err != nil {
		return err
	}
	if len(result.States) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("model: %s\n", meta.Model)
	fmt.Printf("samples: %d\n\n", len(result.States))

	for varIdx, name := range meta.Slots {
		data := make([]float64, len(result.States))
		for i, x := range result.States {
			data[i] = x[varIdx]
		}

		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(plotWidth),
			asciigraph.Caption(fmt.Sprintf("%s vs time (%.0f s)", name, meta.Duration)),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	switch exportFormat {
	case "json":
		return st.Export(os.Stdout, args[0])
	case "svg":
	default:
		return fmt.Errorf("unknown export format: %s", exportFormat)
	}

	result, meta, err := st.LoadResult(args[0])
	if err != nil {
		return err
	}

	switch exportView {
	case "track":
		if len(meta.Slots) < 6 {
			return fmt.Errorf("model %s has no ground track", meta.Model)
		}
		return export.GroundTrackSVG(os.Stdout, export.GroundTrack(result.States, result.Times), 720, 360, "#00ff00")
	case "plane":
		return export.TrajectorySVG(os.Stdout, export.Plane(result.States), 600, 600, "#00bfff")
	case "series":
		if exportSlot < 0 || exportSlot >= len(meta.Slots) {
			return fmt.Errorf("slot %d out of range [0, %d)", exportSlot, len(meta.Slots))
		}
		return export.TrajectorySVG(os.Stdout, export.Series(result.States, result.Times, exportSlot), 800, 300, "#ffaa00")
	default:
		return fmt.Errorf("unknown view: %s", exportView)
	}
}

func periodRun(cmd *cobra.Command, args []string) error {
	result, meta, err := storage.New(dataDir).LoadResult(args[0])
	if err != nil {
		return err
	}
	n := len(result.Times)
	if n < 4 {
		return fmt.Errorf("run %s has %d samples, need at least 4", meta.ID, n)
	}
	if meta.Adaptive {
		level.Warn(logger).Log("msg", "adaptive run, samples are not evenly spaced", "run", meta.ID)
	}
	step := (result.Times[n-1] - result.Times[0]) / float64(n-1)

	w := newTabWriter()
	fmt.Fprintln(w, "SLOT\tPERIOD (s)")
	for idx, name := range meta.Slots {
		data := make([]float64, n)
		for i, x := range result.States {
			data[i] = x[idx]
		}
		p, err := analysis.DominantPeriod(data, step)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%.1f\n", name, p)
	}
	return w.Flush()
}
