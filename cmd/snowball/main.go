package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/snowball/internal/analysis"
	"github.com/san-kum/snowball/internal/climate"
	"github.com/san-kum/snowball/internal/config"
	"github.com/san-kum/snowball/internal/export"
	"github.com/san-kum/snowball/internal/solver"
	"github.com/san-kum/snowball/internal/storage"
	"github.com/san-kum/snowball/internal/sweep"
	"github.com/san-kum/snowball/internal/viz"
)

var (
	dataDir string

	initialTemp     float64
	solarMultiplier float64
	maxIterations   int
	tolerance       float64
	stepFactor      float64

	tMin    float64
	tMax    float64
	samples int

	sweepMin   float64
	sweepMax   float64
	sweepSteps int
	warmSeed   float64
	coldSeed   float64
	policyName string
	refine     bool

	svgPath    string
	configFile string
	preset     string
	frameRate  int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "snowball",
		Short: "snowball earth energy balance lab",
		Long: "A zero-dimensional energy balance model of the ice-albedo feedback:\n" +
			"find climate equilibria, sweep the solar constant, and locate the\n" +
			"Snowball Earth threshold.",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".snowball", "data directory")

	equilibriumCmd := &cobra.Command{
		Use:   "equilibrium",
		Short: "find an equilibrium temperature",
		RunE:  runEquilibrium,
	}
	addSolverFlags(equilibriumCmd)

	balanceCmd := &cobra.Command{
		Use:   "balance [temperature...]",
		Short: "tabulate the energy balance at given temperatures",
		RunE:  runBalance,
	}
	balanceCmd.Flags().Float64Var(&solarMultiplier, "solar", 1.0, "solar constant multiplier")

	curveCmd := &cobra.Command{
		Use:   "curve",
		Short: "plot the balance curve and its equilibria",
		RunE:  runCurve,
	}
	curveCmd.Flags().Float64Var(&solarMultiplier, "solar", 1.0, "solar constant multiplier")
	curveCmd.Flags().Float64Var(&tMin, "tmin", analysis.DefaultTMin, "lowest temperature (K)")
	curveCmd.Flags().Float64Var(&tMax, "tmax", analysis.DefaultTMax, "highest temperature (K)")
	curveCmd.Flags().IntVar(&samples, "samples", analysis.DefaultSamples, "number of samples")
	curveCmd.Flags().StringVar(&svgPath, "svg", "", "write an SVG rendering to this path")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep the solar multiplier and find the Snowball threshold",
		RunE:  runSweep,
	}
	sweepCmd.Flags().Float64Var(&sweepMin, "min", sweep.DefaultMinMultiplier, "lowest solar multiplier")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", sweep.DefaultMaxMultiplier, "highest solar multiplier")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", sweep.DefaultSteps, "number of multipliers")
	sweepCmd.Flags().Float64Var(&warmSeed, "warm-seed", sweep.DefaultWarmSeed, "warm initial temperature (K)")
	sweepCmd.Flags().Float64Var(&coldSeed, "cold-seed", sweep.DefaultColdSeed, "cold initial temperature (K)")
	sweepCmd.Flags().StringVar(&policyName, "policy", "prefer-warm", "branch policy (prefer-warm, prefer-cold)")
	sweepCmd.Flags().BoolVar(&refine, "refine", false, "bisect the threshold bracket")
	sweepCmd.Flags().StringVar(&svgPath, "svg", "", "write an SVG rendering to this path")
	sweepCmd.Flags().IntVar(&maxIterations, "max-iter", solver.DefaultMaxIterations, "solver iteration budget")
	sweepCmd.Flags().Float64Var(&tolerance, "tolerance", solver.DefaultTolerance, "convergence tolerance (W/m²)")
	sweepCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "watch the relaxation converge",
		RunE:  runLive,
	}
	addSolverFlags(liveCmd)
	liveCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list scenario presets",
		Run: func(cmd *cobra.Command, args []string) {
			names := config.ListPresets()
			sort.Strings(names)
			for _, name := range names {
				p := config.Presets[name]
				fmt.Printf("  %-16s T0=%.0f K  S x %.2f\n", name, p.InitialTemp, p.SolarMultiplier)
			}
		},
	}

	rootCmd.AddCommand(equilibriumCmd, balanceCmd, curveCmd, sweepCmd, liveCmd, listCmd, plotCmd, exportCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSolverFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&initialTemp, "temp", solver.DefaultInitialTemp, "initial temperature (K)")
	cmd.Flags().Float64Var(&solarMultiplier, "solar", 1.0, "solar constant multiplier")
	cmd.Flags().IntVar(&maxIterations, "max-iter", solver.DefaultMaxIterations, "iteration budget")
	cmd.Flags().Float64Var(&tolerance, "tolerance", solver.DefaultTolerance, "convergence tolerance (W/m²)")
	cmd.Flags().Float64Var(&stepFactor, "step", solver.DefaultStepFactor, "relaxation step factor")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "scenario preset")
}

// loadConfig resolves preset, config file, and flags in that order,
// later sources winning.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			names := config.ListPresets()
			sort.Strings(names)
			return nil, fmt.Errorf("unknown preset: %s (available: %s)", preset, strings.Join(names, ", "))
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("temp") {
		cfg.InitialTemp = initialTemp
	}
	if cmd.Flags().Changed("solar") {
		cfg.SolarMultiplier = solarMultiplier
	}
	if cmd.Flags().Changed("max-iter") {
		cfg.MaxIterations = maxIterations
	}
	if cmd.Flags().Changed("tolerance") {
		cfg.Tolerance = tolerance
	}
	if cmd.Flags().Changed("step") {
		cfg.StepFactor = stepFactor
	}
	return cfg, nil
}

func runEquilibrium(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	m := climate.New(cfg.Params())
	s := cfg.Solver()

	res, err := s.Solve(m, cfg.InitialTemp, cfg.SolarMultiplier)
	if err != nil {
		return err
	}

	p := m.Params()
	fmt.Printf("initial temperature: %.2f K\n", cfg.InitialTemp)
	fmt.Printf("solar multiplier:    %.3f\n\n", cfg.SolarMultiplier)
	fmt.Printf("equilibrium temperature: %.2f K (%.2f °C)\n", res.Temperature, res.CelsiusTemperature(p))
	fmt.Printf("converged: %t (%d iterations, residual %+.4f W/m²)\n", res.Converged, res.Iterations, res.Balance)

	if !res.Converged {
		fmt.Println("\nwarning: iteration budget exhausted; raise --max-iter or loosen --tolerance")
	}
	if res.Temperature < p.TFreeze {
		fmt.Println("\ntemperature is below freezing: this is a Snowball Earth state")
	}
	return nil
}

func runBalance(cmd *cobra.Command, args []string) error {
	m := climate.NewDefault()

	temps := climate.Series{250, 273.15, 288, 300}
	if len(args) > 0 {
		temps = temps[:0]
		for _, arg := range args {
			var t float64
			if _, err := fmt.Sscanf(arg, "%f", &t); err != nil {
				return fmt.Errorf("invalid temperature %q", arg)
			}
			temps = append(temps, t)
		}
	}

	balances := m.BalanceSeries(temps, solarMultiplier)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TEMP (K)\tTEMP (°C)\tALBEDO\tEMISSIVITY\tBALANCE (W/m²)")
	for i, t := range temps {
		fmt.Fprintf(w, "%.2f\t%.2f\t%.4f\t%.4f\t%+.2f\n",
			t, t-m.Params().TFreeze, m.Albedo(t), m.Greenhouse(t), balances[i])
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println("\npositive balance = warming, negative = cooling")
	return nil
}

func runCurve(cmd *cobra.Command, args []string) error {
	m := climate.NewDefault()

	curve, err := analysis.BalanceCurve(m, solarMultiplier, tMin, tMax, samples)
	if err != nil {
		return err
	}

	fmt.Printf("energy balance, S x %.2f\n\n", solarMultiplier)
	graph := asciigraph.Plot(curve.Balances,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("balance (W/m²) over %.0f–%.0f K", tMin, tMax)),
	)
	fmt.Println(graph)
	fmt.Println()

	eqs := curve.Equilibria()
	if len(eqs) == 0 {
		fmt.Println("no equilibria in this range")
	}
	for _, eq := range eqs {
		kind := "stable"
		if !eq.Stable {
			kind = "unstable"
		}
		fmt.Printf("  equilibrium at %.1f K (%.1f °C), %s\n", eq.Temperature, eq.Temperature-m.Params().TFreeze, kind)
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.SaveCurve(storage.RunMetadata{SolarMultiplier: solarMultiplier}, curve.Temperatures, curve.Balances)
	if err != nil {
		return err
	}
	fmt.Printf("\nrun id: %s\n", runID)

	if svgPath != "" {
		if err := os.WriteFile(svgPath, []byte(export.BalanceCurveSVG(curve, 900, 560)), 0644); err != nil {
			return err
		}
		fmt.Printf("svg written to %s\n", svgPath)
	}
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	if cmd.Flags().Changed("min") {
		cfg.Sweep.MinMultiplier = sweepMin
	}
	if cmd.Flags().Changed("max") {
		cfg.Sweep.MaxMultiplier = sweepMax
	}
	if cmd.Flags().Changed("steps") {
		cfg.Sweep.Steps = sweepSteps
	}
	if cmd.Flags().Changed("warm-seed") {
		cfg.Sweep.WarmSeed = warmSeed
	}
	if cmd.Flags().Changed("cold-seed") {
		cfg.Sweep.ColdSeed = coldSeed
	}
	if cmd.Flags().Changed("policy") {
		cfg.Sweep.Policy = policyName
	}
	if cmd.Flags().Changed("max-iter") {
		cfg.MaxIterations = maxIterations
	}
	if cmd.Flags().Changed("tolerance") {
		cfg.Tolerance = tolerance
	}

	sc, err := cfg.SweepConfig()
	if err != nil {
		return err
	}

	m := climate.New(cfg.Params())
	newSolver := func() *solver.Solver { return cfg.Solver() }

	fmt.Printf("sweeping S x %.2f–%.2f in %d steps (%s)...\n\n",
		cfg.Sweep.MinMultiplier, cfg.Sweep.MaxMultiplier, cfg.Sweep.Steps, sc.Policy)

	points, err := sweep.Run(context.Background(), m, newSolver, sc)
	if err != nil {
		return err
	}

	p := m.Params()
	printSweepTable(points, p.TFreeze)

	series := make([]float64, 0, len(points))
	for _, pt := range points {
		if pt.Valid {
			series = append(series, pt.Temperature)
		}
	}
	if len(series) > 1 {
		fmt.Println()
		graph := asciigraph.Plot(series,
			asciigraph.Height(12),
			asciigraph.Width(80),
			asciigraph.Caption("equilibrium temperature (K) vs solar multiplier"),
		)
		fmt.Println(graph)
	}

	meta := storage.RunMetadata{
		MaxIterations: cfg.MaxIterations,
		Tolerance:     cfg.Tolerance,
		Policy:        sc.Policy.String(),
	}

	fmt.Println()
	th, frozen := sweep.FindThreshold(points, p.TFreeze)
	if frozen {
		meta.Critical = th.Critical
		fmt.Printf("Snowball Earth occurs when solar multiplier < %.3f\n", th.Critical)
		fmt.Printf("(~%.1f%% reduction in solar input)\n", (1-th.Critical)*100)

		if refine && th.WarmAbove > th.FrozenBelow {
			refined, err := sweep.RefineThreshold(m, cfg.Solver(), th, sc.WarmSeed, 20)
			if err != nil {
				return err
			}
			fmt.Printf("refined transition bracket: %.5f – %.5f\n", refined.FrozenBelow, refined.WarmAbove)
		}
	} else {
		fmt.Println("no Snowball state in the swept range")
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.SaveSweep(meta, points)
	if err != nil {
		return err
	}
	fmt.Printf("\nrun id: %s\n", runID)

	if svgPath != "" {
		if err := os.WriteFile(svgPath, []byte(export.SweepSVG(points, p.TFreeze, 900, 560)), 0644); err != nil {
			return err
		}
		fmt.Printf("svg written to %s\n", svgPath)
	}
	return nil
}

func printSweepTable(points []sweep.Point, tFreeze float64) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SOLAR\tTEMP (K)\tTEMP (°C)\tBRANCH\tSTATE")
	for _, pt := range points {
		if !pt.Valid {
			fmt.Fprintf(w, "%.3f\t—\t—\t—\tno convergence\n", pt.Multiplier)
			continue
		}
		state := "temperate"
		if pt.Temperature < tFreeze {
			state = "snowball"
		}
		fmt.Fprintf(w, "%.3f\t%.2f\t%.2f\t%s\t%s\n",
			pt.Multiplier, pt.Temperature, pt.Temperature-tFreeze, pt.Branch, state)
	}
	w.Flush()
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	m := climate.New(cfg.Params())
	return viz.Run(m, cfg.Solver(), cfg.InitialTemp, cfg.SolarMultiplier, frameRate)
}

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

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tKIND\tTIME\tPOLICY\tCRITICAL")
	for _, run := range runs {
		critical := "—"
		if run.Critical != 0 {
			critical = fmt.Sprintf("%.3f", run.Critical)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			run.ID, run.Kind, run.Timestamp.Format("2006-01-02 15:04:05"), run.Policy, critical)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)

	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	header, cols, err := st.LoadPoints(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s (%s)\n\n", meta.ID, meta.Kind)

	for j := 1; j < len(header); j++ {
		data := make([]float64, 0, len(cols[j]))
		for _, v := range cols[j] {
			if !math.IsNaN(v) {
				data = append(data, v)
			}
		}
		if len(data) < 2 {
			continue
		}

		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("%s vs %s", header[j], header[0])),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}
