package commands

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/jackhale98/PDT/config"
	"github.com/jackhale98/PDT/entity"
	"github.com/jackhale98/PDT/logger"
	"github.com/jackhale98/PDT/stackup"
	"github.com/jackhale98/PDT/torsor"
)

// TolCmd represents the tol (tolerance stackup) command
var TolCmd = &cobra.Command{
	Use:   "tol",
	Short: "Manage and analyze tolerance stackups",
	Long: `tol — Manage and analyze tolerance stackups

A stackup file declares the target specification and the ordered chain of
contributors. Contributors can be inline numeric tolerances or references
to feature files resolved at analysis time.

Examples:
  pdt tol new "Cover Gap"                  # Create a stackup skeleton
  pdt tol show TOL-xxxx.yaml               # Display a stackup and stored results
  pdt tol analyze TOL-xxxx.yaml            # Worst-case, RSS, Monte Carlo
  pdt tol analyze TOL-xxxx.yaml --3d       # Add 3D torsor propagation
  pdt tol analyze TOL-xxxx.yaml --seed 42  # Reproducible simulation`,
}

var tolNewCmd = &cobra.Command{
	Use:   "new <title>",
	Short: "Create a new stackup file",
	Long: `Create a stackup YAML skeleton with a fresh identifier.

The file is written to <id>.yaml in the current directory unless --out
names a path. Edit the file to fill in the target limits and contributors.`,
	Args: cobra.ExactArgs(1),
	RunE: runTolNew,
}

var tolShowCmd = &cobra.Command{
	Use:   "show <file>",
	Short: "Display a stackup and its stored results",
	Args:  cobra.ExactArgs(1),
	RunE:  runTolShow,
}

var tolAnalyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Run the analysis chain for a stackup",
	Long: `Run worst-case, RSS, and Monte Carlo analysis for a stackup file.

Feature references are resolved from the directory named by --features
(default: the stackup file's directory). With --3d the contributors'
geometry feeds small-displacement torsor propagation as well; every
contributor must then reference a feature carrying a geometry class.

Monte Carlo settings come from pdt.yaml, overridden per run by flags.
--seed pins the random seed for reproducible results; the seed actually
used is always printed and stored. --export-samples writes the raw
simulation samples to a CSV file for external analysis.`,
	Args: cobra.ExactArgs(1),
	RunE: runTolAnalyze,
}

var (
	tolOut           string
	tolFeatureDir    string
	tolMCIterations  int
	tolSeed          uint64
	tolRun3D         bool
	tolSave          bool
	tolExportSamples string
)

func init() {
	tolNewCmd.Flags().StringVar(&tolOut, "out", "", "Output path (default: <id>.yaml)")

	tolAnalyzeCmd.Flags().StringVar(&tolFeatureDir, "features", "", "Directory of feature files (default: stackup file's directory)")
	tolAnalyzeCmd.Flags().IntVar(&tolMCIterations, "monte-carlo-iterations", 0, "Override Monte Carlo iteration count")
	tolAnalyzeCmd.Flags().Uint64Var(&tolSeed, "seed", 0, "Pin the Monte Carlo random seed")
	tolAnalyzeCmd.Flags().BoolVar(&tolRun3D, "3d", false, "Run 3D torsor propagation")
	tolAnalyzeCmd.Flags().BoolVar(&tolSave, "save", false, "Write results back into the stackup file")
	tolAnalyzeCmd.Flags().StringVar(&tolExportSamples, "export-samples", "", "Write raw Monte Carlo samples to a CSV file")

	TolCmd.AddCommand(tolNewCmd)
	TolCmd.AddCommand(tolShowCmd)
	TolCmd.AddCommand(tolAnalyzeCmd)
}

func runTolNew(cmd *cobra.Command, args []string) error {
	s := &entity.Stackup{
		ID:      entity.NewStackupID(),
		Title:   args[0],
		Created: time.Now().UTC(),
		Contributors: []entity.ContributorRef{
			{Name: "part a", Direction: stackup.DirectionPositive, Nominal: 10.0, PlusTol: 0.1, MinusTol: 0.1},
			{Name: "part b", Direction: stackup.DirectionNegative, Nominal: 5.0, PlusTol: 0.05, MinusTol: 0.05},
		},
		Target: stackup.Target{Name: "gap", Nominal: 5.0, USL: 5.3, LSL: 4.7},
	}

	path := tolOut
	if path == "" {
		path = string(s.ID) + ".yaml"
	}
	if err := entity.SaveStackup(path, s); err != nil {
		return err
	}

	pterm.Success.Printf("Created stackup %s\n", s.ID.Short())
	pterm.Info.Printf("Edit %s to set the target and contributors\n", path)
	return nil
}

func runTolShow(cmd *cobra.Command, args []string) error {
	s, err := entity.LoadStackup(args[0])
	if err != nil {
		return err
	}

	pterm.DefaultSection.Printf("%s  %s", s.ID.Short(), s.Title)
	if s.Description != "" {
		pterm.Println(s.Description)
	}

	pterm.Printf("Target: %s = %.4g  [%.4g, %.4g]\n",
		s.Target.Name, s.Target.Nominal, s.Target.LSL, s.Target.USL)
	pterm.Println()

	data := pterm.TableData{{"#", "Name", "Dir", "Nominal", "+Tol", "-Tol", "Feature"}}
	for i, c := range s.Contributors {
		feat := ""
		if c.Feature != "" {
			feat = c.Feature.Short()
		}
		data = append(data, []string{
			strconv.Itoa(i + 1),
			c.Name,
			string(c.Direction),
			fmt.Sprintf("%.4g", c.Nominal),
			fmt.Sprintf("%.4g", c.PlusTol),
			fmt.Sprintf("%.4g", c.MinusTol),
			feat,
		})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		return err
	}

	if s.Results != nil {
		pterm.Println()
		renderResults(s.Results, s.Target)
	}
	if s.Results3D != nil {
		pterm.Println()
		renderTorsorAnalysis(s.Results3D)
	}
	return nil
}

func runTolAnalyze(cmd *cobra.Command, args []string) error {
	path := args[0]

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	s, err := entity.LoadStackup(path)
	if err != nil {
		return err
	}

	lookup, err := featureLookup(path, tolFeatureDir)
	if err != nil {
		return err
	}

	in, err := s.ResolveInput(lookup, cfg.Analysis.SigmaLevel)
	if err != nil {
		return err
	}
	if s.MeanShiftK == 0 {
		in.MeanShiftK = cfg.Analysis.MeanShiftK
	}
	if !s.IncludeGDT {
		in.IncludeGDT = cfg.Analysis.IncludeGDT
	}

	mc := cfg.MonteCarloConfig()
	if tolMCIterations > 0 {
		mc.Iterations = tolMCIterations
	}
	if cmd.Flags().Changed("seed") {
		seed := tolSeed
		mc.Seed = &seed
	}

	logger.Infow("Analyzing stackup",
		"id", s.ID.Short(),
		"contributors", len(in.Contributors),
		"iterations", mc.Iterations,
	)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var results *stackup.AnalysisResults
	var samples []float64
	if tolExportSamples != "" {
		var mcRes *stackup.MonteCarloResult
		mcRes, samples, err = stackup.MonteCarloWithSamples(ctx, in, mc)
		if err != nil {
			return err
		}
		results, err = stackup.Analyze(ctx, in, stackup.Request{WorstCase: true, RSS: true})
		if err != nil {
			return err
		}
		results.MonteCarlo = mcRes
	} else {
		results, err = stackup.Analyze(ctx, in, stackup.RequestAll(mc))
		if err != nil {
			return err
		}
	}

	pterm.DefaultSection.Printf("%s  %s", s.ID.Short(), s.Title)
	renderResults(results, s.Target)
	if results.RSS != nil {
		renderContributorSensitivity(in.Contributors, results.RSS.Sensitivity)
	}

	var analysis3d *torsor.Analysis
	run3d := tolRun3D || (s.Analysis3D != nil && s.Analysis3D.Enabled)
	if run3d {
		in3d, err := s.Resolve3DInput(lookup, cfg.Analysis.SigmaLevel)
		if err != nil {
			return err
		}
		req := torsor.Request{MonteCarlo: true, MonteCarloConfig: mc}
		if s.Analysis3D != nil {
			if !tolRun3D && !s.Analysis3D.MonteCarlo {
				req.MonteCarlo = false
			}
			if s.Analysis3D.Iterations > 0 && tolMCIterations == 0 {
				req.MonteCarloConfig.Iterations = s.Analysis3D.Iterations
			}
		}
		analysis3d, err = torsor.Analyze(ctx, in3d, req, time.Now().UTC())
		if err != nil {
			return err
		}
		pterm.Println()
		renderTorsorAnalysis(analysis3d)
	}

	if tolExportSamples != "" {
		if err := exportSamplesCSV(tolExportSamples, samples); err != nil {
			return err
		}
		pterm.Info.Printf("Wrote %d samples to %s\n", len(samples), tolExportSamples)
	}

	if tolSave {
		s.Results = results
		if analysis3d != nil {
			s.Results3D = analysis3d
		}
		if err := entity.SaveStackup(path, s); err != nil {
			return err
		}
		pterm.Info.Printf("Stored results in %s\n", path)
	}

	return nil
}

// featureLookup builds a lookup over the feature directory. When no
// directory is given the stackup file's own directory is scanned, so a flat
// project layout works without flags.
func featureLookup(stackupPath, dir string) (entity.FeatureLookup, error) {
	if dir == "" {
		dir = dirOf(stackupPath)
	}
	features, err := entity.LoadFeatureDir(dir)
	if err != nil {
		return nil, err
	}
	return func(id entity.ID) (*entity.Feature, bool) {
		f, ok := features[id]
		return f, ok
	}, nil
}

func exportSamplesCSV(path string, samples []float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"sample"}); err != nil {
		return err
	}
	for _, v := range samples {
		if err := w.Write([]string{strconv.FormatFloat(v, 'g', -1, 64)}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
