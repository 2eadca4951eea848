// Package main provides the alucut CLI entry point.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/alucut/alucut/internal/analytics"
	"github.com/alucut/alucut/internal/config"
	"github.com/alucut/alucut/internal/engine"
	"github.com/alucut/alucut/internal/export"
	"github.com/alucut/alucut/internal/logger"
	"github.com/alucut/alucut/internal/model"
	"github.com/alucut/alucut/internal/project"
)

var (
	// Global flags
	configPath string
	algorithm  string
	kerf       float64
	seed       int64
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "alucut",
		Short: "Cutting-stock optimizer for aluminum extrusion profiles",
		Long: `Plans how to cut required piece lengths from standard stock bars
while minimizing material waste.

Strategies available:
- ffd / bfd: fast deterministic packing heuristics
- genetic:   single-objective genetic search
- nsga-ii:   multi-objective search with Pareto front reporting
- pooling:   cross-order consolidation before packing`,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to YAML config file")
	rootCmd.PersistentFlags().StringVarP(&algorithm, "algorithm", "a", "", "Override algorithm (ffd, bfd, genetic, nsga-ii, pooling)")
	rootCmd.PersistentFlags().Float64VarP(&kerf, "kerf", "k", -1, "Override kerf width in mm")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 0, "Override random seed for genetic modes")

	rootCmd.AddCommand(optimizeCmd())
	rootCmd.AddCommand(compareCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads the layered configuration, applies flag overrides, and
// builds the logger.
func setup(cmd *cobra.Command) (config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("failed to load config: %w", err)
	}

	if algorithm != "" {
		cfg.Engine.Mode = model.Algorithm(algorithm)
	}
	if kerf >= 0 {
		cfg.Engine.KerfWidth = kerf
	}
	// Changed rather than a zero sentinel, so --seed 0 is honored.
	if cmd.Flags().Changed("seed") {
		cfg.Engine.Genetic.Seed = seed
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return cfg, log, nil
}

func loadPlan(path string) (model.Plan, error) {
	plan, err := project.LoadPlan(path)
	if err != nil {
		return model.Plan{}, fmt.Errorf("failed to load plan: %w", err)
	}
	return plan, nil
}

func newOptimizer(cfg config.Config, log *zap.Logger) *engine.Optimizer {
	opt := engine.New(cfg.Engine)
	opt.Analyzer = analytics.NewAnalyzer(cfg.Waste, cfg.Rates)
	opt.Logger = log
	return opt
}

func optimizeCmd() *cobra.Command {
	var outPath string
	var pdfPath string
	var xlsxPath string
	var labelsPath string
	var stockPath string
	var useOffcuts bool
	var harvest bool
	var offcutPath string

	cmd := &cobra.Command{
		Use:   "optimize <plan.json>",
		Short: "Run the optimizer over a cut plan",
		Long: `Run the configured strategy over a plan file and write the result
as JSON. Optional exports render the result as a cutting-plan PDF, an
Excel workbook, or QR-coded bar labels.

The plan file holds the cut list and the stock catalog:

  {"name": "frames", "items": [...], "stock": [...]}`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup(cmd)
			if err != nil {
				return err
			}
			defer log.Sync() //nolint:errcheck

			plan, err := loadPlan(args[0])
			if err != nil {
				return err
			}

			catalog := plan.Stock
			if stockPath != "" {
				extra, err := project.LoadCatalog(stockPath)
				if err != nil {
					return fmt.Errorf("failed to load stock catalog: %w", err)
				}
				catalog = project.MergeCatalog(catalog, extra)
			}

			var inv project.OffcutInventory
			if useOffcuts || harvest {
				if offcutPath == "" {
					offcutPath = project.DefaultOffcutPath()
				}
				inv, err = project.LoadOffcuts(offcutPath)
				if err != nil {
					return fmt.Errorf("failed to load offcut inventory: %w", err)
				}
			}
			if useOffcuts {
				catalog = project.MergeCatalog(catalog, inv.Offcuts)
				log.Info("merged offcut inventory", zap.Int("offcuts", len(inv.Offcuts)))
			}

			opt := newOptimizer(cfg, log)
			result, err := opt.Optimize(context.Background(), plan.Items, catalog)
			if err != nil {
				return fmt.Errorf("optimization failed: %w", err)
			}

			if harvest {
				n := inv.Harvest(result)
				if err := project.SaveOffcuts(offcutPath, inv); err != nil {
					return fmt.Errorf("failed to save offcut inventory: %w", err)
				}
				log.Info("harvested reclaimable remainders", zap.Int("count", n))
			}

			out, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return err
			}
			if outPath == "" || outPath == "-" {
				fmt.Fprintln(cmd.OutOrStdout(), string(out))
			} else if err := os.WriteFile(outPath, out, 0o644); err != nil {
				return fmt.Errorf("failed to write result: %w", err)
			}

			if pdfPath != "" {
				if err := export.ExportPDF(pdfPath, result, cfg.Engine.KerfWidth); err != nil {
					return fmt.Errorf("failed to export PDF: %w", err)
				}
				log.Info("wrote cutting plan", zap.String("path", pdfPath))
			}
			if xlsxPath != "" {
				if err := export.ExportWorkbook(xlsxPath, result); err != nil {
					return fmt.Errorf("failed to export workbook: %w", err)
				}
				log.Info("wrote workbook", zap.String("path", xlsxPath))
			}
			if labelsPath != "" {
				if err := export.ExportLabels(labelsPath, result); err != nil {
					return fmt.Errorf("failed to export labels: %w", err)
				}
				log.Info("wrote labels", zap.String("path", labelsPath))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "-", "Result JSON path ('-' for stdout)")
	cmd.Flags().StringVar(&stockPath, "stock", "", "Shared stock catalog JSON to merge into the plan")
	cmd.Flags().StringVar(&pdfPath, "pdf", "", "Write cutting-plan PDF to this path")
	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "Write Excel workbook to this path")
	cmd.Flags().StringVar(&labelsPath, "labels", "", "Write QR bar labels PDF to this path")
	cmd.Flags().BoolVar(&useOffcuts, "use-offcuts", false, "Add reclaimed offcuts from the inventory to the stock catalog")
	cmd.Flags().BoolVar(&harvest, "harvest", false, "Save this run's reclaimable remainders to the offcut inventory")
	cmd.Flags().StringVar(&offcutPath, "offcut-file", "", "Offcut inventory path (default ~/.alucut/offcuts.json)")

	return cmd
}

func compareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare <plan.json>",
		Short: "Compare what-if scenarios over a cut plan",
		Long: `Run the plan through a set of generated scenarios (alternate
heuristics, genetic search, thinner kerf) and print a side-by-side
comparison table.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup(cmd)
			if err != nil {
				return err
			}
			defer log.Sync() //nolint:errcheck

			plan, err := loadPlan(args[0])
			if err != nil {
				return err
			}

			scenarios := engine.BuildDefaultScenarios(cfg.Engine)
			results := engine.CompareScenarios(context.Background(), scenarios, plan.Items, plan.Stock)

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%-24s %8s %8s %9s %9s %10s\n",
				"Scenario", "Bars", "Cuts", "Waste%", "Eff%", "Cost")
			for _, r := range results {
				if r.Err != nil {
					fmt.Fprintf(w, "%-24s failed: %v\n", r.Scenario.Name, r.Err)
					continue
				}
				fmt.Fprintf(w, "%-24s %8d %8d %8.1f%% %8.1f%% %10s\n",
					r.Scenario.Name, r.BarsUsed, r.TotalCuts,
					r.WastePercent, r.Result.Efficiency*100,
					r.Result.Cost.Total.StringFixed(2))
			}
			return nil
		},
	}

	return cmd
}
