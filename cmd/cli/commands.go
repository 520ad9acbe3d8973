package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"distlab/adapters/excel"
	"distlab/domain/distribution"
	"distlab/internal/comparison"
	"distlab/internal/config"
	"distlab/internal/container"
)

func newListCmd(opts *options) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List supported distributions and their parameters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			specs := opts.explorer(cmd).Specs()
			if output != outputTable {
				return encode(cmd.OutOrStdout(), output, specs)
			}
			return printSpecs(cmd.OutOrStdout(), specs)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "Output format (table, json, yaml)")
	return cmd
}

func newExploreCmd(opts *options) *cobra.Command {
	var (
		rawParams []string
		output    string
		exportTo  string
	)

	cmd := &cobra.Command{
		Use:   "explore <distribution>",
		Short: "Draw a sample and report its statistics",
		Long: `Draw a 1000-point sample from a distribution and report the density,
closed-form moments, descriptive statistics and goodness of fit.

Parameters not given with --param take their defaults.

Example: distlab explore gamma --param k=2 --param theta=0.5 --export gamma.xlsx`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := distribution.ID(args[0])
			svc := opts.explorer(cmd)

			overrides, err := parseParams(rawParams)
			if err != nil {
				return err
			}
			params, err := svc.Parameters(id, overrides)
			if err != nil {
				return err
			}

			exp, err := svc.Explore(cmd.Context(), id, params)
			if err != nil {
				return err
			}

			if exportTo != "" {
				if err := exportWorkbook(exportTo, exp); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", exportTo)
			}

			if output != outputTable {
				return encode(cmd.OutOrStdout(), output, exp)
			}
			return printExploration(cmd.OutOrStdout(), exp)
		},
	}
	cmd.Flags().StringArrayVarP(&rawParams, "param", "p", nil, "Parameter override as name=value (repeatable)")
	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "Output format (table, json, yaml)")
	cmd.Flags().StringVar(&exportTo, "export", "", "Also write the sample, density and statistics to this .xlsx file")
	return cmd
}

func newDescribeCmd(opts *options) *cobra.Command {
	var (
		rawParams []string
		output    string
		file      string
	)

	cmd := &cobra.Command{
		Use:   "describe <distribution>",
		Short: "Describe a sample read from an .xlsx or .csv file",
		Long: `Read a numeric sample from a workbook or CSV file and report its
descriptive statistics and goodness of fit against the named distribution.

Multi-column files are flattened row by row.

Example: distlab describe normal --file sample.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := distribution.ID(args[0])
			svc := opts.explorer(cmd)

			overrides, err := parseParams(rawParams)
			if err != nil {
				return err
			}
			params, err := svc.Parameters(id, overrides)
			if err != nil {
				return err
			}

			table, err := excel.NewDataReader(file).ReadSample()
			if err != nil {
				return err
			}

			report, err := svc.Describe(cmd.Context(), id, params, table.Values)
			if err != nil {
				return err
			}

			if output != outputTable {
				return encode(cmd.OutOrStdout(), output, report)
			}
			return printReport(cmd.OutOrStdout(), report)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Sample file (.xlsx or .csv)")
	cmd.Flags().StringArrayVarP(&rawParams, "param", "p", nil, "Parameter override as name=value (repeatable)")
	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "Output format (table, json, yaml)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newOverlayCmd(opts *options) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "overlay <distribution>...",
		Short: "Compare canonical densities of several distributions",
		Long: fmt.Sprintf(`Evaluate the canonical density of each selected distribution on the
shared grid. Available: %s.`, joinIDs(comparison.OverlayFamilies)),
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			selection := make([]distribution.ID, len(args))
			for i, arg := range args {
				selection[i] = distribution.ID(arg)
			}

			svc := opts.explorer(cmd)
			curves, err := svc.Overlay(cmd.Context(), selection)
			if err != nil {
				return err
			}

			ordered := make([]comparison.Curve, 0, len(curves))
			for _, id := range comparison.OverlayFamilies {
				if curve, ok := curves[id]; ok {
					ordered = append(ordered, curve)
				}
			}

			if output != outputTable {
				return encode(cmd.OutOrStdout(), output, ordered)
			}
			return printCurves(cmd.OutOrStdout(), svc.Grid(), ordered)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "Output format (table, json, yaml)")
	return cmd
}

func newSensitivityCmd(opts *options) *cobra.Command {
	var (
		rawParams []string
		output    string
	)

	cmd := &cobra.Command{
		Use:   "sensitivity <distribution>",
		Short: "Show how the density reacts to one parameter at a time",
		Long: fmt.Sprintf(`Sweep each parameter of the distribution while holding the others at
their base values. Available: %s.`, joinIDs(comparison.SensitivityFamilies)),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := distribution.ID(args[0])
			svc := opts.explorer(cmd)

			overrides, err := parseParams(rawParams)
			if err != nil {
				return err
			}
			base, err := svc.Parameters(id, overrides)
			if err != nil {
				return err
			}

			panels, err := svc.Sensitivity(cmd.Context(), id, base)
			if err != nil {
				return err
			}

			if output != outputTable {
				return encode(cmd.OutOrStdout(), output, panels)
			}
			for _, panel := range panels {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\n", panel.Title)
				if err := printCurves(cmd.OutOrStdout(), svc.Grid(), panel.Curves); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout())
			}
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&rawParams, "param", "p", nil, "Base parameter as name=value (repeatable)")
	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "Output format (table, json, yaml)")
	return cmd
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the JSON API and the HTML explorer",
		Long: `Run the JSON API and the HTML explorer until interrupted.

Configuration is read from the environment (API_PORT, UI_PORT, GIN_MODE,
SHUTDOWN_TIMEOUT, LOG_LEVEL) and from a .env file when present.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			c, err := container.New(cfg)
			if err != nil {
				return err
			}
			return c.Run(cmd.Context())
		},
	}
}

func joinIDs(ids []distribution.ID) string {
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = string(id)
	}
	return strings.Join(names, ", ")
}
