package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tysonmwilliams-source/lineageweaver-sub002/pkg/chart"
	"github.com/tysonmwilliams-source/lineageweaver-sub002/pkg/config"
	"github.com/tysonmwilliams-source/lineageweaver-sub002/pkg/kin"
	"github.com/tysonmwilliams-source/lineageweaver-sub002/pkg/pipeline"
)

// layoutCommand creates the layout command for computing chart geometry.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output string
		people string
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "layout [dataset file]",
		Short: "Compute a render-ready chart from a kinship dataset",
		Long: `Compute a render-ready chart from a kinship dataset.

The layout command audits the dataset, partitions the selected scope into
connected family lines, assigns generations, and computes card geometry.
The output is a chart.json file with absolute card positions, connectors,
and fragment separators.

With a file argument the dataset is read from that file (JSON or YAML);
without one it is loaded from the configured store.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := ""
			if len(args) == 1 {
				input = args[0]
			}
			if people != "" {
				opts.PersonIDs = strings.Split(people, ",")
			}
			return c.runLayout(cmd.Context(), input, opts, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "chart.json", "output chart file")

	// Scope flags
	cmd.Flags().StringVar(&opts.HouseID, "house", "", "restrict scope to one house")
	cmd.Flags().BoolVar(&opts.IncludeCadets, "cadets", false, "include cadet branches of the selected house")
	cmd.Flags().StringVar(&people, "people", "", "comma-separated person ids to scope to")

	// Pipeline flags
	cmd.Flags().StringVar(&opts.RootID, "root", "", "root person for the generation walk")
	cmd.Flags().StringVar(&opts.ReferenceID, "ref", "", "reference person for kinship labels")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "abort on circular ancestry instead of reporting it")

	return cmd
}

// runLayout loads the dataset, runs the pipeline, and writes the chart.
func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.Options, output string) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	snap, err := c.loadSnapshot(ctx, cfg, input)
	if err != nil {
		return err
	}

	prog := newProgress(c.Logger)
	runner := pipeline.NewRunner(cfg, c.Logger)
	res, err := runner.Execute(ctx, snap, opts)
	if err != nil {
		return fmt.Errorf("compute layout: %w", err)
	}
	prog.done(fmt.Sprintf("Laid out %d people across %d fragments", res.Stats.PersonCount, res.Stats.FragmentCount))

	if err := chart.WriteChartFile(res.Chart, output); err != nil {
		return fmt.Errorf("write chart %s: %w", output, err)
	}

	printSuccess("Chart written to %s", StyleHighlight.Render(output))
	printDetail("%d cards, %d connectors, %.0fx%.0f bounds",
		len(res.Chart.Cards), len(res.Chart.Connectors),
		res.Chart.Bounds.Width(), res.Chart.Bounds.Height())
	if !res.Audit.Healthy {
		printWarning("dataset has integrity findings; run '%s audit' for details", appName)
	}
	return nil
}

// loadSnapshot reads a dataset from a file or the configured store and
// indexes it.
func (c *CLI) loadSnapshot(ctx context.Context, cfg *config.Config, input string) (*kin.Snapshot, error) {
	var (
		ds  kin.Dataset
		err error
	)
	if input != "" {
		ds, err = kin.ReadDatasetFile(input)
		if err != nil {
			return nil, fmt.Errorf("load dataset %s: %w", input, err)
		}
	} else {
		st, err := c.openStore(ctx, cfg)
		if err != nil {
			return nil, err
		}
		defer st.Close()
		loaded, err := st.Load(ctx)
		if err != nil {
			return nil, err
		}
		ds = *loaded
	}

	snap, err := ds.Snapshot()
	if err != nil {
		return nil, fmt.Errorf("index dataset: %w", err)
	}
	return snap, nil
}
