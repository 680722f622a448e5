package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/tysonmwilliams-source/lineageweaver-sub002/pkg/kin"
	"github.com/tysonmwilliams-source/lineageweaver-sub002/pkg/kin/kinship"
)

// classifyCommand creates the classify command for kinship labeling.
func (c *CLI) classifyCommand() *cobra.Command {
	var (
		input string
		all   bool
	)

	cmd := &cobra.Command{
		Use:   "classify <from> [to]",
		Short: "Label the kinship between two people",
		Long: `Label the kinship between two people.

With two ids the command prints what the second person is to the first,
e.g. "Half-Brother" or "First Cousin". With --all and a single id it
prints a label for every related person in the dataset.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if all != (len(args) == 1) {
				return fmt.Errorf("need either two ids, or one id with --all")
			}
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			snap, err := c.loadSnapshot(cmd.Context(), cfg, input)
			if err != nil {
				return err
			}
			for _, id := range args {
				if !snap.HasPerson(id) {
					return fmt.Errorf("person %q not in dataset", id)
				}
			}

			adj := kin.BuildAdjacency(snap)
			cl := kinship.New(snap, adj, kinship.WithMaxDepth(cfg.Kinship.MaxDepth))

			if all {
				printLabels(snap, cl.ClassifyAll(args[0]))
				return nil
			}

			label := cl.Classify(args[0], args[1])
			if label == "" {
				printWarning("%s and %s are unrelated within %d degrees", args[0], args[1], cfg.Kinship.MaxDepth)
				return nil
			}
			fmt.Println(StyleValue.Render(label))
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "dataset file (default: configured store)")
	cmd.Flags().BoolVar(&all, "all", false, "classify everyone against a single reference person")

	return cmd
}

// printLabels prints id/label pairs sorted by id, names attached.
func printLabels(snap *kin.Snapshot, labels map[string]string) {
	ids := make([]string, 0, len(labels))
	for id := range labels {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		name := id
		if p, ok := snap.Person(id); ok {
			name = p.DisplayName()
		}
		fmt.Printf("%s %s\n", StyleHighlight.Render(labels[id]), StyleDim.Render(name))
	}
}
