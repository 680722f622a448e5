package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tysonmwilliams-source/lineageweaver-sub002/pkg/kin"
	"github.com/tysonmwilliams-source/lineageweaver-sub002/pkg/kin/fragment"
)

// fragmentsCommand creates the hidden fragments debug command.
func (c *CLI) fragmentsCommand() *cobra.Command {
	var (
		input  string
		house  string
		cadets bool
	)

	cmd := &cobra.Command{
		Use:    "fragments",
		Short:  "Debug tool: print the fragment partition of a scope",
		Hidden: true,
		Args:   cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			snap, err := c.loadSnapshot(cmd.Context(), cfg, input)
			if err != nil {
				return err
			}

			adj := kin.BuildAdjacency(snap)
			scope := kin.ResolveScope(snap, adj, kin.ScopeOptions{HouseID: house, IncludeCadets: cadets})
			res := fragment.Detect(snap, adj, scope)

			for i, frag := range res.Fragments {
				fmt.Printf("%s root=%s members=%d\n",
					StyleTitle.Render(fmt.Sprintf("fragment %d", i)), frag.RootID, frag.Len())
				printDetail("%s", strings.Join(frag.Members, ", "))
			}
			for _, gap := range res.Gaps {
				printWarning("gap: %s edge %s leaves fragment %d via %s -> %s",
					gap.Kind, gap.EdgeID, gap.Fragment, gap.InsideID, gap.OutsideID)
			}
			if len(res.Gaps) == 0 && len(res.Fragments) > 1 {
				printDetail("fragments share no severed lineage edges")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "dataset file (default: configured store)")
	cmd.Flags().StringVar(&house, "house", "", "restrict scope to one house")
	cmd.Flags().BoolVar(&cadets, "cadets", false, "include cadet branches")

	return cmd
}
