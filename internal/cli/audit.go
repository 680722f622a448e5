package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tysonmwilliams-source/lineageweaver-sub002/pkg/kin/validate"
)

// auditCommand creates the audit command for integrity checking.
func (c *CLI) auditCommand() *cobra.Command {
	var (
		input    string
		asJSON   bool
		failFast bool
	)

	cmd := &cobra.Command{
		Use:   "audit [dataset file]",
		Short: "Run the ancestry integrity audit",
		Long: `Run the ancestry integrity audit.

The audit proves the dataset's structural invariants: no circular
ancestry, no dangling edge endpoints, no contradictory spouse records.
Stored data is gated on write, but imported files bypass the gate, so
the audit re-checks everything.

Exits non-zero when findings exist and --strict is set.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				input = args[0]
			}
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			snap, err := c.loadSnapshot(cmd.Context(), cfg, input)
			if err != nil {
				return err
			}

			report := validate.RunIntegrityCheck(snap)
			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}

			printReport(report)
			if failFast && !report.Healthy {
				return fmt.Errorf("integrity audit found problems")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "emit the raw report as JSON")
	cmd.Flags().BoolVar(&failFast, "strict", false, "exit non-zero when findings exist")

	return cmd
}

// printReport renders an integrity report for terminal consumption.
func printReport(report validate.Report) {
	fmt.Println(StyleTitle.Render("Integrity Audit"))

	if report.Healthy {
		printSuccess("no findings: ancestry is acyclic, endpoints resolve, spouse records agree")
		return
	}

	for _, cycle := range report.Cycles {
		printError("circular ancestry through %s", StyleHighlight.Render(cycle.PersonID))
		printDetail("path: %s", strings.Join(cycle.Path, " -> "))
	}
	for _, edge := range report.Orphans.Edges {
		printError("record %s references missing person %s (%s)", edge.EdgeID, edge.MissingID, edge.Role)
	}
	if n := len(report.Orphans.PeopleMissingHouse); n > 0 {
		printWarning("%d people reference houses that do not exist", n)
		printDetail("%s", strings.Join(report.Orphans.PeopleMissingHouse, ", "))
	}
	if n := len(report.Orphans.HousesMissingLink); n > 0 {
		printWarning("%d houses reference missing founders or parent houses", n)
		printDetail("%s", strings.Join(report.Orphans.HousesMissingLink, ", "))
	}
	for _, conflict := range report.SpouseConflicts {
		printWarning("spouse records %s and %s disagree for %s and %s",
			conflict.EdgeIDs[0], conflict.EdgeIDs[1], conflict.PairA, conflict.PairB)
		printDetail("%s", conflict.Detail)
	}
}
