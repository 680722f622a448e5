package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tysonmwilliams-source/lineageweaver-sub002/pkg/kin"
	"github.com/tysonmwilliams-source/lineageweaver-sub002/pkg/kin/validate"
)

// datasetCommand groups the dataset management subcommands.
func (c *CLI) datasetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dataset",
		Short: "Initialize, import, and export kinship datasets",
	}
	cmd.AddCommand(c.datasetInitCommand())
	cmd.AddCommand(c.datasetImportCommand())
	cmd.AddCommand(c.datasetExportCommand())
	return cmd
}

// datasetInitCommand writes a small starter dataset.
func (c *CLI) datasetInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init <file>",
		Short: "Write a starter dataset file",
		Long: `Write a starter dataset file.

The file extension picks the encoding: .json for JSON, anything else
for YAML. The starter content is a two-generation example family that
exercises spouse, parent, and house records.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if !force {
				if _, err := os.Stat(path); err == nil {
					return fmt.Errorf("%s already exists (use --force to overwrite)", path)
				}
			}
			if err := kin.WriteDatasetFile(starterDataset(), path); err != nil {
				return fmt.Errorf("write dataset %s: %w", path, err)
			}
			printSuccess("Starter dataset written to %s", StyleHighlight.Render(path))
			printDetail("edit it, then run '%s layout %s'", appName, path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

// datasetImportCommand loads a dataset file into the configured store.
func (c *CLI) datasetImportCommand() *cobra.Command {
	var skipAudit bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a dataset file into the configured store",
		Long: `Import a dataset file into the configured store.

The file is audited before the store is touched; an unhealthy dataset
is rejected unless --skip-audit is set. The import replaces the stored
dataset wholesale.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			ds, err := kin.ReadDatasetFile(args[0])
			if err != nil {
				return fmt.Errorf("load dataset %s: %w", args[0], err)
			}
			snap, err := ds.Snapshot()
			if err != nil {
				return fmt.Errorf("index dataset: %w", err)
			}

			if !skipAudit {
				if report := validate.RunIntegrityCheck(snap); !report.Healthy {
					printReport(report)
					return fmt.Errorf("dataset failed the integrity audit (use --skip-audit to import anyway)")
				}
			}

			st, err := c.openStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.Save(cmd.Context(), &ds); err != nil {
				return err
			}
			printSuccess("Imported %d people, %d houses, %d records into the %s store",
				len(ds.People), len(ds.Houses), len(ds.Records), st.Backend())
			return nil
		},
	}

	cmd.Flags().BoolVar(&skipAudit, "skip-audit", false, "import even when the audit finds problems")
	return cmd
}

// datasetExportCommand writes the stored dataset to a file.
func (c *CLI) datasetExportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "export <file>",
		Short: "Export the stored dataset to a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			st, err := c.openStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			ds, err := st.Load(cmd.Context())
			if err != nil {
				return err
			}
			if err := kin.WriteDatasetFile(*ds, args[0]); err != nil {
				return fmt.Errorf("write dataset %s: %w", args[0], err)
			}
			printSuccess("Exported %d people to %s", len(ds.People), StyleHighlight.Render(args[0]))
			return nil
		},
	}
}

// starterDataset is the example family written by dataset init.
func starterDataset() kin.Dataset {
	return kin.Dataset{
		People: []kin.Person{
			{ID: "edmund", Name: "Edmund of Harwick", Gender: kin.GenderMale, Birth: kin.MustDate("1012"), HouseID: "harwick"},
			{ID: "maude", Name: "Maude of Telny", Gender: kin.GenderFemale, Birth: kin.MustDate("1015"), HouseID: "harwick"},
			{ID: "godwin", Name: "Godwin", Gender: kin.GenderMale, Birth: kin.MustDate("1034"), HouseID: "harwick"},
			{ID: "aelfgifu", Name: "Aelfgifu", Gender: kin.GenderFemale, Birth: kin.MustDate("1036"), HouseID: "harwick"},
		},
		Houses: []kin.House{
			{ID: "harwick", Name: "House Harwick", FounderID: "edmund"},
		},
		Records: []kin.Record{
			{ID: "m-edmund-maude", Type: kin.EdgeSpouse, Person1ID: "edmund", Person2ID: "maude", Status: kin.Married, MarriageDate: kin.MustDate("1033")},
			{ID: "p-edmund-godwin", Type: kin.EdgeParent, Person1ID: "edmund", Person2ID: "godwin", Biological: true},
			{ID: "p-maude-godwin", Type: kin.EdgeParent, Person1ID: "maude", Person2ID: "godwin", Biological: true},
			{ID: "p-edmund-aelfgifu", Type: kin.EdgeParent, Person1ID: "edmund", Person2ID: "aelfgifu", Biological: true},
			{ID: "p-maude-aelfgifu", Type: kin.EdgeParent, Person1ID: "maude", Person2ID: "aelfgifu", Biological: true},
		},
	}
}
