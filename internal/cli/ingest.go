package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

func (c *cli) importCmd() *cobra.Command {
	var skipEnsure bool
	cmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Load a CSV export into the index",
		Long: `Reads a CSV with a header row whose columns are index field names
(award_title, awardee_name, contract_amount, ...). Unknown columns are
ignored; rows without an id get a generated one.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := c.environment(cmd.Context())
			if err != nil {
				return err
			}

			f, err := os.Open(filepath.Clean(args[0]))
			if err != nil {
				return fmt.Errorf("open %s: %w", args[0], err)
			}
			defer func() { _ = f.Close() }()

			if !skipEnsure {
				if err := env.Ingest.EnsureIndex(cmd.Context()); err != nil {
					return fmt.Errorf("ensure index: %w", err)
				}
			}

			rep, err := env.Ingest.ImportCSV(cmd.Context(), f)
			if err != nil {
				return fmt.Errorf("import %s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d rows in %d batches (%d rows failed, %d blank rows skipped)\n",
				rep.Rows, rep.Batches, rep.Failed, rep.Skipped)
			if rep.Failed > 0 {
				return fmt.Errorf("%d of %d rows failed to upload", rep.Failed, rep.Rows)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&skipEnsure, "skip-ensure", false, "do not create the index or apply settings first")
	return cmd
}

func (c *cli) indexCmd() *cobra.Command {
	idx := &cobra.Command{
		Use:   "index",
		Short: "Manage the search index",
	}
	idx.AddCommand(&cobra.Command{
		Use:   "create",
		Short: "Create the index and apply its settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := c.environment(cmd.Context())
			if err != nil {
				return err
			}
			if err := env.Ingest.EnsureIndex(cmd.Context()); err != nil {
				return fmt.Errorf("ensure index: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Index ready")
			return nil
		},
	})
	idx.AddCommand(c.indexDropCmd())
	return idx
}

func (c *cli) indexDropCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "drop",
		Short: "Delete the index and all its documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return errors.New("refusing to drop the index without --yes")
			}
			env, err := c.environment(cmd.Context())
			if err != nil {
				return err
			}
			if err := env.Ingest.DropIndex(cmd.Context()); err != nil {
				return fmt.Errorf("drop index: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Index dropped")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm deletion")
	return cmd
}
