// Package cli implements the govrecordsctl command tree.
package cli

import (
	"context"
	"errors"
	"io"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/govrecords/internal/config"
	ingestuc "github.com/kailas-cloud/govrecords/internal/usecase/ingest"
	searchuc "github.com/kailas-cloud/govrecords/internal/usecase/search"
	"github.com/kailas-cloud/govrecords/internal/version"
)

// Ingester loads records into the configured index.
type Ingester interface {
	EnsureIndex(ctx context.Context) error
	DropIndex(ctx context.Context) error
	ImportCSV(ctx context.Context, r io.Reader) (ingestuc.Report, error)
}

// Env is what the commands run against.
type Env struct {
	Search   *searchuc.Service
	Ingest   Ingester
	Defaults config.SearchConfig
	Session  searchuc.SessionOptions
	// Close releases backend connections. May be nil.
	Close func()
}

// Opener builds an Env from a config file path; "" selects the file for $ENV.
type Opener func(ctx context.Context, configPath string) (*Env, error)

type cli struct {
	open       Opener
	configPath string
	env        *Env
}

// NewRootCmd returns the root command. Backends are opened on first use.
func NewRootCmd(open Opener) *cobra.Command {
	c := &cli{open: open}

	root := &cobra.Command{
		Use:           "govrecordsctl",
		Short:         "Search and load government procurement records",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPostRun: func(*cobra.Command, []string) {
			if c.env != nil && c.env.Close != nil {
				c.env.Close()
			}
		},
	}
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "config file (default: config/$ENV.yaml)")

	root.AddCommand(
		c.searchCmd(),
		c.shellCmd(),
		c.importCmd(),
		c.indexCmd(),
		versionCmd(),
	)
	return root
}

func (c *cli) environment(ctx context.Context) (*Env, error) {
	if c.env != nil {
		return c.env, nil
	}
	if c.open == nil {
		return nil, errors.New("no backend configured")
	}
	env, err := c.open(ctx, c.configPath)
	if err != nil {
		return nil, err
	}
	c.env = env
	return env, nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("govrecordsctl %s\n", version.String())
		},
	}
}
