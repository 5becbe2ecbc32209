package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/desk/internal/config"
)

// InitResult reports what init created.
type InitResult struct {
	ConfigFile    string `json:"config_file"`
	ConfigWritten bool   `json:"config_written"`
	Database      string `json:"database"`
	People        int    `json:"people"`
	Assets        int    `json:"assets"`
}

// NewInitCommand creates the init command.
func NewInitCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a default config and create the database",
		Long: `Write config.yaml with default settings (if it does not exist) and create
the ledger database with its schema. Running init again is harmless.

Examples:
  desk init
  desk init --config-dir ./etc --data-dir ./var`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(rootOpts, cmd)
		},
	}
}

func runInit(opts *RootOptions, cmd *cobra.Command) error {
	out := formatter(opts, cmd)

	configDir, err := config.ResolveConfigDir(opts.ConfigDir)
	if err != nil {
		return out.Fail("failed to resolve config dir", err)
	}
	written, err := config.WriteDefault(configDir)
	if err != nil {
		return out.Fail("failed to write config", err)
	}

	sess, err := openSession(&RootOptions{
		Verbose:   opts.Verbose,
		Format:    opts.Format,
		ConfigDir: configDir,
		DataDir:   opts.DataDir,
	}, cmd)
	if err != nil {
		return err
	}
	defer sess.Close()

	people, assets, err := sess.store.DirectorySize(cmdContext(cmd))
	if err != nil {
		return out.Fail("failed to read directory", err)
	}

	result := InitResult{
		ConfigFile:    sess.cfg.ConfigFile(),
		ConfigWritten: written,
		Database:      sess.cfg.DatabasePath(),
		People:        people,
		Assets:        assets,
	}
	sess.logger.Info("initialized", "config", result.ConfigFile, "database", result.Database)

	return out.Emit(result, func(w io.Writer) error {
		if written {
			fmt.Fprintf(w, "Wrote %s\n", result.ConfigFile)
		} else {
			fmt.Fprintf(w, "Config %s already exists\n", result.ConfigFile)
		}
		fmt.Fprintf(w, "Database %s ready (%d people, %d assets)\n", result.Database, people, assets)
		return nil
	})
}
