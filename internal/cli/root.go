// Package cli provides the command-line interface for fixity.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/fcrepo-tools/fixity/internal/config"
	"github.com/fcrepo-tools/fixity/internal/fedora"
	"github.com/spf13/cobra"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Global flags
	fedoraRoot     string
	fedoraUser     string
	fedoraPassword string
	modelURI       string
	quiet          bool
	maxObjects     int

	// Global config, logger, and repository client
	cfg         config.Config
	logger      *slog.Logger
	closeLogger func() error
	repo        *fedora.Client
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "fixity",
	Short: "Audit and repair datastream checksums in a Fedora repository",
	Long: `Fixity audits checksum metadata across the objects and datastreams of a
Fedora Commons 3.x repository.

validate walks the target objects and classifies every datastream (and
optionally every historical version) as ok, invalid, or missing. repair
forces the repository to recompute checksums for datastreams that have
none, or that are explicitly forced.

Objects are given as trailing PID arguments; without any, every object
carrying the configured content model is targeted.`,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		cfg = config.Load()
		if fedoraRoot != "" {
			cfg.FedoraRoot = fedoraRoot
		}
		if fedoraUser != "" {
			cfg.FedoraUser = fedoraUser
		}
		if fedoraPassword != "" {
			cfg.FedoraPassword = fedoraPassword
		}
		if modelURI != "" {
			cfg.ModelURI = modelURI
		}
		if cfg.FedoraRoot == "" {
			return fmt.Errorf("no repository URL given (use --fedora-root or FEDORA_ROOT)")
		}

		logger, closeLogger = config.SetupLogger(cfg.LogFile, cfg.LogLevel)
		slog.SetDefault(logger)

		if cfg.FedoraUser != "" && cfg.FedoraPassword == "" {
			pw, err := promptPassword(fmt.Sprintf("Password for %s: ", cfg.FedoraUser))
			if err != nil {
				return fmt.Errorf("read password: %w", err)
			}
			cfg.FedoraPassword = pw
		}

		var err error
		repo, err = fedora.New(cfg.FedoraRoot, cfg.FedoraUser, cfg.FedoraPassword,
			fedora.WithTimeout(cfg.HTTPTimeout),
			fedora.WithLogger(logger),
		)
		if err != nil {
			return fmt.Errorf("fedora client: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if closeLogger != nil {
			if err := closeLogger(); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to close log file: %v\n", err)
			}
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&fedoraRoot, "fedora-root", "", "Fedora base URL, e.g. https://fedora.example.com/fedora/")
	pf.StringVar(&fedoraUser, "fedora-user", "", "Fedora username")
	pf.StringVar(&fedoraPassword, "fedora-password", "", "Fedora password (prompts when a user is set and this is omitted)")
	pf.StringVar(&modelURI, "model", "", "content model URI used to discover objects when no PIDs are given")
	pf.BoolVarP(&quiet, "quiet", "q", false, "suppress per-datastream status lines")
	pf.IntVarP(&maxObjects, "max", "m", 0, "stop after checking this many objects")

	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(repairCmd)
}

// resolveTargets returns the pids to process: the deduplicated positional
// args in their given order, or every object carrying the configured
// content model.
func resolveTargets(ctx context.Context, args []string) ([]string, error) {
	if len(args) > 0 {
		return dedupePIDs(args), nil
	}
	pids, err := repo.FindByModel(ctx, cfg.ModelURI)
	if err != nil {
		return nil, fmt.Errorf("find objects by model: %w", err)
	}
	return pids, nil
}

func dedupePIDs(args []string) []string {
	seen := make(map[string]bool, len(args))
	pids := make([]string, 0, len(args))
	for _, pid := range args {
		if seen[pid] {
			continue
		}
		seen[pid] = true
		pids = append(pids, pid)
	}
	return pids
}
