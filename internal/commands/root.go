package commands

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/axonops/authadm/internal/config"
	"github.com/axonops/authadm/internal/store"
)

// Runtime carries the shared dependencies of all subcommands. Tests
// preload Config, Store and Prompt; the CLI fills them in lazily from
// flags and configuration.
type Runtime struct {
	Version    string
	ConfigPath string
	Config     *config.Config
	Logger     *logrus.Logger
	Store      *store.Store
	Prompt     Prompter

	verbose bool
	debug   bool
}

// ensureConfig loads configuration unless it was injected
func (rt *Runtime) ensureConfig() error {
	if rt.Config != nil {
		return nil
	}

	cfg, err := config.Load(rt.ConfigPath)
	if err != nil {
		return err
	}
	rt.Config = cfg

	// flags win over the configured log level
	if !rt.verbose && !rt.debug {
		if level, err := logrus.ParseLevel(cfg.Logging.Level); err == nil {
			rt.Logger.SetLevel(level)
		}
	}
	if strings.EqualFold(cfg.Logging.Format, "json") {
		rt.Logger.SetFormatter(&logrus.JSONFormatter{})
	}

	return nil
}

// ensureStore opens the auth database unless one was injected
func (rt *Runtime) ensureStore() error {
	if err := rt.ensureConfig(); err != nil {
		return err
	}
	if rt.Store != nil {
		return nil
	}

	st, err := store.Open(&rt.Config.Database, rt.Logger)
	if err != nil {
		return err
	}
	rt.Store = st
	return nil
}

// NewRootCommand builds the authadm command tree
func NewRootCommand(rt *Runtime) *cobra.Command {
	if rt.Logger == nil {
		rt.Logger = logrus.New()
		rt.Logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}
	if rt.Prompt == nil {
		rt.Prompt = NewTerminalPrompter(os.Stdin, os.Stderr)
	}

	rootCmd := &cobra.Command{
		Use:   "authadm",
		Short: "Administer the shared authentication database",
		Long: `authadm manages the user, permission and content-type records of a
shared authentication database.

This tool provides the administrative surface services rely on:
- Creating superuser accounts
- Changing user passwords
- Synchronizing model permissions into the database
- Checking the configured user model for inconsistencies`,
		Version:       rt.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Set log level based on flags
			if rt.debug {
				rt.Logger.SetLevel(logrus.DebugLevel)
			} else if rt.verbose {
				rt.Logger.SetLevel(logrus.InfoLevel)
			} else {
				rt.Logger.SetLevel(logrus.WarnLevel)
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&rt.ConfigPath, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&rt.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&rt.debug, "debug", false, "enable debug output")

	rootCmd.AddCommand(newChangePasswordCommand(rt))
	rootCmd.AddCommand(newCreateSuperuserCommand(rt))
	rootCmd.AddCommand(newSyncPermsCommand(rt))
	rootCmd.AddCommand(newCheckCommand(rt))
	rootCmd.AddCommand(newMigrateCommand(rt))

	return rootCmd
}
