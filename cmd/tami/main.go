package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/GriffinCanCode/tami/internal/infrastructure/config"
	"github.com/GriffinCanCode/tami/internal/infrastructure/server"
)

const shutdownTimeout = 5 * time.Second

var (
	// Global flags
	configFile string
	rootPath   string
	debug      bool

	cfg *config.Config
	srv *server.Server
)

// rootCmd opens the home session when run without a subcommand
var rootCmd = &cobra.Command{
	Use:   "tami",
	Short: "Folder tree, favorites and one shell per directory",
	Long: `tami browses a folder tree rooted at your home directory, keeps an
ordered list of favorite folders, and runs one login shell per directory.

Run without arguments to open a shell at the tree root. Press Ctrl-] to
detach from a shell.`,
	Args:              cobra.NoArgs,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	RunE:              runOpen,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default: config.toml in the data directory)")
	rootCmd.PersistentFlags().StringVar(&rootPath, "root", "", "tree root (default: home directory)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "debug logging")

	rootCmd.AddCommand(openCmd, treeCmd, favoritesCmd, shellCmd, configCmd)
}

func setup(cmd *cobra.Command, args []string) error {
	var err error
	if configFile != "" {
		cfg, err = config.LoadFrom(configFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}
	if rootPath != "" {
		cfg.Workspace.Root = rootPath
	}
	if debug {
		cfg.Logging.Level = "debug"
	}

	srv, err = server.New(cfg, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	return srv.Start()
}

func shutdown() error {
	if srv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Close(ctx)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if cerr := shutdown(); cerr != nil {
		fmt.Fprintln(os.Stderr, "Error during shutdown:", cerr)
		if err == nil {
			err = cerr
		}
	}
	if err != nil {
		os.Exit(1)
	}
}
