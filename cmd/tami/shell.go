package main

import (
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/GriffinCanCode/tami/internal/providers/terminal"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Show the shell new sessions run",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		shell := terminal.LoginShell(cfg.Terminal.DefaultShell)()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "shell: %s\n", shell)
		fmt.Fprintf(out, "argv:  %s\n", strings.Join(terminal.LoginArgs(shell), " "))
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as TOML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := toml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("failed to encode config: %w", err)
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}
