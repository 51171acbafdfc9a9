// Package cmd provides the command-line interface for linksim.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// EnvPrefix prefixes the environment variables that set flag defaults.
const EnvPrefix = "LINKSIM_"

// NewRootCommand creates the linksim command and all its subcommands.
func NewRootCommand() *cobra.Command {
	cfg := &runConfig{}

	rootCmd := &cobra.Command{
		Use:   "linksim",
		Short: "linksim simulates devices talking over hubs and switches.",
		Long: `linksim simulates end devices that exchange frames over hubs ` +
			`and switches. A switch learns addresses and may send with ` +
			`CSMA/CD, Stop-and-Wait, Go-Back-N or Selective-Repeat.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return cfg.setUpLogger(cmd.ErrOrStderr())
		},
	}

	cfg.registerFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(
		newLinkCommand(cfg),
		newStarCommand(cfg),
		newSwitchCommand(cfg),
		newLearnCommand(cfg),
		newTraceCommand(),
	)

	return rootCmd
}

// Execute runs the linksim command with the arguments of the process and
// returns the exit code.
func Execute() int {
	// A missing .env file is fine.
	_ = godotenv.Load()

	rootCmd := NewRootCommand()

	err := applyEnvDefaults(rootCmd)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	err = rootCmd.Execute()
	if err != nil {
		return 1
	}

	return 0
}

// envName returns the environment variable that sets the flag.
func envName(flag string) string {
	return EnvPrefix + strings.ToUpper(strings.ReplaceAll(flag, "-", "_"))
}

// applyEnvDefaults sets the flags of cmd and its subcommands from the
// environment. Flags given on the command line still win.
func applyEnvDefaults(cmd *cobra.Command) error {
	var err error

	seen := make(map[*pflag.Flag]bool)
	apply := func(f *pflag.Flag) {
		if err != nil || seen[f] {
			return
		}
		seen[f] = true

		v, ok := os.LookupEnv(envName(f.Name))
		if !ok {
			return
		}

		setErr := f.Value.Set(v)
		if setErr != nil {
			err = fmt.Errorf("invalid %s: %w", envName(f.Name), setErr)
		}
	}

	cmd.PersistentFlags().VisitAll(apply)
	cmd.LocalFlags().VisitAll(apply)

	for _, sub := range cmd.Commands() {
		if err != nil {
			break
		}

		err = applyEnvDefaults(sub)
	}

	return err
}
