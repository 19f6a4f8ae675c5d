package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// NoArgs rejects positional arguments. A command with subcommands answers
// with its usage, so "hostvuln foo" lists what is available.
func NoArgs(cmd *cobra.Command, args []string) error {
	if len(args) < 1 {
		return nil
	}

	if cmd.HasSubCommands() {
		return errors.New("\n" + strings.TrimRight(cmd.UsageString(), "\n"))
	}

	return fmt.Errorf("%q accepts no argument, got %q.\nSee '%s --help'.\n\nUsage:  %s\n\n%s",
		cmd.CommandPath(),
		args[0],
		cmd.CommandPath(),
		cmd.UseLine(),
		cmd.Short)
}
