package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Set through -ldflags "-X go.appointy.com/charql/internal/cli.version=...".
var (
	version = "dev"
	commit  = "unknown"
)

// BuildDetails returns the version information printed by charql version.
func BuildDetails() string {
	return fmt.Sprintf("charql version: %s\nCommit: %s\nGo version: %s\n",
		version, commit, runtime.Version())
}

func newVersionCmd() *SubCommand {
	sc := newSubCommand(&cobra.Command{
		Use:   "version",
		Short: "Prints the charql version details",
		Args:  cobra.NoArgs,
	})
	sc.Cmd.Run = func(cmd *cobra.Command, args []string) {
		fmt.Fprint(cmd.OutOrStdout(), BuildDetails())
	}
	return sc
}
