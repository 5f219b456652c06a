// Package cli holds the charql command tree.
package cli

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.appointy.com/charql/internal/config"
)

// SubCommand pairs a command with the viper instance its flags are bound to.
type SubCommand struct {
	Cmd  *cobra.Command
	Conf *viper.Viper

	EnvPrefix string
}

// NewRootCmd returns the charql command with every subcommand attached.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "charql",
		Short: "charql: GraphQL gateway for the character catalog",
		Long: `
charql serves a GraphQL schema in front of the character REST API. Every
query field is answered by exactly one upstream call.
` + BuildDetails(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootConf := viper.New()
	root.PersistentFlags().String("config", "",
		"Configuration file. Takes precedence over default values, but is "+
			"overridden to values set with environment variables and flags.")
	_ = rootConf.BindPFlags(root.PersistentFlags())

	subcommands := []*SubCommand{newServeCmd(), newSchemaCmd(), newVersionCmd()}
	for _, sc := range subcommands {
		root.AddCommand(sc.Cmd)
		sc.Conf = viper.New()
		_ = sc.Conf.BindPFlags(sc.Cmd.Flags())
		_ = sc.Conf.BindPFlags(root.PersistentFlags())
		sc.Conf.SetEnvPrefix(sc.EnvPrefix)
		sc.Conf.AutomaticEnv()
	}

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cfg := rootConf.GetString("config")
		if cfg == "" {
			return nil
		}
		for _, sc := range subcommands {
			sc.Conf.SetConfigFile(cfg)
			if err := sc.Conf.ReadInConfig(); err != nil {
				return errors.Wrap(err, "reading config")
			}
		}
		return nil
	}

	return root
}

// Execute runs the command tree against os.Args. It is called by main.main().
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newSubCommand(cmd *cobra.Command) *SubCommand {
	return &SubCommand{Cmd: cmd, EnvPrefix: config.EnvPrefix}
}
