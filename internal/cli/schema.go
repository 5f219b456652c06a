package cli

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"go.appointy.com/charql/internal/catalog"
	"go.appointy.com/charql/internal/characters"
	"go.appointy.com/charql/introspection"
)

func newSchemaCmd() *SubCommand {
	sc := newSubCommand(&cobra.Command{
		Use:   "schema",
		Short: "Print the introspection JSON of the served schema",
		Args:  cobra.NoArgs,
	})

	sc.Cmd.RunE = func(cmd *cobra.Command, args []string) error {
		// Building the schema never calls the upstream.
		schema, err := characters.Schema(catalog.New(catalog.DefaultBaseURL))
		if err != nil {
			return errors.Wrap(err, "building schema")
		}

		out, err := introspection.ComputeSchemaJSON(schema)
		if err != nil {
			return err
		}
		out = append(out, '\n')
		_, err = cmd.OutOrStdout().Write(out)
		return err
	}
	return sc
}
