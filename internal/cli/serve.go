package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"go.appointy.com/charql/internal/config"
	"go.appointy.com/charql/internal/logging"
	"go.appointy.com/charql/internal/server"
)

func newServeCmd() *SubCommand {
	sc := newSubCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the GraphQL server",
		Long: "Serve answers GraphQL queries on /graphql until it receives SIGINT or SIGTERM. " +
			"Every flag can also be set as a CHARQL_ prefixed environment variable.",
	})
	config.RegisterFlags(sc.Cmd.Flags())

	sc.Cmd.RunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(sc.Conf)
		if err != nil {
			return err
		}

		logger, err := logging.New(cfg.Env, cfg.LogLevel)
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		srv, err := server.New(cfg, logger)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := srv.Run(ctx); err != nil {
			logger.Error("server failed", zap.Error(err))
			return err
		}
		return nil
	}
	return sc
}
