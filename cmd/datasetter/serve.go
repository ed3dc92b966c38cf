package main

import (
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/hupe1980/datasetter/internal/source"
	"github.com/hupe1980/datasetter/server"
	"github.com/spf13/cobra"
)

func newServeCmd(flags *rootFlags) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Load the configured datasets and serve them over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := flags.load()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			loaded, err := source.LoadAll(ctx, cfg, logger)
			if err != nil {
				return err
			}

			gin.SetMode(gin.ReleaseMode)
			srv := server.New(cfg.Server, server.WithLogger(logger))
			for _, l := range loaded {
				srv.Mount(l.URI, l.Dataset)
				logger.InfoContext(ctx, "dataset mounted",
					"uri", l.URI,
					"rows", l.Dataset.Table().Len(),
					"facets", l.Dataset.Facets(),
				)
			}

			return srv.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address override")
	return cmd
}
