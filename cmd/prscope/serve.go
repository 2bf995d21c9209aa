package main

import (
	prhttp "github.com/fwojciec/prscope/http"
	"github.com/gin-gonic/gin"
	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newServeCommand(flags *globalFlags) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			if !flags.verbose {
				gin.SetMode(gin.ReleaseMode)
			}

			container, err := newContainer(cfg, logger.StandardLogger())
			if err != nil {
				return err
			}
			var server *prhttp.Server
			if err := container.Invoke(func(s *prhttp.Server) {
				server = s
			}); err != nil {
				return err
			}

			if err := server.Open(); err != nil {
				return err
			}
			<-cmd.Context().Done()
			logger.Info("shutting down")
			return server.Close()
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config)")
	return cmd
}
