package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"kleinimg/internal/httpapi"

	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Starts the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(true)
			if err != nil {
				return err
			}
			defer a.Close()

			addr, _ := cmd.Flags().GetString("addr")
			if addr == "" {
				addr = a.config.HTTPAddr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			server := httpapi.NewServer(
				a.config,
				a.container.GetCompressionService(),
				a.container.GetImageProcessor(),
				a.container.GetStatisticsService(),
				a.metrics,
			)
			return server.Run(ctx, addr)
		},
	}

	serveCmd.Flags().String("addr", "", "Listen address (default from KLEINIMG_HTTP_ADDR)")
	return serveCmd
}

