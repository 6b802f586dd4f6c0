package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/ai-news-events/internal/client"
	"github.com/pfrederiksen/ai-news-events/internal/logger"
	"github.com/pfrederiksen/ai-news-events/internal/web"
)

func (a *app) newServeCmd() *cobra.Command {
	var (
		listen     string
		apiBaseURL string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the events API and web pages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("listen") {
				a.cfg.Listen = listen
			}
			if cmd.Flags().Changed("api-base-url") {
				a.cfg.APIBaseURL = apiBaseURL
			}
			a.cfg.Normalize()

			srv, err := a.newServer()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "Listen address (default from config, 127.0.0.1:8080)")
	cmd.Flags().StringVar(&apiBaseURL, "api-base-url", "", "Read the HTML pages from this events API instead of the local store")

	return cmd
}

// newServer wires the store, the page source and the web server
func (a *app) newServer() (*web.Server, error) {
	st, err := a.openStore()
	if err != nil {
		return nil, err
	}

	var opts []web.Option
	if a.cfg.APIBaseURL != "" {
		logger.Info("pages read from remote events API", logger.Fields{"api_base_url": a.cfg.APIBaseURL})
		opts = append(opts, web.WithSource(client.New(a.cfg.APIBaseURL, client.WithTimeout(a.cfg.ClientTimeout))))
	}

	return web.New(a.cfg, st, opts...)
}
