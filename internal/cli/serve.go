package cli

import (
	"github.com/spf13/cobra"

	"resumelens/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start an HTTP server exposing resume analysis.

Available endpoints:
- POST /analyze: analyze JSON text or a multipart file upload
- GET /roles: list target roles
- GET /analyses, GET /analyses/{id}: stored results
- GET /health: health check
- GET /stats: rate limiting and analysis statistics

TLS is enabled when both --tls-cert and --tls-key (or server.tls.*) are set.`,
	RunE: runServe,
}

var serveOpts struct {
	port    string
	host    string
	tlsCert string
	tlsKey  string
}

func init() {
	serveCmd.Flags().StringVarP(&serveOpts.port, "port", "p", "", "Port to listen on (default from config)")
	serveCmd.Flags().StringVar(&serveOpts.host, "host", "", "Host to bind to (default from config)")
	serveCmd.Flags().StringVar(&serveOpts.tlsCert, "tls-cert", "", "Server certificate file (PEM, overrides config)")
	serveCmd.Flags().StringVar(&serveOpts.tlsKey, "tls-key", "", "Server private key file (PEM, overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg, logger, err := fromContext(ctx)
	if err != nil {
		return err
	}

	// Flags win over file and environment values.
	if serveOpts.port != "" {
		cfg.Server.Port = serveOpts.port
	}
	if serveOpts.host != "" {
		cfg.Server.Host = serveOpts.host
	}
	if serveOpts.tlsCert != "" {
		cfg.Server.TLS.CertFile = serveOpts.tlsCert
	}
	if serveOpts.tlsKey != "" {
		cfg.Server.TLS.KeyFile = serveOpts.tlsKey
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	rt, err := newApp(ctx, cfg, logger, appOptions{store: true, cache: true, watchRoles: true, observability: true})
	if err != nil {
		return err
	}
	defer rt.Close()

	return server.NewServer(server.ConfigFrom(cfg, Version), rt.service, rt.om, logger).Start(ctx)
}
