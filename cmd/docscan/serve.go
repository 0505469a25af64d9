package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/esimov/docscan/config"
	"github.com/esimov/docscan/server"
	"github.com/spf13/cobra"
)

// serveCmd hosts the browser scanner
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the browser scanner and the export API",
	Long: `Serve the web application (index.html, main.wasm, wasm_exec.js) from the
configured root directory, together with the /api/export/{zip,pdf} endpoint.

Changes to the configuration file are picked up without a restart.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("addr") {
			cfg.Server.Address = serveAddr
		}
		if cmd.Flags().Changed("root") {
			cfg.Server.Root = serveRoot
		}
		cfg.Logging.Debug = cfg.Logging.Debug || debugMode

		srv, err := server.New(cfg, logger)
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if !noWatch {
			go func() {
				err := config.Watch(ctx, configPath, func(c *config.Config) {
					c.Logging.Debug = c.Logging.Debug || debugMode
					srv.Reload(c)
					logger.WithField("path", configPath).Info("configuration reloaded")
				}, func(err error) {
					logger.WithError(err).Warn("cannot reload configuration")
				})
				if err != nil {
					logger.WithError(err).Warn("configuration watcher stopped")
				}
			}()
		}
		return srv.ListenAndServe(ctx)
	},
}

var (
	serveAddr, serveRoot string
	noWatch              bool
)

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "localhost:5000", "listen address")
	serveCmd.Flags().StringVar(&serveRoot, "root", ".", "directory holding the web application")
	serveCmd.Flags().BoolVar(&noWatch, "no-watch", false, "do not reload the configuration file on change")
}
