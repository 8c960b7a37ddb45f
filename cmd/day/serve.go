package main

import (
	"github.com/amonks/daybook/internal/config"
	"github.com/amonks/daybook/server"
	"github.com/amonks/daybook/tracker"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the tracker over HTTP",
	Long: `Serve the tracker as a JSON API until interrupted.

The address defaults to [server] addr in daybook.toml, then ` + config.DefaultAddr + `.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var serveAddr string

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address")
}

func runServe(cmd *cobra.Command, args []string) error {
	return withTracker(func(t *tracker.Tracker, cfg *config.Config) error {
		addr := serveAddr
		if addr == "" {
			addr = cfg.ServerAddr()
		}
		srv, err := server.NewServer(server.Options{Tracker: t})
		if err != nil {
			return err
		}
		return srv.Serve(addr)
	})
}
