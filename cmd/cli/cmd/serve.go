// Package cmd - serve command
package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"cloudcart/internal/config"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Run the HTTP API used by the web frontend.

The listen address comes from --addr, then PORT, then server.addr in the
config file (default :3001). AI endpoints answer 503 until GEMINI_API_KEY is set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if serveAddr != "" {
			config.Get().Server.Addr = serveAddr
		}
		a, err := buildApp()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return a.Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address, e.g. :3001")
}
