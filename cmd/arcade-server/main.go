// arcade-server hosts real-time two-player arcade matches over websockets.
//
// Usage:
//
//	arcade-server serve              - Start the HTTP/websocket server
//
// Global flags:
//
//	--config <path>  - Path to a YAML config file (defaults apply without one)
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var flagConfig string

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "arcade-server",
	Short: "Arcade server - host two-player matches over websockets",
	Long: `Arcade server hosts real-time two-player matches: tic-tac-toe, tron
light cycles, a co-op asteroid shooter, and an artillery duel.

Players create a match over HTTP, share the six-character code, and play
over a websocket connection. Finished matches are recorded to SQLite.

Examples:
  arcade-server serve
  arcade-server serve --config /etc/arcade/config.yaml
  arcade-server serve --listen :9000`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to YAML config file")

	rootCmd.AddCommand(serveCmd)
}
