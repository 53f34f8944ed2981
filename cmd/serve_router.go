package cmd

import (
	"github.com/spf13/cobra"

	"github.com/brunosprotte/messenger-server-api/pkg/cmd/server"
)

// serveRouterCmd represents the serve router command
var serveRouterCmd = &cobra.Command{
	Use:   "router",
	Short: "Serve one stateless message router instance",
	Run:   server.RunServeRouter(c),
}

func init() {
	serveCmd.AddCommand(serveRouterCmd)
}
