package cmd

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ironsheep/doc-scanner/internal/server"
)

func newServeCommand(a *app, version string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP tool server on stdin/stdout",
		Long: `Start a Model Context Protocol server that speaks JSON-RPC over stdin and
stdout. Logs go to stderr. Configure it in an MCP client such as Claude
Desktop.

Tools: image_load, image_dimensions, document_detect, document_rectify,
document_edges.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv, err := a.newServer()
			if err != nil {
				return err
			}
			server.Version = version
			a.logger.Info("starting MCP server", "version", version)
			return srv.Serve(ctx, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}
