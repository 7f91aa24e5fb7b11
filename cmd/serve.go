package cmd

import (
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/dataloom/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the analytics tools over MCP on stdio",
	Long: `Starts the MCP server on stdin/stdout. Tool-calling clients load datasets,
inspect inferred schemas and run analytics through the protocol. All
logging goes to stderr; stdout carries protocol frames only.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s := server.New(cfg, log, Version)
		return s.Serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
