package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start an MCP server exposing the dispatch table",
	Long: `Start a Model Context Protocol (MCP) server that exposes the dispatch table
as tools: list_classes, send, interpose and info. Every tool call runs on the
main-thread loop, so calls are serialized against each other.

Supported transports:
  stdio             Standard I/O (default)
  streamable-http   Streamable HTTP transport (for remote agents)

Examples:
  uiruntime serve
  uiruntime serve --transport streamable-http --port 8080
  uiruntime serve --metrics-addr :9100`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("transport", "stdio", "Transport: stdio, streamable-http")
	serveCmd.Flags().Int("port", 8080, "HTTP port for streamable-http transport")
	serveCmd.Flags().String("metrics-addr", "", "Serve Prometheus metrics on this address (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	transport, _ := cmd.Flags().GetString("transport")
	port, _ := cmd.Flags().GetInt("port")
	metricsAddr, _ := cmd.Flags().GetString("metrics-addr")
	if metricsAddr == "" {
		metricsAddr = appConfig.Metrics.Addr
	}

	cfg := MCPConfig{
		Transport:   transport,
		Port:        port,
		MetricsAddr: metricsAddr,
	}

	srv, err := newMCPServer(rt)
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	return srv.serve(cfg)
}
