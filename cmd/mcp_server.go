package cmd

import (
	"context"
	"fmt"
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gopkg.in/yaml.v3"

	"github.com/mj1618/uiruntime/internal/dispatch"
	"github.com/mj1618/uiruntime/internal/log"
	"github.com/mj1618/uiruntime/internal/version"
)

// mcpServer wraps the MCP server with the runtime it exposes.
type mcpServer struct {
	rt  *Runtime
	mcp *mcpserver.MCPServer
}

// MCPConfig holds MCP server configuration.
type MCPConfig struct {
	Transport   string
	Port        int
	MetricsAddr string
}

// newMCPServer creates and configures an MCP server with all uiruntime tools.
func newMCPServer(r *Runtime) (*mcpServer, error) {
	if r == nil {
		return nil, fmt.Errorf("runtime not initialized")
	}
	s := &mcpServer{rt: r}

	s.mcp = mcpserver.NewMCPServer(
		"uiruntime",
		version.Version,
	)

	s.registerTools()
	return s, nil
}

// serve starts the MCP server with the configured transport.
func (s *mcpServer) serve(cfg MCPConfig) error {
	if cfg.MetricsAddr != "" {
		go s.serveMetrics(cfg.MetricsAddr)
	}

	switch cfg.Transport {
	case "stdio":
		return mcpserver.ServeStdio(s.mcp)
	case "streamable-http":
		httpServer := mcpserver.NewStreamableHTTPServer(s.mcp)
		return httpServer.Start(fmt.Sprintf(":%d", cfg.Port))
	default:
		return fmt.Errorf("unsupported transport: %s (use stdio or streamable-http)", cfg.Transport)
	}
}

func (s *mcpServer) serveMetrics(addr string) {
	logger := log.WithComponent("metrics")
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(s.rt.Registry, promhttp.HandlerOpts{}))
	logger.Info("serving metrics", "addr", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error("metrics listener stopped", "error", err)
	}
}

func (s *mcpServer) registerTools() {
	// list_classes
	s.mcp.AddTool(
		mcp.NewTool("list_classes",
			mcp.WithDescription("List classes in the dispatch table with their superclass and directly defined methods"),
			mcp.WithString("classes", mcp.Description("Comma-separated class names to describe (default: all)")),
		),
		s.handleListClasses,
	)

	// send
	s.mcp.AddTool(
		mcp.NewTool("send",
			mcp.WithDescription("Send a message to a new instance of a class, or to the class itself with scope=type"),
			mcp.WithString("class", mcp.Required(), mcp.Description("Class name (e.g. 'Greeter')")),
			mcp.WithString("selector", mcp.Required(), mcp.Description("Selector to send (e.g. 'sayHi')")),
			mcp.WithString("scope", mcp.Description("instance (default) or type")),
			mcp.WithString("name", mcp.Description("Value stored as the instance's name before sending")),
			mcp.WithString("args", mcp.Description("Comma-separated string arguments")),
		),
		s.handleSend,
	)

	// interpose
	s.mcp.AddTool(
		mcp.NewTool("interpose",
			mcp.WithDescription("Exchange the implementations of two selectors on a class. Repeating the same pair swaps them back unless the repeat policy is reject."),
			mcp.WithString("class", mcp.Required(), mcp.Description("Class name")),
			mcp.WithString("original", mcp.Required(), mcp.Description("Original selector")),
			mcp.WithString("replacement", mcp.Required(), mcp.Description("Replacement selector")),
			mcp.WithString("scope", mcp.Description("instance (default) or type")),
			mcp.WithNumber("times", mcp.Description("Number of applications (default 1)")),
		),
		s.handleInterpose,
	)

	// info
	s.mcp.AddTool(
		mcp.NewTool("info",
			mcp.WithDescription("Show bundle metadata and screen metrics"),
		),
		s.handleInfo,
	)
}

// toText serializes a tool result to YAML for the MCP response.
func toText(v interface{}) string {
	b, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return string(b)
}

func scopeParam(params map[string]interface{}) (dispatch.Scope, error) {
	return dispatch.ParseScope(StringParam(params, "scope", ""))
}

func (s *mcpServer) handleListClasses(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	names := StringListParam(request.GetArguments(), "classes")
	list, err := listClasses(s.rt, names)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(toText(list)), nil
}

func (s *mcpServer) handleSend(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	scope, err := scopeParam(params)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	result, err := executeSend(s.rt,
		StringParam(params, "class", ""),
		StringParam(params, "selector", ""),
		scope,
		StringParam(params, "name", ""),
		toArgs(StringListParam(params, "args")),
	)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !result.OK {
		return mcp.NewToolResultError(toText(result)), nil
	}
	return mcp.NewToolResultText(toText(result)), nil
}

func (s *mcpServer) handleInterpose(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	scope, err := scopeParam(params)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	result, err := executeInterpose(s.rt,
		StringParam(params, "class", ""),
		StringParam(params, "original", ""),
		StringParam(params, "replacement", ""),
		scope,
		IntParam(params, "times", 1),
		"",
	)
	if err != nil {
		result.OK = false
		result.Error = err.Error()
		return mcp.NewToolResultError(toText(result)), nil
	}
	return mcp.NewToolResultText(toText(result)), nil
}

func (s *mcpServer) handleInfo(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(toText(describePlatform(s.rt.Provider))), nil
}
