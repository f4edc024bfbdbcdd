package mcp

import (
	"context"
	"fmt"
	"net/http"

	"github.com/viant/jsonrpc/transport"
	mcpclientproto "github.com/viant/mcp-protocol/client"
	mcplogger "github.com/viant/mcp-protocol/logger"
	mcpserverproto "github.com/viant/mcp-protocol/server"
	mcpclient "github.com/viant/mcp/client"
	mcpserver "github.com/viant/mcp/server"

	"github.com/viant/deskly/model/types"
)

// NewLoopback returns an MCP client reaching the given provider in process;
// the full protocol round trip still applies.
func NewLoopback(ctx context.Context, provider types.Provider) (mcpclient.Interface, error) {
	if provider == nil {
		return nil, fmt.Errorf("mcp loopback: nil provider")
	}
	handler := newProviderHandler(provider)
	srv, err := mcpserver.New(mcpserver.WithNewHandler(func(_ context.Context, _ transport.Notifier, _ mcplogger.Logger, _ mcpclientproto.Operations) (mcpserverproto.Handler, error) {
		return handler, nil
	}))
	if err != nil {
		return nil, err
	}
	return srv.AsClient(ctx), nil
}

// NewHTTPServer constructs a streamable HTTP server exposing the provider
// abilities as MCP tools. It does not start listening; callers run
// ListenAndServe and handle shutdown.
func NewHTTPServer(ctx context.Context, provider types.Provider, addr string) (*http.Server, error) {
	if provider == nil {
		return nil, fmt.Errorf("mcp server: nil provider")
	}
	if addr == "" {
		return nil, fmt.Errorf("mcp server: empty address")
	}
	handler := newProviderHandler(provider)
	srv, err := mcpserver.New(
		mcpserver.WithRootRedirect(true),
		mcpserver.WithNewHandler(func(_ context.Context, _ transport.Notifier, _ mcplogger.Logger, _ mcpclientproto.Operations) (mcpserverproto.Handler, error) {
			return handler, nil
		}),
	)
	if err != nil {
		return nil, err
	}
	srv.UseStreamableHTTP(true)
	return srv.HTTP(ctx, addr), nil
}
