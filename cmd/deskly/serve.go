package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/viant/deskly/model/types"
	"github.com/viant/deskly/service/provider/desk"
	"github.com/viant/deskly/service/provider/local"
	providermcp "github.com/viant/deskly/service/provider/mcp"
)

// ServeCmd exposes a built-in ability provider as a streamable MCP HTTP
// server, so other deskly instances can route stages to it as an endpoint.
type ServeCmd struct {
	Addr      string `short:"a" long:"addr" description:"listen address" default:":5001"`
	Provider  string `short:"p" long:"provider" description:"provider to expose" choice:"internal" choice:"external" default:"external"`
	Score     *int   `long:"score" description:"override the solution evaluation score (internal provider)"`
	Threshold *int   `long:"threshold" description:"override the escalation threshold (external provider)"`
}

func (s *ServeCmd) Execute(_ []string) error {
	var provider types.Provider
	switch s.Provider {
	case "internal":
		var options []local.Option
		if s.Score != nil {
			options = append(options, local.WithSolutionScore(*s.Score))
		}
		provider = local.New(options...)
	default:
		var options []desk.Option
		if s.Threshold != nil {
			options = append(options, desk.WithThreshold(*s.Threshold))
		}
		provider = desk.New(options...)
	}

	ctx := context.Background()
	server, err := providermcp.NewHTTPServer(ctx, provider, s.Addr)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("deskly MCP server listening on %s exposing the %s provider", s.Addr, provider.Name())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		errCh <- nil
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("Received %s, initiating graceful shutdown", sig)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
		return nil
	case err := <-errCh:
		return err
	}
}
