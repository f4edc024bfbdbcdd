// Package mcp bridges the ability call boundary onto the Model Context
// Protocol: Service exposes a remote MCP server's tools as an ability
// provider, and the server handler exposes a local provider's abilities as
// MCP tools.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	mcpschema "github.com/viant/mcp-protocol/schema"
	mcpclient "github.com/viant/mcp/client"

	"github.com/viant/deskly/model/types"
)

// Service exposes every tool of an MCP server as a provider ability. Result
// views for the name-only signatures come from the extension type registry.
type Service struct {
	name   string
	client mcpclient.Interface
	token  string
	tools  map[string]mcpschema.Tool
}

// Option customizes the provider
type Option func(*Service)

// WithToken attaches a bearer token to every request sent to the endpoint.
func WithToken(token string) Option {
	return func(s *Service) {
		s.token = token
	}
}

// New initializes the client and pages through the remote tool listing
func New(ctx context.Context, name string, client mcpclient.Interface, options ...Option) (*Service, error) {
	if client == nil {
		return nil, fmt.Errorf("mcp provider %v: nil client", name)
	}
	ret := &Service{
		name:   name,
		client: client,
		tools:  map[string]mcpschema.Tool{},
	}
	for _, option := range options {
		option(ret)
	}
	if _, err := client.Initialize(ctx, ret.requestOptions()...); err != nil {
		return nil, fmt.Errorf("mcp init: %w", err)
	}
	var cursor *string
	for {
		list, err := client.ListTools(ctx, cursor, ret.requestOptions()...)
		if err != nil {
			return nil, fmt.Errorf("list tools: %w", err)
		}
		for _, tool := range list.Tools {
			ret.tools[tool.Name] = tool
		}
		if list.NextCursor == nil || *list.NextCursor == "" {
			break
		}
		cursor = list.NextCursor
	}
	return ret, nil
}

// Name returns the provider identifier
func (s *Service) Name() string {
	return s.name
}

// Abilities returns one signature per remote tool
func (s *Service) Abilities() types.Signatures {
	signatures := make(types.Signatures, 0, len(s.tools))
	for _, tool := range s.tools {
		signature := types.Signature{Name: tool.Name}
		if tool.Description != nil {
			signature.Description = *tool.Description
		}
		signatures = append(signatures, signature)
	}
	return signatures
}

// Ability returns an executable calling the named remote tool
func (s *Service) Ability(name string) (types.Executable, error) {
	tool, ok := s.tools[name]
	if !ok {
		for candidate := range s.tools {
			if strings.EqualFold(candidate, name) {
				tool, ok = s.tools[candidate], true
				break
			}
		}
	}
	if !ok {
		return nil, types.NewAbilityNotFoundError(name)
	}
	return func(ctx context.Context, args types.Args) (types.Result, error) {
		if args == nil {
			args = types.Args{}
		}
		params := &mcpschema.CallToolRequestParams{
			Name:      tool.Name,
			Arguments: mcpschema.CallToolRequestParamsArguments(args),
		}
		result, err := s.client.CallTool(ctx, params, s.requestOptions()...)
		if err != nil {
			return nil, err
		}
		return decodeResult(tool.Name, result)
	}, nil
}

func (s *Service) requestOptions() []mcpclient.RequestOption {
	if s.token == "" {
		return nil
	}
	return []mcpclient.RequestOption{mcpclient.WithAuthToken(s.token)}
}

// decodeResult maps a tool call result back onto the ability result mapping,
// preferring structured content over the serialized text block.
func decodeResult(name string, result *mcpschema.CallToolResult) (types.Result, error) {
	if result == nil {
		return nil, fmt.Errorf("tool %v returned no result", name)
	}
	if result.IsError != nil && *result.IsError {
		return nil, fmt.Errorf("tool %v failed: %v", name, textContent(result))
	}
	if result.StructuredContent != nil {
		if raw, err := json.Marshal(result.StructuredContent); err == nil {
			decoded := types.Result{}
			if err := json.Unmarshal(raw, &decoded); err == nil && len(decoded) > 0 {
				return decoded, nil
			}
		}
	}
	text := textContent(result)
	if text == "" {
		return types.Result{}, nil
	}
	decoded := types.Result{}
	if err := json.Unmarshal([]byte(text), &decoded); err != nil {
		return types.Result{"content": text}, nil
	}
	return decoded, nil
}

func textContent(result *mcpschema.CallToolResult) string {
	if len(result.Content) == 0 {
		return ""
	}
	if len(result.Content) == 1 && result.Content[0].Type == "text" {
		return result.Content[0].Text
	}
	data, _ := json.Marshal(result.Content)
	return string(data)
}
