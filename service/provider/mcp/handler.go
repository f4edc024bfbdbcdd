package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/viant/jsonrpc"
	mcpschema "github.com/viant/mcp-protocol/schema"

	"github.com/viant/deskly/model/types"
)

// providerHandler adapts an ability provider to an MCP server handler
// implementing tools/list and tools/call.
type providerHandler struct {
	provider  types.Provider
	abilities map[string]*types.Signature
	tools     []mcpschema.Tool
}

func newProviderHandler(provider types.Provider) *providerHandler {
	ret := &providerHandler{
		provider:  provider,
		abilities: map[string]*types.Signature{},
	}
	for _, signature := range provider.Abilities() {
		signature := signature
		ret.abilities[signature.Name] = &signature
		ret.tools = append(ret.tools, toolFromSignature(&signature))
	}
	return ret
}

// toolFromSignature maps an ability signature to an MCP tool; ability
// arguments are an open mapping, so the input schema stays a bare object.
func toolFromSignature(signature *types.Signature) mcpschema.Tool {
	description := signature.Description
	if description == "" {
		description = signature.Name
	}
	tool := mcpschema.Tool{
		Name:        signature.Name,
		Description: &description,
		InputSchema: mcpschema.ToolInputSchema{
			Type:       "object",
			Properties: mcpschema.ToolInputSchemaProperties{},
		},
	}
	if schema := outputSchema(signature.Output); schema != nil {
		tool.OutputSchema = schema
	}
	return tool
}

func outputSchema(rType reflect.Type) *mcpschema.ToolOutputSchema {
	for rType != nil && rType.Kind() == reflect.Ptr {
		rType = rType.Elem()
	}
	if rType == nil || rType.Kind() != reflect.Struct {
		return nil
	}
	properties := map[string]map[string]interface{}{}
	for i := 0; i < rType.NumField(); i++ {
		field := rType.Field(i)
		if field.PkgPath != "" {
			continue
		}
		name := jsonFieldName(field)
		if name == "" || name == "-" {
			continue
		}
		properties[name] = map[string]interface{}{"type": schemaType(field.Type)}
	}
	return &mcpschema.ToolOutputSchema{Type: "object", Properties: properties}
}

func jsonFieldName(field reflect.StructField) string {
	tag := field.Tag.Get("json")
	if tag == "" {
		return field.Name
	}
	name := strings.Split(tag, ",")[0]
	if name == "" {
		return field.Name
	}
	return name
}

func schemaType(rType reflect.Type) string {
	for rType.Kind() == reflect.Ptr {
		rType = rType.Elem()
	}
	switch rType.Kind() {
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Map, reflect.Struct:
		return "object"
	default:
		return "string"
	}
}

func (h *providerHandler) Initialize(_ context.Context, _ *mcpschema.InitializeRequestParams, _ *mcpschema.InitializeResult) {
}

func (h *providerHandler) ListResources(_ context.Context, _ *jsonrpc.TypedRequest[*mcpschema.ListResourcesRequest]) (*mcpschema.ListResourcesResult, *jsonrpc.Error) {
	return nil, jsonrpc.NewMethodNotFound("resources/list not implemented", nil)
}

func (h *providerHandler) ListResourceTemplates(_ context.Context, _ *jsonrpc.TypedRequest[*mcpschema.ListResourceTemplatesRequest]) (*mcpschema.ListResourceTemplatesResult, *jsonrpc.Error) {
	return nil, jsonrpc.NewMethodNotFound("resources/templates/list not implemented", nil)
}

func (h *providerHandler) ReadResource(_ context.Context, _ *jsonrpc.TypedRequest[*mcpschema.ReadResourceRequest]) (*mcpschema.ReadResourceResult, *jsonrpc.Error) {
	return nil, jsonrpc.NewMethodNotFound("resources/read not implemented", nil)
}

func (h *providerHandler) Subscribe(_ context.Context, _ *jsonrpc.TypedRequest[*mcpschema.SubscribeRequest]) (*mcpschema.SubscribeResult, *jsonrpc.Error) {
	return nil, jsonrpc.NewMethodNotFound("subscribe not implemented", nil)
}

func (h *providerHandler) Unsubscribe(_ context.Context, _ *jsonrpc.TypedRequest[*mcpschema.UnsubscribeRequest]) (*mcpschema.UnsubscribeResult, *jsonrpc.Error) {
	return nil, jsonrpc.NewMethodNotFound("unsubscribe not implemented", nil)
}

func (h *providerHandler) ListTools(_ context.Context, _ *jsonrpc.TypedRequest[*mcpschema.ListToolsRequest]) (*mcpschema.ListToolsResult, *jsonrpc.Error) {
	return &mcpschema.ListToolsResult{Tools: h.tools}, nil
}

func (h *providerHandler) CallTool(ctx context.Context, request *jsonrpc.TypedRequest[*mcpschema.CallToolRequest]) (*mcpschema.CallToolResult, *jsonrpc.Error) {
	if request == nil || request.Request == nil {
		return nil, jsonrpc.NewInvalidRequest("missing request", nil)
	}
	name := strings.TrimSpace(request.Request.Params.Name)
	if i := strings.LastIndexAny(name, ":/"); i != -1 {
		name = name[i+1:]
	}
	signature := h.abilities[name]
	if signature == nil {
		for candidate, match := range h.abilities {
			if strings.EqualFold(candidate, name) {
				signature = match
				break
			}
		}
	}
	if signature == nil {
		return nil, mcpschema.NewUnknownTool(name)
	}
	executable, err := h.provider.Ability(signature.Name)
	if err != nil || executable == nil {
		return nil, jsonrpc.NewInternalError(fmt.Sprintf("ability %v resolve: %v", signature.Name, err), nil)
	}
	args := types.Args{}
	for k, v := range request.Request.Params.Arguments {
		args[k] = v
	}
	result, err := executable(ctx, args)
	if err != nil {
		isError := true
		return &mcpschema.CallToolResult{
			IsError: &isError,
			Content: []mcpschema.CallToolResultContentElem{{Type: "text", Text: err.Error()}},
		}, nil
	}
	var structured map[string]interface{}
	textJSON := ""
	if data, err := json.Marshal(result); err == nil {
		textJSON = string(data)
		_ = json.Unmarshal(data, &structured)
	}
	return &mcpschema.CallToolResult{
		StructuredContent: structured,
		Content:           []mcpschema.CallToolResultContentElem{{Type: "text", Text: textJSON}},
	}, nil
}

func (h *providerHandler) ListPrompts(_ context.Context, _ *jsonrpc.TypedRequest[*mcpschema.ListPromptsRequest]) (*mcpschema.ListPromptsResult, *jsonrpc.Error) {
	return nil, jsonrpc.NewMethodNotFound("prompts/list not implemented", nil)
}

func (h *providerHandler) GetPrompt(_ context.Context, _ *jsonrpc.TypedRequest[*mcpschema.GetPromptRequest]) (*mcpschema.GetPromptResult, *jsonrpc.Error) {
	return nil, jsonrpc.NewMethodNotFound("prompts/get not implemented", nil)
}

func (h *providerHandler) Complete(_ context.Context, _ *jsonrpc.TypedRequest[*mcpschema.CompleteRequest]) (*mcpschema.CompleteResult, *jsonrpc.Error) {
	return nil, jsonrpc.NewMethodNotFound("complete not implemented", nil)
}

func (h *providerHandler) OnNotification(_ context.Context, _ *jsonrpc.Notification) {}

func (h *providerHandler) Implements(method string) bool {
	switch method {
	case mcpschema.MethodToolsList, mcpschema.MethodToolsCall:
		return true
	default:
		return false
	}
}
