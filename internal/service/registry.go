package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/GriffinCanCode/jsexec/internal/shared/types"
)

// Provider is a callable tool
type Provider interface {
	Definition() types.Tool
	Call(ctx context.Context, args map[string]any) (any, error)
}

// Registry dispatches tool calls by name
type Registry struct {
	tools sync.Map
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a tool. Names must be unique.
func (r *Registry) Register(provider Provider) error {
	def := provider.Definition()
	if def.Name == "" {
		return fmt.Errorf("tool name cannot be empty")
	}
	if _, loaded := r.tools.LoadOrStore(def.Name, provider); loaded {
		return fmt.Errorf("tool already registered: %s", def.Name)
	}
	return nil
}

// Get retrieves a tool by name
func (r *Registry) Get(name string) (Provider, bool) {
	val, ok := r.tools.Load(name)
	if !ok {
		return nil, false
	}
	return val.(Provider), true
}

// List returns all tool definitions sorted by name
func (r *Registry) List() []types.Tool {
	tools := []types.Tool{}
	r.tools.Range(func(_, value interface{}) bool {
		tools = append(tools, value.(Provider).Definition())
		return true
	})
	sort.Slice(tools, func(i, j int) bool {
		return tools[i].Name < tools[j].Name
	})
	return tools
}

// Call dispatches to the named tool. Every failure comes back as a
// *ToolError; unknown names yield CodeMethodNotFound.
func (r *Registry) Call(ctx context.Context, name string, args map[string]any) (any, *ToolError) {
	provider, ok := r.Get(name)
	if !ok {
		return nil, UnknownTool(name)
	}
	if args == nil {
		args = map[string]any{}
	}

	result, err := provider.Call(ctx, args)
	if err != nil {
		var toolErr *ToolError
		if errors.As(err, &toolErr) {
			return nil, toolErr
		}
		return nil, TranslateError(err)
	}
	return result, nil
}

// Stats returns registry statistics
func (r *Registry) Stats() map[string]interface{} {
	names := []string{}
	for _, tool := range r.List() {
		names = append(names, tool.Name)
	}
	return map[string]interface{}{
		"total_tools": len(names),
		"tools":       names,
	}
}
