package mock

import (
	"context"

	"github.com/fwojciec/breeze"
)

// Interface compliance check.
var _ breeze.ToolSession = (*ToolSession)(nil)

// ToolSession is a test double for breeze.ToolSession.
// CallToolFn panics when nil to catch missing setup. ListToolsFn is nil-safe
// and returns no tools.
type ToolSession struct {
	ListToolsFn func(ctx context.Context) ([]breeze.Tool, error)
	CallToolFn  func(ctx context.Context, name string, args map[string]any) (*breeze.ToolResult, error)
}

// ListTools delegates to ListToolsFn, or returns nil if unset.
func (s *ToolSession) ListTools(ctx context.Context) ([]breeze.Tool, error) {
	if s.ListToolsFn == nil {
		return nil, nil
	}
	return s.ListToolsFn(ctx)
}

// CallTool delegates to CallToolFn.
func (s *ToolSession) CallTool(ctx context.Context, name string, args map[string]any) (*breeze.ToolResult, error) {
	return s.CallToolFn(ctx, name, args)
}
