// Package mock provides test doubles for breeze interfaces using function fields.
package mock

import (
	"context"

	"github.com/fwojciec/breeze"
)

// Interface compliance check.
var _ breeze.Provider = (*Provider)(nil)

// Provider is a test double for breeze.Provider.
// Set CompleteFn before calling Complete.
type Provider struct {
	CompleteFn func(ctx context.Context, req breeze.Request) (*breeze.Completion, error)
}

// Complete delegates to CompleteFn.
func (p *Provider) Complete(ctx context.Context, req breeze.Request) (*breeze.Completion, error) {
	return p.CompleteFn(ctx, req)
}
