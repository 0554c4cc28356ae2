package astra

import (
	"context"

	"github.com/custodia-labs/vecsync/internal/core/domain"
	"github.com/custodia-labs/vecsync/internal/core/ports/driven"
)

// Ensure Dialer implements the interface.
var _ driven.IndexDialer = (*Dialer)(nil)

// Dialer creates a Client per connection. Options are applied to every
// client it creates.
type Dialer struct {
	opts []Option
}

// NewDialer creates a dialer.
func NewDialer(opts ...Option) *Dialer {
	return &Dialer{opts: opts}
}

// Dial returns a client for settings. No request is sent until the first
// command; schema creation is left to EnsureSchema.
func (d *Dialer) Dial(ctx context.Context, settings domain.ConnectionSettings) (driven.IndexClient, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	client, err := NewClient(settings, d.opts...)
	if err != nil {
		return nil, err
	}
	return client, nil
}
