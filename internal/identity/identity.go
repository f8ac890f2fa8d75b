// Package identity resolves the acting user of a request against the fixed
// user set and carries it through the context.
package identity

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/dmitrijs2005/avisos/internal/common"
)

type ctxKey string

const actorKey ctxKey = "actor"

// Provider knows the configured users.
type Provider struct {
	users []string
}

func NewProvider(users []string) *Provider {
	return &Provider{users: slices.Clone(users)}
}

// Users returns the known identities in configuration order.
func (p *Provider) Users() []string { return slices.Clone(p.users) }

// Resolve returns the canonical spelling of name, matched case-insensitively
// after trimming, or common.ErrUnknownUser.
func (p *Provider) Resolve(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: no user given", common.ErrUnknownUser)
	}
	for _, u := range p.users {
		if strings.EqualFold(u, name) {
			return u, nil
		}
	}
	return "", fmt.Errorf("%w: %q", common.ErrUnknownUser, name)
}

// WithActor stores the acting user in ctx.
func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// Actor returns the acting user stored by WithActor.
func Actor(ctx context.Context) (string, bool) {
	a, ok := ctx.Value(actorKey).(string)
	return a, ok && a != ""
}
