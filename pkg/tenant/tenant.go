// Package tenant resolves the caller's identity and active workspace. The
// actual session/auth machinery is an external collaborator; the engine only
// consumes this interface and fails closed when resolution fails.
package tenant

import (
	"context"
	"errors"

	"github.com/loomworks/scout/pkg/types"
)

// Resolution errors
var (
	ErrNoWorkspace     = errors.New("no workspace selected")
	ErrUnauthenticated = errors.New("not authenticated")
)

// Provider resolves the tenant context for one request.
type Provider interface {
	ResolveContext(ctx context.Context) (types.WorkspaceContext, error)
}

// StaticProvider always resolves to a fixed workspace and user. Used by the
// one-shot CLI, the embedded drivers, and tests.
type StaticProvider struct {
	WorkspaceID string
	UserID      string
}

// ResolveContext implements Provider.
func (p StaticProvider) ResolveContext(ctx context.Context) (types.WorkspaceContext, error) {
	if err := ctx.Err(); err != nil {
		return types.WorkspaceContext{}, err
	}
	if p.WorkspaceID == "" {
		return types.WorkspaceContext{}, ErrNoWorkspace
	}
	return types.WorkspaceContext{WorkspaceID: p.WorkspaceID, UserID: p.UserID}, nil
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(ctx context.Context) (types.WorkspaceContext, error)

// ResolveContext implements Provider.
func (f ProviderFunc) ResolveContext(ctx context.Context) (types.WorkspaceContext, error) {
	return f(ctx)
}

// ContextProvider resolves the tenant from values the HTTP middleware stashed
// on the request context. It trusts the middleware to have authenticated the
// caller; it only reads.
type ContextProvider struct{}

// ResolveContext implements Provider.
func (ContextProvider) ResolveContext(ctx context.Context) (types.WorkspaceContext, error) {
	if err := ctx.Err(); err != nil {
		return types.WorkspaceContext{}, err
	}
	userID, _ := ctx.Value(types.ContextKeyUserID).(string)
	if userID == "" {
		return types.WorkspaceContext{}, ErrUnauthenticated
	}
	workspaceID, _ := ctx.Value(types.ContextKeyWorkspaceID).(string)
	if workspaceID == "" {
		return types.WorkspaceContext{}, ErrNoWorkspace
	}
	return types.WorkspaceContext{WorkspaceID: workspaceID, UserID: userID}, nil
}
