package types

// ContextKey is the type used for values the engine stashes on a
// context.Context.
type ContextKey string

const (
	// ContextKeyUserID carries the authenticated user's ID.
	ContextKeyUserID ContextKey = "user_id"
	// ContextKeyWorkspaceID carries the active workspace ID.
	ContextKeyWorkspaceID ContextKey = "workspace_id"
	// ContextKeyRequestID carries the per-request UUID assigned by the
	// server middleware.
	ContextKeyRequestID ContextKey = "request_id"
)
