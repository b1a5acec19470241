// Package identity is the external profile lookup collaborator: it maps user
// IDs to human-readable profiles. The engine consumes the interface only;
// production deployments plug in their own directory service.
package identity

import (
	"context"
	"errors"

	"github.com/loomworks/scout/pkg/types"
)

// ErrProfileNotFound is returned when a user ID has no profile.
var ErrProfileNotFound = errors.New("profile not found")

// Lookup resolves user IDs to profiles.
type Lookup interface {
	// GetProfile returns the profile for one user ID, or ErrProfileNotFound.
	GetProfile(ctx context.Context, userID string) (*types.Profile, error)

	// ListProfiles batch-resolves user IDs. Missing IDs are simply absent
	// from the result map, not an error.
	ListProfiles(ctx context.Context, userIDs []string) (map[string]types.Profile, error)
}

// StaticLookup serves profiles from a fixed map. Used by the one-shot CLI,
// seeded deployments, and tests.
type StaticLookup struct {
	profiles map[string]types.Profile
}

// NewStaticLookup builds a StaticLookup from the given profiles.
func NewStaticLookup(profiles []types.Profile) *StaticLookup {
	m := make(map[string]types.Profile, len(profiles))
	for _, p := range profiles {
		m[p.UserID] = p
	}
	return &StaticLookup{profiles: m}
}

// GetProfile implements Lookup.
func (l *StaticLookup) GetProfile(ctx context.Context, userID string) (*types.Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, ok := l.profiles[userID]
	if !ok {
		return nil, ErrProfileNotFound
	}
	return &p, nil
}

// ListProfiles implements Lookup.
func (l *StaticLookup) ListProfiles(ctx context.Context, userIDs []string) (map[string]types.Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make(map[string]types.Profile, len(userIDs))
	for _, id := range userIDs {
		if p, ok := l.profiles[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}
