package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/loomworks/scout/pkg/alert"
	"github.com/loomworks/scout/pkg/config"
	"github.com/loomworks/scout/pkg/types"
	"github.com/sony/gobreaker"
)

// CircuitBreakerLookup wraps a Lookup with circuit breaking logic. When the
// upstream directory service degrades, the breaker opens, lookups fail fast,
// and an alert goes out on the state change.
type CircuitBreakerLookup struct {
	inner   Lookup
	cb      *gobreaker.CircuitBreaker
	alerter alert.Alerter
	name    string
}

// NewCircuitBreakerLookup creates a new circuit breaker lookup
func NewCircuitBreakerLookup(inner Lookup, cfg config.CircuitBreakerConfig, alerter alert.Alerter, name string) *CircuitBreakerLookup {
	st := gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    time.Duration(cfg.Interval) * time.Second,
		Timeout:     time.Duration(cfg.Timeout) * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= cfg.ReadyToTripRatio
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			if to == gobreaker.StateOpen {
				msg := fmt.Sprintf("Circuit Breaker '%s' changed status from %s to %s. Too many failures detected.", name, from, to)
				if alerter != nil {
					_ = alerter.Alert(fmt.Sprintf("URGENT: Circuit Breaker Tripped - %s", name), msg)
				}
			}
		},
	}

	return &CircuitBreakerLookup{
		inner:   inner,
		cb:      gobreaker.NewCircuitBreaker(st),
		alerter: alerter,
		name:    name,
	}
}

// GetProfile implements Lookup. A not-found is a normal outcome and must not
// count toward tripping the breaker.
func (c *CircuitBreakerLookup) GetProfile(ctx context.Context, userID string) (*types.Profile, error) {
	resp, err := c.cb.Execute(func() (interface{}, error) {
		p, err := c.inner.GetProfile(ctx, userID)
		if errors.Is(err, ErrProfileNotFound) {
			return (*types.Profile)(nil), nil
		}
		return p, err
	})

	if err != nil {
		return nil, err
	}
	p := resp.(*types.Profile)
	if p == nil {
		return nil, ErrProfileNotFound
	}
	return p, nil
}

// ListProfiles implements Lookup
func (c *CircuitBreakerLookup) ListProfiles(ctx context.Context, userIDs []string) (map[string]types.Profile, error) {
	resp, err := c.cb.Execute(func() (interface{}, error) {
		return c.inner.ListProfiles(ctx, userIDs)
	})

	if err != nil {
		return nil, err
	}
	return resp.(map[string]types.Profile), nil
}
