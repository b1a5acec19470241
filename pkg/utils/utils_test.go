package utils

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConcurrentExecutorCollectsErrors(t *testing.T) {
	e := NewConcurrentExecutor(2)
	boom := errors.New("boom")

	errs := e.Execute(context.Background(),
		func() error { return nil },
		func() error { return boom },
		func() error { return nil },
	)
	require.Len(t, errs, 3)
	assert.NoError(t, errs[0])
	assert.Equal(t, boom, errs[1])
	assert.NoError(t, errs[2])
}

func TestConcurrentExecutorBoundsConcurrency(t *testing.T) {
	e := NewConcurrentExecutor(1)
	var inFlight, maxSeen int32

	fns := make([]func() error, 8)
	for i := range fns {
		fns[i] = func() error {
			n := atomic.AddInt32(&inFlight, 1)
			for {
				m := atomic.LoadInt32(&maxSeen)
				if n <= m || atomic.CompareAndSwapInt32(&maxSeen, m, n) {
					break
				}
			}
			atomic.AddInt32(&inFlight, -1)
			return nil
		}
	}
	e.Execute(context.Background(), fns...)
	assert.LessOrEqual(t, maxSeen, int32(1))
}

func TestConcurrentExecutorRecoversPanics(t *testing.T) {
	e := NewConcurrentExecutor(2)
	errs := e.Execute(context.Background(), func() error { panic("kaboom") })
	require.Len(t, errs, 1)
	var pe *PanicError
	require.ErrorAs(t, errs[0], &pe)
	assert.Equal(t, "kaboom", pe.Value)
}

func TestExecuteWithResults(t *testing.T) {
	vals, errs := ExecuteWithResults(context.Background(), 2,
		func() (int, error) { return 1, nil },
		func() (int, error) { return 0, errors.New("nope") },
		func() (int, error) { return 3, nil },
	)
	require.Len(t, vals, 3)
	assert.Equal(t, 1, vals[0])
	assert.Error(t, errs[1])
	assert.Equal(t, 3, vals[2])
}

func TestFoldName(t *testing.T) {
	assert.Equal(t, "urgent review", FoldName("Urgent-Review"))
	assert.Equal(t, "urgent review", FoldName("urgent_review"))
	assert.Equal(t, "in progress", FoldName("  In Progress "))
}

func TestStripNonAlnum(t *testing.T) {
	assert.Equal(t, "q4budget", StripNonAlnum("Q4 Budget!"))
	assert.Equal(t, "urgentreview", StripNonAlnum("urgent_review"))
}
