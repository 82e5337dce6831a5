package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/blogkit/internal/foundation/errors"
)

func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy()
	assert.Equal(t, ModeLinear, p.Mode)
	assert.Equal(t, time.Second, p.Initial)
	assert.Equal(t, 30*time.Second, p.Max)
	assert.Equal(t, 2, p.MaxRetries)
	require.NoError(t, p.Validate())
}

func TestNewPolicyOverrides(t *testing.T) {
	p := NewPolicy(ModeFixed, 5*time.Second, 2*time.Second, 5)
	assert.Equal(t, 2*time.Second, p.Initial, "initial clamped to max")
	assert.Equal(t, 2*time.Second, p.Max)
	assert.Equal(t, ModeFixed, p.Mode)
	assert.Equal(t, 5, p.MaxRetries)

	unknown := NewPolicy("jitter", 0, 0, -1)
	assert.Equal(t, DefaultPolicy(), unknown)
}

func TestDelayModes(t *testing.T) {
	ms := time.Millisecond
	fixed := NewPolicy(ModeFixed, 100*ms, 500*ms, 3)
	linear := NewPolicy(ModeLinear, 100*ms, 250*ms, 5)
	exp := NewPolicy(ModeExponential, 100*ms, 500*ms, 5)

	tests := []struct {
		name    string
		p       Policy
		attempt int
		want    time.Duration
	}{
		{"fixed 1", fixed, 1, 100 * ms},
		{"fixed 3", fixed, 3, 100 * ms},
		{"linear 1", linear, 1, 100 * ms},
		{"linear 2", linear, 2, 200 * ms},
		{"linear capped", linear, 3, 250 * ms},
		{"exp 1", exp, 1, 100 * ms},
		{"exp 3", exp, 3, 400 * ms},
		{"exp capped", exp, 4, 500 * ms},
		{"exp huge", exp, 80, 500 * ms},
		{"zero attempt", exp, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.p.Delay(tt.attempt))
		})
	}
}

func TestValidate(t *testing.T) {
	require.Error(t, Policy{Initial: 0, Max: time.Second}.Validate())
	require.Error(t, Policy{Initial: time.Second, Max: 0}.Validate())
	require.Error(t, Policy{Initial: time.Second, Max: time.Second, MaxRetries: -1}.Validate())
}

func TestDoRetriesTransientErrors(t *testing.T) {
	p := NewPolicy(ModeFixed, time.Millisecond, time.Millisecond, 3)
	calls := 0
	var seen []int
	err := p.Do(context.Background(), func(context.Context) error {
		calls++
		if calls < 3 {
			return ferrors.NetworkError("timeout").Build()
		}
		return nil
	}, func(attempt int, _ error) { seen = append(seen, attempt) })

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []int{1, 2}, seen)
}

func TestDoStopsOnPermanentError(t *testing.T) {
	p := NewPolicy(ModeFixed, time.Millisecond, time.Millisecond, 5)
	calls := 0
	permanent := ferrors.ValidationError("bad tag").Build()
	err := p.Do(context.Background(), func(context.Context) error {
		calls++
		return permanent
	}, nil)

	require.ErrorIs(t, err, permanent)
	assert.Equal(t, 1, calls)
}

func TestDoExhausts(t *testing.T) {
	p := NewPolicy(ModeFixed, time.Millisecond, time.Millisecond, 2)
	calls := 0
	boom := errors.New("boom")
	err := p.Do(context.Background(), func(context.Context) error {
		calls++
		return boom
	}, nil)

	require.ErrorIs(t, err, boom)
	assert.Equal(t, 3, calls)
}

func TestDoHonoursContext(t *testing.T) {
	p := NewPolicy(ModeFixed, time.Hour, time.Hour, 1)
	ctx, cancel := context.WithCancel(context.Background())
	err := p.Do(ctx, func(context.Context) error {
		cancel()
		return errors.New("flaky")
	}, nil)
	require.ErrorIs(t, err, context.Canceled)
}
