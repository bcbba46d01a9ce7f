package wait

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/pagekit/pkg/errs"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func TestUntil_SucceedsWithinBudget(t *testing.T) {
	clock := NewFakeClock(epoch)
	readyAt := epoch.Add(1200 * time.Millisecond)

	polls := 0
	err := Poller{Timeout: 2 * time.Second, Interval: 500 * time.Millisecond, Clock: clock}.Until(func() (bool, error) {
		polls++
		return !clock.Now().Before(readyAt), nil
	})

	require.NoError(t, err)
	assert.LessOrEqual(t, polls, 4)
	assert.Equal(t, 4, polls)
}

func TestUntil_TimeoutCarriesSession(t *testing.T) {
	clock := NewFakeClock(epoch)

	err := Poller{
		Timeout:  time.Second,
		Interval: 300 * time.Millisecond,
		Session:  "session-42",
		Message:  "waiting for banner",
		Clock:    clock,
	}.Until(func() (bool, error) { return false, nil })

	var te *errs.TimeoutError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "session-42", te.Session)
	assert.Equal(t, 5, te.Polls)
	assert.Contains(t, err.Error(), "waiting for banner")
	// the last sleep is clipped to the remaining budget
	assert.Equal(t, []time.Duration{300 * time.Millisecond, 300 * time.Millisecond, 300 * time.Millisecond, 100 * time.Millisecond}, clock.Sleeps())
}

func TestUntil_NotFoundIsRetried(t *testing.T) {
	clock := NewFakeClock(epoch)
	polls := 0

	err := Poller{Timeout: time.Second, Interval: 250 * time.Millisecond, Clock: clock}.Until(func() (bool, error) {
		polls++
		if polls < 3 {
			return false, errs.NotFound("id=banner", nil)
		}
		return true, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, polls)
}

func TestUntil_TimeoutKeepsLastNotFound(t *testing.T) {
	err := Poller{Timeout: time.Second, Clock: NewFakeClock(epoch)}.Until(func() (bool, error) {
		return false, errs.NotFound("id=banner", nil)
	})

	assert.True(t, errs.IsNotFound(err))
	var te *errs.TimeoutError
	assert.ErrorAs(t, err, &te)
}

func TestUntil_OtherErrorsPropagateImmediately(t *testing.T) {
	boom := errors.New("boom")
	polls := 0

	err := Poller{Timeout: time.Minute, Clock: NewFakeClock(epoch)}.Until(func() (bool, error) {
		polls++
		return false, boom
	})

	assert.Same(t, boom, err)
	assert.Equal(t, 1, polls)
}

func TestUntil_ListenerFailureIsNotRetried(t *testing.T) {
	broken := errors.Join(errs.Listener("AfterFindBy", errors.New("broken")), errs.NotFound("id=x", nil))
	polls := 0

	err := Poller{Timeout: time.Minute, Clock: NewFakeClock(epoch)}.Until(func() (bool, error) {
		polls++
		return false, broken
	})

	assert.Same(t, broken, err)
	assert.Equal(t, 1, polls)
}

func TestUntil_ZeroTimeoutPollsOnce(t *testing.T) {
	polls := 0
	err := Poller{Clock: NewFakeClock(epoch)}.Until(func() (bool, error) {
		polls++
		return false, nil
	})

	assert.Error(t, err)
	assert.Equal(t, 1, polls)
}

func TestGet(t *testing.T) {
	clock := NewFakeClock(epoch)
	calls := 0

	v, err := Get(Poller{Timeout: time.Second, Interval: 100 * time.Millisecond, Clock: clock}, func() (string, error) {
		calls++
		if calls == 1 {
			return "", errs.NotFound("x", nil)
		}
		return "ready", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ready", v)
}
