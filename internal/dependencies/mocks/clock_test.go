package mocks

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMockClockFiresDueTimers(t *testing.T) {
	c := NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))

	var fired []string
	c.AfterFunc(5*time.Second, func() { fired = append(fired, "five") })
	c.AfterFunc(time.Second, func() { fired = append(fired, "one") })

	c.Advance(2 * time.Second)
	assert.Equal(t, []string{"one"}, fired)
	assert.Equal(t, 1, c.Pending())

	c.Advance(3 * time.Second)
	assert.Equal(t, []string{"one", "five"}, fired)
	assert.Equal(t, 0, c.Pending())
}

func TestMockClockStoppedTimerDoesNotFire(t *testing.T) {
	c := NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))

	fired := false
	timer := c.AfterFunc(time.Second, func() { fired = true })

	assert.True(t, timer.Stop())
	assert.False(t, timer.Stop())

	c.Advance(time.Minute)
	assert.False(t, fired)
}

func TestMockTickerTicksOnAdvance(t *testing.T) {
	c := NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	ticker := c.NewTicker(time.Minute)
	assert.Equal(t, 1, c.Pending())

	c.Advance(30 * time.Second)
	select {
	case <-ticker.C():
		t.Fatal("ticked early")
	default:
	}

	c.Advance(30 * time.Second)
	select {
	case at := <-ticker.C():
		assert.Equal(t, time.Date(2024, 1, 1, 12, 1, 0, 0, time.UTC), at)
	default:
		t.Fatal("expected a tick")
	}

	// Re-armed for the next interval
	assert.Equal(t, 1, c.Pending())
}

func TestMockTickerStop(t *testing.T) {
	c := NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	ticker := c.NewTicker(time.Minute)

	ticker.Stop()
	assert.Equal(t, 0, c.Pending())

	c.Advance(time.Hour)
	select {
	case <-ticker.C():
		t.Fatal("stopped ticker ticked")
	default:
	}
}
