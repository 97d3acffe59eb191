package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFixedClock_PinsInstant(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	clock := NewFixedClock(at)

	assert.Equal(t, at, clock.Now())
	assert.Equal(t, at, clock.Now(), "repeated reads do not drift")
}

func TestFixedClock_ZeroMeansDefault(t *testing.T) {
	clock := NewFixedClock(time.Time{})

	assert.Equal(t, DefaultScenarioTime, clock.Now())
}

func TestFixedClock_NormalizesToUTC(t *testing.T) {
	behind := time.FixedZone("UTC-4", -4*60*60)
	clock := NewFixedClock(time.Date(2024, 5, 1, 8, 0, 0, 0, behind))

	assert.Equal(t, time.UTC, clock.Now().Location())
	assert.Equal(t, 12, clock.Now().Hour())
}

func TestFixedClock_Advance(t *testing.T) {
	clock := NewFixedClock(DefaultScenarioTime)

	next := clock.Advance(time.Minute)

	assert.Equal(t, DefaultScenarioTime.Add(time.Minute), next)
	assert.Equal(t, next, clock.Now())
}
