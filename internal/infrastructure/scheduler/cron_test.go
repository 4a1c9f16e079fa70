package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCronExpression(t *testing.T) {
	t.Run("rejects wrong field count", func(t *testing.T) {
		_, err := ParseCronExpression("* * * *")
		assert.Error(t, err)
	})

	t.Run("rejects out-of-range value", func(t *testing.T) {
		_, err := ParseCronExpression("60 * * * *")
		assert.Error(t, err)
	})

	t.Run("rejects bad step", func(t *testing.T) {
		_, err := ParseCronExpression("*/0 * * * *")
		assert.Error(t, err)
	})

	t.Run("keeps the raw expression", func(t *testing.T) {
		ce, err := ParseCronExpression("*/5 * * * *")
		require.NoError(t, err)
		assert.Equal(t, "*/5 * * * *", ce.String())
	})
}

func TestCronExpressionNext(t *testing.T) {
	// Saturday 2026-03-07 10:02 UTC.
	base := time.Date(2026, 3, 7, 10, 2, 0, 0, time.UTC)

	t.Run("every five minutes", func(t *testing.T) {
		ce := MustParseCronExpression("*/5 * * * *")
		assert.Equal(t, time.Date(2026, 3, 7, 10, 5, 0, 0, time.UTC), ce.Next(base))
	})

	t.Run("nightly sweep", func(t *testing.T) {
		ce := MustParseCronExpression("0 3 * * *")
		assert.Equal(t, time.Date(2026, 3, 8, 3, 0, 0, 0, time.UTC), ce.Next(base))
	})

	t.Run("weekday match skips the weekend", func(t *testing.T) {
		// Monday only.
		ce := MustParseCronExpression("0 9 * * 1")
		assert.Equal(t, time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC), ce.Next(base))
	})

	t.Run("starts strictly after the given minute", func(t *testing.T) {
		ce := MustParseCronExpression("* * * * *")
		onTheMinute := time.Date(2026, 3, 7, 10, 0, 0, 0, time.UTC)
		assert.Equal(t, onTheMinute.Add(time.Minute), ce.Next(onTheMinute))
	})
}

func TestCronExpressionImplementsSchedule(t *testing.T) {
	var s Schedule = MustParseCronExpression("0 3 * * *")
	assert.NotZero(t, s.Next(time.Now()))
}
