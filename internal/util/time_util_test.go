package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func Test_SameDay(t *testing.T) {
	morning := time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC)
	evening := time.Date(2024, 1, 15, 20, 0, 0, 0, time.UTC)

	require.True(t, SameDay(morning, evening))
	require.False(t, SameDay(morning, NewDate(2024, 1, 16)))
}

func Test_DateLte(t *testing.T) {
	morning := time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC)
	evening := time.Date(2024, 1, 15, 20, 0, 0, 0, time.UTC)
	nextDay := NewDate(2024, 1, 16)

	t.Run("same calendar day regardless of clock", func(t *testing.T) {
		require.True(t, DateLte(evening, morning))
	})

	t.Run("earlier day", func(t *testing.T) {
		require.True(t, DateLte(morning, nextDay))
	})

	t.Run("later day", func(t *testing.T) {
		require.False(t, DateLte(nextDay, evening))
	})
}
