package orders

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCurrent(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		caducidad string
		want      bool
	}{
		{name: "empty marker is current", caducidad: "", want: true},
		{name: "blank marker is current", caducidad: "   ", want: true},
		{name: "sentinel is always current", caducidad: "A FINALIZAR", want: true},
		{name: "sentinel lower case", caducidad: "a finalizar", want: true},
		{name: "sentinel padded", caducidad: "  A Finalizar  ", want: true},
		{name: "future date is current", caducidad: "16/06/2024", want: true},
		{name: "same day is current until midnight", caducidad: "15/06/2024", want: true},
		{name: "past date is expired", caducidad: "14/06/2024", want: false},
		{name: "long past date is expired", caducidad: "01/01/2020", want: false},
		{name: "impossible calendar date fails open", caducidad: "31/02/2024", want: true},
		{name: "day out of range fails open", caducidad: "32/01/2024", want: true},
		{name: "month out of range fails open", caducidad: "10/13/2024", want: true},
		{name: "garbage fails open", caducidad: "mañana", want: true},
		{name: "wrong separator fails open", caducidad: "15-06-2024", want: true},
		{name: "missing year fails open", caducidad: "15/06", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Current(tt.caducidad, now))
		})
	}
}

func TestCurrent_EndOfDayBoundary(t *testing.T) {
	// 23:59:59 on the expiry day is still current, one second later is not.
	lastSecond := time.Date(2024, 6, 15, 23, 59, 59, 0, time.UTC)
	require.True(t, Current("15/06/2024", lastSecond))

	midnight := lastSecond.Add(time.Second)
	require.False(t, Current("15/06/2024", midnight))
}

func TestCurrent_IsDeterministic(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		require.True(t, Current("16/06/2024", now))
		require.False(t, Current("14/06/2024", now))
	}
}
