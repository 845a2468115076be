package chrono

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseSchedule(t *testing.T) {
	start := time.Date(2024, time.October, 20, 10, 0, 0, 0, time.UTC)

	cases := []struct {
		spec     string
		expected time.Time
	}{
		{spec: "@every 30s", expected: start.Add(30 * time.Second)},
		{spec: "*/5 * * * *", expected: start.Add(5 * time.Minute)},
		{spec: "0 12 * * *", expected: time.Date(2024, time.October, 20, 12, 0, 0, 0, time.UTC)},
	}

	for _, test := range cases {
		schedule, err := ParseSchedule(test.spec, time.UTC)
		require.NoError(t, err, test.spec)
		next := schedule.Next(start)
		require.True(t, test.expected.Equal(next), "%s: got %s", test.spec, next)
	}

	_, err := ParseSchedule("every thirty seconds", time.UTC)
	require.Error(t, err)
}

func TestEvery(t *testing.T) {
	start := time.Date(2024, time.October, 20, 10, 0, 0, 0, time.UTC)
	require.Equal(t, start.Add(1500*time.Millisecond), Every(1500*time.Millisecond).Next(start))
}

func TestSleepCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	begin := time.Now()
	err := Sleep(ctx, time.Hour)
	require.ErrorIs(t, err, context.Canceled)
	require.Less(t, time.Since(begin), time.Second)

	require.NoError(t, Sleep(context.Background(), time.Millisecond))
}

func TestStandardTimeLocation(t *testing.T) {
	clock, err := NewStandardTime("Asia/Hebron")
	require.NoError(t, err)
	require.Equal(t, "Asia/Hebron", clock.Now().Location().String())

	_, err = NewStandardTime("Not/A_Zone")
	require.Error(t, err)
}
