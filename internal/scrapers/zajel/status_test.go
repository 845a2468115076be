package zajel

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassifyStatus(t *testing.T) {
	table := []struct {
		signals  []string
		expected Status
	}{
		{signals: []string{"/images/open.gif"}, expected: StatusOpen},
		{signals: []string{"OPEN"}, expected: StatusOpen},
		{signals: []string{"/images/close.gif"}, expected: StatusClosed},
		{signals: []string{"Closed"}, expected: StatusClosed},
		{signals: []string{"stopped"}, expected: StatusStopped},
		{signals: []string{"Cancelled"}, expected: StatusStopped},
		{signals: []string{"مفتوحة"}, expected: StatusOpen},
		{signals: []string{"مغلقة"}, expected: StatusClosed},
		{signals: []string{"/images/open.gif", "closed"}, expected: StatusClosed},
		{signals: []string{"stop.gif", "open"}, expected: StatusStopped},
		{signals: []string{"Open (12 seats)"}, expected: StatusOpen},
		{signals: []string{"/images/open1.gif"}, expected: StatusOpen},
		{signals: []string{"", "seat-icon"}, expected: StatusUnknown},
		{signals: []string{"Not open"}, expected: StatusUnknown},
		{signals: []string{"غير مفتوح"}, expected: StatusUnknown},
		{signals: []string{"Unopened"}, expected: StatusUnknown},
		{signals: []string{"un-open"}, expected: StatusUnknown},
		{signals: []string{"reopening soon"}, expected: StatusUnknown},
		{signals: []string{"not open", "closed"}, expected: StatusClosed},
		{signals: nil, expected: StatusUnknown},
	}

	for _, row := range table {
		status := ClassifyStatus(row.signals...)
		require.Equal(t, row.expected, status, "%v", row.signals)
		require.Equal(t, row.expected == StatusOpen, status.Available(), "%v", row.signals)
	}
}

func TestStatusString(t *testing.T) {
	require.Equal(t, "open", StatusOpen.String())
	require.Equal(t, "closed", StatusClosed.String())
	require.Equal(t, "stopped", StatusStopped.String())
	require.Equal(t, "unknown", Status(42).String())
}
