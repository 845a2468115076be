package htmlutil

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func TestCleanText(t *testing.T) {
	table := []struct {
		input    string
		expected string
	}{
		{input: "  Calculus I  ", expected: "Calculus I"},
		{input: "Sun\tTue\n\nThu", expected: "Sun Tue Thu"},
		{input: "\u200bRoom 11\u0007", expected: "Room 11"},
		{input: "", expected: ""},
	}

	for _, row := range table {
		require.Equal(t, row.expected, CleanText(row.input))
	}
}

func TestSelectionText(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(
		`<table><tr><td> Dr.<br>Ahmad   Saleh </td><td></td><td>11:00</td></tr></table>`,
	))
	if err != nil {
		t.Fatal(err)
	}

	cells := doc.Find("td")
	require.Equal(t, "Dr. Ahmad Saleh", SelectionText(cells.Eq(0)))
	require.Equal(t, "", SelectionText(cells.Eq(1)))
	require.Equal(t, "Dr. Ahmad Saleh 11:00", SelectionText(cells))
}
