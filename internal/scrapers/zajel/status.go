package zajel

import (
	"strings"
	"unicode"
)

type Status int

const (
	StatusUnknown Status = iota
	StatusOpen
	StatusClosed
	StatusStopped
)

func (s Status) String() string {
	switch s {
	case StatusOpen:
		return "open"
	case StatusClosed:
		return "closed"
	case StatusStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Available is true only for StatusOpen.
func (s Status) Available() bool {
	return s == StatusOpen
}

// the portal marks sections with icons (open.gif, close.gif, stop.gif) and
// sometimes with arabic labels instead. Markers are matched against whole
// words, so "unopened" or "reopening" carry no signal.
var statusMarkers = map[string]Status{
	"stop":      StatusStopped,
	"stopped":   StatusStopped,
	"cancel":    StatusStopped,
	"canceled":  StatusStopped,
	"cancelled": StatusStopped,
	"موقوف":     StatusStopped,
	"موقوفة":    StatusStopped,
	"ملغى":      StatusStopped,
	"ملغي":      StatusStopped,
	"ملغاة":     StatusStopped,
	"close":     StatusClosed,
	"closed":    StatusClosed,
	"مغلق":      StatusClosed,
	"مغلقة":     StatusClosed,
	"open":      StatusOpen,
	"opened":    StatusOpen,
	"مفتوح":     StatusOpen,
	"مفتوحة":    StatusOpen,
}

// a signal containing any of these says nothing reliable about the section
var negations = map[string]struct{}{
	"not": {},
	"no":  {},
	"non": {},
	"un":  {},
	"غير": {},
	"لا":  {},
}

func signalWords(signal string) []string {
	return strings.FieldsFunc(strings.ToLower(signal), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
}

func classifySignal(signal string) Status {
	result := StatusUnknown
	for _, word := range signalWords(signal) {
		if _, ok := negations[word]; ok {
			return StatusUnknown
		}
		status, ok := statusMarkers[word]
		if ok && status > result {
			result = status
		}
	}
	return result
}

// ClassifyStatus combines every indicator found in a row. Stopped wins over
// closed and closed wins over open, so a row is only open when at least one
// signal says so and none contradicts it.
func ClassifyStatus(signals ...string) Status {
	result := StatusUnknown
	for _, signal := range signals {
		status := classifySignal(signal)
		switch {
		case status == StatusStopped:
			return StatusStopped
		case status == StatusClosed:
			result = StatusClosed
		case status == StatusOpen && result == StatusUnknown:
			result = StatusOpen
		}
	}
	return result
}
