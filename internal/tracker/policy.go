package tracker

import (
	"course-monitor/internal/scrapers/zajel"
	"fmt"
)

// ClearPolicy decides which notified keys of a course are dropped after a
// poll of that course, making the section eligible for a new notification
// the next time it is seen open.
type ClearPolicy interface {
	Name() string
	// Clear removes keys of `course` from `set` given the sections that
	// were found available and returns the removed keys.
	Clear(course string, available []zajel.SectionRecord, set *NotifiedSet) []Key
}

// CourseEmptyPolicy clears a course's keys only once none of its target
// sections are available. A section that closes while a sibling section of
// the same course stays open keeps its key, so it is not notified again if
// it reopens before the whole course closes.
type CourseEmptyPolicy struct{}

func (CourseEmptyPolicy) Name() string {
	return "course"
}

func (CourseEmptyPolicy) Clear(course string, available []zajel.SectionRecord, set *NotifiedSet) []Key {
	if len(available) > 0 {
		return nil
	}
	return set.RemoveCourse(course)
}

// PerSectionPolicy clears the key of every section of the course that was
// not found available.
type PerSectionPolicy struct{}

func (PerSectionPolicy) Name() string {
	return "section"
}

func (PerSectionPolicy) Clear(course string, available []zajel.SectionRecord, set *NotifiedSet) []Key {
	open := make(map[Key]bool, len(available))
	for _, r := range available {
		open[KeyOf(course, r.SectionId)] = true
	}

	var removed []Key
	for _, k := range set.Keys() {
		if k.Course != course || open[k] {
			continue
		}
		set.Remove(k)
		removed = append(removed, k)
	}
	return removed
}

var DefaultPolicy ClearPolicy = CourseEmptyPolicy{}

// ParseClearPolicy maps a configured policy name to its implementation, an
// empty name selects DefaultPolicy.
func ParseClearPolicy(name string) (ClearPolicy, error) {
	switch name {
	case "":
		return DefaultPolicy, nil
	case CourseEmptyPolicy{}.Name():
		return CourseEmptyPolicy{}, nil
	case PerSectionPolicy{}.Name():
		return PerSectionPolicy{}, nil
	}
	return nil, fmt.Errorf("unknown clear policy %q (expected \"course\" or \"section\")", name)
}
