package tracker

import "course-monitor/internal/scrapers/zajel"

// Result is the outcome of reconciling one poll of a course.
type Result struct {
	// Newly are the sections that became available since they were last
	// notified, in the order they were given.
	Newly []zajel.SectionRecord
	// Cleared are the keys removed by the clear policy.
	Cleared []Key
}

// Reconcile records the available sections of `course` in `set` and returns
// the ones that were not notified yet. `available` must be the full list of
// available target sections from a successful poll, an empty list means the
// course was checked and nothing is open.
func Reconcile(course string, available []zajel.SectionRecord, set *NotifiedSet, policy ClearPolicy) Result {
	if policy == nil {
		policy = DefaultPolicy
	}

	var result Result
	for _, r := range available {
		if set.Add(KeyOf(course, r.SectionId)) {
			result.Newly = append(result.Newly, r)
		}
	}
	result.Cleared = policy.Clear(course, available, set)
	return result
}
