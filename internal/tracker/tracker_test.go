package tracker

import (
	"course-monitor/internal/scrapers/zajel"
	"testing"

	"github.com/stretchr/testify/require"
)

func open(course string, sections ...string) []zajel.SectionRecord {
	out := []zajel.SectionRecord{}
	for _, s := range sections {
		out = append(out, zajel.SectionRecord{
			SectionId:  s,
			CourseCode: course,
			Status:     zajel.StatusOpen,
			Available:  true,
		})
	}
	return out
}

func sectionIds(records []zajel.SectionRecord) []string {
	out := []string{}
	for _, r := range records {
		out = append(out, r.SectionId)
	}
	return out
}

func TestReconcileOpenCloseReopen(t *testing.T) {
	set := NewNotifiedSet()

	// poll 1: opens
	res := Reconcile("C1", open("C1", "1"), set, DefaultPolicy)
	require.Equal(t, []string{"1"}, sectionIds(res.Newly))
	require.True(t, set.Has(KeyOf("C1", "1")))

	// poll 2: still open
	res = Reconcile("C1", open("C1", "1"), set, DefaultPolicy)
	require.Empty(t, res.Newly)
	require.True(t, set.Has(KeyOf("C1", "1")))

	// poll 3: closed
	res = Reconcile("C1", open("C1"), set, DefaultPolicy)
	require.Empty(t, res.Newly)
	require.Equal(t, []Key{KeyOf("C1", "1")}, res.Cleared)
	require.False(t, set.Has(KeyOf("C1", "1")))

	// poll 4: reopened
	res = Reconcile("C1", open("C1", "1"), set, DefaultPolicy)
	require.Equal(t, []string{"1"}, sectionIds(res.Newly))
}

func TestReconcileIdempotent(t *testing.T) {
	set := NewNotifiedSet()
	available := open("C1", "1", "2", "3")

	first := Reconcile("C1", available, set, DefaultPolicy)
	require.Equal(t, []string{"1", "2", "3"}, sectionIds(first.Newly))

	second := Reconcile("C1", available, set, DefaultPolicy)
	require.Empty(t, second.Newly)
	require.Empty(t, second.Cleared)
	require.Equal(t, 3, set.Len())
}

func TestReconcileDuplicateRecordsNotifyOnce(t *testing.T) {
	set := NewNotifiedSet()
	res := Reconcile("C1", open("C1", "1", "1"), set, DefaultPolicy)
	require.Equal(t, []string{"1"}, sectionIds(res.Newly))
}

func TestReconcileEmptyClearsOnlyThatCourse(t *testing.T) {
	set := NewNotifiedSet()
	Reconcile("C1", open("C1", "1", "2"), set, DefaultPolicy)
	Reconcile("C10", open("C10", "1"), set, DefaultPolicy)
	Reconcile("C2", open("C2", "1"), set, DefaultPolicy)

	res := Reconcile("C1", nil, set, DefaultPolicy)
	require.Equal(t, []Key{KeyOf("C1", "1"), KeyOf("C1", "2")}, res.Cleared)
	for _, k := range set.Keys() {
		require.NotEqual(t, "C1", k.Course)
	}
	require.Equal(t, []Key{KeyOf("C10", "1"), KeyOf("C2", "1")}, set.Keys())
}

func TestCourseEmptyPolicyKeepsClosedSiblings(t *testing.T) {
	set := NewNotifiedSet()
	Reconcile("C1", open("C1", "1", "2"), set, CourseEmptyPolicy{})

	// section 2 closes while section 1 stays open: its key is kept
	res := Reconcile("C1", open("C1", "1"), set, CourseEmptyPolicy{})
	require.Empty(t, res.Cleared)
	require.True(t, set.Has(KeyOf("C1", "2")))

	// so when it reopens no new notification is produced
	res = Reconcile("C1", open("C1", "1", "2"), set, CourseEmptyPolicy{})
	require.Empty(t, res.Newly)
}

func TestPerSectionPolicy(t *testing.T) {
	set := NewNotifiedSet()
	Reconcile("C1", open("C1", "1", "2"), set, PerSectionPolicy{})
	Reconcile("C2", open("C2", "2"), set, PerSectionPolicy{})

	res := Reconcile("C1", open("C1", "1"), set, PerSectionPolicy{})
	require.Equal(t, []Key{KeyOf("C1", "2")}, res.Cleared)
	require.True(t, set.Has(KeyOf("C2", "2")))

	res = Reconcile("C1", open("C1", "1", "2"), set, PerSectionPolicy{})
	require.Equal(t, []string{"2"}, sectionIds(res.Newly))

	res = Reconcile("C1", nil, set, PerSectionPolicy{})
	require.Equal(t, []Key{KeyOf("C1", "1"), KeyOf("C1", "2")}, res.Cleared)
	require.Equal(t, []Key{KeyOf("C2", "2")}, set.Keys())
}

func TestParseClearPolicy(t *testing.T) {
	policy, err := ParseClearPolicy("")
	require.NoError(t, err)
	require.Equal(t, "course", policy.Name())

	policy, err = ParseClearPolicy("section")
	require.NoError(t, err)
	require.Equal(t, PerSectionPolicy{}, policy)

	_, err = ParseClearPolicy("never")
	require.Error(t, err)
}

func TestKeyString(t *testing.T) {
	require.Equal(t, "10651101-3", KeyOf("10651101", "3").String())
}

func TestNotifiedSet(t *testing.T) {
	set := NewNotifiedSet()
	require.True(t, set.Add(KeyOf("C1", "1")))
	require.False(t, set.Add(KeyOf("C1", "1")))
	require.True(t, set.Remove(KeyOf("C1", "1")))
	require.False(t, set.Remove(KeyOf("C1", "1")))
	require.Equal(t, 0, set.Len())
	require.Empty(t, set.RemoveCourse("C1"))
}
