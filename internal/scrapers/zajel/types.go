package zajel

import "slices"

// Course is a monitored course, it does not change after startup.
type Course struct {
	Code     string
	Name     string
	Sections []string
}

// Targets reports whether `sectionId` is one of the sections being watched.
func (c Course) Targets(sectionId string) bool {
	return slices.Contains(c.Sections, sectionId)
}

// DisplayName is the configured name of the course, or its code when unnamed.
func (c Course) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	return c.Code
}

// metadata keys of SectionRecord
const (
	MetaCourseName  = "course_name"
	MetaCreditHours = "credit_hours"
	MetaDays        = "days"
	MetaTime        = "time"
	MetaRoom        = "room"
	MetaBuilding    = "building"
	MetaInstructor  = "instructor"
)

// MetadataFields lists the metadata keys in the order their cells appear in a row.
var MetadataFields = []string{
	MetaCourseName,
	MetaCreditHours,
	MetaDays,
	MetaTime,
	MetaRoom,
	MetaBuilding,
	MetaInstructor,
}

// SectionRecord is a single section row of a course's materials page as seen
// during one poll.
type SectionRecord struct {
	SectionId  string
	CourseCode string
	Status     Status
	Available  bool
	Metadata   map[string]string
}
