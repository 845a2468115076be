package notifier

import (
	"context"
	"course-monitor/internal/scrapers/zajel"
	"fmt"
	"strings"
	"time"
)

// Notifier delivers a message to the user, implementations must return an
// error when delivery could not be confirmed.
type Notifier interface {
	Notify(ctx context.Context, msg Message) error
}

type Message struct {
	Subject string
	Body    string
}

var metadataLabels = map[string]string{
	zajel.MetaCourseName:  "Course name",
	zajel.MetaCreditHours: "Credit hours",
	zajel.MetaDays:        "Days",
	zajel.MetaTime:        "Time",
	zajel.MetaRoom:        "Room",
	zajel.MetaBuilding:    "Building",
	zajel.MetaInstructor:  "Instructor",
}

// BuildMessage renders the notification for a section that just opened,
// `checkedAt` is printed in its own location.
func BuildMessage(course zajel.Course, record zajel.SectionRecord, checkedAt time.Time) Message {
	subject := fmt.Sprintf(
		"[coursemon] %s section %s is open",
		course.DisplayName(), record.SectionId,
	)

	var body strings.Builder
	fmt.Fprintf(&body, "Section %s of %s is now open for registration.\n\n", record.SectionId, course.DisplayName())
	fmt.Fprintf(&body, "Course code: %s\n", record.CourseCode)
	fmt.Fprintf(&body, "Section: %s\n", record.SectionId)
	for _, field := range zajel.MetadataFields {
		value := record.Metadata[field]
		if value == "" {
			continue
		}
		fmt.Fprintf(&body, "%s: %s\n", metadataLabels[field], value)
	}
	fmt.Fprintf(&body, "\nChecked at: %s\n", checkedAt.Format("2006-01-02 15:04:05 MST"))

	return Message{
		Subject: subject,
		Body:    body.String(),
	}
}

// TestMessage is the message sent by the test-email command.
func TestMessage(sentAt time.Time) Message {
	return Message{
		Subject: "[coursemon] test email",
		Body: fmt.Sprintf(
			"This is a test message from coursemon, your SMTP settings work.\n\nSent at: %s\n",
			sentAt.Format("2006-01-02 15:04:05 MST"),
		),
	}
}
