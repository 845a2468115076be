package notifier

import (
	"bytes"
	"context"
	"course-monitor/internal/components/telemetry"
	"course-monitor/internal/scrapers/zajel"
	"log/slog"
	"net"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

var calculus = zajel.Course{
	Code:     "10651101",
	Name:     "Calculus I",
	Sections: []string{"1", "3"},
}

func TestBuildMessage(t *testing.T) {
	hebron, err := time.LoadLocation("Asia/Hebron")
	require.NoError(t, err)
	checkedAt := time.Date(2026, time.February, 3, 9, 30, 0, 0, hebron)

	msg := BuildMessage(calculus, zajel.SectionRecord{
		SectionId:  "3",
		CourseCode: "10651101",
		Status:     zajel.StatusOpen,
		Available:  true,
		Metadata: map[string]string{
			zajel.MetaCourseName:  "Calculus I",
			zajel.MetaCreditHours: "3",
			zajel.MetaDays:        "Sun Tue Thu",
			zajel.MetaTime:        "09:00 - 10:00",
			zajel.MetaRoom:        "",
			zajel.MetaInstructor:  "Dr. Sami",
		},
	}, checkedAt)

	expected := Message{
		Subject: "[coursemon] Calculus I section 3 is open",
		Body: `Section 3 of Calculus I is now open for registration.

Course code: 10651101
Section: 3
Course name: Calculus I
Credit hours: 3
Days: Sun Tue Thu
Time: 09:00 - 10:00
Instructor: Dr. Sami

Checked at: 2026-02-03 09:30:00 EET
`,
	}
	if diff := cmp.Diff(expected, msg); diff != "" {
		t.Fatalf("message mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildMessageUnnamedCourse(t *testing.T) {
	msg := BuildMessage(
		zajel.Course{Code: "10636211"},
		zajel.SectionRecord{SectionId: "2", CourseCode: "10636211"},
		time.Date(2026, time.February, 3, 9, 30, 0, 0, time.UTC),
	)
	require.Equal(t, "[coursemon] 10636211 section 2 is open", msg.Subject)
	require.Contains(t, msg.Body, "Checked at: 2026-02-03 09:30:00 UTC")
}

func TestLogNotifier(t *testing.T) {
	var out bytes.Buffer
	n := LogNotifier{Logger: slog.New(slog.NewTextHandler(&out, nil))}

	err := n.Notify(context.Background(), Message{Subject: "hello", Body: "world"})
	require.NoError(t, err)
	require.Contains(t, out.String(), "subject=hello")
	require.Contains(t, out.String(), "body=world")
}

func TestNewEmailNotifierValidation(t *testing.T) {
	_, err := NewEmailNotifier(EmailOptions{To: []string{"bob@email.com"}}, telemetry.NewRecorder())
	require.Error(t, err)

	_, err = NewEmailNotifier(EmailOptions{Host: "localhost", Port: 25}, telemetry.NewRecorder())
	require.Error(t, err)
}

func TestEmailNotifierUnreachable(t *testing.T) {
	// grab a free port and release it so nothing is listening
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := listener.Addr().(*net.TCPAddr).Port
	require.NoError(t, listener.Close())

	rec := telemetry.NewRecorder()
	n, err := NewEmailNotifier(EmailOptions{
		Host:        "127.0.0.1",
		Port:        port,
		From:        "alice@email.com",
		Password:    "default",
		To:          []string{"bob@email.com"},
		SendTimeout: 2 * time.Second,
	}, rec)
	require.NoError(t, err)

	err = n.Notify(context.Background(), TestMessage(time.Now()))
	require.Error(t, err)
	require.True(t, rec.HasReport(telemetry.KindBroken, report_email_send))
}

func TestEmailNotifierCancelled(t *testing.T) {
	n, err := NewEmailNotifier(EmailOptions{
		Host: "127.0.0.1",
		Port: 25,
		From: "alice@email.com",
		To:   []string{"bob@email.com"},
	}, telemetry.NewRecorder())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, n.Notify(ctx, TestMessage(time.Now())), context.Canceled)
}
