package commands

import (
	"course-monitor/internal/scrapers/zajel"
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(checkCmd)
}

func newExtractor() zajel.Extractor {
	return zajel.NewExtractor(tel)
}

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	return t
}

type checkedCourse struct {
	course  zajel.Course
	records []zajel.SectionRecord
	err     error
}

var checkCmd = &cobra.Command{
	Use:         "check",
	Short:       "Fetches every configured course once and prints the status of its target sections.",
	Annotations: map[string]string{scopeAnnotation: "portal"},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		client, err := newPortalClient()
		if err != nil {
			return err
		}
		extractor := newExtractor()

		var spin *spinner.Spinner
		if isatty.IsTerminal(os.Stderr.Fd()) && !verbose {
			spin = spinner.New(spinner.CharSets[14], 100*time.Millisecond)
			spin.Writer = os.Stderr
			spin.Start()
		}

		results := []checkedCourse{}
		for _, course := range cfg.ZajelCourses() {
			setSpinnerSuffix(spin, fmt.Sprintf(" fetching %s", course.DisplayName()))
			result := checkedCourse{course: course}
			body, err := client.FetchCourse(ctx, course.Code)
			if err == nil {
				result.records, err = extractor.Scan(body, course)
			}
			result.err = err
			results = append(results, result)
		}
		if spin != nil {
			spin.Stop()
		}

		t := newTable()
		t.AppendHeader(table.Row{"Course", "Section", "Status", "Days", "Time", "Instructor"})
		for _, result := range results {
			name := fmt.Sprintf("%s (%s)", result.course.DisplayName(), result.course.Code)
			if result.err != nil {
				t.AppendRow(table.Row{name, "", "error: " + result.err.Error()})
				continue
			}
			if len(result.records) == 0 {
				t.AppendRow(table.Row{name, "", "no target sections listed"})
				continue
			}
			for _, r := range result.records {
				t.AppendRow(table.Row{
					name,
					r.SectionId,
					r.Status.String(),
					r.Metadata[zajel.MetaDays],
					r.Metadata[zajel.MetaTime],
					r.Metadata[zajel.MetaInstructor],
				})
			}
			t.AppendSeparator()
		}
		t.Render()
		return nil
	},
}

// setSpinnerSuffix holds the spinner's lock since its goroutine reads Suffix
// on every frame.
func setSpinnerSuffix(spin *spinner.Spinner, suffix string) {
	if spin == nil {
		return
	}
	spin.Lock()
	spin.Suffix = suffix
	spin.Unlock()
}
