package zajel

import (
	"bytes"
	"course-monitor/internal/components/telemetry"
	"course-monitor/lib/htmlutil"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	report_extractor_parse = "extractor.parse"
	report_extractor_row   = "extractor.row"
)

// cell positions of a section row on the materials page
const (
	minRowCells    = 3
	keyCell        = 0
	firstMetaCell  = 1
	statusTextCell = 8
)

// Extractor turns a materials page into section records.
type Extractor struct {
	tel telemetry.API
}

func NewExtractor(tel telemetry.API) Extractor {
	return Extractor{tel: telemetry.NewScopedAPI("zajel_extractor", tel)}
}

func sectionPattern(courseCode string) *regexp.Regexp {
	return regexp.MustCompile(
		`(?i)(\w+)\s*/\s*` + regexp.QuoteMeta(courseCode) + `(?:\W|$)`,
	)
}

// statusSignals collects everything in a row that may carry an availability
// marker: icon sources, alt and title texts, classes of inline elements and
// the text of the status cell.
func statusSignals(row *goquery.Selection, cells *goquery.Selection) []string {
	var signals []string
	row.Find("img").Each(func(_ int, img *goquery.Selection) {
		for _, attr := range []string{"src", "alt", "title"} {
			if v, ok := img.Attr(attr); ok {
				signals = append(signals, v)
			}
		}
	})
	if class, ok := row.Attr("class"); ok {
		signals = append(signals, class)
	}
	row.Find("span, i, font").Each(func(_ int, s *goquery.Selection) {
		if class, ok := s.Attr("class"); ok {
			signals = append(signals, class)
		}
	})
	if cells.Length() > statusTextCell {
		signals = append(signals, htmlutil.SelectionText(cells.Eq(statusTextCell)))
	}
	return signals
}

func rowMetadata(cells *goquery.Selection) map[string]string {
	metadata := make(map[string]string, len(MetadataFields))
	for i, field := range MetadataFields {
		idx := firstMetaCell + i
		if idx >= cells.Length() {
			metadata[field] = ""
			continue
		}
		metadata[field] = htmlutil.SelectionText(cells.Eq(idx))
	}
	return metadata
}

// Scan returns a record for every row of `course`'s target sections,
// available or not, in page order. Rows that cannot be understood are
// skipped with a warning. Only an unreadable document is an error.
func (e Extractor) Scan(body []byte, course Course) ([]SectionRecord, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		e.tel.ReportBroken(report_extractor_parse, fmt.Errorf("parse html: %w", err), course.Code)
		return nil, err
	}

	pattern := sectionPattern(course.Code)
	seen := map[string]bool{}
	records := []SectionRecord{}

	doc.Find("tr").Each(func(i int, row *goquery.Selection) {
		cells := row.ChildrenFiltered("td, th")
		if cells.Length() < minRowCells {
			return
		}

		key := htmlutil.SelectionText(cells.Eq(keyCell))
		groups := pattern.FindStringSubmatch(key)
		if len(groups) < 2 {
			if strings.Contains(key, course.Code) {
				e.tel.ReportWarning(
					report_extractor_row,
					fmt.Errorf("unrecognized section key"),
					course.Code,
					i,
					key,
				)
			}
			return
		}

		sectionId := groups[1]
		if !course.Targets(sectionId) {
			return
		}
		if seen[sectionId] {
			e.tel.ReportWarning(
				report_extractor_row,
				fmt.Errorf("duplicate section row"),
				course.Code,
				sectionId,
			)
			return
		}
		seen[sectionId] = true

		status := ClassifyStatus(statusSignals(row, cells)...)
		records = append(records, SectionRecord{
			SectionId:  sectionId,
			CourseCode: course.Code,
			Status:     status,
			Available:  status.Available(),
			Metadata:   rowMetadata(cells),
		})
		e.tel.ReportDebug("parsed section", course.Code, sectionId, status.String())
	})

	return records, nil
}

// Extract returns the target sections of `course` that are currently open.
// The result is never nil: an empty slice means the page was read and none
// of the targets are available.
func (e Extractor) Extract(body []byte, course Course) ([]SectionRecord, error) {
	all, err := e.Scan(body, course)
	if err != nil {
		return nil, err
	}
	available := make([]SectionRecord, 0, len(all))
	for _, r := range all {
		if r.Available {
			available = append(available, r)
		}
	}
	return available, nil
}
