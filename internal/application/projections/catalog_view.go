package projections

import (
	"fmt"
	"html"
	"strings"

	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"switchboard/internal/domain/sandbox"
)

// colorTagCount is the number of avatar colors the host stylesheet defines.
const colorTagCount = 6

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set), so a
// sandbox description cannot inject markup into the host page.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// CatalogRow is one switcher row ready for the host page to render.
type CatalogRow struct {
	Record          sandbox.Record
	Initials        string
	ColorTag        string
	DescriptionHTML string
}

// QueryCatalogView shapes a sandbox list into presentation rows: avatar
// initials from the name, a rotating color tag by position, and the
// description rendered from markdown.
// INVARIANT: records are not mutated
func QueryCatalogView(records []sandbox.Record) []CatalogRow {
	rows := make([]CatalogRow, 0, len(records))
	for i, r := range records {
		rows = append(rows, CatalogRow{
			Record:          r,
			Initials:        nameInitials(r.Name),
			ColorTag:        fmt.Sprintf("color-%d", (i%colorTagCount)+1),
			DescriptionHTML: renderDescription(r.Description),
		})
	}
	return rows
}

// nameInitials takes the first letter of each word and keeps the first
// two, upper-cased, matching the avatar badges in the switcher.
func nameInitials(name string) string {
	initials := make([]rune, 0, 2)
	for _, word := range strings.Fields(name) {
		initials = append(initials, []rune(word)[0])
		if len(initials) == 2 {
			break
		}
	}
	return strings.ToUpper(string(initials))
}

func renderDescription(description string) string {
	if description == "" {
		return ""
	}
	var out strings.Builder
	if err := mdRenderer.Convert([]byte(description), &out); err != nil {
		return "<p>" + html.EscapeString(description) + "</p>"
	}
	return out.String()
}
