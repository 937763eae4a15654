package views

import (
	"fmt"
	"strings"
)

type TaskRowData struct {
	ID        string
	Title     string
	Priority  string
	Band      string
	Remaining string
	Done      bool
}

type SectionData struct {
	Title   string
	Rows    []TaskRowData
	Focused bool
	Cursor  int
}

// RenderSections draws the dashboard body: every section in order, with
// the cursor marker only inside the focused one.
func RenderSections(sections []SectionData) string {
	var b strings.Builder
	for i, section := range sections {
		if i > 0 {
			b.WriteString("\n")
		}
		renderSection(&b, section)
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func renderSection(b *strings.Builder, section SectionData) {
	marker := " "
	if section.Focused {
		marker = "*"
	}
	b.WriteString(fmt.Sprintf("%s %s (%d):\n", marker, section.Title, len(section.Rows)))
	if len(section.Rows) == 0 {
		b.WriteString("    (none)\n")
		return
	}
	for i, row := range section.Rows {
		cursor := " "
		if section.Focused && section.Cursor == i {
			cursor = ">"
		}
		b.WriteString(fmt.Sprintf("  %s %s %s", cursor, BandBadge(row.Band, row.Done), row.Title))
		if row.Priority != "" {
			b.WriteString(" p:" + row.Priority)
		}
		if row.Remaining != "" {
			b.WriteString(" (" + row.Remaining + ")")
		}
		b.WriteString(" #" + shortID(row.ID))
		b.WriteString("\n")
	}
}

func BandBadge(band string, done bool) string {
	if done {
		return quietBadgeStyle.Render("[DONE]")
	}
	switch band {
	case "high":
		return highBadgeStyle.Render("[HIGH]")
	case "medium":
		return mediumBadgeStyle.Render("[MED ]")
	default:
		return quietBadgeStyle.Render("[    ]")
	}
}

func RenderQuickAdd(active bool, inputView string) string {
	if !active {
		return ""
	}
	return "quick-add: " + inputView
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
