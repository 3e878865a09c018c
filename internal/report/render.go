package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/benmeehan/hydrant-survey/internal/models"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Renderer writes a compiled report in some output format.
type Renderer interface {
	Render(w io.Writer, m models.ReportModel) error
	Extension() string
}

// Output formats accepted by NewRenderer.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// NewRenderer returns the renderer for format.
func NewRenderer(format string) (Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatText:
		return NewTextRenderer(), nil
	case FormatJSON:
		return &JSONRenderer{}, nil
	default:
		return nil, fmt.Errorf("unsupported report format: %q", format)
	}
}

var (
	colorPrimary = lipgloss.Color("#0066CC")
	colorHeading = lipgloss.Color("#003366")
	colorText    = lipgloss.Color("#505050")
	colorMuted   = lipgloss.Color("#888888")
	colorStripe  = lipgloss.Color("#F0F8FF")
)

// TextRenderer lays the report out as a styled terminal document.
type TextRenderer struct {
	Width int

	titleStyle     lipgloss.Style
	metaStyle      lipgloss.Style
	headingStyle   lipgloss.Style
	narrativeStyle lipgloss.Style
	footerStyle    lipgloss.Style
	headerCell     lipgloss.Style
	cell           lipgloss.Style
	stripedCell    lipgloss.Style
}

// NewTextRenderer creates a text renderer wrapping prose at 100 columns.
func NewTextRenderer() *TextRenderer {
	return &TextRenderer{
		Width: 100,

		titleStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			BorderStyle(lipgloss.ThickBorder()).
			BorderTop(true).
			BorderForeground(colorPrimary),
		metaStyle: lipgloss.NewStyle().
			Foreground(colorText),
		headingStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(colorHeading).
			MarginTop(1),
		narrativeStyle: lipgloss.NewStyle().
			Foreground(colorText),
		footerStyle: lipgloss.NewStyle().
			Foreground(colorMuted).
			Italic(true).
			MarginTop(1),
		headerCell: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(colorPrimary).
			Padding(0, 1),
		cell: lipgloss.NewStyle().
			Padding(0, 1),
		stripedCell: lipgloss.NewStyle().
			Background(colorStripe).
			Padding(0, 1),
	}
}

func (r *TextRenderer) Extension() string { return "txt" }

func (r *TextRenderer) Render(w io.Writer, m models.ReportModel) error {
	meta := MetadataLines(m)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorPrimary)).
		Headers(Columns...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return r.headerCell
			case row%2 == 1:
				return r.stripedCell
			default:
				return r.cell
			}
		})
	for _, row := range m.Rows {
		t.Row(strconv.Itoa(row.Index), row.Label, row.Latitude, row.Longitude, row.DisplayCode)
	}

	doc := lipgloss.JoinVertical(lipgloss.Left,
		r.titleStyle.Render(Title),
		"",
		r.metaStyle.Render(meta[0]),
		r.metaStyle.Render(meta[1]),
		"",
		t.Render(),
		r.headingStyle.Render(NarrativeHeading),
		r.narrativeStyle.Width(r.Width).Render(m.Narrative),
		r.footerStyle.Render(Footer(m.StationID)),
	)

	_, err := fmt.Fprintln(w, doc)
	return err
}

// JSONRenderer writes the report model as indented JSON.
type JSONRenderer struct{}

func (j *JSONRenderer) Extension() string { return "json" }

func (j *JSONRenderer) Render(w io.Writer, m models.ReportModel) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}
