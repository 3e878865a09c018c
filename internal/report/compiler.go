// Package report turns a survey session into the data behind the survey
// report document and into the per-hydrant dispatch message.
package report

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/benmeehan/hydrant-survey/internal/constants"
	"github.com/benmeehan/hydrant-survey/internal/models"
	"github.com/benmeehan/hydrant-survey/internal/session"
	"github.com/jonboulle/clockwork"
)

// Document layout.
const (
	Title            = "Fire Hydrant Survey Report"
	NarrativeHeading = "Professional Technical Summary"
	DateLayout       = "2006-01-02"
	fileNamePrefix   = "Hydrant_Survey_"
)

// Columns are the report table headers, in order.
var Columns = []string{"#", "Proposed Location", "Latitude", "Longitude", "Plus Code"}

const narrativeTemplate = `Based on the field survey conducted in the %[1]s district, the proposed fire hydrant locations have been strategically mapped to ensure maximum market coverage and rapid emergency response. The selected points are primarily located at critical entry and exit points of the high-density commercial zone.

This survey proposes %[2]d hydrant location(s) in %[1]s.

Fire safety justification: The high building density and narrow access routes in %[1]s necessitate a localized pillor-type hydrant network. Each proposed coordinate offers unobstructed access for fire tenders and ensures a reliable water source within a 100-meter radius of any point in the primary bazar.

Official Endorsement: This report serves as a formal proposal for the Civil Works department. The coordinates provided are accurate within ±5 meters based on real-time GPS synchronization.`

const dispatchTemplate = "Hydrant Detail\n" +
	"Station: %s\n" +
	"Location: %s\n" +
	"Longitude and Latitude:\n" +
	"Lat %.6f°\n" +
	"Long %.6f°\n" +
	"Plus Code: %s\n" +
	"Proposed Hydrant location: %s\n" +
	"Hydrant type: %s"

var whitespace = regexp.MustCompile(`\s+`)

// Compiler builds report models stamped with the current time.
type Compiler struct {
	StationID string
	Clock     clockwork.Clock
}

// NewCompiler creates a compiler for stationID using the real clock.
func NewCompiler(stationID string) *Compiler {
	return &Compiler{StationID: stationID, Clock: clockwork.NewRealClock()}
}

// Compile summarizes the snapshot. It does not touch the session.
func (c *Compiler) Compile(snap session.Snapshot) models.ReportModel {
	clock := c.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return Build(snap, c.StationID, clock.Now())
}

// Build is the pure form of Compile.
func Build(snap session.Snapshot, stationID string, generatedAt time.Time) models.ReportModel {
	rows := make([]models.ReportRow, 0, len(snap.Records))
	for i, h := range snap.Records {
		rows = append(rows, models.ReportRow{
			Index:       i + 1,
			Label:       h.ProposedLocation,
			Latitude:    formatDegrees(h.Latitude),
			Longitude:   formatDegrees(h.Longitude),
			DisplayCode: h.PlusCode,
		})
	}

	return models.ReportModel{
		StationID:   stationID,
		AreaLabel:   snap.AreaLabel,
		GeneratedAt: generatedAt,
		Rows:        rows,
		Narrative:   Narrative(snap.AreaLabel, len(rows)),
	}
}

// Narrative fills the technical summary for an area with count proposals.
func Narrative(areaLabel string, count int) string {
	return fmt.Sprintf(narrativeTemplate, areaLabel, count)
}

// DispatchMessage composes the plain-text message sent for one captured hydrant.
// Transport escaping is left to the sink.
func DispatchMessage(stationID, areaLabel string, h models.Hydrant) string {
	return fmt.Sprintf(dispatchTemplate,
		stationID,
		areaLabel,
		h.Latitude,
		h.Longitude,
		h.PlusCode,
		h.ProposedLocation,
		constants.HydrantType,
	)
}

// MetadataLines returns the two header lines printed under the title.
func MetadataLines(m models.ReportModel) [2]string {
	return [2]string{
		fmt.Sprintf("Station ID: %s | Main Area: %s", m.StationID, m.AreaLabel),
		fmt.Sprintf("Total Proposed Hydrants: %d | Date: %s", len(m.Rows), m.GeneratedAt.Format(DateLayout)),
	}
}

// Footer returns the closing line of the document.
func Footer(stationID string) string {
	return fmt.Sprintf("Generated via Official Field Survey Tool - %s Unit", stationID)
}

// FileName returns the base document name, without extension.
func FileName(areaLabel string) string {
	return fileNamePrefix + whitespace.ReplaceAllString(areaLabel, "_")
}

func formatDegrees(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
