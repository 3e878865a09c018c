package models

import "time"

// ReportRow is one numbered line of the survey table.
type ReportRow struct {
	Index       int    `json:"index"`
	Label       string `json:"label"`
	Latitude    string `json:"latitude"`
	Longitude   string `json:"longitude"`
	DisplayCode string `json:"display_code"`
}

// ReportModel is the renderer-agnostic summary of a survey session.
type ReportModel struct {
	StationID   string      `json:"station_id"`
	AreaLabel   string      `json:"area_label"`
	GeneratedAt time.Time   `json:"generated_at"`
	Rows        []ReportRow `json:"rows"`
	Narrative   string      `json:"narrative"`
}
