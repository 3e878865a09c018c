package models

import "time"

// Hydrant is one captured hydrant proposal. Field names follow the persisted
// session blob so existing state files keep loading.
type Hydrant struct {
	ID               string  `json:"id"`
	ProposedLocation string  `json:"proposedLocation"`
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	PlusCode         string  `json:"plusCode"`  // Encoded fragment plus area/region suffix
	Timestamp        int64   `json:"timestamp"` // Capture time in unix milliseconds
}

// Coordinate returns the captured position of the hydrant.
func (h Hydrant) Coordinate() Coordinate {
	return Coordinate{Latitude: h.Latitude, Longitude: h.Longitude}
}

// CreatedAt returns the capture time.
func (h Hydrant) CreatedAt() time.Time {
	return time.UnixMilli(h.Timestamp)
}

// SessionData is the persisted shape of a survey session.
type SessionData struct {
	MainAreaLocation string    `json:"mainAreaLocation"`
	Hydrants         []Hydrant `json:"hydrants"`
	IsSetupDone      bool      `json:"isSetupDone"`
}
