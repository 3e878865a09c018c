package registry

import (
	"strings"

	"github.com/benmeehan/hydrant-survey/internal/models"
)

// RecordRegistry is the append-only, insertion-ordered collection of captured hydrants.
// It is not safe for concurrent use.
type RecordRegistry struct {
	records []models.Hydrant
	ids     map[string]struct{}
}

// NewRecordRegistry creates an empty registry.
func NewRecordRegistry() *RecordRegistry {
	return &RecordRegistry{
		ids: make(map[string]struct{}),
	}
}

// Add validates the record and appends it to the end of the registry.
func (r *RecordRegistry) Add(record models.Hydrant) error {
	if err := r.validate(record); err != nil {
		return err
	}

	r.records = append(r.records, record)
	r.ids[record.ID] = struct{}{}
	return nil
}

// validate re-checks a record at the registry boundary.
func (r *RecordRegistry) validate(record models.Hydrant) error {
	if strings.TrimSpace(record.ID) == "" {
		return &models.ValidationError{Field: "id", Reason: "must not be empty"}
	}
	if _, exists := r.ids[record.ID]; exists {
		return &models.ValidationError{Field: "id", Reason: "already registered: " + record.ID}
	}
	if strings.TrimSpace(record.ProposedLocation) == "" {
		return &models.ValidationError{Field: "proposedLocation", Reason: "must not be empty"}
	}
	if !record.Coordinate().Valid() {
		return &models.ValidationError{Field: "coordinate", Reason: "outside latitude/longitude range"}
	}
	if n := len(r.records); n > 0 && record.Timestamp < r.records[n-1].Timestamp {
		return &models.ValidationError{Field: "timestamp", Reason: "earlier than the previous record"}
	}
	return nil
}

// List returns a copy of all records, oldest first.
func (r *RecordRegistry) List() []models.Hydrant {
	out := make([]models.Hydrant, len(r.records))
	copy(out, r.records)
	return out
}

// Last returns the most recently added record.
func (r *RecordRegistry) Last() (models.Hydrant, bool) {
	if len(r.records) == 0 {
		return models.Hydrant{}, false
	}
	return r.records[len(r.records)-1], true
}

// Count returns the number of records.
func (r *RecordRegistry) Count() int {
	return len(r.records)
}

// Clear removes every record. There is no undo.
func (r *RecordRegistry) Clear() {
	r.records = nil
	r.ids = make(map[string]struct{})
}
