// Package session holds the survey session state machine and its persistence
// round-trip through a blob store.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/benmeehan/hydrant-survey/internal/constants"
	"github.com/benmeehan/hydrant-survey/internal/models"
	"github.com/benmeehan/hydrant-survey/internal/registry"
	"github.com/benmeehan/hydrant-survey/pkg/blobstore"
	"github.com/rs/zerolog"
)

// ErrPersistence wraps blob store write failures. The in-memory state has
// already changed when it is returned.
var ErrPersistence = errors.New("failed to persist survey session")

// Snapshot is a read-only copy of the session state.
type Snapshot struct {
	AreaLabel  string
	Configured bool
	Records    []models.Hydrant
}

// SurveySession aggregates the configured survey area and its record registry.
// It is not safe for concurrent use.
type SurveySession struct {
	areaLabel   string
	defaultArea string
	state       constants.SessionState
	records     *registry.RecordRegistry

	store            blobstore.BlobStore
	key              string
	logger           zerolog.Logger
	validTransitions map[constants.SessionState][]constants.SessionState
}

// NewSurveySession restores the session stored under constants.SessionStateKey,
// falling back to an empty unconfigured session when nothing usable is stored.
// A blank defaultArea selects constants.DefaultMainArea.
func NewSurveySession(ctx context.Context, store blobstore.BlobStore, defaultArea string, logger zerolog.Logger) *SurveySession {
	if strings.TrimSpace(defaultArea) == "" {
		defaultArea = constants.DefaultMainArea
	}

	s := &SurveySession{
		defaultArea: defaultArea,
		store:       store,
		key:         constants.SessionStateKey,
		logger:      logger,
		validTransitions: map[constants.SessionState][]constants.SessionState{
			constants.SessionUnconfigured: {constants.SessionConfigured, constants.SessionUnconfigured},
			constants.SessionConfigured:   {constants.SessionUnconfigured},
		},
	}
	s.resetInMemory()
	s.restore(ctx)
	return s
}

// resetInMemory puts the session back into its empty unconfigured state.
func (s *SurveySession) resetInMemory() {
	s.areaLabel = s.defaultArea
	s.state = constants.SessionUnconfigured
	s.records = registry.NewRecordRegistry()
}

// restore loads the persisted blob. Absent or malformed state leaves the default session in place.
func (s *SurveySession) restore(ctx context.Context) {
	blob, err := s.store.Get(ctx, s.key)
	if err != nil {
		if errors.Is(err, blobstore.ErrBlobNotFound) {
			s.logger.Info().Str("key", s.key).Msg("No stored survey session, starting fresh")
		} else {
			s.logger.Warn().Err(err).Str("key", s.key).Msg("Failed to read stored survey session, starting fresh")
		}
		return
	}

	if err := s.decode(blob); err != nil {
		s.logger.Warn().Err(err).Str("key", s.key).Msg("Stored survey session is malformed, starting fresh")
		s.resetInMemory()
		return
	}

	s.logger.Info().
		Str("area", s.areaLabel).
		Bool("configured", s.IsConfigured()).
		Int("records", s.records.Count()).
		Msg("Survey session restored")
}

// decode replaces the in-memory state with the contents of blob.
func (s *SurveySession) decode(blob []byte) error {
	var data models.SessionData
	if err := json.Unmarshal(blob, &data); err != nil {
		return fmt.Errorf("failed to unmarshal session: %w", err)
	}

	records := registry.NewRecordRegistry()
	for i, h := range data.Hydrants {
		if err := records.Add(h); err != nil {
			return fmt.Errorf("stored record %d rejected: %w", i, err)
		}
	}

	s.areaLabel = strings.TrimSpace(data.MainAreaLocation)
	if s.areaLabel == "" {
		s.areaLabel = s.defaultArea
	}
	s.state = constants.SessionUnconfigured
	if data.IsSetupDone {
		s.state = constants.SessionConfigured
	}
	s.records = records
	return nil
}

// Encode serializes the full session state into the persisted blob format.
func (s *SurveySession) Encode() ([]byte, error) {
	hydrants := s.records.List()
	if hydrants == nil {
		hydrants = []models.Hydrant{}
	}

	return json.Marshal(models.SessionData{
		MainAreaLocation: s.areaLabel,
		Hydrants:         hydrants,
		IsSetupDone:      s.IsConfigured(),
	})
}

// persist writes the current state. Failures are returned but never rolled back.
func (s *SurveySession) persist(ctx context.Context) error {
	blob, err := s.Encode()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if err := s.store.Put(ctx, s.key, blob); err != nil {
		s.logger.Error().Err(err).Str("key", s.key).Msg("Failed to persist survey session")
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}

// transition moves to the next state if the lifecycle allows it.
func (s *SurveySession) transition(next constants.SessionState) error {
	for _, allowed := range s.validTransitions[s.state] {
		if allowed == next {
			s.state = next
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", models.ErrInvalidState, s.state, next)
}

// Setup configures the survey area. A blank label falls back to the default area.
func (s *SurveySession) Setup(ctx context.Context, areaLabel string) error {
	area := strings.TrimSpace(areaLabel)
	if area == "" {
		area = s.defaultArea
	}

	if err := s.transition(constants.SessionConfigured); err != nil {
		return err
	}
	s.areaLabel = area

	s.logger.Info().Str("area", area).Msg("Survey session configured")
	return s.persist(ctx)
}

// Capture appends a record. It requires a configured session.
func (s *SurveySession) Capture(ctx context.Context, record models.Hydrant) error {
	if !s.IsConfigured() {
		return fmt.Errorf("%w: capture requires setup", models.ErrInvalidState)
	}

	if err := s.records.Add(record); err != nil {
		return err
	}

	s.logger.Info().
		Str("id", record.ID).
		Str("proposed_location", record.ProposedLocation).
		Str("plus_code", record.PlusCode).
		Int("records", s.records.Count()).
		Msg("Hydrant captured")
	return s.persist(ctx)
}

// Reset wipes all records and returns the session to the unconfigured default.
func (s *SurveySession) Reset(ctx context.Context) error {
	if err := s.transition(constants.SessionUnconfigured); err != nil {
		return err
	}

	cleared := s.records.Count()
	s.records.Clear()
	s.areaLabel = s.defaultArea

	s.logger.Warn().Int("records_cleared", cleared).Msg("Survey session reset")
	return s.persist(ctx)
}

// Snapshot returns a copy of the current state.
func (s *SurveySession) Snapshot() Snapshot {
	return Snapshot{
		AreaLabel:  s.areaLabel,
		Configured: s.IsConfigured(),
		Records:    s.records.List(),
	}
}

// IsConfigured reports whether setup has completed.
func (s *SurveySession) IsConfigured() bool {
	return s.state == constants.SessionConfigured
}

// AreaLabel returns the configured (or default) survey area.
func (s *SurveySession) AreaLabel() string {
	return s.areaLabel
}

// LastRecord returns the most recently captured record.
func (s *SurveySession) LastRecord() (models.Hydrant, bool) {
	return s.records.Last()
}

// Count returns the number of captured records.
func (s *SurveySession) Count() int {
	return s.records.Count()
}
