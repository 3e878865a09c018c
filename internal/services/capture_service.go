package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/benmeehan/hydrant-survey/internal/constants"
	"github.com/benmeehan/hydrant-survey/internal/locationcode"
	"github.com/benmeehan/hydrant-survey/internal/models"
	"github.com/benmeehan/hydrant-survey/internal/report"
	"github.com/benmeehan/hydrant-survey/internal/session"
	"github.com/benmeehan/hydrant-survey/pkg/dispatch"
	"github.com/benmeehan/hydrant-survey/pkg/location"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
)

var (
	// ErrCaptureInProgress is returned by Begin while a capture flow is already open.
	ErrCaptureInProgress = errors.New("a capture is already in progress")

	// ErrNoCaptureInProgress is returned by Commit when no capture flow is open.
	ErrNoCaptureInProgress = errors.New("no capture in progress")

	// ErrDispatch wraps sink failures. The record it concerns is already committed.
	ErrDispatch = errors.New("failed to dispatch hydrant message")
)

// CaptureConfig holds the static settings of a CaptureService.
type CaptureConfig struct {
	StationID     string
	Region        locationcode.Region
	StartTimeout  time.Duration
	CommitTimeout time.Duration
}

// CaptureService drives a single hydrant capture: a preliminary fix when the
// flow opens, a fresh fix on commit, then persistence and dispatch.
// It is not safe for concurrent use.
type CaptureService struct {
	// Configuration fields
	stationID     string
	region        locationcode.Region
	startTimeout  time.Duration
	commitTimeout time.Duration

	// Dependencies
	session  *session.SurveySession
	provider location.Provider
	sink     dispatch.Sink
	clock    clockwork.Clock
	logger   zerolog.Logger
	newID    func() string

	// Capture flow state
	inProgress bool
	pending    location.Location
}

// NewCaptureService creates a CaptureService. Zero timeouts select the defaults.
func NewCaptureService(cfg CaptureConfig, sess *session.SurveySession, provider location.Provider,
	sink dispatch.Sink, clock clockwork.Clock, logger zerolog.Logger) *CaptureService {
	if cfg.StartTimeout <= 0 {
		cfg.StartTimeout = constants.DefaultStartTimeout
	}
	if cfg.CommitTimeout <= 0 {
		cfg.CommitTimeout = constants.DefaultCommitTimeout
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	return &CaptureService{
		stationID:     cfg.StationID,
		region:        cfg.Region,
		startTimeout:  cfg.StartTimeout,
		commitTimeout: cfg.CommitTimeout,
		session:       sess,
		provider:      provider,
		sink:          sink,
		clock:         clock,
		logger:        logger,
		newID:         uuid.NewString,
	}
}

// Begin opens a capture flow and returns the preliminary fix shown to the operator.
// A failed fix leaves no flow open.
func (c *CaptureService) Begin(ctx context.Context) (location.Location, error) {
	if !c.session.IsConfigured() {
		return location.Location{}, fmt.Errorf("%w: capture requires setup", models.ErrInvalidState)
	}
	if c.inProgress {
		return location.Location{}, ErrCaptureInProgress
	}

	loc, err := location.Request(ctx, c.provider, c.startTimeout)
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to get preliminary location")
		return location.Location{}, err
	}

	c.inProgress = true
	c.pending = loc
	c.logger.Info().
		Float64("latitude", loc.Latitude).
		Float64("longitude", loc.Longitude).
		Float64("accuracy", loc.Accuracy).
		Msg("Capture started")
	return loc, nil
}

// Commit takes a fresh fix, records the hydrant under label and dispatches it.
//
// A blank label keeps the flow open. Any other outcome closes it. When the
// returned error wraps session.ErrPersistence or ErrDispatch the record has
// still been committed and is returned alongside the error.
func (c *CaptureService) Commit(ctx context.Context, label string) (models.Hydrant, error) {
	if !c.inProgress {
		return models.Hydrant{}, ErrNoCaptureInProgress
	}

	label = strings.TrimSpace(label)
	if label == "" {
		return models.Hydrant{}, &models.ValidationError{Field: "proposedLocation", Reason: "must not be empty"}
	}

	loc, err := location.Request(ctx, c.provider, c.commitTimeout)
	c.inProgress = false
	c.pending = location.Location{}
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to get location for commit, capture abandoned")
		return models.Hydrant{}, err
	}

	record := c.buildRecord(label, loc)

	var errs []error
	if err := c.session.Capture(ctx, record); err != nil {
		if !errors.Is(err, session.ErrPersistence) {
			return models.Hydrant{}, err
		}
		errs = append(errs, err)
	}

	message := report.DispatchMessage(c.stationID, c.session.AreaLabel(), record)
	if err := c.sink.Dispatch(ctx, message); err != nil {
		c.logger.Error().Err(err).Str("id", record.ID).Msg("Failed to dispatch hydrant message")
		errs = append(errs, fmt.Errorf("%w: %v", ErrDispatch, err))
	} else {
		c.logger.Info().Str("id", record.ID).Msg("Hydrant message dispatched")
	}

	return record, errors.Join(errs...)
}

// Cancel abandons the open capture flow, if any.
func (c *CaptureService) Cancel() {
	if !c.inProgress {
		return
	}
	c.inProgress = false
	c.pending = location.Location{}
	c.logger.Info().Msg("Capture cancelled")
}

// InProgress reports whether a capture flow is open.
func (c *CaptureService) InProgress() bool {
	return c.inProgress
}

// Pending returns the preliminary fix of the open flow.
func (c *CaptureService) Pending() (location.Location, bool) {
	return c.pending, c.inProgress
}

func (c *CaptureService) buildRecord(label string, loc location.Location) models.Hydrant {
	coord := models.Coordinate{Latitude: loc.Latitude, Longitude: loc.Longitude}

	// timestamps must not go backwards across records
	ts := c.clock.Now().UnixMilli()
	if last, ok := c.session.LastRecord(); ok && ts < last.Timestamp {
		ts = last.Timestamp
	}

	code := locationcode.Encode(coord)
	return models.Hydrant{
		ID:               c.newID(),
		ProposedLocation: label,
		Latitude:         coord.Latitude,
		Longitude:        coord.Longitude,
		PlusCode:         locationcode.DisplayCode(code, c.session.AreaLabel(), c.region),
		Timestamp:        ts,
	}
}
