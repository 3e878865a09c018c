package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/benmeehan/hydrant-survey/internal/constants"
	"github.com/benmeehan/hydrant-survey/internal/locationcode"
	"github.com/benmeehan/hydrant-survey/internal/mocks"
	"github.com/benmeehan/hydrant-survey/internal/models"
	"github.com/benmeehan/hydrant-survey/internal/session"
	"github.com/benmeehan/hydrant-survey/pkg/blobstore"
	"github.com/benmeehan/hydrant-survey/pkg/location"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	surveyStart = time.Date(2024, time.June, 10, 9, 30, 0, 0, time.UTC)
	gateFix     = location.Location{Latitude: 32.186440, Longitude: 74.190790, Accuracy: 4}
	region      = locationcode.Region{
		Locality: constants.DefaultLocality,
		Province: constants.DefaultProvince,
		Country:  constants.DefaultCountry,
	}
)

type captureFixture struct {
	session  *session.SurveySession
	store    blobstore.BlobStore
	provider *mocks.LocationProvider
	sink     *mocks.Sink
	clock    *clockwork.FakeClock
	service  *CaptureService
}

func newCaptureFixture(t *testing.T, configured bool) *captureFixture {
	t.Helper()
	ctx := context.Background()

	store := blobstore.NewMemoryStore()
	sess := session.NewSurveySession(ctx, store, "", zerolog.Nop())
	if configured {
		require.NoError(t, sess.Setup(ctx, ""))
	}

	f := &captureFixture{
		session:  sess,
		store:    store,
		provider: new(mocks.LocationProvider),
		sink:     new(mocks.Sink),
		clock:    clockwork.NewFakeClockAt(surveyStart),
	}
	f.service = NewCaptureService(CaptureConfig{
		StationID:     constants.DefaultStationID,
		Region:        region,
		StartTimeout:  time.Second,
		CommitTimeout: time.Second,
	}, sess, f.provider, f.sink, f.clock, zerolog.Nop())
	return f
}

func TestCapture_EndToEnd(t *testing.T) {
	ctx := context.Background()
	f := newCaptureFixture(t, true)
	f.provider.On("GetLocation", mock.Anything).Return(gateFix, nil).Twice()

	wantMessage := "Hydrant Detail\n" +
		"Station: RS-02\n" +
		"Location: Shaheenabad Main Bazar Gujranwala\n" +
		"Longitude and Latitude:\n" +
		"Lat 32.186440°\n" +
		"Long 74.190790°\n" +
		"Plus Code: 004F+A0, Shaheenabad Main Bazar Gujranwala, Gujranwala, Punjab, Pakistan\n" +
		"Proposed Hydrant location: Near Main Gate\n" +
		"Hydrant type: Pillor"
	f.sink.On("Dispatch", mock.Anything, wantMessage).Return(nil).Once()

	prelim, err := f.service.Begin(ctx)
	require.NoError(t, err)
	assert.Equal(t, gateFix, prelim)
	assert.True(t, f.service.InProgress())

	record, err := f.service.Commit(ctx, "  Near Main Gate ")
	require.NoError(t, err)

	assert.False(t, f.service.InProgress())
	assert.Equal(t, "Near Main Gate", record.ProposedLocation)
	assert.Equal(t, "004F+A0, Shaheenabad Main Bazar Gujranwala, Gujranwala, Punjab, Pakistan", record.PlusCode)
	assert.Equal(t, surveyStart.UnixMilli(), record.Timestamp)
	_, err = uuid.Parse(record.ID)
	assert.NoError(t, err)

	assert.Equal(t, 1, f.session.Count())
	last, _ := f.session.LastRecord()
	assert.Equal(t, record, last)

	f.provider.AssertExpectations(t)
	f.sink.AssertExpectations(t)
}

func TestCapture_BeginRequiresSetup(t *testing.T) {
	f := newCaptureFixture(t, false)

	_, err := f.service.Begin(context.Background())

	assert.ErrorIs(t, err, models.ErrInvalidState)
	assert.False(t, f.service.InProgress())
	f.provider.AssertNotCalled(t, "GetLocation", mock.Anything)
}

func TestCapture_SecondBeginRejected(t *testing.T) {
	ctx := context.Background()
	f := newCaptureFixture(t, true)
	f.provider.On("GetLocation", mock.Anything).Return(gateFix, nil).Once()

	_, err := f.service.Begin(ctx)
	require.NoError(t, err)

	_, err = f.service.Begin(ctx)
	assert.ErrorIs(t, err, ErrCaptureInProgress)
	assert.True(t, f.service.InProgress())
	f.provider.AssertNumberOfCalls(t, "GetLocation", 1)
}

func TestCapture_BeginSensorFailure(t *testing.T) {
	f := newCaptureFixture(t, true)
	f.provider.On("GetLocation", mock.Anything).Return(location.Location{}, location.ErrLocationDenied).Once()

	_, err := f.service.Begin(context.Background())

	assert.ErrorIs(t, err, location.ErrLocationDenied)
	assert.False(t, f.service.InProgress())
}

func TestCapture_CommitWithoutBegin(t *testing.T) {
	f := newCaptureFixture(t, true)

	_, err := f.service.Commit(context.Background(), "Near Main Gate")

	assert.ErrorIs(t, err, ErrNoCaptureInProgress)
	assert.Zero(t, f.session.Count())
}

func TestCapture_BlankLabelKeepsFlowOpen(t *testing.T) {
	ctx := context.Background()
	f := newCaptureFixture(t, true)
	f.provider.On("GetLocation", mock.Anything).Return(gateFix, nil).Once()

	_, err := f.service.Begin(ctx)
	require.NoError(t, err)

	_, err = f.service.Commit(ctx, "   ")

	assert.ErrorIs(t, err, models.ErrValidation)
	assert.True(t, f.service.InProgress())
	assert.Zero(t, f.session.Count())
	f.provider.AssertNumberOfCalls(t, "GetLocation", 1)
	f.sink.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything)
}

func TestCapture_CommitSensorFailureRecordsNothing(t *testing.T) {
	ctx := context.Background()
	f := newCaptureFixture(t, true)
	f.provider.On("GetLocation", mock.Anything).Return(gateFix, nil).Once()
	f.provider.On("GetLocation", mock.Anything).Return(location.Location{}, errors.New("no satellites")).Once()

	_, err := f.service.Begin(ctx)
	require.NoError(t, err)

	_, err = f.service.Commit(ctx, "Near Main Gate")

	assert.ErrorIs(t, err, location.ErrLocationUnavailable)
	assert.False(t, f.service.InProgress())
	assert.Zero(t, f.session.Count())
	f.sink.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything)
}

func TestCapture_CancelLeavesNoTrace(t *testing.T) {
	ctx := context.Background()
	f := newCaptureFixture(t, true)
	f.provider.On("GetLocation", mock.Anything).Return(gateFix, nil).Once()

	before, err := f.store.Get(ctx, constants.SessionStateKey)
	require.NoError(t, err)

	_, err = f.service.Begin(ctx)
	require.NoError(t, err)
	f.service.Cancel()

	assert.False(t, f.service.InProgress())
	_, ok := f.service.Pending()
	assert.False(t, ok)
	assert.Zero(t, f.session.Count())

	after, err := f.store.Get(ctx, constants.SessionStateKey)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	f.sink.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything)
}

func TestCapture_TimestampNeverGoesBackwards(t *testing.T) {
	ctx := context.Background()
	f := newCaptureFixture(t, true)
	f.provider.On("GetLocation", mock.Anything).Return(gateFix, nil)
	f.sink.On("Dispatch", mock.Anything, mock.Anything).Return(nil)

	_, err := f.service.Begin(ctx)
	require.NoError(t, err)
	first, err := f.service.Commit(ctx, "North Gate")
	require.NoError(t, err)

	// wall clock stepped back between captures
	f.clock = clockwork.NewFakeClockAt(surveyStart.Add(-time.Hour))
	f.service.clock = f.clock

	_, err = f.service.Begin(ctx)
	require.NoError(t, err)
	second, err := f.service.Commit(ctx, "South Gate")
	require.NoError(t, err)

	assert.Equal(t, first.Timestamp, second.Timestamp)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, 2, f.session.Count())
}

func TestCapture_DispatchFailureKeepsRecord(t *testing.T) {
	ctx := context.Background()
	f := newCaptureFixture(t, true)
	f.provider.On("GetLocation", mock.Anything).Return(gateFix, nil)
	f.sink.On("Dispatch", mock.Anything, mock.Anything).Return(errors.New("broker offline")).Once()

	_, err := f.service.Begin(ctx)
	require.NoError(t, err)
	record, err := f.service.Commit(ctx, "Near Main Gate")

	assert.ErrorIs(t, err, ErrDispatch)
	assert.NotEmpty(t, record.ID)
	assert.Equal(t, 1, f.session.Count())
	assert.False(t, f.service.InProgress())
}

func TestCapture_PersistenceFailureStillDispatches(t *testing.T) {
	ctx := context.Background()
	store := new(mocks.BlobStore)
	store.On("Get", mock.Anything, constants.SessionStateKey).Return(nil, blobstore.ErrBlobNotFound)
	store.On("Put", mock.Anything, constants.SessionStateKey, mock.Anything).Return(nil).Once()
	store.On("Put", mock.Anything, constants.SessionStateKey, mock.Anything).Return(errors.New("disk full"))

	sess := session.NewSurveySession(ctx, store, "", zerolog.Nop())
	require.NoError(t, sess.Setup(ctx, "Model Town"))

	provider := new(mocks.LocationProvider)
	provider.On("GetLocation", mock.Anything).Return(gateFix, nil)
	sink := new(mocks.Sink)
	sink.On("Dispatch", mock.Anything, mock.Anything).Return(nil).Once()

	svc := NewCaptureService(CaptureConfig{StationID: "RS-02", Region: region}, sess, provider, sink,
		clockwork.NewFakeClockAt(surveyStart), zerolog.Nop())

	_, err := svc.Begin(ctx)
	require.NoError(t, err)
	record, err := svc.Commit(ctx, "Near Main Gate")

	assert.ErrorIs(t, err, session.ErrPersistence)
	assert.NotErrorIs(t, err, ErrDispatch)
	assert.Equal(t, "004F+A0, Model Town, Gujranwala, Punjab, Pakistan", record.PlusCode)
	assert.Equal(t, 1, sess.Count())
	sink.AssertExpectations(t)
}

func TestCapture_InvalidFixRejected(t *testing.T) {
	ctx := context.Background()
	f := newCaptureFixture(t, true)
	f.provider.On("GetLocation", mock.Anything).Return(gateFix, nil).Once()
	f.provider.On("GetLocation", mock.Anything).Return(location.Location{Latitude: 91, Longitude: 10}, nil).Once()

	_, err := f.service.Begin(ctx)
	require.NoError(t, err)
	_, err = f.service.Commit(ctx, "Near Main Gate")

	assert.ErrorIs(t, err, models.ErrValidation)
	assert.False(t, f.service.InProgress())
	assert.Zero(t, f.session.Count())
}
