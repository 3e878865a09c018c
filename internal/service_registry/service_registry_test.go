package service_registry

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/benmeehan/hydrant-survey/internal/utils"
	"github.com/benmeehan/hydrant-survey/pkg/blobstore"
	"github.com/benmeehan/hydrant-survey/pkg/file"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *utils.Config {
	t.Helper()
	cfg := utils.DefaultConfig()
	cfg.Station.IdentityFile = filepath.Join(t.TempDir(), "station.json")
	cfg.Storage.Backend = utils.StorageMemory
	cfg.Location.Provider = utils.ProviderStatic
	cfg.Location.Static.Latitude = 32.186440
	cfg.Location.Static.Longitude = 74.190790
	cfg.Dispatch.Channel = utils.ChannelStdout
	return cfg
}

func TestRegisterServices_CaptureFlow(t *testing.T) {
	ctx := context.Background()
	var out bytes.Buffer
	clock := clockwork.NewFakeClockAt(time.Date(2024, time.June, 10, 9, 30, 0, 0, time.UTC))
	sr := NewServiceRegistry(file.NewFileService(), clock, &out, zerolog.Nop())

	require.NoError(t, sr.RegisterServices(ctx, testConfig(t)))
	defer sr.StopServices()

	require.NoError(t, sr.Session.Setup(ctx, ""))
	_, err := sr.Capture.Begin(ctx)
	require.NoError(t, err)
	record, err := sr.Capture.Commit(ctx, "Near Main Gate")
	require.NoError(t, err)

	assert.Equal(t, "004F+A0, Shaheenabad Main Bazar Gujranwala, Gujranwala, Punjab, Pakistan", record.PlusCode)
	assert.Contains(t, out.String(), "Station: RS-02\n")
	assert.Contains(t, out.String(), "Proposed Hydrant location: Near Main Gate\n")

	model := sr.Reports.Compile()
	require.Len(t, model.Rows, 1)
	assert.Equal(t, "32.186440", model.Rows[0].Latitude)
	assert.Equal(t, "2024-06-10", model.GeneratedAt.Format("2006-01-02"))
}

func TestRegisterServices_ConfigOverridesIdentity(t *testing.T) {
	var out bytes.Buffer
	cfg := testConfig(t)
	cfg.Station.ID = "RS-11"
	cfg.Dispatch.Channel = utils.ChannelWhatsApp
	cfg.Dispatch.WhatsApp.Number = "+92 300 1234567"

	sr := NewServiceRegistry(file.NewFileService(), nil, &out, zerolog.Nop())
	require.NoError(t, sr.RegisterServices(context.Background(), cfg))

	assert.Equal(t, "RS-11", sr.Station.GetStationID())
	assert.Equal(t, "+92 300 1234567", sr.Station.GetDispatchNumber())

	require.NoError(t, sr.Sink.Dispatch(context.Background(), "hi"))
	assert.True(t, strings.HasPrefix(out.String(), "https://wa.me/923001234567?text=hi"))
	assert.NoError(t, sr.StopServices())
}

func TestRegisterServices_FileBackendPersists(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	cfg.Storage.Backend = utils.StorageFile
	cfg.Storage.Dir = t.TempDir()

	first := NewServiceRegistry(file.NewFileService(), nil, &bytes.Buffer{}, zerolog.Nop())
	require.NoError(t, first.RegisterServices(ctx, cfg))
	require.NoError(t, first.Session.Setup(ctx, "Model Town"))
	require.NoError(t, first.StopServices())

	second := NewServiceRegistry(file.NewFileService(), nil, &bytes.Buffer{}, zerolog.Nop())
	require.NoError(t, second.RegisterServices(ctx, cfg))

	assert.True(t, second.Session.IsConfigured())
	assert.Equal(t, "Model Town", second.Session.AreaLabel())
}

func TestRegisterServices_UnknownProvider(t *testing.T) {
	cfg := testConfig(t)
	cfg.Location.Provider = "astrolabe"

	sr := NewServiceRegistry(file.NewFileService(), nil, &bytes.Buffer{}, zerolog.Nop())
	err := sr.RegisterServices(context.Background(), cfg)

	assert.ErrorContains(t, err, "location")
	assert.Nil(t, sr.Session)
}

func TestNewBlobStore(t *testing.T) {
	cfg := testConfig(t)

	store, err := NewBlobStore(context.Background(), cfg, file.NewFileService())
	require.NoError(t, err)
	assert.IsType(t, &blobstore.MemoryStore{}, store)

	cfg.Storage.Backend = "floppy"
	_, err = NewBlobStore(context.Background(), cfg, file.NewFileService())
	assert.Error(t, err)
}
