package service_registry

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/benmeehan/hydrant-survey/internal/locationcode"
	"github.com/benmeehan/hydrant-survey/internal/report"
	"github.com/benmeehan/hydrant-survey/internal/services"
	"github.com/benmeehan/hydrant-survey/internal/session"
	"github.com/benmeehan/hydrant-survey/internal/utils"
	"github.com/benmeehan/hydrant-survey/pkg/blobstore"
	"github.com/benmeehan/hydrant-survey/pkg/dispatch"
	"github.com/benmeehan/hydrant-survey/pkg/file"
	"github.com/benmeehan/hydrant-survey/pkg/identity"
	"github.com/benmeehan/hydrant-survey/pkg/location"
	"github.com/benmeehan/hydrant-survey/pkg/mqtt"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
)

// ServiceRegistry builds the survey components from configuration and
// releases the ones holding external resources.
type ServiceRegistry struct {
	fileClient file.FileOperations
	clock      clockwork.Clock
	out        io.Writer
	Logger     zerolog.Logger

	closers    map[string]func() error
	closerKeys []string // Maintains order of registration

	Station  identity.StationInfoInterface
	Store    blobstore.BlobStore
	Provider location.Provider
	Sink     dispatch.Sink
	Session  *session.SurveySession
	Capture  *services.CaptureService
	Reports  *services.ReportService
}

// NewServiceRegistry initializes a new service registry with dependencies.
// Dispatch output for the stdout and whatsapp channels goes to out.
func NewServiceRegistry(fileClient file.FileOperations, clock clockwork.Clock, out io.Writer, logger zerolog.Logger) *ServiceRegistry {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &ServiceRegistry{
		fileClient: fileClient,
		clock:      clock,
		out:        out,
		Logger:     logger,
		closers:    make(map[string]func() error),
	}
}

// registerCloser records a component that must be released on shutdown.
func (sr *ServiceRegistry) registerCloser(name string, closeFn func() error) {
	if _, exists := sr.closers[name]; exists {
		sr.Logger.Warn().Msgf("Component %s is already registered", name)
		return
	}
	sr.closers[name] = closeFn
	sr.closerKeys = append(sr.closerKeys, name)
}

// RegisterServices constructs every component in dependency order. If one
// fails, the components already built are released before returning.
func (sr *ServiceRegistry) RegisterServices(ctx context.Context, config *utils.Config) error {
	steps := []struct {
		name  string
		build func() error
	}{
		{"station", func() error { return sr.buildStation(config) }},
		{"storage", func() error { return sr.buildStore(ctx, config) }},
		{"location", func() error { return sr.buildProvider(config) }},
		{"dispatch", func() error { return sr.buildSink(config) }},
		{"session", func() error { return sr.buildSession(ctx, config) }},
	}

	for _, step := range steps {
		if err := step.build(); err != nil {
			sr.Logger.Error().Err(err).Msgf("Failed to build component: %s", step.name)
			_ = sr.StopServices()
			return fmt.Errorf("failed to build %s: %w", step.name, err)
		}
		sr.Logger.Debug().Msgf("Built component: %s", step.name)
	}
	return nil
}

// StopServices releases registered components in reverse order.
func (sr *ServiceRegistry) StopServices() error {
	var stopErrors []error
	for i := len(sr.closerKeys) - 1; i >= 0; i-- {
		name := sr.closerKeys[i]
		if err := sr.closers[name](); err != nil {
			stopErrors = append(stopErrors, fmt.Errorf("failed to stop %s: %w", name, err))
		}
	}
	sr.closers = make(map[string]func() error)
	sr.closerKeys = nil

	if len(stopErrors) > 0 {
		for _, e := range stopErrors {
			sr.Logger.Error().Err(e).Msg("Component stop failure")
		}
		return errors.Join(stopErrors...)
	}
	return nil
}

func (sr *ServiceRegistry) buildStation(config *utils.Config) error {
	station := identity.NewStationInfo(config.Station.IdentityFile, sr.fileClient)
	if err := station.LoadStationInfo(); err != nil {
		return err
	}
	if config.Station.ID != "" {
		station.GetStationIdentity().StationID = config.Station.ID
	}
	if config.Dispatch.WhatsApp.Number != "" {
		station.GetStationIdentity().DispatchNumber = config.Dispatch.WhatsApp.Number
	}
	sr.Station = station
	return nil
}

func (sr *ServiceRegistry) buildStore(ctx context.Context, config *utils.Config) error {
	store, err := NewBlobStore(ctx, config, sr.fileClient)
	if err != nil {
		return err
	}
	sr.Store = store
	return nil
}

func (sr *ServiceRegistry) buildProvider(config *utils.Config) error {
	provider, err := NewLocationProvider(config)
	if err != nil {
		return err
	}
	sr.Provider = provider
	sr.registerCloser("location", provider.Close)
	return nil
}

func (sr *ServiceRegistry) buildSink(config *utils.Config) error {
	stationID := sr.Station.GetStationID()

	switch config.Dispatch.Channel {
	case utils.ChannelStdout:
		sr.Sink = dispatch.NewWriterSink(sr.out)
	case utils.ChannelWhatsApp:
		sr.Sink = dispatch.NewWhatsAppSink(sr.Station.GetDispatchNumber(), sr.out)
	case utils.ChannelMQTT:
		mqttCfg := config.Dispatch.MQTT
		clientID := mqttCfg.ClientID
		if clientID == "" {
			clientID = "surveyor-" + stationID
		}
		// Broker client ids must be unique per connection
		clientID = clientID + "-" + uuid.New().String()

		mqttClient := mqtt.NewMqttService(sr.fileClient)
		if err := mqttClient.Initialize(mqtt.Options{
			Broker:         mqttCfg.Broker,
			ClientID:       clientID,
			CACertificate:  mqttCfg.CACertificate,
			Username:       mqttCfg.Username,
			Password:       mqttCfg.Password,
			ConnectTimeout: mqttCfg.Timeout,
		}); err != nil {
			return err
		}
		sr.Logger.Info().Str("client_id", clientID).Str("broker", mqttCfg.Broker).Msg("Connected to MQTT broker")

		sr.Sink = dispatch.NewMQTTSink(mqttClient, mqttCfg.Topic, mqttCfg.QOS, stationID)
		sr.registerCloser("mqtt", func() error {
			mqttClient.Disconnect(250)
			return nil
		})
	default:
		return fmt.Errorf("unknown dispatch channel %q", config.Dispatch.Channel)
	}
	return nil
}

func (sr *ServiceRegistry) buildSession(ctx context.Context, config *utils.Config) error {
	stationID := sr.Station.GetStationID()

	sr.Session = session.NewSurveySession(ctx, sr.Store, config.Survey.DefaultArea,
		sr.Logger.With().Str("component", "session").Logger())

	sr.Capture = services.NewCaptureService(services.CaptureConfig{
		StationID: stationID,
		Region: locationcode.Region{
			Locality: config.Survey.Region.Locality,
			Province: config.Survey.Region.Province,
			Country:  config.Survey.Region.Country,
		},
		StartTimeout:  config.Location.StartTimeout,
		CommitTimeout: config.Location.CommitTimeout,
	}, sr.Session, sr.Provider, sr.Sink, sr.clock, sr.Logger.With().Str("component", "capture").Logger())

	compiler := &report.Compiler{StationID: stationID, Clock: sr.clock}
	sr.Reports = services.NewReportService(sr.Session, compiler, sr.Store,
		sr.Logger.With().Str("component", "report").Logger())
	return nil
}

// NewBlobStore returns the blob store selected by storage.backend.
func NewBlobStore(ctx context.Context, config *utils.Config, fileClient file.FileOperations) (blobstore.BlobStore, error) {
	switch config.Storage.Backend {
	case utils.StorageMemory:
		return blobstore.NewMemoryStore(), nil
	case utils.StorageFile:
		return blobstore.NewFileStore(config.Storage.Dir, fileClient), nil
	case utils.StorageS3:
		s3 := config.Storage.S3
		return blobstore.NewObjectStore(ctx, blobstore.ObjectStoreConfig{
			Endpoint:        s3.Endpoint,
			AccessKeyID:     s3.AccessKeyID,
			SecretAccessKey: s3.SecretAccessKey,
			Bucket:          s3.Bucket,
			Region:          s3.Region,
			Prefix:          s3.Prefix,
			UseSSL:          s3.UseSSL,
		})
	default:
		return nil, fmt.Errorf("unknown storage backend %q", config.Storage.Backend)
	}
}

// NewLocationProvider returns the location provider selected by location.provider.
func NewLocationProvider(config *utils.Config) (location.Provider, error) {
	switch config.Location.Provider {
	case utils.ProviderStatic:
		return location.NewStaticProvider(config.Location.Static.Latitude, config.Location.Static.Longitude), nil
	case utils.ProviderGPS:
		return location.NewDeviceSensorProvider(config.Location.GPSDevicePort, config.Location.GPSDeviceBaudRate), nil
	case utils.ProviderGoogle:
		return location.NewGoogleGeolocationProvider(config.Location.MapsAPIKey, config.Location.ModemIndex)
	default:
		return nil, fmt.Errorf("unknown location provider %q", config.Location.Provider)
	}
}
