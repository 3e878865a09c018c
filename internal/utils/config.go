package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/benmeehan/hydrant-survey/internal/constants"
	"github.com/benmeehan/hydrant-survey/pkg/file"
)

// Storage backends.
const (
	StorageFile   = "file"
	StorageS3     = "s3"
	StorageMemory = "memory"
)

// Location providers.
const (
	ProviderGPS    = "gps"
	ProviderGoogle = "google"
	ProviderStatic = "static"
)

// Dispatch channels.
const (
	ChannelMQTT     = "mqtt"
	ChannelWhatsApp = "whatsapp"
	ChannelStdout   = "stdout"
)

// Config represents the structure of the configuration file.
type Config struct {
	Station struct {
		IdentityFile string `yaml:"identity_file"` // Path to the station identity file
		ID           string `yaml:"id"`            // Overrides the identity file station id
	} `yaml:"station"`

	Survey struct {
		DefaultArea string `yaml:"default_area"` // Area used when setup is given a blank label
		Region      struct {
			Locality string `yaml:"locality"`
			Province string `yaml:"province"`
			Country  string `yaml:"country"`
		} `yaml:"region"`
	} `yaml:"survey"`

	Storage struct {
		Backend string `yaml:"backend"` // file, s3 or memory
		Dir     string `yaml:"dir"`     // Base directory for the file backend
		S3      struct {
			Endpoint        string `yaml:"endpoint"`
			AccessKeyID     string `yaml:"access_key_id"`
			SecretAccessKey string `yaml:"secret_access_key"`
			Bucket          string `yaml:"bucket"`
			Region          string `yaml:"region"`
			Prefix          string `yaml:"prefix"` // Key prefix inside the bucket
			UseSSL          bool   `yaml:"use_ssl"`
		} `yaml:"s3"`
	} `yaml:"storage"`

	Location struct {
		Provider          string        `yaml:"provider"`        // gps, google or static
		GPSDevicePort     string        `yaml:"gps_device_port"` // UNIX Port where the GPS sensor is mounted
		GPSDeviceBaudRate int           `yaml:"gps_baud_rate"`   // The Baud rate for GPS sensor
		MapsAPIKey        string        `yaml:"maps_api_key"`    // Google maps API Key
		ModemIndex        int           `yaml:"modem_index"`     // ModemManager index used for cell tower lookup
		StartTimeout      time.Duration `yaml:"start_timeout"`   // Bound on the fix that opens a capture
		CommitTimeout     time.Duration `yaml:"commit_timeout"`  // Bound on the fix taken at commit
		Static            struct {
			Latitude  float64 `yaml:"latitude"`
			Longitude float64 `yaml:"longitude"`
		} `yaml:"static"`
	} `yaml:"location"`

	Dispatch struct {
		Channel string `yaml:"channel"` // mqtt, whatsapp or stdout
		MQTT    struct {
			Broker        string        `yaml:"broker"`         // MQTT broker address
			ClientID      string        `yaml:"client_id"`      // MQTT client ID
			CACertificate string        `yaml:"ca_certificate"` // Path to the CA certificate
			Username      string        `yaml:"username"`
			Password      string        `yaml:"password"`
			Topic         string        `yaml:"topic"`
			QOS           int           `yaml:"qos"`
			Timeout       time.Duration `yaml:"timeout"`
		} `yaml:"mqtt"`
		WhatsApp struct {
			Number string `yaml:"number"` // Overrides the identity file dispatch number
		} `yaml:"whatsapp"`
	} `yaml:"dispatch"`

	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"` // json or console
	} `yaml:"logging"`
}

// LoadConfig loads the YAML configuration from the specified file, fills
// defaults and validates it.
func LoadConfig(filename string, fileClient file.FileOperations) (*Config, error) {
	var config Config
	err := fileClient.ReadYamlFile(filename, &config)
	if err != nil {
		return nil, err
	}

	config.ApplyDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// DefaultConfig returns a configuration with every default applied.
func DefaultConfig() *Config {
	var config Config
	config.ApplyDefaults()
	return &config
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.Survey.DefaultArea == "" {
		c.Survey.DefaultArea = constants.DefaultMainArea
	}
	if c.Survey.Region.Locality == "" && c.Survey.Region.Province == "" && c.Survey.Region.Country == "" {
		c.Survey.Region.Locality = constants.DefaultLocality
		c.Survey.Region.Province = constants.DefaultProvince
		c.Survey.Region.Country = constants.DefaultCountry
	}

	c.Storage.Backend = strings.ToLower(c.Storage.Backend)
	if c.Storage.Backend == "" {
		c.Storage.Backend = StorageFile
	}
	if c.Storage.Dir == "" {
		c.Storage.Dir = "data"
	}

	c.Location.Provider = strings.ToLower(c.Location.Provider)
	if c.Location.Provider == "" {
		c.Location.Provider = ProviderStatic
	}
	if c.Location.GPSDeviceBaudRate == 0 {
		c.Location.GPSDeviceBaudRate = constants.DefaultGPSBaudRate
	}
	if c.Location.StartTimeout <= 0 {
		c.Location.StartTimeout = constants.DefaultStartTimeout
	}
	if c.Location.CommitTimeout <= 0 {
		c.Location.CommitTimeout = constants.DefaultCommitTimeout
	}

	c.Dispatch.Channel = strings.ToLower(c.Dispatch.Channel)
	if c.Dispatch.Channel == "" {
		c.Dispatch.Channel = ChannelWhatsApp
	}
	if c.Dispatch.MQTT.Topic == "" {
		c.Dispatch.MQTT.Topic = "hydrants/dispatch"
	}
	if c.Dispatch.MQTT.Timeout <= 0 {
		c.Dispatch.MQTT.Timeout = 10 * time.Second
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}
}

// Validate rejects unknown backends and settings a selected backend cannot run without.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case StorageFile, StorageMemory:
	case StorageS3:
		if c.Storage.S3.Endpoint == "" || c.Storage.S3.Bucket == "" {
			return fmt.Errorf("storage.s3 requires endpoint and bucket")
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}

	switch c.Location.Provider {
	case ProviderStatic:
	case ProviderGPS:
		if c.Location.GPSDevicePort == "" {
			return fmt.Errorf("location.gps_device_port is required for the gps provider")
		}
	case ProviderGoogle:
		if c.Location.MapsAPIKey == "" {
			return fmt.Errorf("location.maps_api_key is required for the google provider")
		}
	default:
		return fmt.Errorf("unknown location provider %q", c.Location.Provider)
	}

	switch c.Dispatch.Channel {
	case ChannelWhatsApp, ChannelStdout:
	case ChannelMQTT:
		if c.Dispatch.MQTT.Broker == "" {
			return fmt.Errorf("dispatch.mqtt.broker is required for the mqtt channel")
		}
		if c.Dispatch.MQTT.QOS < 0 || c.Dispatch.MQTT.QOS > 2 {
			return fmt.Errorf("dispatch.mqtt.qos must be 0, 1 or 2")
		}
	default:
		return fmt.Errorf("unknown dispatch channel %q", c.Dispatch.Channel)
	}
	return nil
}
