package constants

import "time"

const (
	// DefaultStartTimeout bounds the coordinate request that opens a capture flow.
	DefaultStartTimeout = 10 * time.Second

	// DefaultCommitTimeout bounds the coordinate request that finalizes a capture.
	DefaultCommitTimeout = 15 * time.Second

	// DefaultGPSBaudRate is the usual NMEA serial speed.
	DefaultGPSBaudRate = 9600
)
