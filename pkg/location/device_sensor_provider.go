package location

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/adrianmo/go-nmea"
	"github.com/tarm/serial"
)

// DeviceSensorProvider is responsible for retrieving location data from a GPS device connected via serial port.
type DeviceSensorProvider struct {
	port     string // Serial port to which the GPS device is connected
	baudRate int    // Baud rate for the serial communication
}

// NewDeviceSensorProvider creates a new instance of DeviceSensorProvider with the specified port and baud rate.
func NewDeviceSensorProvider(port string, baudRate int) *DeviceSensorProvider {
	return &DeviceSensorProvider{
		port:     port,
		baudRate: baudRate,
	}
}

// GetLocation reads GPS data from the device until a valid fix arrives or ctx ends.
func (d *DeviceSensorProvider) GetLocation(ctx context.Context) (Location, error) {
	c := &serial.Config{Name: d.port, Baud: d.baudRate}
	s, err := serial.OpenPort(c)
	if err != nil {
		if errors.Is(err, os.ErrPermission) {
			return Location{}, fmt.Errorf("%w: %s: %v", ErrLocationDenied, d.port, err)
		}
		return Location{}, fmt.Errorf("%w: %s: %v", ErrLocationUnavailable, d.port, err)
	}
	defer s.Close() // Ensure the port is closed when done

	done := make(chan result, 1)
	go func() {
		loc, err := ReadFix(s)
		done <- result{loc: loc, err: err}
	}()

	select {
	case r := <-done:
		return r.loc, r.err
	case <-ctx.Done():
		s.Close() // Unblock the pending read
		return Location{}, ctx.Err()
	}
}

// Close releases provider resources. The serial port is opened per request.
func (d *DeviceSensorProvider) Close() error {
	return nil
}

// ReadFix scans NMEA output for the first GGA sentence carrying a valid fix.
func ReadFix(r io.Reader) (Location, error) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "$GPGGA") && !strings.HasPrefix(line, "$GNGGA") {
			continue
		}

		sentence, err := nmea.Parse(line)
		if err != nil {
			continue // Partial sentences are common right after the port opens
		}

		gga, ok := sentence.(nmea.GGA)
		if !ok || gga.FixQuality == nmea.Invalid {
			continue
		}

		return Location{
			Latitude:  gga.Latitude,
			Longitude: gga.Longitude,
			Accuracy:  gga.HDOP, // Use HDOP as a proxy for accuracy
		}, nil
	}

	// Check for any scanner errors
	if err := scanner.Err(); err != nil {
		return Location{}, fmt.Errorf("%w: %v", ErrLocationUnavailable, err)
	}

	return Location{}, fmt.Errorf("%w: no valid GPS fix found", ErrLocationUnavailable)
}
