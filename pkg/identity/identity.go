package identity

import (
	"os"
	"strings"

	"github.com/benmeehan/hydrant-survey/internal/constants"
	"github.com/benmeehan/hydrant-survey/pkg/file"
)

// Identity describes the survey unit that captures and dispatches hydrants.
type Identity struct {
	StationID      string `json:"station_id,omitempty"`
	Name           string `json:"station_name,omitempty"`
	DispatchNumber string `json:"dispatch_number,omitempty"`
}

// StationInfoInterface defines methods for managing the station identity.
type StationInfoInterface interface {
	LoadStationInfo() error
	SaveStationID(stationID string) error
	GetStationID() string
	GetDispatchNumber() string
	GetStationIdentity() *Identity
}

// StationInfo manages the station identity and its associated file operations.
type StationInfo struct {
	StationInfoFile string
	Identity        Identity
	fileOps         file.FileOperations
}

// NewStationInfo initializes a new StationInfo instance.
func NewStationInfo(filePath string, fileOps file.FileOperations) StationInfoInterface {
	return &StationInfo{
		StationInfoFile: filePath,
		fileOps:         fileOps,
	}
}

// LoadStationInfo reads the identity file. A missing file, or missing fields,
// leave the built-in station defaults in place.
func (s *StationInfo) LoadStationInfo() error {
	s.Identity = Identity{}
	if s.StationInfoFile != "" {
		err := s.fileOps.ReadJsonFile(s.StationInfoFile, &s.Identity)
		if err != nil && !os.IsNotExist(err) {
			return err
		}
	}

	if strings.TrimSpace(s.Identity.StationID) == "" {
		s.Identity.StationID = constants.DefaultStationID
	}
	if strings.TrimSpace(s.Identity.DispatchNumber) == "" {
		s.Identity.DispatchNumber = constants.DefaultDispatchNumber
	}
	return nil
}

// GetStationIdentity returns the current station Identity.
func (s *StationInfo) GetStationIdentity() *Identity {
	return &s.Identity
}

// GetStationID returns the current station ID.
func (s *StationInfo) GetStationID() string {
	return s.Identity.StationID
}

// GetDispatchNumber returns the number dispatch messages are addressed to.
func (s *StationInfo) GetDispatchNumber() string {
	return s.Identity.DispatchNumber
}

// SaveStationID updates the station ID and writes the identity back to the file.
func (s *StationInfo) SaveStationID(stationID string) error {
	s.Identity.StationID = stationID
	return s.fileOps.WriteJsonFile(s.StationInfoFile, s.Identity)
}
