package constants

const (
	// DefaultMainArea is used when setup is given a blank area label.
	DefaultMainArea = "Shaheenabad Main Bazar Gujranwala"

	// DefaultStationID identifies the survey unit when no identity file is present.
	DefaultStationID = "RS-02"

	// DefaultDispatchNumber is the WhatsApp number dispatch links are addressed to.
	DefaultDispatchNumber = "03000710042"

	// DefaultLocality, DefaultProvince and DefaultCountry form the regional suffix of display codes.
	DefaultLocality = "Gujranwala"
	DefaultProvince = "Punjab"
	DefaultCountry  = "Pakistan"

	// HydrantType is the fixed hydrant type reported in dispatch messages.
	HydrantType = "Pillor"

	// SessionStateKey is the blob store key holding the persisted session.
	SessionStateKey = "hydrant_session"

	// ReportArchivePrefix is the blob store key prefix for archived reports.
	ReportArchivePrefix = "reports/"
)

// SessionState enumerates the survey session lifecycle states.
type SessionState string

const (
	SessionUnconfigured SessionState = "unconfigured"
	SessionConfigured   SessionState = "configured"
)
