package session

type Status string

const (
	StatusAdvertising Status = "ADVERTISING"
	StatusLocked      Status = "LOCKED"
	StatusPaid        Status = "PAID"
	// StatusExpired is derived from expiresAt and never persisted.
	StatusExpired Status = "EXPIRED"
)

func (s Status) String() string {
	return string(s)
}

// IsValid reports whether s can be stored.
func (s Status) IsValid() bool {
	switch s {
	case StatusAdvertising, StatusLocked, StatusPaid:
		return true
	default:
		return false
	}
}

func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if !status.IsValid() {
		return "", ErrInvalidStatus
	}
	return status, nil
}

type SplitMode string

const SplitModeSingle SplitMode = "single"

func (m SplitMode) String() string {
	return string(m)
}
