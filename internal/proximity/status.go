package proximity

// Tier is an advisory distance bucket derived from the window average.
type Tier int

const (
	TierUnknown Tier = iota
	TierFar
	TierApproaching
	TierClose
)

func (t Tier) String() string {
	switch t {
	case TierFar:
		return "far"
	case TierApproaching:
		return "approaching"
	case TierClose:
		return "close"
	default:
		return "unknown"
	}
}

const (
	StatusIdle        = "Idle"
	StatusScanning    = "Scanning for nearby payments..."
	StatusUnavailable = "Bluetooth unavailable"
	StatusFar         = "Too far - bring phones closer"
	StatusApproaching = "Getting closer..."
	StatusAlmost      = "Almost there... tap phones together"
	StatusTooWeak     = "Tap phones together - tops touching"
	StatusHold        = "Hold phones together firmly"
	StatusTap         = "Tap phones together"
	StatusDetected    = "Payment session detected!"
)

const (
	farMargin         = 20
	approachingMargin = 10
)

func tierFor(average, strongThreshold int) Tier {
	switch {
	case average < strongThreshold-farMargin:
		return TierFar
	case average < strongThreshold-approachingMargin:
		return TierApproaching
	default:
		return TierClose
	}
}
