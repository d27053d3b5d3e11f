package proximity

import (
	"strings"

	"proximity-pay/internal/domain/session"
	"proximity-pay/internal/pkg/errs"
)

const (
	// LocalNamePrefix precedes the EID in the advertised local name.
	LocalNamePrefix = "GOTCHU"
	// ServiceUUID is the 16-bit 0xFEED service expanded to 128 bits.
	ServiceUUID = "0000FEED-0000-1000-8000-00805F9B34FB"

	localNameLen = len(LocalNamePrefix) + session.EIDBytes*2
)

var (
	ErrNotOurAdvertisement = errs.New("advertisement does not belong to this service")
	ErrMalformedLocalName  = errs.New("malformed advertisement local name")
)

// Advertisement is what a radio scan callback reports for one packet.
type Advertisement struct {
	LocalName    string
	ServiceUUIDs []string
	RSSI         int
}

// LocalName builds the name a payee device advertises for eid.
func LocalName(eid session.EID) string {
	return LocalNamePrefix + eid.String()
}

// ParseLocalName extracts the EID from an advertised local name.
func ParseLocalName(name string) (session.EID, error) {
	if !strings.HasPrefix(name, LocalNamePrefix) {
		return "", ErrNotOurAdvertisement
	}
	if len(name) != localNameLen {
		return "", ErrMalformedLocalName
	}
	eid, err := session.ParseEID(name[len(LocalNamePrefix):])
	if err != nil {
		return "", errs.Mark(errs.Wrapf(err, "local name %q", name), ErrMalformedLocalName)
	}
	return eid, nil
}

// NewAdvertisement is the packet a payee device broadcasts for eid.
func NewAdvertisement(eid session.EID) Advertisement {
	return Advertisement{
		LocalName:    LocalName(eid),
		ServiceUUIDs: []string{ServiceUUID},
	}
}

// Decode returns the EID carried by adv. Packets that do not list the
// service are rejected even when the name looks right.
func (adv Advertisement) Decode() (session.EID, error) {
	if !adv.hasService() {
		return "", ErrNotOurAdvertisement
	}
	return ParseLocalName(adv.LocalName)
}

func (adv Advertisement) hasService() bool {
	for _, u := range adv.ServiceUUIDs {
		if strings.EqualFold(u, ServiceUUID) || strings.EqualFold(u, "FEED") {
			return true
		}
	}
	return false
}
