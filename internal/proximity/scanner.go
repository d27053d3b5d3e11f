package proximity

import (
	"log/slog"
	"sync"

	"proximity-pay/internal/domain/session"
)

// Scanner sits between radio callbacks and the Detector: it decodes
// advertisements, keeps the list of discovered EIDs and feeds samples to the
// detector keyed by EID.
type Scanner struct {
	detector *Detector
	logger   *slog.Logger

	// mu is taken before the detector's lock so that an accepted sample and
	// its discovered entry are never split by a radio state change.
	mu         sync.Mutex
	discovered []session.EID
	seen       map[session.EID]struct{}
}

func NewScanner(detector *Detector, logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scanner{
		detector: detector,
		logger:   logger,
		seen:     make(map[session.EID]struct{}),
	}
}

func (s *Scanner) Detector() *Detector {
	return s.detector
}

func (s *Scanner) Start() State {
	return s.detector.StartScanning()
}

func (s *Scanner) Stop() {
	s.detector.StopScanning()
}

// SetRadioAvailable forwards the power state; losing the radio also clears
// the discovered list.
func (s *Scanner) SetRadioAvailable(available bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.detector.SetRadioAvailable(available)
	if !available {
		s.discovered = nil
		s.seen = make(map[session.EID]struct{})
	}
}

// HandleAdvertisement processes one scan result. ok is false for packets
// that are not ours or arrive while not scanning.
func (s *Scanner) HandleAdvertisement(adv Advertisement) (Reading, bool) {
	eid, err := adv.Decode()
	if err != nil {
		return Reading{}, false
	}

	s.mu.Lock()
	r := s.detector.Observe(eid.String(), adv.RSSI)
	if r.Accepted {
		s.rememberLocked(eid)
	}
	s.mu.Unlock()

	if !r.Accepted {
		return r, false
	}
	if r.Fired {
		s.logger.Info("proximity gate fired",
			slog.String("eid", eid.String()),
			slog.Int("average_rssi", r.Average),
			slog.Int("strong_samples", r.StrongSamples))
	}
	return r, true
}

// Discovered returns EIDs in first-seen order without duplicates.
func (s *Scanner) Discovered() []session.EID {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]session.EID, len(s.discovered))
	copy(out, s.discovered)
	return out
}

func (s *Scanner) rememberLocked(eid session.EID) {
	if _, ok := s.seen[eid]; ok {
		return
	}
	s.seen[eid] = struct{}{}
	s.discovered = append(s.discovered, eid)
}
