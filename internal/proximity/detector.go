// Package proximity turns a stream of noisy signal-strength samples into a
// single "devices are touching" event per nearby candidate.
package proximity

import (
	"sync"
)

type State int

const (
	StateIdle State = iota
	StateScanning
	StateUnavailable
)

func (s State) String() string {
	switch s {
	case StateScanning:
		return "scanning"
	case StateUnavailable:
		return "unavailable"
	default:
		return "idle"
	}
}

// Reading is the result of one observation.
type Reading struct {
	CandidateID   string
	RSSI          int
	Average       int
	Samples       int
	StrongSamples int
	Tier          Tier
	Status        string
	// Accepted is false when the sample arrived while not scanning.
	Accepted bool
	// Fired is true only for the observation that tripped the gate.
	Fired bool
	// Ready stays true for a candidate once it has fired.
	Ready bool
}

type candidate struct {
	window   *window
	fired    bool
	lastSeen uint64
}

// Detector is safe for concurrent use. Radio callbacks may call Observe from
// any goroutine.
type Detector struct {
	mu         sync.Mutex
	cfg        Config
	state      State
	available  bool
	status     string
	candidates map[string]*candidate
	seq        uint64
}

func NewDetector(cfg Config) (*Detector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Detector{
		cfg:        cfg,
		state:      StateIdle,
		available:  true,
		status:     StatusIdle,
		candidates: make(map[string]*candidate),
	}, nil
}

func (d *Detector) Config() Config {
	return d.cfg
}

// StartScanning clears all candidate state and starts accepting samples.
// Calling it while already scanning keeps the current state. When the radio
// is unavailable it reports StateUnavailable instead of failing.
func (d *Detector) StartScanning() State {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.available {
		d.state = StateUnavailable
		d.status = StatusUnavailable
		return d.state
	}
	if d.state == StateScanning {
		return d.state
	}

	d.reset()
	d.state = StateScanning
	d.status = StatusScanning
	return d.state
}

// StopScanning discards all candidate state, including fired flags.
func (d *Detector) StopScanning() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.reset()
	if d.state != StateUnavailable {
		d.state = StateIdle
		d.status = StatusIdle
	}
}

// SetRadioAvailable records the radio power state. Losing the radio drops
// all candidate state; regaining it returns to idle and the caller must
// start scanning again.
func (d *Detector) SetRadioAvailable(available bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.available = available
	if !available {
		d.reset()
		d.state = StateUnavailable
		d.status = StatusUnavailable
		return
	}
	if d.state == StateUnavailable {
		d.state = StateIdle
		d.status = StatusIdle
	}
}

// Reset forgets one candidate so it can fire again.
func (d *Detector) Reset(candidateID string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	delete(d.candidates, candidateID)
}

func (d *Detector) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Status is the most recent advisory text.
func (d *Detector) Status() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.status
}

func (d *Detector) Fired(candidateID string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	c, ok := d.candidates[candidateID]
	return ok && c.fired
}

func (d *Detector) Tracked() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.candidates)
}

// Observe records one sample for candidateID and evaluates the gate.
func (d *Detector) Observe(candidateID string, rssi int) Reading {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state != StateScanning {
		return Reading{CandidateID: candidateID, RSSI: rssi, Status: d.status}
	}

	c := d.candidateLocked(candidateID)
	d.seq++
	c.lastSeen = d.seq
	c.window.push(rssi)

	r := Reading{
		CandidateID:   candidateID,
		RSSI:          rssi,
		Average:       c.window.average(),
		Samples:       c.window.len(),
		StrongSamples: c.window.countAbove(d.cfg.StrongThreshold),
		Accepted:      true,
	}
	r.Tier = tierFor(r.Average, d.cfg.StrongThreshold)

	switch {
	case c.fired:
		r.Status = StatusDetected
	case r.Samples < d.cfg.RequiredSamples:
		r.Status = d.accumulatingStatus(r.Tier)
	case r.StrongSamples >= d.cfg.RequiredSamples && r.Average > d.cfg.MinAverage:
		c.fired = true
		r.Fired = true
		r.Status = StatusDetected
	default:
		r.Status = d.gatedStatus(r)
	}
	r.Ready = c.fired

	d.status = r.Status
	return r
}

func (d *Detector) candidateLocked(id string) *candidate {
	if c, ok := d.candidates[id]; ok {
		return c
	}
	if len(d.candidates) >= d.cfg.MaxCandidates {
		d.evictOldestLocked()
	}
	c := &candidate{window: newWindow(d.cfg.Window)}
	d.candidates[id] = c
	return c
}

func (d *Detector) evictOldestLocked() {
	var (
		oldestID  string
		oldestSeq uint64
		found     bool
	)
	for id, c := range d.candidates {
		if !found || c.lastSeen < oldestSeq {
			oldestID, oldestSeq, found = id, c.lastSeen, true
		}
	}
	if found {
		delete(d.candidates, oldestID)
	}
}

func (d *Detector) accumulatingStatus(tier Tier) string {
	switch tier {
	case TierFar:
		return StatusFar
	case TierApproaching:
		return StatusApproaching
	default:
		return StatusAlmost
	}
}

func (d *Detector) gatedStatus(r Reading) string {
	switch r.Tier {
	case TierFar:
		return StatusFar
	case TierApproaching:
		return StatusApproaching
	}
	switch {
	case r.Average <= d.cfg.MinAverage:
		return StatusTooWeak
	case r.StrongSamples < d.cfg.RequiredSamples:
		return StatusHold
	default:
		return StatusTap
	}
}

func (d *Detector) reset() {
	d.candidates = make(map[string]*candidate)
	d.seq = 0
}
