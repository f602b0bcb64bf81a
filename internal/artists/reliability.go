package artists

import (
	"fmt"
	"math"
)

// ReliabilityEvent is the closed vocabulary of booking outcomes that may
// adjust an artist's reliability metrics.
type ReliabilityEvent string

const (
	ReliabilityAccepted  ReliabilityEvent = "accepted"
	ReliabilityDeclined  ReliabilityEvent = "declined"
	ReliabilityCancelled ReliabilityEvent = "cancelled"
	ReliabilityNoShow    ReliabilityEvent = "no_show"
)

func (e ReliabilityEvent) IsValid() bool {
	switch e {
	case ReliabilityAccepted, ReliabilityDeclined, ReliabilityCancelled, ReliabilityNoShow:
		return true
	}
	return false
}

func (e ReliabilityEvent) String() string {
	return string(e)
}

// ReliabilityMetrics is the per-artist behavioral aggregate block.
type ReliabilityMetrics struct {
	ResponseHours    float64
	AcceptanceRate   float64
	CancellationRate float64
	NoShowCount      int
}

// Normalize repairs out-of-range fields to their documented defaults.
func (m ReliabilityMetrics) Normalize() ReliabilityMetrics {
	if m.ResponseHours <= 0 {
		m.ResponseHours = 24
	}
	if m.AcceptanceRate <= 0 {
		m.AcceptanceRate = 100
	}
	if m.CancellationRate < 0 {
		m.CancellationRate = 0
	}
	if m.NoShowCount < 0 {
		m.NoShowCount = 0
	}
	return m
}

// ApplyReliabilityEvent returns the metrics after one booking outcome.
// Rates are stored rounded to the nearest integer; the input is
// normalized first so a corrupted record self-heals on the next event.
func ApplyReliabilityEvent(m ReliabilityMetrics, event ReliabilityEvent) (ReliabilityMetrics, error) {
	m = m.Normalize()

	switch event {
	case ReliabilityAccepted:
		m.AcceptanceRate = math.Min(100, m.AcceptanceRate+2)
	case ReliabilityDeclined:
		m.AcceptanceRate = math.Max(0, m.AcceptanceRate-3)
	case ReliabilityCancelled:
		m.CancellationRate = math.Min(100, m.CancellationRate+5)
	case ReliabilityNoShow:
		m.NoShowCount++
	default:
		return m, fmt.Errorf("%w: unknown reliability event %q", ErrValidation, event)
	}

	m.AcceptanceRate = math.Round(m.AcceptanceRate)
	m.CancellationRate = math.Round(m.CancellationRate)
	return m, nil
}
