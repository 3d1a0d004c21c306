// Package timesync reconciles the two clock domains of a flight log: the
// monotonic device clock (TimeUS) and the absolute epoch-based GPS clock.
//
// A single linear offset is estimated from every message that carries
// both clocks at once, then applied to backfill the absolute domain on
// records that lack it. One global offset is a deliberate simplification:
// clock drift over the duration of a log is assumed negligible relative
// to query resolution.
package timesync

import (
	"github.com/aistovaai/uavlogviewer/internal/store"
	"github.com/aistovaai/uavlogviewer/internal/telemetry"
)

const (
	// GPSEpoch is the Unix time of the GPS epoch, 1980-01-06T00:00:00Z.
	GPSEpoch = 315964800

	// SecondsPerWeek is the number of seconds in a GPS week.
	SecondsPerWeek = 604800

	microsPerSecond = 1e6
)

// EpochSeconds converts a GPS week number and milliseconds-of-week pair
// into seconds since the Unix epoch.
func EpochSeconds(week, ms float64) float64 {
	return GPSEpoch + week*SecondsPerWeek + ms/1000.0
}

// MonotonicSeconds converts a raw TimeUS microsecond counter to seconds.
func MonotonicSeconds(raw float64) float64 {
	return raw / microsPerSecond
}

// Timestamps derives the per-domain timestamps of one message from its
// raw timestamp fields. The monotonic domain is present whenever the
// message carries TimeUS; the absolute domain requires both the week
// number and the milliseconds-of-week.
func Timestamps(raw map[string]float64) map[string]float64 {
	ts := make(map[string]float64, 2)

	if us, ok := raw[telemetry.RawTimeUS]; ok {
		ts[telemetry.DomainTimeUS] = MonotonicSeconds(us)
	}

	week, okWeek := raw[telemetry.RawGPSWeek]
	ms, okMillis := raw[telemetry.RawGPSMillis]
	if okWeek && okMillis {
		ts[telemetry.DomainGPS] = EpochSeconds(week, ms)
	}

	return ts
}

// Sampler accumulates offset samples during an ingestion pass. The zero
// value is ready to use.
type Sampler struct {
	sum     float64
	samples int
}

// Observe records one offset sample if the message's raw timestamp fields
// carry both the monotonic counter and the absolute week/millisecond
// pair. Messages carrying only one clock contribute nothing.
func (s *Sampler) Observe(raw map[string]float64) {
	us, okUS := raw[telemetry.RawTimeUS]
	week, okWeek := raw[telemetry.RawGPSWeek]
	ms, okMillis := raw[telemetry.RawGPSMillis]
	if !okUS || !okWeek || !okMillis {
		return
	}

	s.sum += EpochSeconds(week, ms) - MonotonicSeconds(us)
	s.samples++
}

// Reconcile returns the reconciliation over all observed samples: the
// arithmetic mean offset, which smooths jitter and precision loss in the
// absolute time fields. With no samples the offset is 0.0 and the
// reconciliation reports as not applied.
func (s *Sampler) Reconcile() Reconciliation {
	if s.samples == 0 {
		return Reconciliation{}
	}
	return Reconciliation{
		Offset:  s.sum / float64(s.samples),
		Samples: s.samples,
	}
}

// Reconciliation is the immutable outcome of one reconciliation pass.
// The zero value means no reconciliation took place.
type Reconciliation struct {
	Offset  float64 `json:"offset"`  // seconds to add to the monotonic domain
	Samples int     `json:"samples"` // number of offset samples observed
}

// Applied reports whether any offset sample was observed. When false the
// absolute domain must not be fabricated from the unset offset; this is
// an observable condition, not an error.
func (r Reconciliation) Applied() bool {
	return r.Samples > 0
}

// Backfill sets the absolute-domain timestamp on every record of every
// type that has a monotonic timestamp but lacks the absolute one. It is
// a no-op when the reconciliation was not applied. Backfill must complete
// before queries exercise domain fallback for the absolute domain.
func (r Reconciliation) Backfill(s *store.Store) {
	if !r.Applied() {
		return
	}

	for _, msgType := range s.Types() {
		for _, record := range s.Records(msgType) {
			us, ok := record.Timestamps[telemetry.DomainTimeUS]
			if !ok {
				continue
			}
			if _, ok = record.Timestamps[telemetry.DomainGPS]; ok {
				continue
			}
			record.Timestamps[telemetry.DomainGPS] = us + r.Offset
		}
	}
}
