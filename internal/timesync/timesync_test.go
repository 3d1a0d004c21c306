package timesync

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aistovaai/uavlogviewer/internal/store"
	"github.com/aistovaai/uavlogviewer/internal/telemetry"
)

func TestEpochSeconds(t *testing.T) {
	// week 2190, 123456 ms of week
	want := 315964800 + 2190*604800 + 123.456
	assert.InDelta(t, want, EpochSeconds(2190, 123456), 1e-6)

	// GPS epoch itself
	assert.Equal(t, float64(GPSEpoch), EpochSeconds(0, 0))
}

func TestMonotonicSeconds(t *testing.T) {
	assert.Equal(t, 1.5, MonotonicSeconds(1_500_000))
	assert.Equal(t, 0.0, MonotonicSeconds(0))
}

func TestTimestamps(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]float64
		want map[string]float64
	}{
		{
			"monotonic only",
			map[string]float64{telemetry.RawTimeUS: 2_000_000},
			map[string]float64{telemetry.DomainTimeUS: 2.0},
		},
		{
			"both clocks",
			map[string]float64{telemetry.RawTimeUS: 2_000_000, telemetry.RawGPSWeek: 1, telemetry.RawGPSMillis: 1000},
			map[string]float64{telemetry.DomainTimeUS: 2.0, telemetry.DomainGPS: 315964800 + 604800 + 1.0},
		},
		{
			"week without milliseconds",
			map[string]float64{telemetry.RawGPSWeek: 1},
			map[string]float64{},
		},
		{
			"no raw timestamps",
			nil,
			map[string]float64{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Timestamps(tc.raw))
		})
	}
}

// rawWithOffset builds raw timestamp fields whose offset sample is
// exactly the given number of whole seconds.
func rawWithOffset(offset float64) map[string]float64 {
	return map[string]float64{
		telemetry.RawTimeUS:    (GPSEpoch - offset) * 1e6,
		telemetry.RawGPSWeek:   0,
		telemetry.RawGPSMillis: 0,
	}
}

func TestSamplerMean(t *testing.T) {
	var s Sampler
	s.Observe(rawWithOffset(10))
	s.Observe(rawWithOffset(10))
	s.Observe(rawWithOffset(12))

	rec := s.Reconcile()
	require.True(t, rec.Applied())
	assert.Equal(t, 3, rec.Samples)
	assert.Equal(t, 32.0/3.0, rec.Offset)
}

func TestSamplerIgnoresSingleClockMessages(t *testing.T) {
	var s Sampler
	s.Observe(map[string]float64{telemetry.RawTimeUS: 1_000_000})
	s.Observe(map[string]float64{telemetry.RawGPSWeek: 2190, telemetry.RawGPSMillis: 123456})
	s.Observe(nil)

	rec := s.Reconcile()
	assert.False(t, rec.Applied())
	assert.Equal(t, 0.0, rec.Offset)
}

func TestBackfill(t *testing.T) {
	st := store.New()
	st.Append("ATT", map[string]float64{telemetry.DomainTimeUS: 5.0}, nil)
	st.Append("GPS", map[string]float64{telemetry.DomainTimeUS: 6.0, telemetry.DomainGPS: 100.0}, nil)
	st.Append("MODE", map[string]float64{}, nil)

	rec := Reconciliation{Offset: 90.0, Samples: 1}
	rec.Backfill(st)

	// Missing absolute domain gains TimeUS + offset.
	assert.Equal(t, 95.0, st.Records("ATT")[0].Timestamps[telemetry.DomainGPS])

	// An already present absolute timestamp is never overwritten.
	assert.Equal(t, 100.0, st.Records("GPS")[0].Timestamps[telemetry.DomainGPS])

	// No monotonic timestamp, nothing to backfill from.
	_, ok := st.Records("MODE")[0].Timestamps[telemetry.DomainGPS]
	assert.False(t, ok)
}

func TestBackfillSkippedWithoutSamples(t *testing.T) {
	st := store.New()
	st.Append("ATT", map[string]float64{telemetry.DomainTimeUS: 5.0}, nil)

	var s Sampler
	rec := s.Reconcile()
	require.False(t, rec.Applied())

	rec.Backfill(st)

	// No record gains an absolute timestamp it did not already have.
	_, ok := st.Records("ATT")[0].Timestamps[telemetry.DomainGPS]
	assert.False(t, ok)
}
