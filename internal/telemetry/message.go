package telemetry

import (
	"context"
)

// Raw timestamp-bearing field names as they appear on dataflash messages.
// These never show up in Message.Fields; they are consumed by the time
// domain derivation instead.
const (
	RawTimeUS    = "TimeUS" // monotonic device clock, microseconds since boot
	RawGPSWeek   = "GWk"    // GPS week number
	RawGPSMillis = "GMS"    // milliseconds of GPS week
)

// Time domain names under which record timestamps are stored and queried.
const (
	DomainTimeUS = "TimeUS" // monotonic device clock, seconds
	DomainGPS    = "GPS"    // absolute epoch-based clock, seconds
)

// Message is one decoded telemetry message as handed over by the external
// message codec: a type identifier, the raw timestamp fields present on
// this particular instance, and the typed payload fields.
type Message struct {
	Type   string             `json:"type"`
	Raw    map[string]float64 `json:"raw,omitempty"`
	Fields map[string]Value   `json:"fields,omitempty"`
}

// Decoder is the external message codec collaborator. Implementations own
// the wire format; this package only consumes already decoded messages.
//
// Next returns the next decoded message, io.EOF when the feed is
// exhausted, or any other error on a hard decode failure. A hard failure
// aborts the whole ingestion pass; per-message gaps must instead be
// represented as null field values on the returned message.
type Decoder interface {
	Next(ctx context.Context) (*Message, error)
}
