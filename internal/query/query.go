// Package query resolves parameter paths of the form "TYPE.FIELD" into
// aligned time/value series against a requested time domain.
package query

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aistovaai/uavlogviewer/internal/store"
	"github.com/aistovaai/uavlogviewer/internal/telemetry"
)

var (
	// ErrMalformedName is returned when a qualified parameter name does
	// not parse as "TYPE.FIELD".
	ErrMalformedName = errors.New("malformed qualified name")

	// ErrUnknownType is returned when the message type of a query is not
	// present in the store. It is distinct from a known type yielding an
	// empty series.
	ErrUnknownType = errors.New("unknown message type")
)

// DefaultDomainPriority is the fallback order used to resolve a record's
// timestamp when the requested domain is absent on that record.
var DefaultDomainPriority = []string{telemetry.DomainTimeUS, telemetry.DomainGPS}

// Series is an aligned pair of time and value sequences, index by index,
// in store order. Store order is the decoder's arrival order, which is
// expected but not guaranteed to be time-monotonic; callers needing
// sorted output must sort explicitly.
type Series struct {
	Times  []float64         `json:"times"`
	Values []telemetry.Value `json:"values"`
}

// Len returns the number of points in the series.
func (s Series) Len() int { return len(s.Times) }

// Empty returns true when the series holds no points. An empty series
// from a successful query means the type is known but no record produced
// a usable (timestamp, value) pair under the current domain fallback.
func (s Series) Empty() bool { return len(s.Times) == 0 }

// SplitQualifiedName parses a "TYPE.FIELD" parameter path. The first dot
// is the separator; field names may not contain dots. An empty type or
// field is malformed.
func SplitQualifiedName(name string) (msgType, field string, err error) {
	i := strings.IndexByte(name, '.')
	if i <= 0 || i == len(name)-1 {
		return "", "", fmt.Errorf("%w: %q", ErrMalformedName, name)
	}
	return name[:i], name[i+1:], nil
}

// WithDomainPriority replaces the domain fallback order. Adding a new
// time domain is a matter of extending the priority list, not of
// touching the resolution algorithm.
func WithDomainPriority(domains ...string) func(*Engine) {
	return func(e *Engine) {
		e.priority = domains
	}
}

// Engine answers parameter queries against a finished record store. It
// performs no mutation and is safe for concurrent use once the ingestion
// pass has completed.
type Engine struct {
	store    *store.Store
	priority []string
}

// New creates an Engine reading from st.
func New(st *store.Store, options ...func(*Engine)) *Engine {
	e := Engine{
		store:    st,
		priority: DefaultDomainPriority,
	}

	for _, option := range options {
		option(&e)
	}

	return &e
}

// Series resolves a qualified parameter name against the requested time
// domain.
//
// Records with a null field value are skipped. A record's timestamp is
// the requested domain if present, otherwise the first present domain in
// priority order; a record with no usable timestamp contributes no point
// even when its field value is set.
//
// A parse failure returns ErrMalformedName and an unknown type returns
// ErrUnknownType. A known type with no usable pairs returns an empty
// series and no error; callers must treat these outcomes differently.
func (e *Engine) Series(name, domain string) (Series, error) {
	msgType, field, err := SplitQualifiedName(name)
	if err != nil {
		return Series{}, err
	}

	records := e.store.Records(msgType)
	if records == nil {
		return Series{}, fmt.Errorf("%w: %q", ErrUnknownType, msgType)
	}

	s := Series{
		Times:  make([]float64, 0, len(records)),
		Values: make([]telemetry.Value, 0, len(records)),
	}

	for _, r := range records {
		value, ok := r.Fields[field]
		if !ok || value.IsNull() {
			continue
		}

		ts, ok := e.resolveTimestamp(r, domain)
		if !ok {
			continue
		}

		s.Times = append(s.Times, ts)
		s.Values = append(s.Values, value)
	}

	return s, nil
}

// AvailableDomains returns the union of time domains seen across all
// message types, sorted.
func (e *Engine) AvailableDomains() []string {
	return e.store.AllDomains()
}

// TypeDomains returns the union of time domains seen on records of
// msgType, sorted, or ErrUnknownType.
func (e *Engine) TypeDomains(msgType string) ([]string, error) {
	domains := e.store.Domains(msgType)
	if domains == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, msgType)
	}
	return domains, nil
}

func (e *Engine) resolveTimestamp(r *store.Record, domain string) (float64, bool) {
	if ts, ok := r.Timestamps[domain]; ok {
		return ts, true
	}
	for _, fallback := range e.priority {
		if ts, ok := r.Timestamps[fallback]; ok {
			return ts, true
		}
	}
	return 0, false
}
