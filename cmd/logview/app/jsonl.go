package app

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/bytedance/sonic"

	"github.com/aistovaai/uavlogviewer/internal/telemetry"
)

const maxLineSize = 1024 * 1024

type jsonlRecord struct {
	Type   string             `json:"type"`
	Raw    map[string]float64 `json:"raw"`
	Fields map[string]any     `json:"fields"`
}

// JSONLDecoder adapts a stream of decoded flight log messages, one JSON
// object per line, to the telemetry.Decoder interface. It stands in for
// the binary frame codec, which is outside this repository.
type JSONLDecoder struct {
	scanner *bufio.Scanner
	line    int
}

// NewJSONLDecoder creates a decoder reading from r.
func NewJSONLDecoder(r io.Reader) *JSONLDecoder {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	return &JSONLDecoder{scanner: scanner}
}

// Next returns the next decoded message, or io.EOF once the stream is
// exhausted. Blank lines are skipped; a malformed line is a hard decode
// failure and aborts the feed.
func (d *JSONLDecoder) Next(_ context.Context) (*telemetry.Message, error) {
	for d.scanner.Scan() {
		d.line++

		line := bytes.TrimSpace(d.scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var rec jsonlRecord
		if err := sonic.Unmarshal(line, &rec); err != nil {
			return nil, fmt.Errorf("line %d: parsing message: %w", d.line, err)
		}
		if rec.Type == "" {
			return nil, fmt.Errorf("line %d: missing message type", d.line)
		}

		msg := telemetry.Message{
			Type:   rec.Type,
			Raw:    rec.Raw,
			Fields: make(map[string]telemetry.Value, len(rec.Fields)),
		}
		for name, value := range rec.Fields {
			// Timestamp-bearing raw fields live in Raw only.
			if name == telemetry.RawTimeUS || name == telemetry.RawGPSWeek || name == telemetry.RawGPSMillis {
				continue
			}
			msg.Fields[name] = telemetry.ValueOf(value)
		}

		return &msg, nil
	}

	if err := d.scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading feed: %w", err)
	}
	return nil, io.EOF
}
