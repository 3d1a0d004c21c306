package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aistovaai/uavlogviewer/internal/store"
	"github.com/aistovaai/uavlogviewer/internal/telemetry"
)

func TestBuild(t *testing.T) {
	st := store.New()
	st.Append("GPS",
		map[string]float64{"TimeUS": 1.0},
		map[string]telemetry.Value{"Alt": telemetry.Number(10), "Spd": telemetry.Null()})
	st.Append("GPS",
		map[string]float64{"TimeUS": 2.0, "GPS": 1002.0},
		map[string]telemetry.Value{"Alt": telemetry.Null(), "Spd": telemetry.Null()})

	descriptions := Descriptions{
		"GPS":     "GPS fix information",
		"GPS.Alt": "Altitude above MSL",
	}

	c := NewBuilder(st, descriptions).Build()
	require.Contains(t, c, "GPS")

	entry := c["GPS"]
	assert.Equal(t, "GPS fix information", entry.Description)
	assert.Equal(t, []string{"GPS", "TimeUS"}, entry.Domains)

	require.Contains(t, entry.Fields, "Alt")
	alt := entry.Fields["Alt"]
	assert.Equal(t, "GPS.Alt", alt.QualifiedName)
	assert.True(t, alt.HasData) // one non-null value suffices
	assert.Equal(t, "Altitude above MSL", alt.Description)

	// Null in every record: present in the catalog, flagged as dataless.
	spd := entry.Fields["Spd"]
	assert.False(t, spd.HasData)
	assert.Empty(t, spd.Description)
}

func TestBuildFieldSetFromFirstRecord(t *testing.T) {
	st := store.New()
	st.Append("GPS", nil, map[string]telemetry.Value{"Alt": telemetry.Number(10)})
	st.Append("GPS", nil, map[string]telemetry.Value{"Alt": telemetry.Number(11), "Extra": telemetry.Number(1)})

	// The field list reflects the first record only; later divergence is
	// not reconciled.
	c := NewBuilder(st, nil).Build()
	fields := c["GPS"].Fields
	assert.Contains(t, fields, "Alt")
	assert.NotContains(t, fields, "Extra")
}

func TestBuildEmptyStore(t *testing.T) {
	c := NewBuilder(store.New(), nil).Build()
	assert.Empty(t, c)
}

func TestDescriptionsLookup(t *testing.T) {
	d := Descriptions{"GPS": "GPS fix information"}

	assert.Equal(t, "GPS fix information", d.Lookup("GPS"))
	assert.Empty(t, d.Lookup("GPS.Alt"))

	// A nil index is usable and empty.
	var none Descriptions
	assert.Empty(t, none.Lookup("GPS"))
}

func TestLoadDescriptions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "params.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"GPS":"GPS fix information","GPS.Alt":"Altitude above MSL"}`), 0o644))

	d, err := LoadDescriptions(path)
	require.NoError(t, err)
	assert.Equal(t, "Altitude above MSL", d.Lookup("GPS.Alt"))
}

func TestLoadDescriptionsEmptyPath(t *testing.T) {
	d, err := LoadDescriptions("")
	require.NoError(t, err)
	assert.Empty(t, d)
}

func TestLoadDescriptionsErrors(t *testing.T) {
	_, err := LoadDescriptions(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err = LoadDescriptions(path)
	assert.Error(t, err)
}
