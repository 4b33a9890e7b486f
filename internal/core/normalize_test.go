package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeTracking(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want string
	}{
		{"plain", Str("1Z999AA10123456784"), "1Z999AA10123456784"},
		{"trims whitespace", Str("  1Z999  "), "1Z999"},
		{"scientific", Str("1.5E+11"), "150000000000"},
		{"scientific with padding", Str(" 1.234567E+11 "), "123456700000"},
		{"scientific truncates", Str("1.2345678E+3"), "1234"},
		{"number", Num(123456789012), "123456789012"},
		{"missing", Missing(), ""},
		{"lowercase e is not repaired", Str("1.5e+11"), "1.5e+11"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeTracking(tt.v)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeTracking_Errors(t *testing.T) {
	tests := []struct {
		name    string
		v       Value
		wantErr string
	}{
		{"not a number", Str("ABE+12"), `invalid number "ABE+12" in scientific notation`},
		{"out of range", Str("1E+999"), `invalid number "1E+999"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NormalizeTracking(tt.v)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNormalizeKeys_CollectsEveryFailure(t *testing.T) {
	tbl := NewTable([]string{"Tracking #"}, []Row{
		{Str("XE+1")},
		{Str("1Z1")},
		{Str("YE+2")},
	})

	var failures []NormalizationFailure
	keys := normalizeKeys(tbl, "Tracking #", SideShipments, &failures)

	assert.Equal(t, []string{"", "1Z1", ""}, keys)
	require.Len(t, failures, 2)
	assert.Equal(t, 1, failures[0].Row)
	assert.Equal(t, 3, failures[1].Row)
	assert.Equal(t, "YE+2", failures[1].Raw)
	assert.Equal(t, SideShipments, failures[1].Side)
}
