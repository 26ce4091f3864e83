package utils

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToString(t *testing.T) {
	text := "1990-01-01"
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"Nil", nil, ""},
		{"String", "Smith", "Smith"},
		{"Bytes", []byte("C100"), "C100"},
		{"StringPointer", &text, "1990-01-01"},
		{"NilStringPointer", (*string)(nil), ""},
		{"WholeFloat", float64(19900101), "19900101"},
		{"FractionalFloat", 32874.5, "32874.5"},
		{"Float32", float32(12), "12"},
		{"Int", 42, "42"},
		{"Int64", int64(-7), "-7"},
		{"Uint64", uint64(9), "9"},
		{"JSONNumber", json.Number("19850505"), "19850505"},
		{"Bool", true, "true"},
		{"DateOnly", time.Date(1970, 3, 3, 0, 0, 0, 0, time.UTC), "1970-03-03"},
		{"DateTime", time.Date(1970, 3, 3, 10, 30, 0, 0, time.UTC), "1970-03-03T10:30:00Z"},
		{"Other", []int{1, 2}, "[1 2]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToString(tt.in))
		})
	}
}

func TestToOptionalString(t *testing.T) {
	assert.Nil(t, ToOptionalString(nil))

	got := ToOptionalString("")
	require.NotNil(t, got)
	assert.Equal(t, "", *got)

	got = ToOptionalString(float64(20240110))
	require.NotNil(t, got)
	assert.Equal(t, "20240110", *got)

	var missing *string
	assert.Nil(t, ToOptionalString(missing))
}
