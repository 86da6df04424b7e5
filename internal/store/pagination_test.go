package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPaginationParams(t *testing.T) {
	params := DefaultPaginationParams()
	assert.Equal(t, 100, params.Limit)
	assert.Empty(t, params.Cursor)
}

func TestPaginationParams_Validate(t *testing.T) {
	tests := []struct {
		name          string
		input         PaginationParams
		expectedLimit int
	}{
		{name: "valid parameters", input: PaginationParams{Limit: 50}, expectedLimit: 50},
		{name: "zero limit should default to 100", input: PaginationParams{Limit: 0}, expectedLimit: 100},
		{name: "negative limit should default to 100", input: PaginationParams{Limit: -10}, expectedLimit: 100},
		{name: "limit over 1000 should cap at 1000", input: PaginationParams{Limit: 5000}, expectedLimit: 1000},
		{name: "limit exactly 1000 should stay at 1000", input: PaginationParams{Limit: 1000}, expectedLimit: 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := tt.input
			params.Validate()
			assert.Equal(t, tt.expectedLimit, params.Limit)
		})
	}
}

func TestCursor(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		encoded string
	}{
		{name: "empty", id: "", encoded: ""},
		{name: "server item id", id: "li_8f2a1c", encoded: "bGlfOGYyYTFj"},
		{name: "local item id", id: "local-V1StGXR8_Z5jdHi6B-myT", encoded: "bG9jYWwtVjFTdEdYUjhfWjVqZEhpNkItbXlU"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.encoded, EncodeCursor(tt.id))
			decoded, err := DecodeCursor(tt.encoded)
			require.NoError(t, err)
			assert.Equal(t, tt.id, decoded)
		})
	}
}

func TestDecodeCursor_Invalid(t *testing.T) {
	_, err := DecodeCursor("not-valid-base64!!!")
	assert.Error(t, err)
}
