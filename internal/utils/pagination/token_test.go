package pagination

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeToken(t *testing.T) {
	cursor := Cursor{
		Date:      time.Date(2023, 5, 15, 0, 0, 0, 0, time.UTC),
		CreatedAt: time.Date(2023, 5, 15, 14, 30, 45, 123456789, time.UTC),
		ID:        "7f1c|odd-id",
	}

	token := EncodeToken(cursor)
	assert.NotEmpty(t, token)

	decoded, err := DecodeToken(token)
	require.NoError(t, err)
	assert.True(t, cursor.Date.Equal(decoded.Date))
	assert.True(t, cursor.CreatedAt.Equal(decoded.CreatedAt))
	assert.Equal(t, cursor.ID, decoded.ID, "ids may contain the separator")

	// Zero time values round-trip too.
	zero, err := DecodeToken(EncodeToken(Cursor{ID: "x"}))
	require.NoError(t, err)
	assert.True(t, zero.Date.IsZero())
}

func TestDecodeToken_Invalid(t *testing.T) {
	tests := map[string]string{
		"not base64":    "%%%",
		"missing parts": base64.StdEncoding.EncodeToString([]byte("2023-05-15T00:00:00Z")),
		"bad date":      base64.StdEncoding.EncodeToString([]byte("yesterday|2023-05-15T00:00:00Z|a")),
		"bad created":   base64.StdEncoding.EncodeToString([]byte("2023-05-15T00:00:00Z|noon|a")),
		"missing id":    base64.StdEncoding.EncodeToString([]byte("2023-05-15T00:00:00Z|2023-05-15T00:00:00Z|")),
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeToken(token)
			assert.Error(t, err)
		})
	}
}

func TestCompare(t *testing.T) {
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	base := Cursor{Date: day, CreatedAt: day, ID: "b"}

	assert.Equal(t, 0, Compare(base, base))
	assert.Equal(t, -1, Compare(Cursor{Date: day.AddDate(0, 0, -1), CreatedAt: day.AddDate(1, 0, 0), ID: "z"}, base))
	assert.Equal(t, 1, Compare(Cursor{Date: day, CreatedAt: day.Add(time.Second), ID: "a"}, base))
	assert.Equal(t, -1, Compare(Cursor{Date: day, CreatedAt: day, ID: "a"}, base))
}
