package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestDB returns a fresh in-memory database that is closed when the
// test finishes. t.Helper() makes failures point at the caller's line.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	require.NoError(t, err, "failed to create test db")
	t.Cleanup(func() { db.Close() })
	return db
}

func TestNew_BootstrapIsIdempotent(t *testing.T) {
	db := newTestDB(t)

	// Running the CREATE TABLE IF NOT EXISTS block a second time must not fail.
	assert.NoError(t, db.bootstrap())
}

func TestEncodeDecodeList(t *testing.T) {
	tests := []struct {
		name  string
		items []string
		want  []string
	}{
		{"nil becomes empty array", nil, []string{}},
		{"order is kept", []string{"b", "a", "c"}, []string{"b", "a", "c"}},
		{"data URIs survive", []string{"data:image/png;base64,iVBORw0K"}, []string{"data:image/png;base64,iVBORw0K"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := encodeList(tt.items)
			require.NoError(t, err)

			got, err := decodeList(raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeList_EmptyString(t *testing.T) {
	got, err := decodeList("")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
