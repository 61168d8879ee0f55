package csvio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateHeaders(t *testing.T) {
	current := ExpectedHeaders()
	assert.True(t, ValidateHeaders(current))

	padded := ExpectedHeaders()
	padded[0] = "  UTC "
	assert.True(t, ValidateHeaders(padded), "headers are trimmed")

	renamed := ExpectedHeaders()
	renamed[4] = "Exercise"
	assert.False(t, ValidateHeaders(renamed))

	reordered := ExpectedHeaders()
	reordered[5], reordered[6] = reordered[6], reordered[5]
	assert.False(t, ValidateHeaders(reordered))

	assert.False(t, ValidateHeaders(current[:12]), "missing column")
	assert.False(t, ValidateHeaders(append(ExpectedHeaders(), "Extra")))

	lower := ExpectedHeaders()
	lower[0] = "utc"
	assert.False(t, ValidateHeaders(lower), "case sensitive")

	assert.False(t, ValidateHeaders(nil))
	assert.False(t, ValidateHeaders(SchemaV3.Columns), "legacy headers are not current")
}

func TestExpectedHeadersIsCopy(t *testing.T) {
	h := ExpectedHeaders()
	h[0] = "changed"
	assert.Equal(t, "UTC", SchemaCurrent.Columns[0])
}

func TestDetectSchema(t *testing.T) {
	for _, want := range Schemas {
		t.Run(want.Name, func(t *testing.T) {
			got, ok := DetectSchema(want.Columns)
			require.True(t, ok)
			assert.Equal(t, want.Version, got.Version)
		})
	}

	_, ok := DetectSchema([]string{"Date", "CP1"})
	assert.False(t, ok)
}

func TestSchemaForWidth(t *testing.T) {
	tests := []struct {
		width   int
		legacy  bool
		want    int
		wantHit bool
	}{
		{13, true, 4, true},
		{11, true, 1, true},
		{10, true, 3, true}, // newest layout wins at equal width
		{13, false, 4, true},
		{10, false, 0, false},
		{12, true, 0, false},
	}

	for _, tt := range tests {
		got, ok := schemaForWidth(tt.width, tt.legacy)
		assert.Equal(t, tt.wantHit, ok, "width %d", tt.width)
		if ok {
			assert.Equal(t, tt.want, got.Version, "width %d", tt.width)
		}
	}
}
