package registry

import (
	"math"
	"testing"

	"github.com/benmeehan/hydrant-survey/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hydrant(id, label string, ts int64) models.Hydrant {
	return models.Hydrant{
		ID:               id,
		ProposedLocation: label,
		Latitude:         32.186440,
		Longitude:        74.190790,
		PlusCode:         "004F+A0, Model Town, Gujranwala, Punjab, Pakistan",
		Timestamp:        ts,
	}
}

func TestRecordRegistry_AddKeepsOrder(t *testing.T) {
	r := NewRecordRegistry()
	r1 := hydrant("a", "Near Main Gate", 1000)
	r2 := hydrant("b", "Clock Tower", 2000)

	require.NoError(t, r.Add(r1))
	require.NoError(t, r.Add(r2))

	assert.Equal(t, []models.Hydrant{r1, r2}, r.List())
	assert.Equal(t, 2, r.Count())

	last, ok := r.Last()
	assert.True(t, ok)
	assert.Equal(t, r2, last)
}

func TestRecordRegistry_AddAcceptsEqualTimestamps(t *testing.T) {
	r := NewRecordRegistry()
	require.NoError(t, r.Add(hydrant("a", "One", 1000)))
	assert.NoError(t, r.Add(hydrant("b", "Two", 1000)))
}

func TestRecordRegistry_AddRejectsInvalid(t *testing.T) {
	outOfRange := hydrant("c", "Somewhere", 1000)
	outOfRange.Latitude = 91

	notANumber := hydrant("d", "Somewhere", 1000)
	notANumber.Longitude = math.NaN()

	tests := []struct {
		name   string
		record models.Hydrant
		field  string
	}{
		{"empty label", hydrant("a", "", 1000), "proposedLocation"},
		{"whitespace label", hydrant("b", "   \t", 1000), "proposedLocation"},
		{"latitude out of range", outOfRange, "coordinate"},
		{"NaN longitude", notANumber, "coordinate"},
		{"empty id", hydrant("", "Label", 1000), "id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRecordRegistry()
			err := r.Add(tt.record)

			require.Error(t, err)
			assert.ErrorIs(t, err, models.ErrValidation)

			var vErr *models.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.field, vErr.Field)
			assert.Zero(t, r.Count())
		})
	}
}

func TestRecordRegistry_AddRejectsDuplicateID(t *testing.T) {
	r := NewRecordRegistry()
	require.NoError(t, r.Add(hydrant("a", "One", 1000)))

	err := r.Add(hydrant("a", "Two", 2000))
	assert.ErrorIs(t, err, models.ErrValidation)
	assert.Equal(t, 1, r.Count())
}

func TestRecordRegistry_AddRejectsOutOfOrderTimestamp(t *testing.T) {
	r := NewRecordRegistry()
	require.NoError(t, r.Add(hydrant("a", "One", 2000)))

	err := r.Add(hydrant("b", "Two", 1000))
	assert.ErrorIs(t, err, models.ErrValidation)
	assert.Equal(t, 1, r.Count())
}

func TestRecordRegistry_ListIsACopy(t *testing.T) {
	r := NewRecordRegistry()
	require.NoError(t, r.Add(hydrant("a", "One", 1000)))

	list := r.List()
	list[0].ProposedLocation = "changed"

	assert.Equal(t, "One", r.List()[0].ProposedLocation)
}

func TestRecordRegistry_Clear(t *testing.T) {
	r := NewRecordRegistry()
	require.NoError(t, r.Add(hydrant("a", "One", 1000)))
	require.NoError(t, r.Add(hydrant("b", "Two", 2000)))

	r.Clear()

	assert.Zero(t, r.Count())
	assert.Empty(t, r.List())
	_, ok := r.Last()
	assert.False(t, ok)

	// ids are released together with the records
	assert.NoError(t, r.Add(hydrant("a", "One again", 500)))
}
