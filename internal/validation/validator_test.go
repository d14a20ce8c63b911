package validation

import (
	"errors"
	"testing"

	apperrors "github.com/outdoortrails/trails-hub-backend/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleSpecs struct {
	WeightG *float64 `json:"weight_g" validate:"omitempty,gte=0"`
}

type sampleInput struct {
	Name  string      `json:"name" validate:"required,max=10"`
	Link  string      `json:"link" validate:"omitempty,url"`
	Specs sampleSpecs `json:"specs"`
}

func TestValidate_Valid(t *testing.T) {
	v := New()
	assert.NoError(t, v.Validate(sampleInput{Name: "tent", Link: "https://example.com"}))
}

func TestValidate_ReportsFieldsByJSONName(t *testing.T) {
	v := New()
	negative := -1.0

	err := v.Validate(sampleInput{Name: "", Link: "not a url", Specs: sampleSpecs{WeightG: &negative}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrValidation))

	de, ok := apperrors.AsDomain(err)
	require.True(t, ok)
	assert.Equal(t, "is required", de.Fields["name"])
	assert.Equal(t, "must be a valid URL", de.Fields["link"])
	assert.Equal(t, "must be greater than or equal to 0", de.Fields["specs.weight_g"])
}
