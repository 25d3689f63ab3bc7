package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mall-site-backend/internal/apperr"
)

type sample struct {
	Name        string `json:"name" validate:"required,max=5"`
	CategoryIDs []uint `json:"category_ids" validate:"min=1"`
	Website     string `json:"website,omitempty" validate:"omitempty,url"`
}

func TestValidateReportsJSONFieldNames(t *testing.T) {
	err := New().Validate(sample{Name: "", Website: "nope"})
	require.Error(t, err)

	var appErr *apperr.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperr.CodeValidation, appErr.Code)
	assert.Equal(t, "is required", appErr.Details["name"])
	assert.Equal(t, "must contain at least 1 item(s)", appErr.Details["category_ids"])
	assert.Equal(t, "must be a valid URL", appErr.Details["website"])
}

func TestValidateOK(t *testing.T) {
	assert.NoError(t, New().Validate(sample{Name: "Zara", CategoryIDs: []uint{1}}))
}
