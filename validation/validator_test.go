package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signup struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=3,max=10"`
}

func TestValidateStructUsesJSONNames(t *testing.T) {
	err := ValidateStruct(&signup{Email: "nope", Username: "ab"})
	require.Error(t, err)

	var verr *RequestValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Fields, 2)
	assert.Equal(t, "email", verr.Fields[0].Field)
	assert.Equal(t, "username", verr.Fields[1].Field)
	assert.Equal(t, "email must be a valid email address; username must be at least 3 characters", err.Error())
}

func TestValidateStructPasses(t *testing.T) {
	assert.NoError(t, ValidateStruct(&signup{Email: "cook@example.com", Username: "cook"}))
}
