package uploads

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type textFields struct {
	Name  string `validate:"required,notblank"`
	Email string `validate:"required,email"`
}

func newValidate(t *testing.T) *validator.Validate {
	t.Helper()
	v := validator.New()
	require.NoError(t, v.RegisterValidation("notblank", validators.NotBlank))
	return v
}

func TestValidationMessage(t *testing.T) {
	v := newValidate(t)

	err := v.Struct(textFields{Name: "   ", Email: "jane@example.com"})
	require.Error(t, err)
	assert.Equal(t, "name is required", ValidationMessage(err))

	err = v.Struct(textFields{Name: "Jane", Email: "not-an-email"})
	require.Error(t, err)
	assert.Equal(t, "email must be a valid email address", ValidationMessage(err))
}

func TestValidationMessageForOtherErrors(t *testing.T) {
	assert.Equal(t, "Invalid upload request", ValidationMessage(assert.AnError))
}

func TestRegisterValidators(t *testing.T) {
	require.NoError(t, RegisterValidators())
}

func TestNormalizeTrims(t *testing.T) {
	f := Form{Name: " Jane ", Email: " jane@example.com", TargetRole: "Backend ", ExperienceLevel: " mid"}
	f.Normalize()
	assert.Equal(t, Form{Name: "Jane", Email: "jane@example.com", TargetRole: "Backend", ExperienceLevel: "mid"}, f)
}
