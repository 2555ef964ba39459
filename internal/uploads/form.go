package uploads

import (
	"errors"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// Form is the multipart upload request.
type Form struct {
	Name            string                `form:"name" binding:"required,notblank,max=200"`
	Email           string                `form:"email" binding:"required,email,max=320"`
	TargetRole      string                `form:"target_role" binding:"required,notblank,max=200"`
	ExperienceLevel string                `form:"experience_level" binding:"required,notblank,max=50"`
	File            *multipart.FileHeader `form:"file" binding:"required"`
}

// Normalize trims surrounding whitespace from the text fields.
func (f *Form) Normalize() {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.TrimSpace(f.Email)
	f.TargetRole = strings.TrimSpace(f.TargetRole)
	f.ExperienceLevel = strings.TrimSpace(f.ExperienceLevel)
}

// RegisterValidators installs the custom rules used by Form on gin's validator.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("unexpected validator engine")
	}
	return v.RegisterValidation("notblank", validators.NotBlank)
}

var fieldNames = map[string]string{
	"Name":            "name",
	"Email":           "email",
	"TargetRole":      "target_role",
	"ExperienceLevel": "experience_level",
	"File":            "file",
}

// ValidationMessage turns a binding error into a single client-facing sentence.
func ValidationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid upload request"
	}
	fe := verrs[0]
	field := fieldNames[fe.Field()]
	if field == "" {
		field = strings.ToLower(fe.Field())
	}
	switch fe.Tag() {
	case "required", "notblank":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return "email must be a valid email address"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
