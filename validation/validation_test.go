package validation

import (
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbukum/rxkit/errors"
)

type limits struct {
	Window   time.Duration `mapstructure:"window" validate:"gt=0"`
	Channels int           `mapstructure:"max_channels" validate:"gte=0,lte=10"`
	Mode     string        `json:"mode" validate:"oneof=fast slow"`
	Label    string        `validate:"required"`
}

func TestValidate(t *testing.T) {
	ok := limits{Window: time.Second, Channels: 3, Mode: "fast", Label: "x"}
	require.NoError(t, Validate(ok))

	err := Validate(limits{Channels: 11, Mode: "other"})
	var appErr *errors.AppError
	require.True(t, stderrors.As(err, &appErr))
	assert.Equal(t, errors.ErrCodeInvalidInput, appErr.Code)

	fields, _ := appErr.Details["fields"].([]FieldError)
	require.Len(t, fields, 4)
	assert.Equal(t, FieldError{Field: "window", Rule: "gt", Message: "must be greater than 0"}, fields[0])
	assert.Equal(t, FieldError{Field: "max_channels", Rule: "lte", Message: "must be at most 10"}, fields[1])
	assert.Equal(t, "mode", fields[2].Field)
	assert.Equal(t, "label", fields[3].Field)
	assert.Contains(t, appErr.Message, "label: is required")
}

func TestVar(t *testing.T) {
	require.NoError(t, Var("name", "prices", "required,max=8"))

	err := Var("name", "", "required")
	var appErr *errors.AppError
	require.True(t, stderrors.As(err, &appErr))
	assert.Equal(t, "name: is required", appErr.Message)
}

func TestToSnakeCase(t *testing.T) {
	assert.Equal(t, "max_pending", toSnakeCase("MaxPending"))
	assert.Equal(t, "name", toSnakeCase("Name"))
}
