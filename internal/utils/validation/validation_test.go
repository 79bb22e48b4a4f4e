package validation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janhq/arena-server/internal/utils/platformerrors"
)

type sampleParams struct {
	Name      string   `validate:"required,max=10"`
	MaxRounds int      `validate:"min=1,max=1000"`
	Mode      string   `validate:"oneof=debate group_chat"`
	Weight    *float64 `validate:"omitempty,gte=0,lte=1"`
}

func TestStruct(t *testing.T) {
	ok := sampleParams{Name: "room", MaxRounds: 20, Mode: "debate"}
	assert.NoError(t, Struct(context.Background(), platformerrors.LayerDomain, ok))

	bad := sampleParams{Name: "", MaxRounds: 0, Mode: "chaos"}
	err := Struct(context.Background(), platformerrors.LayerDomain, bad)
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))
	assert.Contains(t, err.Error(), "name is required")
	assert.Contains(t, err.Error(), "max_rounds must be at least 1")
	assert.Contains(t, err.Error(), "mode must be one of")
}
