package validator

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleInput struct {
	Name     string    `validate:"required"`
	TargetID uuid.UUID `validate:"uuid_required"`
}

func TestValidateStructPasses(t *testing.T) {
	errs := ValidateStruct(&sampleInput{Name: "ok", TargetID: uuid.New()})
	assert.Empty(t, errs)
}

func TestValidateStructReportsFailedFields(t *testing.T) {
	errs := ValidateStruct(&sampleInput{})
	require.Len(t, errs, 2)
	assert.Equal(t, "sampleInput.Name", errs[0].FailedField)
	assert.Equal(t, "required", errs[0].Tag)
	assert.Equal(t, "uuid_required", errs[1].Tag)
}

func TestUUIDRequiredRejectsNil(t *testing.T) {
	errs := ValidateStruct(&sampleInput{Name: "ok", TargetID: uuid.Nil})
	require.Len(t, errs, 1)
	assert.Equal(t, "sampleInput.TargetID", errs[0].FailedField)
}
