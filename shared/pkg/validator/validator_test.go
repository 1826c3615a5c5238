package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	Name       string `json:"name" validate:"required,max=5"`
	Role       string `json:"role" validate:"oneof=citizen institution"`
	NationalID string `json:"nationalId" validate:"omitempty,nationalid"`
	Phone      string `json:"phone" validate:"omitempty,rwphone"`
}

func TestStruct(t *testing.T) {
	errs := Struct(sample{Name: "toolong", Role: "admin", NationalID: "123", Phone: "0711111111"})

	assert.ElementsMatch(t, []string{
		"name cannot be more than 5 characters",
		"role must be one of: citizen, institution",
		"nationalId must be exactly 16 digits",
		"phone must be a valid Rwandan phone number",
	}, errs)

	assert.Empty(t, Struct(sample{Name: "ok", Role: "citizen", NationalID: "1199880012345678", Phone: "+250788123456"}))
}

func TestPatterns(t *testing.T) {
	assert.True(t, NationalID("1199880012345678"))
	assert.False(t, NationalID("11998800123456789"))
	assert.True(t, Phone("0788123456"))
	assert.True(t, Phone("250728123456"))
	assert.True(t, Phone("789123456"))
	assert.False(t, Phone("0768123456"))
}
