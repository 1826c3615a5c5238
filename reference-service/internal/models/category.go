package models

import (
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"complaint-portal/shared/pkg/validator"
)

// Category is a complaint category. Department names the institution
// department that handles it.
type Category struct {
	ID                     primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name                   string             `json:"name" bson:"name" validate:"required,max=50"`
	NameKinyarwanda        string             `json:"nameKinyarwanda,omitempty" bson:"nameKinyarwanda,omitempty"`
	NameFrench             string             `json:"nameFrench,omitempty" bson:"nameFrench,omitempty"`
	Description            string             `json:"description,omitempty" bson:"description,omitempty"`
	DescriptionKinyarwanda string             `json:"descriptionKinyarwanda,omitempty" bson:"descriptionKinyarwanda,omitempty"`
	DescriptionFrench      string             `json:"descriptionFrench,omitempty" bson:"descriptionFrench,omitempty"`
	Department             string             `json:"department,omitempty" bson:"department,omitempty"`
	Icon                   string             `json:"icon,omitempty" bson:"icon,omitempty"`
	IsActive               bool               `json:"isActive" bson:"isActive"`
	CreatedAt              primitive.DateTime `json:"createdAt,omitempty" bson:"createdAt,omitempty"`
	UpdatedAt              primitive.DateTime `json:"updatedAt,omitempty" bson:"updatedAt,omitempty"`
}

// Validate validates the Category
func (c Category) Validate() error {
	validate := validator.GetValidator()
	err := validate.Struct(c)
	if err != nil {
		errs := validator.ParseErrors(err)
		return fmt.Errorf("%w: %s", ErrValidation, strings.Join(errs, " // "))
	}

	return nil
}

// CategoryInput is the create/update payload. A missing isActive means active.
type CategoryInput struct {
	Name                   string `json:"name"`
	NameKinyarwanda        string `json:"nameKinyarwanda"`
	NameFrench             string `json:"nameFrench"`
	Description            string `json:"description"`
	DescriptionKinyarwanda string `json:"descriptionKinyarwanda"`
	DescriptionFrench      string `json:"descriptionFrench"`
	Department             string `json:"department"`
	Icon                   string `json:"icon"`
	IsActive               *bool  `json:"isActive"`
}

func (in CategoryInput) Category() Category {
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	return Category{
		Name:                   strings.TrimSpace(in.Name),
		NameKinyarwanda:        strings.TrimSpace(in.NameKinyarwanda),
		NameFrench:             strings.TrimSpace(in.NameFrench),
		Description:            strings.TrimSpace(in.Description),
		DescriptionKinyarwanda: strings.TrimSpace(in.DescriptionKinyarwanda),
		DescriptionFrench:      strings.TrimSpace(in.DescriptionFrench),
		Department:             strings.TrimSpace(in.Department),
		Icon:                   strings.TrimSpace(in.Icon),
		IsActive:               active,
	}
}

// CategoryStatusUpdate represents a status update request
type CategoryStatusUpdate struct {
	IsActive *bool `json:"isActive" validate:"required"`
}
