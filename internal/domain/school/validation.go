package school

import "schoolhub/internal/pkg/validator"

type rules struct {
	Name        string `json:"name" validate:"required,max=200"`
	Address     string `json:"address" validate:"max=500"`
	City        string `json:"city" validate:"max=100"`
	State       string `json:"state" validate:"max=100"`
	Contact     string `json:"contact" validate:"omitempty,contact"`
	Email       string `json:"email_id" validate:"required,email,max=254"`
	Description string `json:"description" validate:"max=5000"`
}

// Validate checks a normalized record against the field constraints.
func Validate(s *School) error {
	errs := validator.Validate(&rules{
		Name:        s.Name,
		Address:     s.Address,
		City:        s.City,
		State:       s.State,
		Contact:     s.Contact,
		Email:       s.Email,
		Description: s.Description,
	})
	if errs == nil {
		return nil
	}
	return &ValidationError{Fields: errs}
}
