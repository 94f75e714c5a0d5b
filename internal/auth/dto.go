package auth

import (
	"github.com/frahmantamala/garments-tracker/internal/core/common/validation"
)

// LoginDTO is the transport shape used by the HTTP handler to accept login requests.
type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate trims and lower-cases the email, then checks required fields.
func (d *LoginDTO) Validate() error {
	d.Email = validation.NormalizeEmail(d.Email)

	v := validation.NewValidator()
	v.Field("email", d.Email).Required()
	v.Field("password", d.Password).Required()
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}
