package product

import (
	"math"

	"github.com/frahmantamala/garments-tracker/internal"
	"github.com/frahmantamala/garments-tracker/internal/core/common/validation"
)

// MaxPriceCents caps a unit price at ten billion in the major currency unit.
const MaxPriceCents int64 = 1_000_000_000_000

type ProductDTO struct {
	Name              string `json:"name"`
	Description       string `json:"description"`
	Category          string `json:"category"`
	PriceCents        int64  `json:"price_cents"`
	AvailableQuantity int    `json:"available_quantity"`
	MinimumOrder      int    `json:"minimum_order"`
	ShowOnHome        bool   `json:"show_on_home"`
}

func (d ProductDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("name", d.Name).Required().MaxLength(200)
	v.Field("description", d.Description).MaxLength(5000)
	v.Field("category", d.Category).MaxLength(100)
	v.Field("price_cents", d.PriceCents).
		MinInt(0, internal.ErrCodeValidationFailed).
		MaxInt(MaxPriceCents, internal.ErrCodeValidationFailed)
	v.Field("available_quantity", d.AvailableQuantity).
		MinInt(0, internal.ErrCodeInvalidQuantity).
		MaxInt(math.MaxInt32, internal.ErrCodeInvalidQuantity)
	v.Field("minimum_order", d.MinimumOrder).
		MinInt(0, internal.ErrCodeInvalidQuantity).
		MaxInt(math.MaxInt32, internal.ErrCodeInvalidQuantity)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}
