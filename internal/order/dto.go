package order

import (
	"encoding/json"
	"math"
	"unicode/utf8"

	"github.com/frahmantamala/garments-tracker/internal"
	"github.com/frahmantamala/garments-tracker/internal/core/common/validation"
)

// PlaceOrderDTO carries the fields the engine understands. Payload holds the whole
// request document and is stored untouched.
type PlaceOrderDTO struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Payload   json.RawMessage `json:"-"`
}

type placeOrderWire struct {
	ProductID      string `json:"product_id"`
	ProductIDCamel string `json:"productId"`
	Quantity       *int   `json:"quantity"`
	Qty            *int   `json:"qty"`
}

// ParsePlaceOrder reads an order document. Both snake_case and the short camelCase
// keys (productId, qty) used by older clients are understood. The document is kept
// byte for byte, so it must be valid UTF-8.
func ParsePlaceOrder(raw []byte) (PlaceOrderDTO, error) {
	if !utf8.Valid(raw) {
		return PlaceOrderDTO{}, internal.NewValidationError("request body is not valid UTF-8", internal.ErrCodeValidationFailed)
	}

	var wire placeOrderWire
	if err := json.Unmarshal(raw, &wire); err != nil {
		return PlaceOrderDTO{}, internal.NewValidationError("invalid request body", internal.ErrCodeValidationFailed).WithCause(err)
	}

	dto := PlaceOrderDTO{ProductID: wire.ProductID, Payload: json.RawMessage(raw)}
	if dto.ProductID == "" {
		dto.ProductID = wire.ProductIDCamel
	}
	switch {
	case wire.Quantity != nil:
		dto.Quantity = *wire.Quantity
	case wire.Qty != nil:
		dto.Quantity = *wire.Qty
	}
	return dto, nil
}

func (d PlaceOrderDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("product_id", d.ProductID).Required().MaxLength(64)
	v.Field("quantity", d.Quantity).
		MinInt(1, internal.ErrCodeInvalidQuantity).
		MaxInt(math.MaxInt32, internal.ErrCodeInvalidQuantity)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type TrackingDTO struct {
	Status   string `json:"status"`
	Location string `json:"location"`
	Note     string `json:"note"`
}

func (d TrackingDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("status", d.Status).Required().MaxLength(100)
	v.Field("location", d.Location).MaxLength(200)
	v.Field("note", d.Note).MaxLength(2000)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}
