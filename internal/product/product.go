package product

import (
	"time"

	productDatamodel "github.com/frahmantamala/garments-tracker/internal/core/datamodel/product"
)

// HomeLimit caps the products featured on the landing page.
const HomeLimit = 6

type Product struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Description       string    `json:"description"`
	Category          string    `json:"category"`
	PriceCents        int64     `json:"price_cents"`
	AvailableQuantity int       `json:"available_quantity"`
	MinimumOrder      int       `json:"minimum_order"`
	ShowOnHome        bool      `json:"show_on_home"`
	CreatedBy         string    `json:"created_by,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (p *Product) Apply(dto ProductDTO) {
	p.Name = dto.Name
	p.Description = dto.Description
	p.Category = dto.Category
	p.PriceCents = dto.PriceCents
	p.AvailableQuantity = dto.AvailableQuantity
	p.MinimumOrder = dto.MinimumOrder
	if p.MinimumOrder == 0 {
		p.MinimumOrder = 1
	}
	p.ShowOnHome = dto.ShowOnHome
}

func ToDataModel(p *Product) *productDatamodel.Product {
	return &productDatamodel.Product{
		ID:                p.ID,
		Name:              p.Name,
		Description:       p.Description,
		Category:          p.Category,
		PriceCents:        p.PriceCents,
		AvailableQuantity: p.AvailableQuantity,
		MinimumOrder:      p.MinimumOrder,
		ShowOnHome:        p.ShowOnHome,
		CreatedBy:         p.CreatedBy,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

func FromDataModel(m *productDatamodel.Product) *Product {
	return &Product{
		ID:                m.ID,
		Name:              m.Name,
		Description:       m.Description,
		Category:          m.Category,
		PriceCents:        m.PriceCents,
		AvailableQuantity: m.AvailableQuantity,
		MinimumOrder:      m.MinimumOrder,
		ShowOnHome:        m.ShowOnHome,
		CreatedBy:         m.CreatedBy,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

func FromDataModelSlice(models []*productDatamodel.Product) []*Product {
	result := make([]*Product, len(models))
	for i, m := range models {
		result[i] = FromDataModel(m)
	}
	return result
}
