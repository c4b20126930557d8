package models

import "github.com/shopspring/decimal"

const (
	DefaultWhatsAppNumber = "5531998725041"
	DefaultAdminPassword  = "dev123"
)

// SeedProducts returns a fresh copy of the built-in catalog.
func SeedProducts() []Product {
	box := decimal.RequireFromString("45.00")
	return []Product{
		{
			ID:          "1",
			Name:        "Brownie de Ninho",
			Description: "Brownie molhadinho com creme de leite Ninho.",
			Price:       decimal.RequireFromString("12.00"),
			Category:    "Brownies",
			Image:       PlaceholderImage,
			Options: []ProductOption{
				{Name: "Individual"},
				{Name: "Caixa com 4", Price: &box},
			},
		},
		{
			ID:          "2",
			Name:        "Bolo de Pote de Chocolate",
			Description: "Massa de chocolate, brigadeiro e granulado.",
			Price:       decimal.RequireFromString("15.00"),
			Category:    "Bolos de Pote",
			Image:       PlaceholderImage,
		},
		{
			ID:          "3",
			Name:        "Cento de Brigadeiros",
			Description: "Brigadeiros tradicionais para festas.",
			Price:       decimal.RequireFromString("120.00"),
			Category:    "Doces de Festa",
			Image:       PlaceholderImage,
			Options: []ProductOption{
				{Name: "Tradicional"},
				{Name: "Gourmet"},
			},
		},
	}
}

func SeedCategories() []Category {
	return []Category{
		{ID: "1", Name: "Brownies"},
		{ID: "2", Name: "Bolos de Pote"},
		{ID: "3", Name: "Doces de Festa"},
	}
}

func SeedNeighborhoods() []Neighborhood {
	return []Neighborhood{
		{ID: "1", Name: "Centro", Fee: decimal.RequireFromString("5.00")},
		{ID: "2", Name: "Savassi", Fee: decimal.RequireFromString("8.00")},
		{ID: "3", Name: "Pampulha", Fee: decimal.RequireFromString("12.00")},
	}
}
