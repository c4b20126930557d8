package models

import (
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
)

// PlaceholderImage is shown for products saved without an image link.
const PlaceholderImage = "https://images.unsplash.com/photo-1578985545062-69928b1d9587?auto=format&fit=crop&w=400"

type ProductOption struct {
	Name  string           `json:"name"`
	Price *decimal.Decimal `json:"price,omitempty"`
}

// PricedOption is an option together with the price charged for it.
type PricedOption struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Image       string          `json:"image"`
	Options     []ProductOption `json:"options,omitempty"`
}

type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Neighborhood struct {
	ID   string          `json:"id"`
	Name string          `json:"name"`
	Fee  decimal.Decimal `json:"fee"`
}

// Settings is the singleton pair of scalars kept next to the collections.
type Settings struct {
	WhatsAppNumber string `json:"whatsappNumber"`
	AdminPassword  string `json:"-"`
}

// Clone returns a copy of p that shares no memory with it, option prices included.
func (p Product) Clone() Product {
	out := p
	out.Options = CloneOptions(p.Options)
	return out
}

// PriceFor resolves the price charged for the named option. An unknown option or an
// option without its own price falls back to the base price.
func (p Product) PriceFor(option string) decimal.Decimal {
	for _, opt := range p.Options {
		if opt.Name == option && opt.Price != nil {
			return *opt.Price
		}
	}
	return p.Price
}

func (p Product) PricedOptions() []PricedOption {
	if len(p.Options) == 0 {
		return nil
	}
	out := make([]PricedOption, len(p.Options))
	for i, opt := range p.Options {
		out[i] = PricedOption{Name: opt.Name, Price: p.PriceFor(opt.Name)}
	}
	return out
}

func CloneOptions(src []ProductOption) []ProductOption {
	if src == nil {
		return nil
	}
	out := make([]ProductOption, len(src))
	for i, opt := range src {
		out[i] = ProductOption{Name: opt.Name}
		if opt.Price != nil {
			price := *opt.Price
			out[i].Price = &price
		}
	}
	return out
}

func CloneProducts(src []Product) []Product {
	out := make([]Product, len(src))
	for i, p := range src {
		out[i] = p.Clone()
	}
	return out
}

func CloneCategories(src []Category) []Category {
	out := make([]Category, len(src))
	copy(out, src)
	return out
}

func CloneNeighborhoods(src []Neighborhood) []Neighborhood {
	out := make([]Neighborhood, len(src))
	copy(out, src)
	return out
}

// ContactLink builds the outbound WhatsApp link for the configured number.
func (s Settings) ContactLink(message string) string {
	link := "https://wa.me/" + strings.TrimSpace(s.WhatsAppNumber)
	if message == "" {
		return link
	}
	return link + "?text=" + url.QueryEscape(message)
}
