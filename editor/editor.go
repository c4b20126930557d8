// Package editor holds the product draft the operator is working on and commits it
// to the catalog. It is either creating a new product or editing one existing
// product, never both.
package editor

import (
	"fmt"
	"strings"
	"sync"

	"github.com/judyrop/storefront-admin/models"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type Mode int

const (
	Creating Mode = iota
	Editing
)

func (m Mode) String() string {
	if m == Editing {
		return "editing"
	}
	return "creating"
}

func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// Draft is the uncommitted product. It never aliases a product held by the catalog.
type Draft struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Price       decimal.Decimal        `json:"price"`
	Category    string                 `json:"category"`
	Image       string                 `json:"image"`
	Options     []models.ProductOption `json:"options"`
}

func blankDraft() Draft {
	return Draft{Image: models.PlaceholderImage, Options: []models.ProductOption{}}
}

func (d Draft) clone() Draft {
	out := d
	out.Options = models.CloneOptions(d.Options)
	if out.Options == nil {
		out.Options = []models.ProductOption{}
	}
	return out
}

// State is what the admin screen renders for the editor.
type State struct {
	Mode      Mode   `json:"mode"`
	ProductID string `json:"productId,omitempty"`
	Draft     Draft  `json:"draft"`
}

// Catalog is the product collection the editor commits into.
type Catalog interface {
	UpdateProducts(fn func(current []models.Product) ([]models.Product, error)) error
}

type Editor struct {
	mu        sync.Mutex
	catalog   Catalog
	log       *logrus.Logger
	editingID string
	draft     Draft
}

func New(catalog Catalog, logger *logrus.Logger) *Editor {
	return &Editor{catalog: catalog, log: logger, draft: blankDraft()}
}

func (e *Editor) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return State{Mode: e.mode(), ProductID: e.editingID, Draft: e.draft.clone()}
}

func (e *Editor) Mode() Mode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mode()
}

func (e *Editor) Draft() Draft {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.draft.clone()
}

func (e *Editor) mode() Mode {
	if e.editingID != "" {
		return Editing
	}
	return Creating
}

func (e *Editor) SetName(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.draft.Name = name
}

func (e *Editor) SetDescription(description string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.draft.Description = description
}

func (e *Editor) SetPrice(price decimal.Decimal) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.draft.Price = price
}

func (e *Editor) SetCategory(category string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.draft.Category = category
}

func (e *Editor) SetImage(image string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.draft.Image = image
}

// StartEdit binds the editor to p and seeds the draft with a deep copy of it. A
// product without an id cannot be edited in place and leaves the editor untouched.
func (e *Editor) StartEdit(p models.Product) error {
	if p.ID == "" {
		e.log.Warnf("Refused to edit product '%s' without an id", p.Name)
		return fmt.Errorf("%w: product has no id", models.ErrValidation)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.editingID = p.ID
	e.draft = Draft{
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Category:    p.Category,
		Image:       p.Image,
		Options:     models.CloneOptions(p.Options),
	}
	if e.draft.Options == nil {
		e.draft.Options = []models.ProductOption{}
	}
	e.log.Infof("Editing product %s", p.ID)
	return nil
}

// CancelEdit drops the draft and goes back to creating a blank product.
func (e *Editor) CancelEdit() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.reset()
}

func (e *Editor) reset() {
	e.editingID = ""
	e.draft = blankDraft()
}

// AddOption appends an option to the draft. A name that is blank after trimming is
// ignored.
func (e *Editor) AddOption(name string, price *decimal.Decimal) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	if price != nil && price.IsNegative() {
		return fmt.Errorf("%w: option price cannot be negative", models.ErrValidation)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	opt := models.ProductOption{Name: name}
	if price != nil {
		p := *price
		opt.Price = &p
	}
	e.draft.Options = append(e.draft.Options, opt)
	return nil
}

func (e *Editor) RemoveOption(index int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if index < 0 || index >= len(e.draft.Options) {
		return fmt.Errorf("%w: option %d", models.ErrNotFound, index)
	}
	options := make([]models.ProductOption, 0, len(e.draft.Options)-1)
	options = append(options, e.draft.Options[:index]...)
	options = append(options, e.draft.Options[index+1:]...)
	e.draft.Options = options
	return nil
}

// Save validates the draft and commits it. A new product goes to the front of the
// catalog; an edited one keeps its position. On any error the draft is kept as is.
func (e *Editor) Save() (models.Product, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.draft.validate(); err != nil {
		e.log.Warnf("Rejected product draft: %v", err)
		return models.Product{}, err
	}

	product := models.Product{
		ID:          e.editingID,
		Name:        strings.TrimSpace(e.draft.Name),
		Description: e.draft.Description,
		Price:       e.draft.Price,
		Category:    strings.TrimSpace(e.draft.Category),
		Image:       strings.TrimSpace(e.draft.Image),
		Options:     models.CloneOptions(e.draft.Options),
	}
	if product.Image == "" {
		product.Image = models.PlaceholderImage
	}

	var err error
	if e.editingID == "" {
		product.ID = models.NewID()
		err = e.catalog.UpdateProducts(func(current []models.Product) ([]models.Product, error) {
			return append([]models.Product{product.Clone()}, current...), nil
		})
	} else {
		err = e.catalog.UpdateProducts(func(current []models.Product) ([]models.Product, error) {
			for i := range current {
				if current[i].ID == product.ID {
					current[i] = product.Clone()
					return current, nil
				}
			}
			return nil, fmt.Errorf("%w: product %s", models.ErrNotFound, product.ID)
		})
	}
	if err != nil {
		e.log.Errorf("Failed to save product '%s': %v", product.Name, err)
		return models.Product{}, err
	}

	if e.editingID == "" {
		e.log.Infof("Product '%s' created with ID %s", product.Name, product.ID)
	} else {
		e.log.Infof("Product %s updated", product.ID)
	}
	e.reset()
	return product, nil
}

func (d Draft) validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("%w: product name is required", models.ErrValidation)
	}
	if !d.Price.IsPositive() {
		return fmt.Errorf("%w: product price must be positive", models.ErrValidation)
	}
	if strings.TrimSpace(d.Category) == "" {
		return fmt.Errorf("%w: product category is required", models.ErrValidation)
	}
	return nil
}
