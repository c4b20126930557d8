// Package store keeps the in-memory catalog, categories, neighborhoods and settings
// and writes every change through to durable storage as a whole collection.
package store

import (
	"fmt"
	"strings"
	"sync"

	"github.com/judyrop/storefront-admin/models"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Persistence is the durable side of the store. storage.Adapter implements it.
type Persistence interface {
	LoadProducts() []models.Product
	SaveProducts([]models.Product) error
	LoadCategories() []models.Category
	SaveCategories([]models.Category) error
	SaveCatalog([]models.Category, []models.Product) error
	LoadNeighborhoods() []models.Neighborhood
	SaveNeighborhoods([]models.Neighborhood) error
	LoadSettings() models.Settings
	SaveWhatsAppNumber(string) error
	SaveAdminPassword(string) error
}

// Store serializes every mutation behind one lock. A replacement is persisted first
// and only then becomes visible, so readers never observe a value that was not saved.
type Store struct {
	mu            sync.RWMutex
	persist       Persistence
	log           *logrus.Logger
	products      []models.Product
	categories    []models.Category
	neighborhoods []models.Neighborhood
	settings      models.Settings
}

func New(p Persistence, logger *logrus.Logger) *Store {
	s := &Store{
		persist:       p,
		log:           logger,
		products:      p.LoadProducts(),
		categories:    p.LoadCategories(),
		neighborhoods: p.LoadNeighborhoods(),
		settings:      p.LoadSettings(),
	}
	logger.Infof("Store loaded: %d products, %d categories, %d neighborhoods",
		len(s.products), len(s.categories), len(s.neighborhoods))
	return s
}

func (s *Store) Products() []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.CloneProducts(s.products)
}

func (s *Store) Product(id string) (models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.products {
		if p.ID == id {
			return p.Clone(), nil
		}
	}
	return models.Product{}, fmt.Errorf("%w: product %s", models.ErrNotFound, id)
}

func (s *Store) Categories() []models.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.CloneCategories(s.categories)
}

func (s *Store) Neighborhoods() []models.Neighborhood {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.CloneNeighborhoods(s.neighborhoods)
}

func (s *Store) Settings() models.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

func (s *Store) ReplaceProducts(products []models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.replaceProducts(products)
}

func (s *Store) ReplaceCategories(categories []models.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.replaceCategories(categories)
}

func (s *Store) ReplaceNeighborhoods(neighborhoods []models.Neighborhood) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.replaceNeighborhoods(neighborhoods)
}

// UpdateProducts hands fn a private copy of the catalog and replaces the catalog with
// whatever fn returns. An error from fn leaves everything untouched.
func (s *Store) UpdateProducts(fn func(current []models.Product) ([]models.Product, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := fn(models.CloneProducts(s.products))
	if err != nil {
		return err
	}
	return s.replaceProducts(next)
}

func (s *Store) DeleteProduct(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := make([]models.Product, 0, len(s.products))
	for _, p := range s.products {
		if p.ID != id {
			next = append(next, p.Clone())
		}
	}
	s.log.Infof("Deleting product %s", id)
	return s.replaceProducts(next)
}

func (s *Store) AddCategory(name string) (models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		s.log.Warn("Attempted to create category with empty name")
		return models.Category{}, fmt.Errorf("%w: category name cannot be empty", models.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	category := models.Category{ID: models.NewID(), Name: name}
	next := append(models.CloneCategories(s.categories), category)
	if err := s.replaceCategories(next); err != nil {
		return models.Category{}, err
	}
	s.log.Infof("Category '%s' created with ID %s", name, category.ID)
	return category, nil
}

// RenameCategory renames a category and rewrites every product that pointed at the
// old name. Products are matched against the name captured before the rename.
func (s *Store) RenameCategory(id, newName string) (models.Category, error) {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		s.log.Warnf("Attempted to rename category %s to an empty name", id)
		return models.Category{}, fmt.Errorf("%w: category name cannot be empty", models.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, c := range s.categories {
		if c.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.log.Warnf("Category %s not found for rename", id)
		return models.Category{}, fmt.Errorf("%w: category %s", models.ErrNotFound, id)
	}
	oldName := s.categories[idx].Name

	categories := models.CloneCategories(s.categories)
	categories[idx].Name = newName

	products := models.CloneProducts(s.products)
	moved := 0
	for i := range products {
		if products[i].Category == oldName {
			products[i].Category = newName
			moved++
		}
	}

	if err := s.persist.SaveCatalog(categories, products); err != nil {
		return models.Category{}, err
	}
	s.categories = categories
	s.products = products
	s.log.Infof("Category %s renamed from '%s' to '%s', %d products moved", id, oldName, newName, moved)
	return categories[idx], nil
}

// DeleteCategory never touches products; those still naming it keep a dangling label.
func (s *Store) DeleteCategory(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := make([]models.Category, 0, len(s.categories))
	for _, c := range s.categories {
		if c.ID != id {
			next = append(next, c)
		}
	}
	s.log.Infof("Deleting category %s", id)
	return s.replaceCategories(next)
}

func (s *Store) AddNeighborhood(name string, fee decimal.Decimal) (models.Neighborhood, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		s.log.Warn("Attempted to create neighborhood with empty name")
		return models.Neighborhood{}, fmt.Errorf("%w: neighborhood name cannot be empty", models.ErrValidation)
	}
	if fee.IsNegative() {
		s.log.Warnf("Attempted to create neighborhood '%s' with negative fee %s", name, fee)
		return models.Neighborhood{}, fmt.Errorf("%w: delivery fee cannot be negative", models.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	n := models.Neighborhood{ID: models.NewID(), Name: name, Fee: fee}
	next := append(models.CloneNeighborhoods(s.neighborhoods), n)
	if err := s.replaceNeighborhoods(next); err != nil {
		return models.Neighborhood{}, err
	}
	s.log.Infof("Neighborhood '%s' created with ID %s", name, n.ID)
	return n, nil
}

func (s *Store) DeleteNeighborhood(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := make([]models.Neighborhood, 0, len(s.neighborhoods))
	for _, n := range s.neighborhoods {
		if n.ID != id {
			next = append(next, n)
		}
	}
	s.log.Infof("Deleting neighborhood %s", id)
	return s.replaceNeighborhoods(next)
}

func (s *Store) SetWhatsAppNumber(number string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.persist.SaveWhatsAppNumber(number); err != nil {
		return err
	}
	s.settings.WhatsAppNumber = number
	return nil
}

func (s *Store) SetAdminPassword(password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.persist.SaveAdminPassword(password); err != nil {
		return err
	}
	s.settings.AdminPassword = password
	return nil
}

func (s *Store) replaceProducts(products []models.Product) error {
	next := models.CloneProducts(products)
	if err := s.persist.SaveProducts(next); err != nil {
		return err
	}
	s.products = next
	return nil
}

func (s *Store) replaceCategories(categories []models.Category) error {
	next := models.CloneCategories(categories)
	if err := s.persist.SaveCategories(next); err != nil {
		return err
	}
	s.categories = next
	return nil
}

func (s *Store) replaceNeighborhoods(neighborhoods []models.Neighborhood) error {
	next := models.CloneNeighborhoods(neighborhoods)
	if err := s.persist.SaveNeighborhoods(next); err != nil {
		return err
	}
	s.neighborhoods = next
	return nil
}
