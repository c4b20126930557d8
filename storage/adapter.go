package storage

import (
	"encoding/json"
	"fmt"

	"github.com/judyrop/storefront-admin/models"
	"github.com/sirupsen/logrus"
)

// KeyValue is the durable storage the adapter writes through.
type KeyValue interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
	SetMany(values map[string][]byte) error
}

// Keys holds the namespaced storage key of every collection and scalar. Bumping the
// version suffix starts from seed data without touching older rows.
type Keys struct {
	Products      string
	Neighborhoods string
	Categories    string
	WhatsApp      string
	AdminPassword string
}

func KeysFor(version string) Keys {
	return Keys{
		Products:      "app_products_" + version,
		Neighborhoods: "app_neighborhoods_" + version,
		Categories:    "app_categories_" + version,
		WhatsApp:      "app_whatsapp_" + version,
		AdminPassword: "app_admin_pwd_" + version,
	}
}

// Adapter loads and saves whole collections. Loads never fail: missing, unreadable
// or undecodable values come back as the built-in seed.
type Adapter struct {
	kv   KeyValue
	keys Keys
	log  *logrus.Logger
}

func NewAdapter(kv KeyValue, version string, logger *logrus.Logger) *Adapter {
	return &Adapter{kv: kv, keys: KeysFor(version), log: logger}
}

func (a *Adapter) Keys() Keys { return a.keys }

func (a *Adapter) LoadProducts() []models.Product {
	return loadCollection(a, a.keys.Products, models.SeedProducts)
}

func (a *Adapter) SaveProducts(products []models.Product) error {
	if products == nil {
		products = []models.Product{}
	}
	return a.save(a.keys.Products, products)
}

func (a *Adapter) LoadCategories() []models.Category {
	return loadCollection(a, a.keys.Categories, models.SeedCategories)
}

func (a *Adapter) SaveCategories(categories []models.Category) error {
	if categories == nil {
		categories = []models.Category{}
	}
	return a.save(a.keys.Categories, categories)
}

func (a *Adapter) LoadNeighborhoods() []models.Neighborhood {
	return loadCollection(a, a.keys.Neighborhoods, models.SeedNeighborhoods)
}

func (a *Adapter) SaveNeighborhoods(neighborhoods []models.Neighborhood) error {
	if neighborhoods == nil {
		neighborhoods = []models.Neighborhood{}
	}
	return a.save(a.keys.Neighborhoods, neighborhoods)
}

// LoadWhatsAppNumber treats a stored empty string like a missing value.
func (a *Adapter) LoadWhatsAppNumber() string {
	return a.loadScalar(a.keys.WhatsApp, models.DefaultWhatsAppNumber)
}

func (a *Adapter) SaveWhatsAppNumber(number string) error {
	return a.save(a.keys.WhatsApp, number)
}

func (a *Adapter) LoadAdminPassword() string {
	return a.loadScalar(a.keys.AdminPassword, models.DefaultAdminPassword)
}

func (a *Adapter) SaveAdminPassword(password string) error {
	return a.save(a.keys.AdminPassword, password)
}

func (a *Adapter) LoadSettings() models.Settings {
	return models.Settings{
		WhatsAppNumber: a.LoadWhatsAppNumber(),
		AdminPassword:  a.LoadAdminPassword(),
	}
}

func loadCollection[T any](a *Adapter, key string, seed func() []T) []T {
	raw, ok := a.read(key)
	if !ok {
		return seed()
	}
	var out []T
	if err := json.Unmarshal(raw, &out); err != nil {
		a.log.Warnf("Stored value for %s is unreadable, using seed data: %v", key, err)
		return seed()
	}
	if out == nil {
		a.log.Warnf("Stored value for %s is null, using seed data", key)
		return seed()
	}
	return out
}

func (a *Adapter) loadScalar(key, fallback string) string {
	raw, ok := a.read(key)
	if !ok {
		return fallback
	}
	var out string
	if err := json.Unmarshal(raw, &out); err != nil {
		a.log.Warnf("Stored value for %s is unreadable, using default: %v", key, err)
		return fallback
	}
	if out == "" {
		return fallback
	}
	return out
}

// SaveCatalog stores categories and products together, for changes that touch both.
// Nothing is written unless both values are.
func (a *Adapter) SaveCatalog(categories []models.Category, products []models.Product) error {
	if categories == nil {
		categories = []models.Category{}
	}
	if products == nil {
		products = []models.Product{}
	}
	values := make(map[string][]byte, 2)
	for key, value := range map[string]any{a.keys.Categories: categories, a.keys.Products: products} {
		raw, err := json.Marshal(value)
		if err != nil {
			a.log.Errorf("Failed to encode %s: %v", key, err)
			return fmt.Errorf("%w: encode %s: %v", models.ErrPersist, key, err)
		}
		values[key] = raw
	}
	if err := a.kv.SetMany(values); err != nil {
		a.log.Errorf("Failed to write categories and products to storage: %v", err)
		return fmt.Errorf("%w: write catalog: %v", models.ErrPersist, err)
	}
	a.log.Debugf("Stored %s and %s", a.keys.Categories, a.keys.Products)
	return nil
}

func (a *Adapter) read(key string) ([]byte, bool) {
	raw, ok, err := a.kv.Get(key)
	if err != nil {
		a.log.Warnf("Failed to read %s from storage, using seed data: %v", key, err)
		return nil, false
	}
	if !ok || len(raw) == 0 {
		return nil, false
	}
	return raw, true
}

func (a *Adapter) save(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		a.log.Errorf("Failed to encode %s: %v", key, err)
		return fmt.Errorf("%w: encode %s: %v", models.ErrPersist, key, err)
	}
	if err := a.kv.Set(key, raw); err != nil {
		a.log.Errorf("Failed to write %s to storage: %v", key, err)
		return fmt.Errorf("%w: write %s: %v", models.ErrPersist, key, err)
	}
	a.log.Debugf("Stored %s (%d bytes)", key, len(raw))
	return nil
}
