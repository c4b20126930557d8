package store

import (
	"errors"
	"io"
	"path/filepath"
	"testing"

	"github.com/judyrop/storefront-admin/models"
	"github.com/judyrop/storefront-admin/storage"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func getTestAdapter(t *testing.T) *storage.Adapter {
	t.Helper()
	db, err := storage.Open("sqlite", filepath.Join(t.TempDir(), "storefront.db"))
	require.NoError(t, err)
	kv, err := storage.NewGormKV(db)
	require.NoError(t, err)
	return storage.NewAdapter(kv, "v8", quietLogger())
}

// flakyPersistence fails selected writes while delegating everything else.
type flakyPersistence struct {
	*storage.Adapter
	failProducts   bool
	failCategories bool
}

func (f *flakyPersistence) SaveProducts(p []models.Product) error {
	if f.failProducts {
		return models.ErrPersist
	}
	return f.Adapter.SaveProducts(p)
}

func (f *flakyPersistence) SaveCategories(c []models.Category) error {
	if f.failCategories {
		return models.ErrPersist
	}
	return f.Adapter.SaveCategories(c)
}

func (f *flakyPersistence) SaveCatalog(c []models.Category, p []models.Product) error {
	if f.failCategories || f.failProducts {
		return models.ErrPersist
	}
	return f.Adapter.SaveCatalog(c, p)
}

func countCategory(products []models.Product, name string) int {
	n := 0
	for _, p := range products {
		if p.Category == name {
			n++
		}
	}
	return n
}

func TestNewLoadsSeedFromEmptyStorage(t *testing.T) {
	s := New(getTestAdapter(t), quietLogger())

	assert.Equal(t, models.SeedProducts(), s.Products())
	assert.Equal(t, models.SeedCategories(), s.Categories())
	assert.Equal(t, models.SeedNeighborhoods(), s.Neighborhoods())
	assert.Equal(t, models.Settings{WhatsAppNumber: models.DefaultWhatsAppNumber, AdminPassword: "dev123"}, s.Settings())
}

func TestReplaceIsVisibleAndPersisted(t *testing.T) {
	adapter := getTestAdapter(t)
	s := New(adapter, quietLogger())

	categories := []models.Category{{ID: "a", Name: "Salgados"}}
	require.NoError(t, s.ReplaceCategories(categories))

	assert.Equal(t, categories, s.Categories())
	assert.Equal(t, categories, adapter.LoadCategories())

	reloaded := New(adapter, quietLogger())
	assert.Equal(t, categories, reloaded.Categories())
}

func TestReadersGetCopies(t *testing.T) {
	s := New(getTestAdapter(t), quietLogger())

	products := s.Products()
	products[0].Name = "changed"
	products[0].Options[0].Name = "changed"

	fresh := s.Products()
	assert.Equal(t, "Brownie de Ninho", fresh[0].Name)
	assert.Equal(t, "Individual", fresh[0].Options[0].Name)
}

func TestRenameCategoryCascades(t *testing.T) {
	adapter := getTestAdapter(t)
	s := New(adapter, quietLogger())
	require.NoError(t, s.ReplaceCategories([]models.Category{{ID: "c1", Name: "Doces"}, {ID: "c2", Name: "Bolos"}}))
	require.NoError(t, s.ReplaceProducts([]models.Product{
		{ID: "1", Name: "Beijinho", Category: "Doces", Price: decimal.NewFromInt(2)},
		{ID: "2", Name: "Bolo de cenoura", Category: "Bolos", Price: decimal.NewFromInt(30)},
		{ID: "3", Name: "Brigadeiro", Category: "Doces", Price: decimal.NewFromInt(2)},
		{ID: "4", Name: "Cajuzinho", Category: "Doces", Price: decimal.NewFromInt(2)},
		{ID: "5", Name: "Sem categoria", Category: "doces", Price: decimal.NewFromInt(1)},
	}))

	renamed, err := s.RenameCategory("c1", "  Docinhos ")
	require.NoError(t, err)
	assert.Equal(t, models.Category{ID: "c1", Name: "Docinhos"}, renamed)

	products := s.Products()
	assert.Equal(t, 0, countCategory(products, "Doces"))
	assert.Equal(t, 3, countCategory(products, "Docinhos"))
	assert.Equal(t, "Bolos", products[1].Category)
	assert.Equal(t, "doces", products[4].Category)
	assert.Equal(t, "Docinhos", s.Categories()[0].Name)

	assert.Equal(t, 3, countCategory(adapter.LoadProducts(), "Docinhos"))
	assert.Equal(t, "Docinhos", adapter.LoadCategories()[0].Name)
}

func TestRenameCategoryFailures(t *testing.T) {
	s := New(getTestAdapter(t), quietLogger())

	_, err := s.RenameCategory("1", "   ")
	assert.True(t, errors.Is(err, models.ErrValidation))

	_, err = s.RenameCategory("missing", "Novo")
	assert.True(t, errors.Is(err, models.ErrNotFound))

	assert.Equal(t, models.SeedCategories(), s.Categories())
	assert.Equal(t, models.SeedProducts(), s.Products())
}

func TestRenameCategoryWriteFailureLeavesStateUnchanged(t *testing.T) {
	p := &flakyPersistence{Adapter: getTestAdapter(t), failCategories: true}
	s := New(p, quietLogger())

	_, err := s.RenameCategory("1", "Novo")
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrPersist))
	assert.Equal(t, models.SeedCategories(), s.Categories())
	assert.Equal(t, models.SeedProducts(), s.Products())
}

func TestRenameCategoryProductWriteFailureKeepsBothSides(t *testing.T) {
	adapter := getTestAdapter(t)
	p := &flakyPersistence{Adapter: adapter, failProducts: true}
	s := New(p, quietLogger())

	_, err := s.RenameCategory("1", "Novo")
	assert.True(t, errors.Is(err, models.ErrPersist))

	assert.Equal(t, "Brownies", s.Categories()[0].Name)
	assert.Equal(t, "Brownies", s.Products()[0].Category)
	assert.Equal(t, "Brownies", adapter.LoadCategories()[0].Name)
	assert.Equal(t, "Brownies", adapter.LoadProducts()[0].Category)
}

func TestDeleteCategoryLeavesDanglingProducts(t *testing.T) {
	s := New(getTestAdapter(t), quietLogger())

	require.NoError(t, s.DeleteCategory("1"))

	assert.Len(t, s.Categories(), 2)
	assert.Equal(t, "Brownies", s.Products()[0].Category)
}

func TestDeleteUnknownIDsAreHarmless(t *testing.T) {
	s := New(getTestAdapter(t), quietLogger())

	require.NoError(t, s.DeleteProduct("nope"))
	require.NoError(t, s.DeleteCategory("nope"))
	require.NoError(t, s.DeleteNeighborhood("nope"))

	assert.Len(t, s.Products(), 3)
	assert.Len(t, s.Categories(), 3)
	assert.Len(t, s.Neighborhoods(), 3)
}

func TestDeleteProduct(t *testing.T) {
	s := New(getTestAdapter(t), quietLogger())

	require.NoError(t, s.DeleteProduct("2"))

	products := s.Products()
	require.Len(t, products, 2)
	assert.Equal(t, "1", products[0].ID)
	assert.Equal(t, "3", products[1].ID)
	_, err := s.Product("2")
	assert.True(t, errors.Is(err, models.ErrNotFound))
}

func TestAddCategory(t *testing.T) {
	s := New(getTestAdapter(t), quietLogger())

	created, err := s.AddCategory("  Bebidas ")
	require.NoError(t, err)
	assert.Equal(t, "Bebidas", created.Name)
	assert.NotEmpty(t, created.ID)

	categories := s.Categories()
	require.Len(t, categories, 4)
	assert.Equal(t, created, categories[3])

	_, err = s.AddCategory("   ")
	assert.True(t, errors.Is(err, models.ErrValidation))
	assert.Len(t, s.Categories(), 4)
}

func TestNeighborhoods(t *testing.T) {
	s := New(getTestAdapter(t), quietLogger())

	n, err := s.AddNeighborhood("Funcionários", decimal.RequireFromString("7.5"))
	require.NoError(t, err)
	assert.Len(t, s.Neighborhoods(), 4)

	_, err = s.AddNeighborhood("", decimal.NewFromInt(1))
	assert.True(t, errors.Is(err, models.ErrValidation))
	_, err = s.AddNeighborhood("Caiçara", decimal.NewFromInt(-1))
	assert.True(t, errors.Is(err, models.ErrValidation))

	require.NoError(t, s.DeleteNeighborhood(n.ID))
	assert.Equal(t, models.SeedNeighborhoods(), s.Neighborhoods())
}

func TestReplaceNeighborhoods(t *testing.T) {
	adapter := getTestAdapter(t)
	s := New(adapter, quietLogger())

	next := []models.Neighborhood{{ID: "n1", Name: "Lourdes", Fee: decimal.NewFromInt(7)}}
	require.NoError(t, s.ReplaceNeighborhoods(next))

	require.Len(t, s.Neighborhoods(), 1)
	assert.Equal(t, "Lourdes", s.Neighborhoods()[0].Name)
	stored := adapter.LoadNeighborhoods()
	require.Len(t, stored, 1)
	assert.Equal(t, "n1", stored[0].ID)
	assert.True(t, stored[0].Fee.Equal(decimal.NewFromInt(7)))

	require.NoError(t, s.ReplaceNeighborhoods(nil))
	assert.Empty(t, s.Neighborhoods())
	assert.Empty(t, adapter.LoadNeighborhoods())
}

func TestUpdateProductsAbortsOnError(t *testing.T) {
	s := New(getTestAdapter(t), quietLogger())
	boom := errors.New("boom")

	err := s.UpdateProducts(func(current []models.Product) ([]models.Product, error) {
		current[0].Name = "mutated"
		return nil, boom
	})

	assert.Equal(t, boom, err)
	assert.Equal(t, models.SeedProducts(), s.Products())
}

func TestProductWriteFailureKeepsPreviousCatalog(t *testing.T) {
	p := &flakyPersistence{Adapter: getTestAdapter(t), failProducts: true}
	s := New(p, quietLogger())

	err := s.ReplaceProducts(nil)
	assert.True(t, errors.Is(err, models.ErrPersist))
	assert.Len(t, s.Products(), 3)
}

func TestSettingsWrites(t *testing.T) {
	adapter := getTestAdapter(t)
	s := New(adapter, quietLogger())

	require.NoError(t, s.SetWhatsAppNumber("5531000000000"))
	require.NoError(t, s.SetAdminPassword("nova-senha"))

	assert.Equal(t, models.Settings{WhatsAppNumber: "5531000000000", AdminPassword: "nova-senha"}, s.Settings())
	assert.Equal(t, s.Settings(), adapter.LoadSettings())
}
