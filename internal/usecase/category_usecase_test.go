package usecase_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/sochitieu/internal/domain"
	"github.com/iho/sochitieu/internal/usecase"
	"github.com/iho/sochitieu/internal/usecase/mocks"
)

func newCategories() *usecase.CategoryUseCase {
	return usecase.NewCategoryUseCase(mocks.NewMockCategoryRepository(), mocks.NewMockIDGenerator(), zerolog.Nop())
}

func TestAddCustomCategory(t *testing.T) {
	uc := newCategories()
	ctx := context.Background()

	created, err := uc.AddCustom(ctx, domain.CategoryMeta{
		ID:    "should-be-ignored",
		Label: "Thú cưng",
		Kind:  domain.CategoryExpense,
		Icon:  "github",
		Color: "#000000",
	})
	require.NoError(t, err)
	assert.Equal(t, "custom_ID000001", created.ID)
	assert.True(t, created.Custom)

	custom, err := uc.Custom(ctx)
	require.NoError(t, err)
	require.Len(t, custom, 1)
	assert.Equal(t, created, custom[0])
}

func TestAddCustomCategoryValidation(t *testing.T) {
	uc := newCategories()
	ctx := context.Background()

	_, err := uc.AddCustom(ctx, domain.CategoryMeta{Label: "  ", Kind: domain.CategoryExpense})
	assert.ErrorIs(t, err, domain.ErrEmptyLabel)

	_, err = uc.AddCustom(ctx, domain.CategoryMeta{Label: "Thú cưng", Kind: "weird"})
	assert.ErrorIs(t, err, domain.ErrInvalidType)
}

func TestRemoveCustomCategory(t *testing.T) {
	uc := newCategories()
	ctx := context.Background()

	created, err := uc.AddCustom(ctx, domain.CategoryMeta{Label: "Thú cưng", Kind: domain.CategoryExpense})
	require.NoError(t, err)

	require.NoError(t, uc.RemoveCustom(ctx, created.ID))

	custom, err := uc.Custom(ctx)
	require.NoError(t, err)
	assert.Empty(t, custom)
}

func TestCatalogAppendsCustomAfterBuiltins(t *testing.T) {
	uc := newCategories()
	ctx := context.Background()

	created, err := uc.AddCustom(ctx, domain.CategoryMeta{Label: "Thú cưng", Kind: domain.CategoryExpense})
	require.NoError(t, err)

	catalog, err := uc.Catalog(ctx)
	require.NoError(t, err)
	require.Len(t, catalog, len(domain.BuiltinCategories)+1)
	assert.Equal(t, domain.BuiltinCategories, catalog[:len(domain.BuiltinCategories)])
	assert.Equal(t, created, catalog[len(catalog)-1])
}

func TestImportCustomAssignsFreshIDs(t *testing.T) {
	uc := newCategories()
	ctx := context.Background()

	incoming := []domain.CategoryMeta{
		{ID: "custom_OLD1", Label: "Thú cưng", Kind: domain.CategoryExpense},
		{ID: "custom_OLD2", Label: "Từ thiện", Kind: domain.CategoryExpense},
	}

	added, err := uc.ImportCustom(ctx, incoming)
	require.NoError(t, err)
	assert.Equal(t, 2, added)

	custom, err := uc.Custom(ctx)
	require.NoError(t, err)
	require.Len(t, custom, 2)
	for i, c := range custom {
		assert.NotEqual(t, incoming[i].ID, c.ID)
		assert.Equal(t, incoming[i].Label, c.Label)
		assert.True(t, c.Custom)
	}
}

func TestImportCustomStopsOnInvalidEntry(t *testing.T) {
	uc := newCategories()
	ctx := context.Background()

	incoming := []domain.CategoryMeta{
		{Label: "Thú cưng", Kind: domain.CategoryExpense},
		{Label: "", Kind: domain.CategoryExpense},
		{Label: "Từ thiện", Kind: domain.CategoryExpense},
	}

	added, err := uc.ImportCustom(ctx, incoming)
	assert.ErrorIs(t, err, domain.ErrEmptyLabel)
	assert.Equal(t, 1, added)
}
