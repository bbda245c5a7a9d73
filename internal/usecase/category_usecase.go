package usecase

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/iho/sochitieu/internal/domain"
)

// customIDPrefix namespaces generated custom category ids away from the
// built-in ones.
const customIDPrefix = "custom_"

// CategoryUseCase manages user-defined categories on top of the fixed
// built-in catalog.
type CategoryUseCase struct {
	repo  CategoryRepository
	idGen IDGenerator
	log   zerolog.Logger
}

// NewCategoryUseCase creates a CategoryUseCase.
func NewCategoryUseCase(repo CategoryRepository, idGen IDGenerator, log zerolog.Logger) *CategoryUseCase {
	return &CategoryUseCase{
		repo:  repo,
		idGen: idGen,
		log:   log.With().Str("component", "categories").Logger(),
	}
}

// AddCustom persists a new user-defined category. The id is generated,
// monotonic and namespaced; any id on the input is ignored.
func (uc *CategoryUseCase) AddCustom(ctx context.Context, category domain.CategoryMeta) (domain.CategoryMeta, error) {
	if err := category.Validate(); err != nil {
		return domain.CategoryMeta{}, err
	}

	category.ID = customIDPrefix + uc.idGen.Generate()
	category.Custom = true

	if err := uc.repo.InsertCustom(ctx, category); err != nil {
		return domain.CategoryMeta{}, err
	}

	uc.log.Info().Str("id", category.ID).Str("label", category.Label).Msg("custom category added")
	return category, nil
}

// RemoveCustom deletes a user-defined category. Transactions referencing it
// keep their category string and degrade to the fallback at display time.
func (uc *CategoryUseCase) RemoveCustom(ctx context.Context, id string) error {
	if err := uc.repo.DeleteCustom(ctx, id); err != nil {
		return err
	}
	uc.log.Info().Str("id", id).Msg("custom category removed")
	return nil
}

// Custom returns the persisted user-defined categories.
func (uc *CategoryUseCase) Custom(ctx context.Context) ([]domain.CategoryMeta, error) {
	return uc.repo.ListCustom(ctx)
}

// Catalog returns the built-in catalog followed by the custom categories.
func (uc *CategoryUseCase) Catalog(ctx context.Context) ([]domain.CategoryMeta, error) {
	custom, err := uc.repo.ListCustom(ctx)
	if err != nil {
		return nil, err
	}
	catalog := make([]domain.CategoryMeta, 0, len(domain.BuiltinCategories)+len(custom))
	catalog = append(catalog, domain.BuiltinCategories...)
	catalog = append(catalog, custom...)
	return catalog, nil
}

// ImportCustom appends the given categories as new custom categories with
// fresh ids. No de-duplication beyond what creation already provides.
func (uc *CategoryUseCase) ImportCustom(ctx context.Context, categories []domain.CategoryMeta) (int, error) {
	added := 0
	for _, category := range categories {
		if _, err := uc.AddCustom(ctx, category); err != nil {
			return added, err
		}
		added++
	}
	return added, nil
}
