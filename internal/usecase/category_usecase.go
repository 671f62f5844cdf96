package usecase

import (
	"context"
	"fmt"

	"github.com/tripledger/tripledger/internal/domain"
)

// CategoryUseCase handles expense category business logic.
type CategoryUseCase struct {
	categoryRepo CategoryRepository
	idGen        IDGenerator
}

// NewCategoryUseCase creates a new CategoryUseCase.
func NewCategoryUseCase(categoryRepo CategoryRepository, idGen IDGenerator) *CategoryUseCase {
	return &CategoryUseCase{
		categoryRepo: categoryRepo,
		idGen:        idGen,
	}
}

// CreateCategory creates a new category.
func (uc *CategoryUseCase) CreateCategory(ctx context.Context, name string, sortOrder int) (*domain.Category, error) {
	category := &domain.Category{
		ID:        uc.idGen.Generate(),
		Name:      name,
		SortOrder: sortOrder,
	}

	if err := category.Validate(); err != nil {
		return nil, err
	}

	if err := uc.categoryRepo.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}

	return category, nil
}

// GetCategory retrieves a category by ID.
func (uc *CategoryUseCase) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	return uc.categoryRepo.GetByID(ctx, id)
}

// ListCategories returns all categories in sort order.
func (uc *CategoryUseCase) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	return uc.categoryRepo.List(ctx)
}

// UpdateCategoryInput represents input for updating a category. Nil fields
// are left unchanged.
type UpdateCategoryInput struct {
	Name      *string
	SortOrder *int
}

// UpdateCategory applies a partial update to a category.
func (uc *CategoryUseCase) UpdateCategory(ctx context.Context, id string, input UpdateCategoryInput) (*domain.Category, error) {
	category, err := uc.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		category.Name = *input.Name
	}
	if input.SortOrder != nil {
		category.SortOrder = *input.SortOrder
	}

	if err := category.Validate(); err != nil {
		return nil, err
	}

	if err := uc.categoryRepo.Update(ctx, category); err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}

	return category, nil
}

// DeleteCategory removes a category.
func (uc *CategoryUseCase) DeleteCategory(ctx context.Context, id string) error {
	if _, err := uc.categoryRepo.GetByID(ctx, id); err != nil {
		return err
	}

	return uc.categoryRepo.Delete(ctx, id)
}
