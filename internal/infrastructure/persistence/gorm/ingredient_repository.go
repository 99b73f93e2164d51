package gorm

import (
	"context"
	"fmt"

	"github.com/alchemorsel/flavorgraph/internal/domain/ingredient"
	"github.com/alchemorsel/flavorgraph/internal/ports/outbound"
	"gorm.io/gorm"
)

// IngredientRepository implements outbound.IngredientRepository using GORM
type IngredientRepository struct {
	db *gorm.DB
}

var _ outbound.IngredientRepository = (*IngredientRepository)(nil)

// NewIngredientRepository creates a new ingredient repository
func NewIngredientRepository(db *gorm.DB) *IngredientRepository {
	return &IngredientRepository{db: db}
}

// Save appends an extension. Extensions are listed back in save order.
func (r *IngredientRepository) Save(ctx context.Context, ext ingredient.Extension) error {
	model := ExtensionToModel(ext)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var last int64
		if err := tx.Model(&IngredientModel{}).
			Select("COALESCE(MAX(sequence), 0)").
			Scan(&last).Error; err != nil {
			return fmt.Errorf("failed to read sequence: %w", err)
		}
		model.Sequence = last + 1

		if err := tx.Create(model).Error; err != nil {
			return fmt.Errorf("failed to save ingredient %q: %w", model.Name, err)
		}
		return nil
	})
}

// List returns every stored extension in save order
func (r *IngredientRepository) List(ctx context.Context) ([]ingredient.Extension, error) {
	var models []IngredientModel

	err := r.db.WithContext(ctx).
		Preload("Edges", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Order("sequence ASC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}

	extensions := make([]ingredient.Extension, 0, len(models))
	for i := range models {
		ext, err := ModelToExtension(&models[i])
		if err != nil {
			return nil, err
		}
		extensions = append(extensions, ext)
	}
	return extensions, nil
}

// Count returns the number of stored extensions
func (r *IngredientRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&IngredientModel{}).Count(&count).Error
	return count, err
}

// Ping checks the database connection
func (r *IngredientRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
