// Package gorm provides GORM model definitions and repositories for
// ingredients added to the graph at runtime
package gorm

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// IngredientModel represents a stored graph extension
type IngredientModel struct {
	ID        uuid.UUID `gorm:"type:char(36);primaryKey"`
	Name      string    `gorm:"type:varchar(100);not null;index"`
	Policy    string    `gorm:"type:varchar(20);not null;default:'overwrite'"`
	Sequence  int64     `gorm:"not null;uniqueIndex"`
	CreatedAt time.Time `gorm:"index"`

	// Relationships
	Edges []EdgeModel `gorm:"foreignKey:IngredientID;constraint:OnDelete:CASCADE"`
}

// EdgeModel represents one weighted link of a stored extension
type EdgeModel struct {
	ID           uuid.UUID `gorm:"type:char(36);primaryKey"`
	IngredientID uuid.UUID `gorm:"type:char(36);not null;index"`
	Target       string    `gorm:"type:varchar(100);not null"`
	Weight       float64   `gorm:"not null"`
	Position     int       `gorm:"not null"`
}

// BeforeCreate hook for IngredientModel
func (m *IngredientModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// BeforeCreate hook for EdgeModel
func (m *EdgeModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

func (IngredientModel) TableName() string {
	return "ingredient_extensions"
}

func (EdgeModel) TableName() string {
	return "ingredient_extension_edges"
}

// AllModels lists every model handled by AutoMigrate
func AllModels() []interface{} {
	return []interface{}{
		&IngredientModel{},
		&EdgeModel{},
	}
}
