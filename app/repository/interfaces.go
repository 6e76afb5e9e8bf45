package repository

import (
	"gorm.io/gorm"

	"github.com/nimbusdb/nimbus/app/models"
)

// TierRepository defines the interface for tier catalog database operations
type TierRepository interface {
	Create(tier *models.SubscriptionTier) error
	GetByID(id uint) (*models.SubscriptionTier, error)
	GetByName(name string) (*models.SubscriptionTier, error)
	ListActive() ([]models.SubscriptionTier, error)
	Update(tier *models.SubscriptionTier) error
	ResetToDefaults() ([]models.SubscriptionTier, error)
}

// Repositories holds all repository instances
type Repositories struct {
	Tier TierRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Tier: NewTierRepository(db),
	}
}
