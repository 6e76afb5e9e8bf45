package repository

import (
	"strings"

	"gorm.io/gorm"

	"github.com/nimbusdb/nimbus/app/models"
)

// tierRepository implements the TierRepository interface
type tierRepository struct {
	db *gorm.DB
}

// NewTierRepository creates a new tier repository instance
func NewTierRepository(db *gorm.DB) TierRepository {
	return &tierRepository{db: db}
}

// Create persists a new tier in the catalog
func (r *tierRepository) Create(tier *models.SubscriptionTier) error {
	return r.db.Create(tier).Error
}

// GetByID retrieves a tier by its ID
func (r *tierRepository) GetByID(id uint) (*models.SubscriptionTier, error) {
	var tier models.SubscriptionTier
	if err := r.db.First(&tier, id).Error; err != nil {
		return nil, err
	}
	return &tier, nil
}

// GetByName retrieves a tier by its lowercase name
func (r *tierRepository) GetByName(name string) (*models.SubscriptionTier, error) {
	var tier models.SubscriptionTier
	err := r.db.Where("name = ?", strings.ToLower(strings.TrimSpace(name))).First(&tier).Error
	if err != nil {
		return nil, err
	}
	return &tier, nil
}

// ListActive returns all active tiers ordered ascending by hourly price
func (r *tierRepository) ListActive() ([]models.SubscriptionTier, error) {
	var tiers []models.SubscriptionTier
	err := r.db.Where("is_active = ?", true).
		Order("price_per_hour ASC").Find(&tiers).Error
	return tiers, err
}

// Update saves changed fields of an existing tier
func (r *tierRepository) Update(tier *models.SubscriptionTier) error {
	return r.db.Save(tier).Error
}

// ResetToDefaults drops every tier and reinstalls the built-in set. The
// delete is unconditional; custom tiers are gone afterwards.
func (r *tierRepository) ResetToDefaults() ([]models.SubscriptionTier, error) {
	defaults := models.DefaultSubscriptionTiers()
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.SubscriptionTier{}).Error; err != nil {
			return err
		}
		return tx.Create(&defaults).Error
	})
	if err != nil {
		return nil, err
	}
	return defaults, nil
}
