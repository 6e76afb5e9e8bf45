package models

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// SubscriptionTier is a purchasable plan describing the resources of a hosted
// database instance. Tiers are never hard-deleted; retiring a tier flips
// IsActive so existing subscriptions keep their snapshot reference.
type SubscriptionTier struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Name            string    `gorm:"type:varchar(100);not null;uniqueIndex:ux_subscription_tiers_name" json:"name" validate:"required,lowercase"`
	DisplayName     string    `gorm:"type:varchar(100);not null" json:"display_name" validate:"required"`
	PricePerHour    float64   `gorm:"not null;default:0;index" json:"price_per_hour" validate:"gte=0"`
	MonthlyCapPrice *float64  `gorm:"default:null" json:"monthly_cap_price,omitempty" validate:"omitempty,gte=0"`
	Storage         string    `gorm:"type:varchar(50);not null" json:"storage" validate:"required"`
	RAM             string    `gorm:"type:varchar(50);not null" json:"ram" validate:"required"`
	VCPU            string    `gorm:"type:varchar(50);not null" json:"vcpu" validate:"required"`
	Description     string    `gorm:"type:text;not null" json:"description" validate:"required"`
	IsActive        bool      `gorm:"default:true;index" json:"is_active"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// NormalizeName lowercases the tier name before persisting, mirroring the
// case-insensitive uniqueness rule on the name column.
func (t *SubscriptionTier) NormalizeName() {
	t.Name = strings.ToLower(strings.TrimSpace(t.Name))
}

func (t *SubscriptionTier) Validate() error {
	v := validator.New()

	return v.Struct(t)
}
