package controllers

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/nimbusdb/nimbus/app/models"
)

type stubTierRepository struct {
	byName  map[string]*models.SubscriptionTier
	nameErr error
}

func (r *stubTierRepository) Create(tier *models.SubscriptionTier) error { return nil }
func (r *stubTierRepository) GetByID(id uint) (*models.SubscriptionTier, error) {
	return nil, gorm.ErrRecordNotFound
}
func (r *stubTierRepository) GetByName(name string) (*models.SubscriptionTier, error) {
	if r.nameErr != nil {
		return nil, r.nameErr
	}
	if tier, ok := r.byName[name]; ok {
		return tier, nil
	}
	return nil, gorm.ErrRecordNotFound
}
func (r *stubTierRepository) ListActive() ([]models.SubscriptionTier, error) { return nil, nil }
func (r *stubTierRepository) Update(tier *models.SubscriptionTier) error    { return nil }
func (r *stubTierRepository) ResetToDefaults() ([]models.SubscriptionTier, error) {
	return nil, nil
}

func TestTierNameConflict(t *testing.T) {
	repo := &stubTierRepository{byName: map[string]*models.SubscriptionTier{
		"flex": {ID: 2, Name: "flex"},
	}}

	conflict, err := tierNameConflict(repo, "flex", 0)
	require.NoError(t, err)
	assert.True(t, conflict, "another tier owns the name")

	conflict, err = tierNameConflict(repo, "flex", 2)
	require.NoError(t, err)
	assert.False(t, conflict, "renaming a tier to its own name is not a conflict")

	conflict, err = tierNameConflict(repo, "dedicated", 0)
	require.NoError(t, err)
	assert.False(t, conflict)
}

func TestTierNameConflictSurfacesLookupFailure(t *testing.T) {
	repo := &stubTierRepository{nameErr: errors.New("connection refused")}

	_, err := tierNameConflict(repo, "flex", 2)
	assert.Error(t, err, "a failed lookup must not pass as no-conflict")
}
