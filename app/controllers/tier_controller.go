package controllers

import (
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/nimbusdb/nimbus/app/models"
	"github.com/nimbusdb/nimbus/app/repository"
	"github.com/nimbusdb/nimbus/internal/pkg/cache"
)

const (
	tierListCacheKey = "tiers:active"
	tierListCacheTTL = 5 * time.Minute
)

type tierRequest struct {
	Name            string   `json:"name"`
	DisplayName     string   `json:"displayName"`
	PricePerHour    *float64 `json:"pricePerHour"`
	MonthlyCapPrice *float64 `json:"monthlyCapPrice"`
	Storage         string   `json:"storage"`
	RAM             string   `json:"ram"`
	VCPU            string   `json:"vcpu"`
	Description     string   `json:"description"`
	IsActive        *bool    `json:"isActive"`
}

// HandleCreateTier creates a new catalog tier.
func HandleCreateTier(c *fiber.Ctx) error {
	var req tierRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	tier := models.SubscriptionTier{
		Name:            req.Name,
		DisplayName:     req.DisplayName,
		MonthlyCapPrice: req.MonthlyCapPrice,
		Storage:         req.Storage,
		RAM:             req.RAM,
		VCPU:            req.VCPU,
		Description:     req.Description,
		IsActive:        true,
	}
	if req.PricePerHour != nil {
		tier.PricePerHour = *req.PricePerHour
	}
	tier.NormalizeName()

	if err := tier.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	repo := repository.GetGlobalFactory().GetTierRepository()
	conflict, err := tierNameConflict(repo, tier.Name, 0)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create tier"})
	}
	if conflict {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Tier with this name already exists"})
	}

	if err := repo.Create(&tier); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create tier"})
	}
	_ = cache.Delete(tierListCacheKey)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Tier created successfully", "tier": tier})
}

// HandleListTiers returns all active tiers ordered by hourly price.
func HandleListTiers(c *fiber.Ctx) error {
	if cached, err := cache.Get(tierListCacheKey); err == nil && cached != "" {
		var tiers []models.SubscriptionTier
		if err := json.Unmarshal([]byte(cached), &tiers); err == nil {
			return c.JSON(fiber.Map{"tiers": tiers})
		}
	}

	repo := repository.GetGlobalFactory().GetTierRepository()
	tiers, err := repo.ListActive()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch tiers"})
	}

	if payload, err := json.Marshal(tiers); err == nil {
		_ = cache.Set(tierListCacheKey, string(payload), tierListCacheTTL)
	}

	return c.JSON(fiber.Map{"tiers": tiers})
}

// HandleGetTier returns a single tier by id.
func HandleGetTier(c *fiber.Ctx) error {
	tierID, err := parseTierID(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Tier not found"})
	}

	repo := repository.GetGlobalFactory().GetTierRepository()
	tier, err := repo.GetByID(tierID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Tier not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch tier"})
	}

	return c.JSON(fiber.Map{"tier": tier})
}

// HandleUpdateTier applies a partial update to a tier, re-validating the
// result against the same constraints as creation.
func HandleUpdateTier(c *fiber.Ctx) error {
	tierID, err := parseTierID(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Tier not found"})
	}

	var req tierRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	repo := repository.GetGlobalFactory().GetTierRepository()
	tier, err := repo.GetByID(tierID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Tier not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update tier"})
	}

	if req.Name != "" {
		tier.Name = req.Name
		tier.NormalizeName()
	}
	if req.DisplayName != "" {
		tier.DisplayName = req.DisplayName
	}
	if req.PricePerHour != nil {
		tier.PricePerHour = *req.PricePerHour
	}
	if req.MonthlyCapPrice != nil {
		tier.MonthlyCapPrice = req.MonthlyCapPrice
	}
	if req.Storage != "" {
		tier.Storage = req.Storage
	}
	if req.RAM != "" {
		tier.RAM = req.RAM
	}
	if req.VCPU != "" {
		tier.VCPU = req.VCPU
	}
	if req.Description != "" {
		tier.Description = req.Description
	}
	if req.IsActive != nil {
		tier.IsActive = *req.IsActive
	}

	if err := tier.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	conflict, err := tierNameConflict(repo, tier.Name, tier.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update tier"})
	}
	if conflict {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Tier with this name already exists"})
	}

	if err := repo.Update(tier); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update tier"})
	}
	_ = cache.Delete(tierListCacheKey)

	return c.JSON(fiber.Map{"message": "Tier updated successfully", "tier": tier})
}

// HandleInitializeTiers wipes the catalog and reinstalls the built-in tiers.
func HandleInitializeTiers(c *fiber.Ctx) error {
	repo := repository.GetGlobalFactory().GetTierRepository()
	tiers, err := repo.ResetToDefaults()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to initialize tiers"})
	}
	_ = cache.Delete(tierListCacheKey)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Default tiers initialized successfully",
		"tiers":   tiers,
	})
}

// tierNameConflict reports whether a tier other than selfID already uses the
// name. Lookup failures are surfaced instead of being read as "no conflict".
func tierNameConflict(repo repository.TierRepository, name string, selfID uint) (bool, error) {
	existing, err := repo.GetByName(name)
	if err == nil {
		return existing.ID != selfID, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return false, err
}

func parseTierID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("tierId"), 10, 32)
	if err != nil || id == 0 {
		return 0, errors.New("invalid tier id")
	}
	return uint(id), nil
}
