package models

func floatPtr(v float64) *float64 { return &v }

// DefaultSubscriptionTiers returns the built-in tier set installed by the
// catalog reset operation.
func DefaultSubscriptionTiers() []SubscriptionTier {
	return []SubscriptionTier{
		{
			Name:         "free",
			DisplayName:  "Free",
			PricePerHour: 0,
			Storage:      "512 MB",
			RAM:          "Shared",
			VCPU:         "Shared",
			Description:  "For learning and exploring MongoDB in a cloud environment.",
			IsActive:     true,
		},
		{
			Name:            "flex",
			DisplayName:     "Flex",
			PricePerHour:    0.011,
			MonthlyCapPrice: floatPtr(30),
			Storage:         "Up to 5GB",
			RAM:             "Shared",
			VCPU:            "Shared",
			Description:     "For application development and testing: resources and costs scale to your needs.",
			IsActive:        true,
		},
		{
			Name:         "dedicated",
			DisplayName:  "Dedicated",
			PricePerHour: 0.08,
			Storage:      "10 GB",
			RAM:          "2 GB",
			VCPU:         "2vCPUs",
			Description:  "For production applications with sophisticated workload requirements.",
			IsActive:     true,
		},
	}
}
