package claimservice

import (
	"fmt"

	"farm_claims/internal/api/claim/models"
	"farm_claims/internal/common"
)

// Bảng giá theo loại claim và loài vật nuôi (GBP).
var claimPricing = map[string]map[string]float64{
	models.ClaimTypeReview: {
		models.SpeciesBeef:  522,
		models.SpeciesDairy: 372,
		models.SpeciesPigs:  684,
		models.SpeciesSheep: 436,
	},
	models.ClaimTypeFollowUp: {
		models.SpeciesBeef:  215,
		models.SpeciesDairy: 215,
		models.SpeciesPigs:  923,
		models.SpeciesSheep: 639,
	},
}

// AmountFor tra cứu số tiền chi trả cho một claim.
func AmountFor(claimType, species string) (float64, error) {
	bySpecies, ok := claimPricing[claimType]
	if !ok {
		return 0, fmt.Errorf("%w: loại claim không hợp lệ: %s", common.ErrInvalidInput, claimType)
	}
	amount, ok := bySpecies[species]
	if !ok {
		return 0, fmt.Errorf("%w: loài vật nuôi không hợp lệ: %s", common.ErrInvalidInput, species)
	}
	return amount, nil
}
