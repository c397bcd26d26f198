package claimservice

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"farm_claims/internal/api/claim/models"
	"farm_claims/internal/common"
)

// typeCodes ánh xạ loại claim sang tiền tố reference.
var typeCodes = map[string]string{
	models.ClaimTypeReview:   "RE",
	models.ClaimTypeFollowUp: "FU",
}

// speciesCodes ánh xạ loài vật nuôi sang mã trong reference.
var speciesCodes = map[string]string{
	models.SpeciesBeef:  "BC",
	models.SpeciesDairy: "DC",
	models.SpeciesPigs:  "PI",
	models.SpeciesSheep: "SH",
}

// referenceAlphabet bỏ các ký tự dễ nhầm lẫn (I, O, 0, U).
const referenceAlphabet = "ABCDEFGHJKLMNPQRSTVWXYZ123456789"

// GenerateClaimReference sinh reference duy nhất dạng {RE|FU}{BC|DC|PI|SH}-XXXX-XXXX.
// Tính duy nhất được bảo đảm bởi unique index trên trường reference;
// xác suất trùng của hai lần sinh là không đáng kể.
func GenerateClaimReference(claimType, species string) (string, error) {
	typeCode, ok := typeCodes[claimType]
	if !ok {
		return "", fmt.Errorf("%w: loại claim không hợp lệ: %s", common.ErrInvalidInput, claimType)
	}
	speciesCode, ok := speciesCodes[species]
	if !ok {
		return "", fmt.Errorf("%w: loài vật nuôi không hợp lệ: %s", common.ErrInvalidInput, species)
	}

	first, err := randomBlock(4)
	if err != nil {
		return "", err
	}
	second, err := randomBlock(4)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s%s-%s-%s", typeCode, speciesCode, first, second), nil
}

// randomBlock sinh chuỗi ngẫu nhiên độ dài n từ referenceAlphabet.
func randomBlock(n int) (string, error) {
	max := big.NewInt(int64(len(referenceAlphabet)))
	block := make([]byte, n)
	for i := range block {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("sinh ký tự ngẫu nhiên thất bại: %w", err)
		}
		block[i] = referenceAlphabet[idx.Int64()]
	}
	return string(block), nil
}
