package claimservice

import (
	"regexp"
	"testing"

	"farm_claims/internal/api/claim/models"
)

var referencePattern = regexp.MustCompile(`^(RE|FU)(BC|DC|PI|SH)-[ABCDEFGHJKLMNPQRSTVWXYZ1-9]{4}-[ABCDEFGHJKLMNPQRSTVWXYZ1-9]{4}$`)

func TestGenerateClaimReference_DinhDang(t *testing.T) {
	cases := []struct {
		claimType string
		species   string
		prefix    string
	}{
		{models.ClaimTypeReview, models.SpeciesBeef, "REBC"},
		{models.ClaimTypeReview, models.SpeciesDairy, "REDC"},
		{models.ClaimTypeReview, models.SpeciesPigs, "REPI"},
		{models.ClaimTypeReview, models.SpeciesSheep, "RESH"},
		{models.ClaimTypeFollowUp, models.SpeciesBeef, "FUBC"},
		{models.ClaimTypeFollowUp, models.SpeciesSheep, "FUSH"},
	}

	for _, tc := range cases {
		ref, err := GenerateClaimReference(tc.claimType, tc.species)
		if err != nil {
			t.Fatalf("%s/%s: lỗi không mong đợi: %v", tc.claimType, tc.species, err)
		}
		if !referencePattern.MatchString(ref) {
			t.Errorf("%s/%s: reference %q không đúng định dạng", tc.claimType, tc.species, ref)
		}
		if ref[:4] != tc.prefix {
			t.Errorf("%s/%s: muốn tiền tố %s, nhận %s", tc.claimType, tc.species, tc.prefix, ref[:4])
		}
	}
}

func TestGenerateClaimReference_InputKhongHopLe(t *testing.T) {
	if _, err := GenerateClaimReference("X", models.SpeciesBeef); err == nil {
		t.Error("loại claim không hợp lệ phải trả về lỗi")
	}
	if _, err := GenerateClaimReference(models.ClaimTypeReview, "goats"); err == nil {
		t.Error("loài vật nuôi không hợp lệ phải trả về lỗi")
	}
}

func TestAmountFor_BangGia(t *testing.T) {
	cases := []struct {
		claimType string
		species   string
		want      float64
	}{
		{models.ClaimTypeReview, models.SpeciesBeef, 522},
		{models.ClaimTypeReview, models.SpeciesDairy, 372},
		{models.ClaimTypeReview, models.SpeciesPigs, 684},
		{models.ClaimTypeReview, models.SpeciesSheep, 436},
		{models.ClaimTypeFollowUp, models.SpeciesBeef, 215},
		{models.ClaimTypeFollowUp, models.SpeciesDairy, 215},
		{models.ClaimTypeFollowUp, models.SpeciesPigs, 923},
		{models.ClaimTypeFollowUp, models.SpeciesSheep, 639},
	}
	for _, tc := range cases {
		amount, err := AmountFor(tc.claimType, tc.species)
		if err != nil {
			t.Fatalf("%s/%s: lỗi không mong đợi: %v", tc.claimType, tc.species, err)
		}
		if amount != tc.want {
			t.Errorf("%s/%s: muốn %.0f, nhận %.0f", tc.claimType, tc.species, tc.want, amount)
		}
	}

	if _, err := AmountFor(models.ClaimTypeReview, "goats"); err == nil {
		t.Error("loài vật nuôi không hợp lệ phải trả về lỗi")
	}
}
