package claimservice

import (
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"farm_claims/internal/api/claim/dto"
	"farm_claims/internal/api/claim/models"
	"farm_claims/internal/common"
)

type coordinatorFixture struct {
	service  *ClaimService
	herds    *fakeHerdStore
	claims   *fakeClaimStore
	counters *fakeCounterStore
}

func newCoordinatorFixture(ratio int) *coordinatorFixture {
	herds := &fakeHerdStore{}
	claims := &fakeClaimStore{}
	counters := &fakeCounterStore{}
	sampler := NewComplianceSampler(counters, ratio, false, "")
	tx := &fakeTxRunner{herds: herds, claims: claims}
	return &coordinatorFixture{
		service:  NewClaimServiceWith(claims, herds, sampler, tx),
		herds:    herds,
		claims:   claims,
		counters: counters,
	}
}

func sheepClaimInput(same string) *dto.ClaimCreateInput {
	return &dto.ClaimCreateInput{
		ApplicationReference: "AHWR-AAAA-1111",
		Type:                 models.ClaimTypeReview,
		CreatedBy:            "farmer@example.com",
		Data: map[string]interface{}{
			"typeOfLivestock": models.SpeciesSheep,
			"dateOfVisit":     "2026-05-01",
			"herd": map[string]interface{}{
				"herdVersion": 1,
				"herdName":    "Đàn chính",
				"cph":         "12/345/6789",
				"herdReasons": []string{"onlyHerd"},
				"herdSame":    same,
			},
		},
	}
}

func TestCreateClaim_HerdMoi_Ratio1(t *testing.T) {
	f := newCoordinatorFixture(1)
	f.counters.count = 4

	result, err := f.service.CreateClaim(context.Background(), "123456789", sheepClaimInput("no"), true)
	if err != nil {
		t.Fatalf("lỗi không mong đợi: %v", err)
	}

	if result.Claim.Status != models.StatusInCheck {
		t.Errorf("ratio=1 phải cho IN_CHECK, nhận %s", result.Claim.Status)
	}
	if !result.HerdGotUpdated {
		t.Error("herd mới phải có HerdGotUpdated=true")
	}
	if result.HerdData == nil || result.HerdData.Version != 1 {
		t.Fatalf("phải tạo herd version 1, nhận %+v", result.HerdData)
	}

	// Payload được copy bỏ trường herd thô, amount được gắn theo bảng giá
	if _, ok := result.Claim.Data["herd"]; ok {
		t.Error("data của claim không được chứa trường herd thô")
	}
	if amount, _ := result.Claim.Data["amount"].(float64); amount != 436 {
		t.Errorf("amount cho review sheep phải là 436, nhận %v", result.Claim.Data["amount"])
	}

	// Snapshot herd trên claim phản ánh phiên bản vừa resolve
	if result.Claim.Herd == nil || result.Claim.Herd.ID != result.HerdData.HerdID {
		t.Fatalf("snapshot herd trên claim không khớp, nhận %+v", result.Claim.Herd)
	}
	if result.Claim.Herd.AssociatedAt == "" {
		t.Error("snapshot phải có associatedAt")
	}

	if len(result.Claim.StatusHistory) != 1 || result.Claim.StatusHistory[0].Status != models.StatusInCheck {
		t.Errorf("status history phải có 1 entry với trạng thái ban đầu, nhận %+v", result.Claim.StatusHistory)
	}
	if result.Claim.SBI != "123456789" {
		t.Errorf("sbi phải được gắn vào claim, nhận %q", result.Claim.SBI)
	}
}

func TestCreateClaim_SamplingTat_BoDemKhongDoi(t *testing.T) {
	f := newCoordinatorFixture(0)

	result, err := f.service.CreateClaim(context.Background(), "123456789", sheepClaimInput("no"), true)
	if err != nil {
		t.Fatalf("lỗi không mong đợi: %v", err)
	}

	if result.Claim.Status != models.StatusOnHold {
		t.Errorf("sampling tắt phải cho ON_HOLD, nhận %s", result.Claim.Status)
	}
	if f.counters.calls != 0 {
		t.Errorf("sampling tắt nhưng bộ đếm bị tăng %d lần", f.counters.calls)
	}
}

func TestCreateClaim_KhongCoHerd(t *testing.T) {
	f := newCoordinatorFixture(0)
	input := &dto.ClaimCreateInput{
		ApplicationReference: "AHWR-AAAA-1111",
		Type:                 models.ClaimTypeFollowUp,
		CreatedBy:            "farmer@example.com",
		Data: map[string]interface{}{
			"typeOfLivestock": models.SpeciesPigs,
			"dateOfVisit":     "2026-05-01",
		},
	}

	result, err := f.service.CreateClaim(context.Background(), "123456789", input, false)
	if err != nil {
		t.Fatalf("lỗi không mong đợi: %v", err)
	}
	if result.Claim.Herd != nil {
		t.Error("claim không thuộc luồng nhiều herd không được có snapshot herd")
	}
	if result.HerdGotUpdated || result.HerdData != nil {
		t.Error("không resolve herd thì HerdGotUpdated phải false")
	}
	if amount, _ := result.Claim.Data["amount"].(float64); amount != 923 {
		t.Errorf("amount cho follow-up pigs phải là 923, nhận %v", result.Claim.Data["amount"])
	}
	if len(f.herds.snapshot()) != 0 {
		t.Error("không được ghi herd nào")
	}
}

func TestCreateClaim_ChenClaimLoi_RollbackHerd(t *testing.T) {
	f := newCoordinatorFixture(0)
	f.claims.insertErr = errors.New("mất kết nối")

	_, err := f.service.CreateClaim(context.Background(), "123456789", sheepClaimInput("no"), true)
	if err == nil {
		t.Fatal("chèn claim lỗi phải trả về lỗi")
	}

	if len(f.herds.snapshot()) != 0 {
		t.Errorf("transaction abort thì phiên bản herd không được nhìn thấy, store có %d bản ghi", len(f.herds.snapshot()))
	}
	if len(f.claims.snapshot()) != 0 {
		t.Error("không được có claim nào sau khi rollback")
	}
}

func TestCreateClaim_XungDotHerd_KhongChenClaim(t *testing.T) {
	f := newCoordinatorFixture(0)
	f.herds.herds = []*models.Herd{{
		HerdID: "herd-1", Version: 1, Cph: "12/345/6789",
		Reasons: []string{"onlyHerd"}, IsCurrent: false,
	}}

	input := sheepClaimInput("no")
	input.Data["herd"] = map[string]interface{}{
		"herdId": "herd-1", "herdVersion": 2, "cph": "98/765/4321",
		"herdReasons": []string{"onlyHerd"}, "herdSame": "no",
	}

	_, err := f.service.CreateClaim(context.Background(), "123456789", input, true)
	if !errors.Is(err, ErrHerdNotCurrent) {
		t.Fatalf("muốn ErrHerdNotCurrent, nhận %v", err)
	}
	if !common.IsConflict(err) {
		t.Error("lỗi phải thuộc lớp xung đột để caller retry")
	}
	if len(f.claims.snapshot()) != 0 {
		t.Error("xung đột herd thì không được chèn claim")
	}
}

func TestCreateClaim_SameYes_BackfillClaimCu(t *testing.T) {
	f := newCoordinatorFixture(0)
	prior := &models.Claim{
		ID:                   primitive.NewObjectID(),
		Reference:            "RESH-OLDD-1111",
		ApplicationReference: "AHWR-AAAA-1111",
		Data:                 map[string]interface{}{"typeOfLivestock": models.SpeciesSheep},
	}
	f.claims.claims = []*models.Claim{prior}

	result, err := f.service.CreateClaim(context.Background(), "123456789", sheepClaimInput("yes"), true)
	if err != nil {
		t.Fatalf("lỗi không mong đợi: %v", err)
	}

	// Backfill chạy sau commit nhưng đồng bộ trong CreateClaim
	updated, _ := f.claims.FindByReference(context.Background(), "RESH-OLDD-1111")
	if updated.Herd == nil || updated.Herd.ID != result.HerdData.HerdID {
		t.Fatalf("claim cũ phải được gắn herd vừa resolve, nhận %+v", updated.Herd)
	}
	if len(updated.UpdateHistory) != 1 || updated.UpdateHistory[0].OldValue != models.UnnamedHerdValue {
		t.Errorf("update history của backfill không đúng: %+v", updated.UpdateHistory)
	}
}

func TestCreateClaim_SpeciesKhongHopLe(t *testing.T) {
	f := newCoordinatorFixture(0)
	input := sheepClaimInput("no")
	input.Data["typeOfLivestock"] = "goats"

	_, err := f.service.CreateClaim(context.Background(), "123456789", input, true)
	if err == nil {
		t.Fatal("species không hợp lệ phải trả về lỗi")
	}
	if !errors.Is(err, common.ErrInvalidInput) {
		t.Errorf("muốn ErrInvalidInput, nhận %v", err)
	}
}

func TestCreateClaim_ReferenceDungDinhDang(t *testing.T) {
	f := newCoordinatorFixture(0)
	result, err := f.service.CreateClaim(context.Background(), "123456789", sheepClaimInput("no"), true)
	if err != nil {
		t.Fatalf("lỗi không mong đợi: %v", err)
	}
	if !referencePattern.MatchString(result.Claim.Reference) {
		t.Errorf("reference %q không đúng định dạng", result.Claim.Reference)
	}
	if result.Claim.Reference[:4] != "RESH" {
		t.Errorf("review sheep phải có tiền tố RESH, nhận %s", result.Claim.Reference[:4])
	}
}
