package claimservice

import (
	"context"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"farm_claims/internal/api/claim/models"
)

func TestPropagate_ChiCapNhatClaimChuaCoHerd(t *testing.T) {
	withHerd := &models.Claim{
		ID:                   primitive.NewObjectID(),
		Reference:            "RESH-AAAA-1111",
		ApplicationReference: "AHWR-AAAA-1111",
		Data:                 map[string]interface{}{"typeOfLivestock": models.SpeciesSheep},
		Herd:                 &models.HerdSnapshot{ID: "herd-old", Version: 1},
	}
	withoutHerd := &models.Claim{
		ID:                   primitive.NewObjectID(),
		Reference:            "RESH-BBBB-2222",
		ApplicationReference: "AHWR-AAAA-1111",
		Data:                 map[string]interface{}{"typeOfLivestock": models.SpeciesSheep},
	}
	otherSpecies := &models.Claim{
		ID:                   primitive.NewObjectID(),
		Reference:            "REPI-CCCC-3333",
		ApplicationReference: "AHWR-AAAA-1111",
		Data:                 map[string]interface{}{"typeOfLivestock": models.SpeciesPigs},
	}
	claims := &fakeClaimStore{claims: []*models.Claim{withHerd, withoutHerd, otherSpecies}}

	propagator := NewHerdBackfillPropagator(claims)
	snapshot := &models.HerdSnapshot{ID: "herd-1", Version: 1, Name: "Đàn chính", Cph: "12/345/6789"}

	updated, err := propagator.Propagate(context.Background(), snapshot, "AHWR-AAAA-1111", models.SpeciesSheep, "farmer@example.com")
	if err != nil {
		t.Fatalf("lỗi không mong đợi: %v", err)
	}
	if updated != 1 {
		t.Fatalf("phải cập nhật đúng 1 claim, nhận %d", updated)
	}

	after, _ := claims.FindByReference(context.Background(), "RESH-BBBB-2222")
	if after.Herd == nil || after.Herd.ID != "herd-1" {
		t.Fatalf("claim chưa có herd phải được gắn snapshot, nhận %+v", after.Herd)
	}
	if len(after.UpdateHistory) != 1 {
		t.Fatalf("phải có 1 entry update history, nhận %d", len(after.UpdateHistory))
	}
	entry := after.UpdateHistory[0]
	if entry.Field != "herd" {
		t.Errorf("entry phải ghi field herd, nhận %q", entry.Field)
	}
	if entry.OldValue != models.UnnamedHerdValue {
		t.Errorf("old value phải là %q, nhận %q", models.UnnamedHerdValue, entry.OldValue)
	}
	if entry.NewValue != "Đàn chính" {
		t.Errorf("new value phải là tên herd, nhận %q", entry.NewValue)
	}

	// Claim đã có herd không bị đụng tới
	untouched, _ := claims.FindByReference(context.Background(), "RESH-AAAA-1111")
	if untouched.Herd.ID != "herd-old" {
		t.Errorf("claim đã có herd không được ghi đè, nhận %q", untouched.Herd.ID)
	}
	if len(untouched.UpdateHistory) != 0 {
		t.Error("claim đã có herd không được thêm update history")
	}

	// Claim khác species không bị đụng tới
	other, _ := claims.FindByReference(context.Background(), "REPI-CCCC-3333")
	if other.Herd != nil {
		t.Error("claim khác species không được gắn herd")
	}
}

func TestPropagate_KhongCoClaimNaoThieuHerd(t *testing.T) {
	claims := &fakeClaimStore{claims: []*models.Claim{{
		ID:                   primitive.NewObjectID(),
		Reference:            "RESH-AAAA-1111",
		ApplicationReference: "AHWR-AAAA-1111",
		Data:                 map[string]interface{}{"typeOfLivestock": models.SpeciesSheep},
		Herd:                 &models.HerdSnapshot{ID: "herd-1", Version: 1},
	}}}

	propagator := NewHerdBackfillPropagator(claims)
	snapshot := &models.HerdSnapshot{ID: "herd-1", Version: 2}

	updated, err := propagator.Propagate(context.Background(), snapshot, "AHWR-AAAA-1111", models.SpeciesSheep, "farmer@example.com")
	if err != nil {
		t.Fatalf("lỗi không mong đợi: %v", err)
	}
	if updated != 0 {
		t.Errorf("không có claim nào cần backfill, nhận %d", updated)
	}
}
