package claimservice

import (
	"context"
	"errors"
	"testing"

	"farm_claims/internal/api/claim/dto"
	"farm_claims/internal/api/claim/models"
	"farm_claims/internal/common"
)

func TestResolve_HerdMoi_Version1(t *testing.T) {
	herds := &fakeHerdStore{}
	resolver := NewHerdVersionResolver(herds)

	input := &dto.HerdInput{
		Version: 1,
		Name:    "Đàn chính",
		Cph:     "12/345/6789",
		Reasons: []string{"onlyHerd"},
	}
	resolved, err := resolver.Resolve(context.Background(), input, "AHWR-AAAA-1111", models.SpeciesSheep, "farmer@example.com")
	if err != nil {
		t.Fatalf("lỗi không mong đợi: %v", err)
	}

	if !resolved.WasChanged || !resolved.IsNewHerd {
		t.Errorf("herd mới phải có WasChanged=true và IsNewHerd=true, nhận %+v", resolved)
	}
	if resolved.Herd.Version != 1 {
		t.Errorf("herd mới phải có version 1, nhận %d", resolved.Herd.Version)
	}
	if !resolved.Herd.IsCurrent {
		t.Error("herd mới phải có isCurrent=true")
	}
	if resolved.Herd.HerdID == "" {
		t.Error("herd mới phải được sinh id")
	}
	if resolved.Herd.Species != models.SpeciesSheep {
		t.Errorf("species phải là %s, nhận %s", models.SpeciesSheep, resolved.Herd.Species)
	}
}

func TestResolve_KhongThayDoi_KhongGhiPhienBanMoi(t *testing.T) {
	herds := &fakeHerdStore{herds: []*models.Herd{{
		HerdID: "herd-1", Version: 1, Cph: "12/345/6789",
		Reasons: []string{"differentBreed", "onlyHerd"}, IsCurrent: true,
	}}}
	resolver := NewHerdVersionResolver(herds)

	// Reasons gửi lên thứ tự khác nhưng cùng tập hợp
	input := &dto.HerdInput{
		ID: "herd-1", Version: 2, Cph: "12/345/6789",
		Reasons: []string{"onlyHerd", "differentBreed"},
	}
	resolved, err := resolver.Resolve(context.Background(), input, "AHWR-AAAA-1111", models.SpeciesSheep, "farmer@example.com")
	if err != nil {
		t.Fatalf("lỗi không mong đợi: %v", err)
	}

	if resolved.WasChanged {
		t.Error("không có thay đổi thực chất thì WasChanged phải là false")
	}
	if len(herds.snapshot()) != 1 {
		t.Errorf("không được ghi phiên bản mới, store có %d bản ghi", len(herds.snapshot()))
	}
	if resolved.Herd.Version != 1 {
		t.Errorf("phải trả về phiên bản hiện tại (1), nhận %d", resolved.Herd.Version)
	}
}

func TestResolve_ThayDoiCph_TaoPhienBanMoi(t *testing.T) {
	herds := &fakeHerdStore{herds: []*models.Herd{{
		HerdID: "herd-1", Version: 1, Name: "Đàn chính", Cph: "12/345/6789",
		Reasons: []string{"onlyHerd"}, Species: models.SpeciesPigs, IsCurrent: true,
	}}}
	resolver := NewHerdVersionResolver(herds)

	input := &dto.HerdInput{
		ID: "herd-1", Version: 2, Cph: "98/765/4321",
		Reasons: []string{"onlyHerd"},
	}
	resolved, err := resolver.Resolve(context.Background(), input, "AHWR-AAAA-1111", models.SpeciesPigs, "farmer@example.com")
	if err != nil {
		t.Fatalf("lỗi không mong đợi: %v", err)
	}

	if !resolved.WasChanged || resolved.IsNewHerd {
		t.Errorf("bản sửa thực chất phải có WasChanged=true và IsNewHerd=false, nhận %+v", resolved)
	}
	if resolved.Herd.Version != 2 {
		t.Errorf("phiên bản mới phải là 2, nhận %d", resolved.Herd.Version)
	}
	if resolved.Herd.Name != "Đàn chính" {
		t.Errorf("tên phải được giữ từ phiên bản cũ, nhận %q", resolved.Herd.Name)
	}
	if resolved.Herd.Cph != "98/765/4321" {
		t.Errorf("cph phải lấy từ input, nhận %q", resolved.Herd.Cph)
	}

	// Đúng một phiên bản current sau khi sửa
	current := 0
	for _, herd := range herds.snapshot() {
		if herd.IsCurrent {
			current++
			if herd.Version != 2 {
				t.Errorf("phiên bản current phải là 2, nhận %d", herd.Version)
			}
		}
	}
	if current != 1 {
		t.Errorf("phải có đúng 1 phiên bản current, nhận %d", current)
	}
}

func TestResolve_KhongTimThayHerd(t *testing.T) {
	resolver := NewHerdVersionResolver(&fakeHerdStore{})

	input := &dto.HerdInput{ID: "missing", Version: 2, Cph: "12/345/6789", Reasons: []string{"onlyHerd"}}
	_, err := resolver.Resolve(context.Background(), input, "AHWR-AAAA-1111", models.SpeciesBeef, "farmer@example.com")
	if !errors.Is(err, ErrHerdNotFound) {
		t.Fatalf("muốn ErrHerdNotFound, nhận %v", err)
	}
	if !common.IsConflict(err) {
		t.Error("lỗi herd not found phải thuộc lớp xung đột")
	}
}

func TestResolve_PhienBanDaBiThayThe(t *testing.T) {
	herds := &fakeHerdStore{herds: []*models.Herd{{
		HerdID: "herd-1", Version: 1, Cph: "12/345/6789",
		Reasons: []string{"onlyHerd"}, IsCurrent: false,
	}}}
	resolver := NewHerdVersionResolver(herds)

	input := &dto.HerdInput{ID: "herd-1", Version: 2, Cph: "98/765/4321", Reasons: []string{"onlyHerd"}}
	_, err := resolver.Resolve(context.Background(), input, "AHWR-AAAA-1111", models.SpeciesBeef, "farmer@example.com")
	if !errors.Is(err, ErrHerdNotCurrent) {
		t.Fatalf("muốn ErrHerdNotCurrent, nhận %v", err)
	}
	if len(herds.snapshot()) != 1 {
		t.Error("lỗi xung đột không được ghi gì vào store")
	}
}

func TestResolve_TrungPhienBan(t *testing.T) {
	herds := &fakeHerdStore{herds: []*models.Herd{{
		HerdID: "herd-1", Version: 2, Cph: "12/345/6789",
		Reasons: []string{"onlyHerd"}, IsCurrent: true,
	}}}
	resolver := NewHerdVersionResolver(herds)

	input := &dto.HerdInput{ID: "herd-1", Version: 2, Cph: "98/765/4321", Reasons: []string{"onlyHerd"}}
	_, err := resolver.Resolve(context.Background(), input, "AHWR-AAAA-1111", models.SpeciesBeef, "farmer@example.com")
	if !errors.Is(err, ErrHerdSameVersion) {
		t.Fatalf("muốn ErrHerdSameVersion, nhận %v", err)
	}
	if len(herds.snapshot()) != 1 {
		t.Error("lỗi xung đột không được ghi gì vào store")
	}
}
