package dto

import (
	"errors"
	"testing"

	"farm_claims/internal/common"
)

func TestExtractHerd_KhongCoHerd(t *testing.T) {
	input := &ClaimCreateInput{Data: map[string]interface{}{"typeOfLivestock": "sheep"}}
	herd, err := input.ExtractHerd()
	if err != nil {
		t.Fatalf("lỗi không mong đợi: %v", err)
	}
	if herd != nil {
		t.Errorf("payload không có herd phải trả về nil, nhận %+v", herd)
	}
}

func TestExtractHerd_ParseDayDu(t *testing.T) {
	input := &ClaimCreateInput{Data: map[string]interface{}{
		"herd": map[string]interface{}{
			"herdId":      "herd-1",
			"herdVersion": 2,
			"herdName":    "Đàn chính",
			"cph":         "12/345/6789",
			"herdReasons": []string{"onlyHerd", "differentBreed"},
			"herdSame":    "yes",
		},
	}}

	herd, err := input.ExtractHerd()
	if err != nil {
		t.Fatalf("lỗi không mong đợi: %v", err)
	}
	if herd.ID != "herd-1" || herd.Version != 2 || herd.Cph != "12/345/6789" || herd.Same != "yes" {
		t.Errorf("parse herd sai: %+v", herd)
	}
	if len(herd.Reasons) != 2 {
		t.Errorf("phải có 2 reasons, nhận %d", len(herd.Reasons))
	}
}

func TestExtractHerd_DinhDangSai(t *testing.T) {
	input := &ClaimCreateInput{Data: map[string]interface{}{
		"herd": map[string]interface{}{"herdVersion": "khong-phai-so"},
	}}

	_, err := input.ExtractHerd()
	if err == nil {
		t.Fatal("herd sai định dạng phải trả về lỗi")
	}
	if !errors.Is(err, common.ErrInvalidFormat) {
		t.Errorf("muốn ErrInvalidFormat, nhận %v", err)
	}
}
