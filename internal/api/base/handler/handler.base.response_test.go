package basehdl

import (
	"fmt"
	"testing"

	"farm_claims/internal/common"
)

func TestResponseDetails_LoiWrapGiuNguyenNguCanh(t *testing.T) {
	err := fmt.Errorf("%w: thiếu header X-SBI", common.ErrRequiredField)
	customErr := common.ErrRequiredField.(*common.Error)

	details := responseDetails(err, customErr)
	msg, ok := details.(string)
	if !ok {
		t.Fatalf("details phải là chuỗi thông điệp đầy đủ, nhận %T", details)
	}
	if msg != "Thiếu thông tin bắt buộc: thiếu header X-SBI" {
		t.Errorf("details không giữ được ngữ cảnh: %q", msg)
	}
}

func TestResponseDetails_LoiKhongWrapKhongCoDetails(t *testing.T) {
	customErr := common.ErrNotFound.(*common.Error)

	if details := responseDetails(common.ErrNotFound, customErr); details != nil {
		t.Errorf("lỗi không wrap và không có Details thì details phải là nil, nhận %v", details)
	}
}

func TestResponseDetails_UuTienDetailsCuaLoi(t *testing.T) {
	err := common.NewError(common.ErrCodeValidationInput, "Dữ liệu không hợp lệ", common.StatusBadRequest, map[string]string{"field": "cph"})
	customErr := err.(*common.Error)

	details := responseDetails(fmt.Errorf("%w: bọc thêm ngữ cảnh", err), customErr)
	m, ok := details.(map[string]string)
	if !ok {
		t.Fatalf("details phải giữ nguyên Details gốc của lỗi, nhận %T", details)
	}
	if m["field"] != "cph" {
		t.Errorf("Details gốc bị thay đổi: %v", m)
	}
}
