package dto

import (
	"encoding/json"
	"fmt"

	"farm_claims/internal/common"
)

// ClaimCreateInput là input để tạo claim mới
type ClaimCreateInput struct {
	ApplicationReference string                 `json:"applicationReference" validate:"required"` // Reference của application gốc (AHWR-XXXX-XXXX)
	Type                 string                 `json:"type" validate:"required,oneof=R E"`       // "R" = review, "E" = follow-up
	CreatedBy            string                 `json:"createdBy" validate:"required"`            // Email người tạo
	Data                 map[string]interface{} `json:"data" validate:"required"`                 // Payload claim (visit date, species, herd, ...)
}

// HerdInput là phần herd nhúng trong Data["herd"] của ClaimCreateInput
type HerdInput struct {
	ID      string   `json:"herdId,omitempty"`                                       // Rỗng nếu là herd mới
	Version int      `json:"herdVersion" validate:"min=1"`                           // 1 = herd mới, >1 = sửa herd hiện có
	Name    string   `json:"herdName,omitempty"`                                     // Tên herd, chỉ bắt buộc với version 1
	Cph     string   `json:"cph" validate:"required,cph"`                            // County parish holding: nn/nnn/nnnn
	Reasons []string `json:"herdReasons" validate:"required,min=1,dive,herd_reason"` // Lý do tách herd
	Same    string   `json:"herdSame,omitempty" validate:"omitempty,oneof=yes no"`   // "yes" => áp dụng cho các claim cũ cùng species
}

// ExtractHerd lấy HerdInput từ Data["herd"] của payload claim.
// Trả về nil nếu payload không có herd (claim không gắn herd).
func (input *ClaimCreateInput) ExtractHerd() (*HerdInput, error) {
	raw, ok := input.Data["herd"]
	if !ok || raw == nil {
		return nil, nil
	}

	bytes, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: trường herd không hợp lệ: %v", common.ErrInvalidFormat, err)
	}

	var herd HerdInput
	if err := json.Unmarshal(bytes, &herd); err != nil {
		return nil, fmt.Errorf("%w: trường herd không hợp lệ: %v", common.ErrInvalidFormat, err)
	}

	return &herd, nil
}
