// Package models - Claim thuộc domain claim (claims).
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HerdSnapshot là bản chụp thông tin đàn tại thời điểm gắn vào claim.
// Claim giữ snapshot thay vì tham chiếu để lịch sử claim không đổi khi đàn được sửa sau này.
type HerdSnapshot struct {
	ID           string   `json:"id,omitempty" bson:"id,omitempty"`
	Version      int      `json:"version" bson:"version"`
	Cph          string   `json:"cph" bson:"cph"`
	Name         string   `json:"name,omitempty" bson:"name,omitempty"`
	Reasons      []string `json:"reasons" bson:"reasons"`
	AssociatedAt string   `json:"associatedAt" bson:"associatedAt"`
}

// StatusHistoryEntry ghi lại một lần chuyển trạng thái của claim.
type StatusHistoryEntry struct {
	Status    string `json:"status" bson:"status"`
	ChangedBy string `json:"changedBy" bson:"changedBy"`
	ChangedAt int64  `json:"changedAt" bson:"changedAt"`
}

// UpdateHistoryEntry ghi lại một lần sửa dữ liệu của claim (kể cả backfill).
type UpdateHistoryEntry struct {
	Field     string `json:"field" bson:"field"`
	Note      string `json:"note" bson:"note"`
	OldValue  string `json:"oldValue" bson:"oldValue"`
	NewValue  string `json:"newValue" bson:"newValue"`
	UpdatedBy string `json:"updatedBy" bson:"updatedBy"`
	UpdatedAt int64  `json:"updatedAt" bson:"updatedAt"`
}

// Claim lưu một yêu cầu chi trả của chủ trang trại (claims).
type Claim struct {
	ID primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`

	// Reference định danh claim với người dùng, dạng {loại}{loài}-XXXX-XXXX.
	Reference            string `json:"reference" bson:"reference" index:"unique"`
	ApplicationReference string `json:"applicationReference" bson:"applicationReference" index:"single:1"`
	SBI                  string `json:"sbi" bson:"sbi" index:"single:1"`
	Type                 string `json:"type" bson:"type"`
	Status               string `json:"status" bson:"status"`

	// Data chứa payload thăm khám (typeOfLivestock, dateOfVisit, amount, ...).
	Data map[string]interface{} `json:"data" bson:"data"`

	// Herd là snapshot đàn tại thời điểm nộp claim; nil với các claim
	// trước khi hỗ trợ nhiều đàn.
	Herd *HerdSnapshot `json:"herd,omitempty" bson:"herd,omitempty"`

	StatusHistory []StatusHistoryEntry `json:"statusHistory" bson:"statusHistory"`
	UpdateHistory []UpdateHistoryEntry `json:"updateHistory,omitempty" bson:"updateHistory,omitempty"`

	CreatedBy string `json:"createdBy" bson:"createdBy"`
	CreatedAt int64  `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64  `json:"updatedAt" bson:"updatedAt"`
}

// SpeciesOf trả về loài vật nuôi của claim (lưu trong data.typeOfLivestock).
func (c *Claim) SpeciesOf() string {
	if c.Data == nil {
		return ""
	}
	if v, ok := c.Data["typeOfLivestock"].(string); ok {
		return v
	}
	return ""
}

// HasHerd cho biết claim đã có thông tin đàn hay chưa.
func (c *Claim) HasHerd() bool {
	return c.Herd != nil && c.Herd.ID != ""
}
