// Package models - ComplianceCheckCounter thuộc domain claim (claim_counters).
package models

// ComplianceCheckCounterID là _id của document bộ đếm sampling duy nhất.
const ComplianceCheckCounterID = "complianceCheckCount"

// ComplianceCheckCounter là bộ đếm đơn điệu dùng cho compliance sampling (claim_counters).
// Document được tăng bằng $inc nguyên tử với upsert, nên mỗi lần lấy số
// luôn nhận được một giá trị duy nhất kể cả khi nhiều request chạy song song.
type ComplianceCheckCounter struct {
	ID        string `json:"id" bson:"_id"`
	Count     int64  `json:"count" bson:"count"`
	CreatedAt int64  `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64  `json:"updatedAt" bson:"updatedAt"`
}
