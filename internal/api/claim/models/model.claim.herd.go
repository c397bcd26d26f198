// Package models - Herd thuộc domain claim (claim_herds).
// Mỗi document là MỘT phiên bản bất biến của một đàn vật nuôi; sửa đàn = chèn
// phiên bản mới với version+1 và hạ cờ isCurrent của phiên bản trước.
// Unique index (herdId, version) là chốt chặn cuối cùng chống ghi trùng phiên bản
// khi hai request sửa cùng một đàn chạy song song.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Herd lưu một phiên bản của đàn vật nuôi (claim_herds).
type Herd struct {
	ID primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`

	// HerdID là định danh logic của đàn, giữ nguyên qua các phiên bản.
	HerdID  string `json:"herdId" bson:"herdId" index:"single:1,compound:herd_id_version_unique"`
	Version int    `json:"herdVersion" bson:"version" index:"compound:herd_id_version_unique"`

	ApplicationReference string   `json:"applicationReference" bson:"applicationReference" index:"single:1"`
	Species              string   `json:"species" bson:"species"`
	Name                 string   `json:"herdName,omitempty" bson:"herdName,omitempty"`
	Cph                  string   `json:"cph" bson:"cph"`
	Reasons              []string `json:"herdReasons" bson:"herdReasons"`
	CreatedBy            string   `json:"createdBy" bson:"createdBy"`

	// IsCurrent đúng với duy nhất phiên bản mới nhất của mỗi herdId.
	IsCurrent bool `json:"isCurrent" bson:"isCurrent"`

	CreatedAt int64 `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt"`
}
