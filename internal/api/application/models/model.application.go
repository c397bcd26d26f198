// Package models - Model application (agreement) của scheme.
package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Các trạng thái application.
const (
	ApplicationStatusAgreed    = "AGREED"
	ApplicationStatusWithdrawn = "WITHDRAWN"
)

// Application là agreement mà các claim tham chiếu tới qua applicationReference.
type Application struct {
	ID                primitive.ObjectID     `json:"id,omitempty" bson:"_id,omitempty"`
	Reference         string                 `json:"reference" bson:"reference" index:"unique"` // AHWR-XXXX-XXXX
	SBI               string                 `json:"sbi" bson:"sbi" index:"single:1"`
	OrganisationName  string                 `json:"organisationName" bson:"organisationName"`
	OrganisationEmail string                 `json:"organisationEmail,omitempty" bson:"organisationEmail,omitempty"`
	Status            string                 `json:"status" bson:"status"`
	Data              map[string]interface{} `json:"data,omitempty" bson:"data,omitempty"`
	CreatedBy         string                 `json:"createdBy" bson:"createdBy"`
	CreatedAt         int64                  `json:"createdAt" bson:"createdAt"`
	UpdatedAt         int64                  `json:"updatedAt" bson:"updatedAt"`
}
