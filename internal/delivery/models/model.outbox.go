// Package models - Model outbox item cho việc phát sự kiện ra ngoài.
package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Các trạng thái outbox item.
const (
	OutboxStatusPending = "pending"
	OutboxStatusSent    = "sent"
	OutboxStatusFailed  = "failed"
)

// Các kênh gửi.
const (
	ChannelWebhook = "webhook"
	ChannelEmail   = "email"
)

// OutboxItem là một sự kiện domain chờ gửi ra ngoài (collection event_outbox).
// Item được ghi sau khi transaction nghiệp vụ commit, nên không bao giờ
// mô tả một bản ghi đã bị rollback.
type OutboxItem struct {
	ID                   primitive.ObjectID     `json:"id,omitempty" bson:"_id,omitempty"`
	EventType            string                 `json:"eventType" bson:"eventType" index:"single:1"`
	Reference            string                 `json:"reference" bson:"reference"`
	ApplicationReference string                 `json:"applicationReference,omitempty" bson:"applicationReference,omitempty"`
	SBI                  string                 `json:"sbi,omitempty" bson:"sbi,omitempty"`
	Payload              map[string]interface{} `json:"payload,omitempty" bson:"payload,omitempty"`
	ChannelType          string                 `json:"channelType" bson:"channelType"`
	Recipient            string                 `json:"recipient,omitempty" bson:"recipient,omitempty"`
	Status               string                 `json:"status" bson:"status" index:"single:1"`
	Error                string                 `json:"error,omitempty" bson:"error,omitempty"`
	RetryCount           int                    `json:"retryCount" bson:"retryCount"`
	MaxRetries           int                    `json:"maxRetries" bson:"maxRetries"`
	NextRetryAt          *int64                 `json:"nextRetryAt,omitempty" bson:"nextRetryAt,omitempty"`
	SentAt               *int64                 `json:"sentAt,omitempty" bson:"sentAt,omitempty"`
	CreatedAt            int64                  `json:"createdAt" bson:"createdAt"`
	UpdatedAt            int64                  `json:"updatedAt" bson:"updatedAt"`
}
