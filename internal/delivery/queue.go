// Package delivery gửi sự kiện domain ra ngoài qua outbox: sự kiện được
// ghi vào event_outbox sau khi transaction nghiệp vụ commit, rồi một
// processor nền đọc batch và gửi qua webhook hoặc email với retry.
package delivery

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	basesvc "farm_claims/internal/api/base/service"
	"farm_claims/internal/common"
	deliverymodels "farm_claims/internal/delivery/models"
	"farm_claims/internal/global"
)

// defaultMaxRetries là số lần gửi lại tối đa cho một outbox item.
const defaultMaxRetries = 5

// OutboxQueueService quản lý hàng đợi event_outbox.
type OutboxQueueService struct {
	*basesvc.BaseServiceMongoImpl[*deliverymodels.OutboxItem]
}

// NewOutboxQueueService tạo OutboxQueueService từ registry collection toàn cục.
func NewOutboxQueueService() (*OutboxQueueService, error) {
	colName := global.MongoDB_ColNames.EventOutbox
	col, exist := global.RegistryCollections.Get(colName)
	if !exist {
		return nil, fmt.Errorf("không tìm thấy collection %s: %w", colName, common.ErrNotFound)
	}
	return &OutboxQueueService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[*deliverymodels.OutboxItem](col),
	}, nil
}

// Enqueue ghi một outbox item mới với trạng thái pending.
func (s *OutboxQueueService) Enqueue(ctx context.Context, item *deliverymodels.OutboxItem) (*deliverymodels.OutboxItem, error) {
	item.Status = deliverymodels.OutboxStatusPending
	if item.MaxRetries <= 0 {
		item.MaxRetries = defaultMaxRetries
	}
	return s.InsertOne(ctx, item)
}

// FetchPending lấy một batch item pending đã tới hạn gửi, cũ nhất trước.
func (s *OutboxQueueService) FetchPending(ctx context.Context, limit int64) ([]*deliverymodels.OutboxItem, error) {
	now := time.Now().UnixMilli()
	filter := bson.M{
		"status": deliverymodels.OutboxStatusPending,
		"$or": []bson.M{
			{"nextRetryAt": bson.M{"$exists": false}},
			{"nextRetryAt": nil},
			{"nextRetryAt": bson.M{"$lte": now}},
		},
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: 1}}).
		SetLimit(limit)
	return s.Find(ctx, filter, opts)
}

// MarkSent đánh dấu item đã gửi thành công.
func (s *OutboxQueueService) MarkSent(ctx context.Context, item *deliverymodels.OutboxItem) error {
	now := time.Now().UnixMilli()
	update := bson.M{"$set": bson.M{
		"status":    deliverymodels.OutboxStatusSent,
		"sentAt":    now,
		"updatedAt": now,
	}}
	_, err := s.UpdateOne(ctx, bson.M{"_id": item.ID}, update, nil)
	return err
}
