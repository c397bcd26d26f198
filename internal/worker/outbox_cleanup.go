package worker

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"farm_claims/internal/delivery"
	deliverymodels "farm_claims/internal/delivery/models"
	"farm_claims/internal/logger"
)

// OutboxCleanupWorker dọn các outbox item đã gửi thành công sau một thời gian
// giữ lại. Item failed được giữ nguyên để tra soát thủ công.
type OutboxCleanupWorker struct {
	queue     *delivery.OutboxQueueService
	interval  time.Duration // Khoảng thời gian giữa các lần chạy
	retention time.Duration // Thời gian giữ lại item đã gửi
}

// NewOutboxCleanupWorker tạo mới OutboxCleanupWorker
//
// Tham số:
//   - interval: Khoảng thời gian giữa các lần chạy (mặc định: 1 giờ)
//   - retention: Thời gian giữ lại item đã gửi (mặc định: 7 ngày)
//
// Trả về:
//   - *OutboxCleanupWorker: Instance mới của OutboxCleanupWorker
//   - error: Lỗi nếu có trong quá trình khởi tạo
func NewOutboxCleanupWorker(interval time.Duration, retention time.Duration) (*OutboxCleanupWorker, error) {
	queue, err := delivery.NewOutboxQueueService()
	if err != nil {
		return nil, err
	}

	if interval < time.Minute {
		interval = time.Hour
	}
	if retention < time.Hour {
		retention = 7 * 24 * time.Hour
	}

	return &OutboxCleanupWorker{
		queue:     queue,
		interval:  interval,
		retention: retention,
	}, nil
}

// Start bắt đầu background worker để dọn outbox.
// Worker chạy định kỳ theo interval cho tới khi ctx bị hủy.
func (w *OutboxCleanupWorker) Start(ctx context.Context) {
	log := logger.GetAppLogger()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	log.WithFields(map[string]interface{}{
		"interval":  w.interval.String(),
		"retention": w.retention.String(),
	}).Info("Starting Outbox Cleanup Worker...")

	for {
		select {
		case <-ctx.Done():
			log.Info("Outbox Cleanup Worker stopped")
			return
		case <-ticker.C:
			func() {
				defer func() {
					if r := recover(); r != nil {
						log.WithFields(map[string]interface{}{
							"panic": r,
						}).Error("Panic khi dọn outbox, sẽ tiếp tục ở lần chạy tiếp theo")
					}
				}()

				cutoff := time.Now().Add(-w.retention).UnixMilli()
				filter := bson.M{
					"status": deliverymodels.OutboxStatusSent,
					"sentAt": bson.M{"$lte": cutoff},
				}
				result, err := w.queue.Collection().DeleteMany(ctx, filter)
				if err != nil {
					log.WithError(err).Error("Failed to clean up sent outbox items")
					return
				}

				if result.DeletedCount > 0 {
					log.WithFields(map[string]interface{}{
						"deletedCount": result.DeletedCount,
					}).Info("Cleaned up sent outbox items")
				}
			}()
		}
	}
}
