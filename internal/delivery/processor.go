package delivery

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"

	"farm_claims/config"
	"farm_claims/internal/delivery/channels"
	deliverymodels "farm_claims/internal/delivery/models"
	"farm_claims/internal/logger"
)

// Processor đọc batch outbox item pending theo chu kỳ và gửi đi.
// Gửi thất bại thì schedule retry với exponential backoff; hết số lần
// retry thì đánh dấu failed và để lại trong collection cho việc tra soát.
type Processor struct {
	queue    *OutboxQueueService
	cfg      *config.Configuration
	interval time.Duration
	batch    int64
	log      *logrus.Logger
}

// NewProcessor tạo Processor mới từ cấu hình server.
func NewProcessor(cfg *config.Configuration) (*Processor, error) {
	queue, err := NewOutboxQueueService()
	if err != nil {
		return nil, fmt.Errorf("tạo OutboxQueueService: %w", err)
	}

	interval := time.Duration(cfg.DeliveryInterval) * time.Second
	if interval <= 0 {
		interval = 10 * time.Second
	}
	batch := int64(cfg.DeliveryBatch)
	if batch <= 0 {
		batch = 20
	}

	return &Processor{
		queue:    queue,
		cfg:      cfg,
		interval: interval,
		batch:    batch,
		log:      logger.GetAppLogger(),
	}, nil
}

// Start chạy vòng lặp xử lý cho tới khi ctx bị hủy. Gọi trong goroutine riêng.
func (p *Processor) Start(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.log.Info("Đã dừng outbox processor")
			return
		case <-ticker.C:
			p.processBatch(ctx)
		}
	}
}

// processBatch xử lý một batch item pending. Panic trong một chu kỳ không
// được làm chết vòng lặp.
func (p *Processor) processBatch(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			p.log.WithField("panic", r).Error("Panic trong chu kỳ xử lý outbox")
		}
	}()

	items, err := p.queue.FetchPending(ctx, p.batch)
	if err != nil {
		p.log.WithError(err).Error("Đọc outbox pending thất bại")
		return
	}

	for _, item := range items {
		if err := p.ProcessItem(ctx, item); err != nil {
			p.log.WithFields(logrus.Fields{
				"outboxItemId": item.ID.Hex(),
				"eventType":    item.EventType,
				"error":        err.Error(),
			}).Warn("Gửi outbox item thất bại")
		}
	}
}

// ProcessItem gửi một outbox item qua kênh của nó.
func (p *Processor) ProcessItem(ctx context.Context, item *deliverymodels.OutboxItem) error {
	var sendErr error
	switch item.ChannelType {
	case deliverymodels.ChannelWebhook:
		if p.cfg.EventWebhookURL == "" {
			// Không cấu hình webhook: coi như đã gửi để không kẹt queue.
			return p.queue.MarkSent(ctx, item)
		}
		sendErr = channels.SendWebhook(ctx, p.cfg.EventWebhookURL, item.EventType, p.payloadOf(item))
	case deliverymodels.ChannelEmail:
		smtp := channels.SMTPConfig{
			Host:     p.cfg.SMTPHost,
			Port:     p.cfg.SMTPPort,
			Username: p.cfg.SMTPUsername,
			Password: p.cfg.SMTPPassword,
			From:     p.cfg.SMTPFrom,
		}
		sendErr = channels.SendEmail(ctx, smtp, item.Recipient, item.EventType, item.Reference, p.payloadOf(item))
	default:
		sendErr = fmt.Errorf("kênh gửi không hợp lệ: %s", item.ChannelType)
	}

	if sendErr != nil {
		return p.handleRetryOrFail(ctx, item, sendErr)
	}
	return p.queue.MarkSent(ctx, item)
}

// payloadOf gộp payload sự kiện với các trường định danh.
func (p *Processor) payloadOf(item *deliverymodels.OutboxItem) map[string]interface{} {
	payload := map[string]interface{}{
		"reference":            item.Reference,
		"applicationReference": item.ApplicationReference,
		"sbi":                  item.SBI,
	}
	for k, v := range item.Payload {
		payload[k] = v
	}
	return payload
}

// handleRetryOrFail tăng retryCount và schedule retry với backoff mũ,
// hoặc đánh dấu failed khi đã hết số lần retry.
func (p *Processor) handleRetryOrFail(ctx context.Context, item *deliverymodels.OutboxItem, sendErr error) error {
	item.RetryCount++
	now := time.Now().UnixMilli()

	if item.RetryCount < item.MaxRetries {
		backoffMillis := int64(math.Pow(2, float64(item.RetryCount))) * 1000
		nextRetryAt := now + backoffMillis
		update := bson.M{"$set": bson.M{
			"retryCount":  item.RetryCount,
			"nextRetryAt": nextRetryAt,
			"error":       sendErr.Error(),
			"updatedAt":   now,
		}}
		if _, err := p.queue.UpdateOne(ctx, bson.M{"_id": item.ID}, update, nil); err != nil {
			return fmt.Errorf("schedule retry thất bại: %w", err)
		}
		return sendErr
	}

	update := bson.M{"$set": bson.M{
		"status":    deliverymodels.OutboxStatusFailed,
		"error":     sendErr.Error(),
		"updatedAt": now,
	}}
	if _, err := p.queue.UpdateOne(ctx, bson.M{"_id": item.ID}, update, nil); err != nil {
		return fmt.Errorf("đánh dấu failed thất bại: %w", err)
	}
	return fmt.Errorf("đã vượt quá số lần retry: %w", sendErr)
}
