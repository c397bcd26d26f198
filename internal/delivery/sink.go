package delivery

import (
	"context"

	appmodels "farm_claims/internal/api/application/models"
	"farm_claims/internal/api/events"
	deliverymodels "farm_claims/internal/delivery/models"
	"farm_claims/internal/logger"
)

// OutboxEnqueuer ghi outbox item mới vào hàng đợi gửi.
type OutboxEnqueuer interface {
	Enqueue(ctx context.Context, item *deliverymodels.OutboxItem) (*deliverymodels.OutboxItem, error)
}

// ApplicationLookup tra cứu application theo reference, dùng để lấy
// email của organisation khi gửi email xác nhận.
type ApplicationLookup interface {
	GetByReference(ctx context.Context, reference string) (*appmodels.Application, error)
}

// RegisterEventSink nối bus sự kiện domain vào outbox: mỗi sự kiện được
// ghi thành một outbox item webhook để processor gửi đi; riêng sự kiện
// claim-created ghi thêm một item email xác nhận cho organisation của
// application (nếu application có email). Ghi thất bại chỉ được log vì
// bus là fire-and-forget.
func RegisterEventSink(queue OutboxEnqueuer, apps ApplicationLookup) {
	log := logger.GetAppLogger()

	events.OnDomainEvent(func(ctx context.Context, e events.DomainEvent) {
		item := &deliverymodels.OutboxItem{
			EventType:            e.Type,
			Reference:            e.Reference,
			ApplicationReference: e.ApplicationReference,
			SBI:                  e.SBI,
			Payload:              e.Data,
			ChannelType:          deliverymodels.ChannelWebhook,
		}
		if _, err := queue.Enqueue(ctx, item); err != nil {
			log.WithError(err).WithField("eventType", e.Type).Error("Ghi sự kiện vào outbox thất bại")
		}

		if e.Type != events.EventClaimCreated || e.ApplicationReference == "" || apps == nil {
			return
		}
		app, err := apps.GetByReference(ctx, e.ApplicationReference)
		if err != nil {
			log.WithError(err).
				WithField("applicationReference", e.ApplicationReference).
				Warn("Tra cứu application để gửi email xác nhận thất bại")
			return
		}
		if app.OrganisationEmail == "" {
			return
		}
		emailItem := &deliverymodels.OutboxItem{
			EventType:            e.Type,
			Reference:            e.Reference,
			ApplicationReference: e.ApplicationReference,
			SBI:                  e.SBI,
			Payload:              e.Data,
			ChannelType:          deliverymodels.ChannelEmail,
			Recipient:            app.OrganisationEmail,
		}
		if _, err := queue.Enqueue(ctx, emailItem); err != nil {
			log.WithError(err).
				WithField("claimReference", e.Reference).
				Error("Ghi email xác nhận vào outbox thất bại")
		}
	})
}
