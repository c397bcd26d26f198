// Package events cung cấp cơ chế event trung tâm cho các sự kiện nghiệp vụ của claim.
// Sự kiện chỉ được phát SAU khi transaction đã commit - handler không bao giờ nhìn thấy
// dữ liệu của một transaction bị abort. Logic phản ứng (ghi outbox, thông báo, ...)
// đăng ký qua OnDomainEvent.
package events

import (
	"context"
	"sync"

	"farm_claims/internal/logger"
)

// Các loại sự kiện nghiệp vụ phát ra từ luồng xử lý claim.
const (
	EventClaimCreated       = "claim-created"
	EventHerdCreated        = "herd-created"
	EventHerdVersionCreated = "herd-version-created"
)

// DomainEvent mô tả một sự kiện nghiệp vụ đã xảy ra và đã được ghi bền vững.
type DomainEvent struct {
	Type                 string                 // Loại sự kiện (EventClaimCreated, ...)
	Reference            string                 // Reference của claim hoặc herdId liên quan
	ApplicationReference string                 // Reference của đơn đăng ký
	SBI                  string                 // SBI của doanh nghiệp
	Data                 map[string]interface{} // Payload bổ sung của sự kiện
}

// DomainEventHandler xử lý sự kiện nghiệp vụ.
type DomainEventHandler func(ctx context.Context, e DomainEvent)

var (
	handlers   []DomainEventHandler
	handlersMu sync.RWMutex
)

// OnDomainEvent đăng ký handler. Gọi khi init (ví dụ từ delivery package).
func OnDomainEvent(h DomainEventHandler) {
	handlersMu.Lock()
	defer handlersMu.Unlock()
	handlers = append(handlers, h)
}

// Emit phát sự kiện tới tất cả handler đã đăng ký.
// Chỉ được gọi sau khi dữ liệu liên quan đã commit thành công.
// Mỗi handler chạy trong goroutine riêng với context tách khỏi caller:
// context của HTTP request bị fasthttp thu hồi ngay khi response trả về,
// nên không được giữ lại cho công việc nền. Panic trong một handler được
// recover và log, không ảnh hưởng handler khác.
func Emit(e DomainEvent) {
	handlersMu.RLock()
	list := make([]DomainEventHandler, len(handlers))
	copy(list, handlers)
	handlersMu.RUnlock()

	ctx := context.Background()
	for _, h := range list {
		go func(fn DomainEventHandler) {
			defer func() {
				if r := recover(); r != nil {
					logger.GetAppLogger().
						WithField("eventType", e.Type).
						WithField("panic", r).
						Error("Panic trong handler sự kiện domain")
				}
			}()
			fn(ctx, e)
		}(h)
	}
}
