package delivery

import (
	"context"
	"sync"
	"testing"
	"time"

	appmodels "farm_claims/internal/api/application/models"
	"farm_claims/internal/api/events"
	deliverymodels "farm_claims/internal/delivery/models"
)

// fakeEnqueuer ghi lại các outbox item thay vì chèn vào MongoDB.
type fakeEnqueuer struct {
	mu    sync.Mutex
	items []*deliverymodels.OutboxItem
	added chan struct{}
}

func newFakeEnqueuer() *fakeEnqueuer {
	return &fakeEnqueuer{added: make(chan struct{}, 16)}
}

func (f *fakeEnqueuer) Enqueue(ctx context.Context, item *deliverymodels.OutboxItem) (*deliverymodels.OutboxItem, error) {
	f.mu.Lock()
	f.items = append(f.items, item)
	f.mu.Unlock()
	f.added <- struct{}{}
	return item, nil
}

// itemsFor lọc item theo reference vì registry handler là toàn cục
// và các test khác cũng phát sự kiện.
func (f *fakeEnqueuer) itemsFor(reference string) []*deliverymodels.OutboxItem {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*deliverymodels.OutboxItem
	for _, item := range f.items {
		if item.Reference == reference {
			out = append(out, item)
		}
	}
	return out
}

// waitFor chờ tới khi có đủ count item cho reference hoặc hết timeout.
func (f *fakeEnqueuer) waitFor(t *testing.T, reference string, count int) []*deliverymodels.OutboxItem {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		if items := f.itemsFor(reference); len(items) >= count {
			return items
		}
		select {
		case <-f.added:
		case <-deadline:
			t.Fatalf("không đủ %d outbox item cho %s sau 2s, có %d", count, reference, len(f.itemsFor(reference)))
		}
	}
}

type fakeAppLookup struct {
	app *appmodels.Application
}

func (f *fakeAppLookup) GetByReference(ctx context.Context, reference string) (*appmodels.Application, error) {
	return f.app, nil
}

func TestRegisterEventSink_ClaimCreatedGhiWebhookVaEmail(t *testing.T) {
	const ref = "RESH-SINK-0001"
	queue := newFakeEnqueuer()
	apps := &fakeAppLookup{app: &appmodels.Application{
		Reference:         "AHWR-SINK-0001",
		OrganisationEmail: "farm@example.com",
	}}
	RegisterEventSink(queue, apps)

	events.Emit(events.DomainEvent{
		Type:                 events.EventClaimCreated,
		Reference:            ref,
		ApplicationReference: "AHWR-SINK-0001",
		SBI:                  "123456789",
		Data:                 map[string]interface{}{"status": "ON_HOLD"},
	})

	items := queue.waitFor(t, ref, 2)
	if len(items) != 2 {
		t.Fatalf("phải có đúng 2 outbox item, có %d", len(items))
	}

	var webhook, email *deliverymodels.OutboxItem
	for _, item := range items {
		switch item.ChannelType {
		case deliverymodels.ChannelWebhook:
			webhook = item
		case deliverymodels.ChannelEmail:
			email = item
		}
	}
	if webhook == nil {
		t.Fatal("thiếu outbox item kênh webhook")
	}
	if email == nil {
		t.Fatal("thiếu outbox item kênh email xác nhận")
	}
	if email.Recipient != "farm@example.com" {
		t.Errorf("email xác nhận phải gửi tới organisation email, nhận %q", email.Recipient)
	}
	if email.EventType != events.EventClaimCreated {
		t.Errorf("eventType của email không khớp: %s", email.EventType)
	}
}

func TestRegisterEventSink_ApplicationKhongCoEmailChiGhiWebhook(t *testing.T) {
	const ref = "RESH-SINK-0002"
	queue := newFakeEnqueuer()
	apps := &fakeAppLookup{app: &appmodels.Application{Reference: "AHWR-SINK-0002"}}
	RegisterEventSink(queue, apps)

	events.Emit(events.DomainEvent{
		Type:                 events.EventClaimCreated,
		Reference:            ref,
		ApplicationReference: "AHWR-SINK-0002",
	})

	items := queue.waitFor(t, ref, 1)
	// Cho handler thời gian ghi thêm item email nếu có bug.
	time.Sleep(50 * time.Millisecond)
	items = queue.itemsFor(ref)
	if len(items) != 1 {
		t.Fatalf("application không có email thì chỉ được 1 item webhook, có %d", len(items))
	}
	if items[0].ChannelType != deliverymodels.ChannelWebhook {
		t.Errorf("kênh phải là webhook, nhận %s", items[0].ChannelType)
	}
}

func TestRegisterEventSink_SuKienHerdKhongGuiEmail(t *testing.T) {
	const ref = "RESH-SINK-0003"
	queue := newFakeEnqueuer()
	apps := &fakeAppLookup{app: &appmodels.Application{
		Reference:         "AHWR-SINK-0003",
		OrganisationEmail: "farm@example.com",
	}}
	RegisterEventSink(queue, apps)

	events.Emit(events.DomainEvent{
		Type:                 events.EventHerdVersionCreated,
		Reference:            ref,
		ApplicationReference: "AHWR-SINK-0003",
	})

	queue.waitFor(t, ref, 1)
	time.Sleep(50 * time.Millisecond)
	items := queue.itemsFor(ref)
	if len(items) != 1 || items[0].ChannelType != deliverymodels.ChannelWebhook {
		t.Fatalf("sự kiện herd chỉ được ghi 1 item webhook, có %d", len(items))
	}
}
