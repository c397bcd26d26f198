package events

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestEmit_HandlerNhanDuocSuKien(t *testing.T) {
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		received []DomainEvent
	)
	// Registry của handler là toàn cục nên phải lọc theo reference
	// để không nhận nhầm sự kiện của test khác.
	const ref = "RESH-AAAA-1111"
	wg.Add(1)
	OnDomainEvent(func(ctx context.Context, e DomainEvent) {
		if e.Reference != ref {
			return
		}
		mu.Lock()
		received = append(received, e)
		mu.Unlock()
		wg.Done()
	})

	Emit(DomainEvent{
		Type:      EventClaimCreated,
		Reference: ref,
		SBI:       "123456789",
	})

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("handler không nhận được sự kiện sau 2s")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(received) != 1 {
		t.Fatalf("phải nhận đúng 1 sự kiện, nhận %d", len(received))
	}
	if received[0].Type != EventClaimCreated || received[0].Reference != ref {
		t.Errorf("sự kiện nhận được không khớp: %+v", received[0])
	}
}

func TestEmit_ContextCuaHandlerTachKhoiCaller(t *testing.T) {
	// Caller (HTTP handler) đã trả response xong khi event chạy, nên context
	// mà handler nhận được không được gắn với vòng đời của request.
	const ref = "RESH-BBBB-2222"
	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		ctxErr error
	)
	wg.Add(1)
	OnDomainEvent(func(ctx context.Context, e DomainEvent) {
		if e.Reference != ref {
			return
		}
		mu.Lock()
		ctxErr = ctx.Err()
		mu.Unlock()
		wg.Done()
	})

	Emit(DomainEvent{Type: EventClaimCreated, Reference: ref})

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("handler không nhận được sự kiện sau 2s")
	}

	mu.Lock()
	defer mu.Unlock()
	if ctxErr != nil {
		t.Errorf("context của handler không được bị hủy, nhận lỗi: %v", ctxErr)
	}
}

func TestEmit_HandlerPanicKhongAnhHuongHandlerKhac(t *testing.T) {
	var wg sync.WaitGroup
	wg.Add(1)

	const ref = "herd-panic-test"
	OnDomainEvent(func(ctx context.Context, e DomainEvent) {
		if e.Reference == ref {
			panic("handler lỗi")
		}
	})
	OnDomainEvent(func(ctx context.Context, e DomainEvent) {
		if e.Reference == ref {
			wg.Done()
		}
	})

	Emit(DomainEvent{Type: EventHerdCreated, Reference: ref})

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("handler thứ hai phải vẫn chạy khi handler khác panic")
	}
}
