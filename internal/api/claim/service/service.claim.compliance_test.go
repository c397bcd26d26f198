package claimservice

import (
	"context"
	"sync"
	"testing"

	"farm_claims/internal/api/claim/models"
)

func TestSampleStatus_RatioKhongDuong_LuonOnHold(t *testing.T) {
	counters := &fakeCounterStore{}
	for _, ratio := range []int{0, -1, -100} {
		sampler := NewComplianceSampler(counters, ratio, false, "")
		status, err := sampler.SampleStatus(context.Background(), "2026-05-01")
		if err != nil {
			t.Fatalf("ratio=%d: lỗi không mong đợi: %v", ratio, err)
		}
		if status != models.StatusOnHold {
			t.Errorf("ratio=%d: muốn %s, nhận %s", ratio, models.StatusOnHold, status)
		}
	}
	if counters.calls != 0 {
		t.Errorf("sampling tắt nhưng bộ đếm bị tăng %d lần", counters.calls)
	}
}

func TestSampleStatus_TheoRatio(t *testing.T) {
	counters := &fakeCounterStore{}
	sampler := NewComplianceSampler(counters, 3, false, "")

	var inCheck []int64
	for i := 1; i <= 9; i++ {
		status, err := sampler.SampleStatus(context.Background(), "2026-05-01")
		if err != nil {
			t.Fatalf("lần %d: lỗi không mong đợi: %v", i, err)
		}
		if status == models.StatusInCheck {
			inCheck = append(inCheck, int64(i))
		}
	}

	if len(inCheck) != 3 {
		t.Fatalf("ratio=3 với 9 lần gọi phải có 3 lần IN_CHECK, nhận %d", len(inCheck))
	}
	for i, n := range inCheck {
		want := int64((i + 1) * 3)
		if n != want {
			t.Errorf("lần IN_CHECK thứ %d phải là bội số %d, nhận %d", i+1, want, n)
		}
	}
}

func TestSampleStatus_BoDemBatDauTu4_Ratio1(t *testing.T) {
	counters := &fakeCounterStore{count: 4}
	sampler := NewComplianceSampler(counters, 1, false, "")

	status, err := sampler.SampleStatus(context.Background(), "2026-05-01")
	if err != nil {
		t.Fatalf("lỗi không mong đợi: %v", err)
	}
	if status != models.StatusInCheck {
		t.Errorf("ratio=1 luôn IN_CHECK, nhận %s", status)
	}
	if counters.count != 5 {
		t.Errorf("bộ đếm phải là 5 sau khi tăng, nhận %d", counters.count)
	}
}

func TestSampleStatus_DongThoi_KhongTrungGiaTri(t *testing.T) {
	counters := &fakeCounterStore{}
	sampler := NewComplianceSampler(counters, 5, false, "")

	const n = 50
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		inCheck int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			status, err := sampler.SampleStatus(context.Background(), "2026-05-01")
			if err != nil {
				t.Errorf("lỗi không mong đợi: %v", err)
				return
			}
			if status == models.StatusInCheck {
				mu.Lock()
				inCheck++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if counters.count != n {
		t.Errorf("bộ đếm phải là %d sau %d lần tăng, nhận %d", n, n, counters.count)
	}
	// 50 giá trị 1..50 với ratio 5: đúng 10 bội số của 5
	if inCheck != 10 {
		t.Errorf("phải có đúng 10 lần IN_CHECK, nhận %d", inCheck)
	}
}

func TestSampleStatus_CuaSoAssurance_VanTheoRatio(t *testing.T) {
	counters := &fakeCounterStore{}
	sampler := NewComplianceSampler(counters, 2, true, "2026-01-01")

	// Visit date nằm trong cửa sổ assurance: nhánh riêng chưa có hành vi
	// khác, quyết định vẫn theo ratio (n=1, 1%2 != 0)
	status, err := sampler.SampleStatus(context.Background(), "2026-06-15")
	if err != nil {
		t.Fatalf("lỗi không mong đợi: %v", err)
	}
	if status != models.StatusOnHold {
		t.Errorf("n=1 ratio=2 phải ON_HOLD, nhận %s", status)
	}
	if counters.calls != 1 {
		t.Errorf("bộ đếm phải được tăng đúng 1 lần, nhận %d", counters.calls)
	}
}

func TestSampleStatus_LoiBoDem_KhongCoFallback(t *testing.T) {
	counters := &fakeCounterStore{err: context.DeadlineExceeded}
	sampler := NewComplianceSampler(counters, 2, false, "")

	status, err := sampler.SampleStatus(context.Background(), "2026-05-01")
	if err == nil {
		t.Fatal("lỗi bộ đếm phải được trả về, không có trạng thái fallback")
	}
	if status != "" {
		t.Errorf("không được trả về trạng thái khi bộ đếm lỗi, nhận %q", status)
	}
}
