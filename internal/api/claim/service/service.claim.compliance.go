package claimservice

import (
	"context"
	"time"

	"farm_claims/internal/api/claim/models"
)

// ComplianceSampler quyết định trạng thái ban đầu của claim dựa trên
// bộ đếm toàn cục: cứ complianceCheckRatio claim thì có một claim
// được gắn cờ kiểm tra thủ công (IN_CHECK), phần còn lại là ON_HOLD.
type ComplianceSampler struct {
	counters CounterStore

	// Ratio <= 0 nghĩa là tắt sampling: mọi claim đều ON_HOLD và
	// bộ đếm không bị tăng.
	Ratio int

	// Cửa sổ assurance: khi bật và visit date nằm trong cửa sổ, nhánh
	// riêng được giữ chỗ cho logic tương lai nhưng hiện tại vẫn rơi
	// về quyết định theo ratio. Không được gộp nhánh này đi.
	AssuranceEnabled   bool
	AssuranceStartDate string
}

// NewComplianceSampler tạo ComplianceSampler.
func NewComplianceSampler(counters CounterStore, ratio int, assuranceEnabled bool, assuranceStartDate string) *ComplianceSampler {
	return &ComplianceSampler{
		counters:           counters,
		Ratio:              ratio,
		AssuranceEnabled:   assuranceEnabled,
		AssuranceStartDate: assuranceStartDate,
	}
}

// SampleStatus trả về trạng thái ban đầu cho một claim với visit date cho trước.
//
// Tham số:
//   - ctx: Context. Lưu ý: phải là context NGOÀI transaction của claim,
//     để giá trị bộ đếm là duy nhất giữa các transaction chạy song song
//     chưa commit.
//   - visitDate: Ngày thăm trại dạng "2006-01-02".
//
// Trả về:
//   - string: models.StatusInCheck hoặc models.StatusOnHold.
//   - error: Lỗi từ counter store. Không có trạng thái fallback khi
//     bộ đếm không khả dụng.
func (s *ComplianceSampler) SampleStatus(ctx context.Context, visitDate string) (string, error) {
	if s.Ratio <= 0 {
		return models.StatusOnHold, nil
	}

	if s.insideAssuranceWindow(visitDate) {
		// Giữ chỗ cho xử lý riêng của cửa sổ assurance.
		// Hiện tại vẫn dùng quyết định theo ratio bên dưới.
	}

	n, err := s.counters.IncrementAndGet(ctx)
	if err != nil {
		return "", err
	}

	if n%int64(s.Ratio) == 0 {
		return models.StatusInCheck, nil
	}
	return models.StatusOnHold, nil
}

// insideAssuranceWindow kiểm tra visit date có nằm trong cửa sổ assurance không.
func (s *ComplianceSampler) insideAssuranceWindow(visitDate string) bool {
	if !s.AssuranceEnabled || s.AssuranceStartDate == "" {
		return false
	}
	start, err := time.Parse("2006-01-02", s.AssuranceStartDate)
	if err != nil {
		return false
	}
	visit, err := time.Parse("2006-01-02", visitDate)
	if err != nil {
		return false
	}
	return !visit.Before(start)
}
