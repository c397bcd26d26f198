package claimservice

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"farm_claims/internal/api/claim/models"
	"farm_claims/internal/logger"
)

// backfillMaxConcurrent giới hạn số claim được cập nhật song song.
const backfillMaxConcurrent = 5

// HerdBackfillPropagator áp danh tính herd đã resolve lên các claim cũ
// cùng application và species mà chưa có dữ liệu herd.
//
// Bước này chạy NGOÀI transaction tạo claim và là best-effort: lỗi trên
// từng claim chỉ được log, không làm hỏng claim vừa tạo. Chính sách
// catch-log-continue ở đây là chủ đích, khác với phần trong transaction.
type HerdBackfillPropagator struct {
	claims ClaimStore
	log    *logrus.Logger
}

// NewHerdBackfillPropagator tạo HerdBackfillPropagator.
func NewHerdBackfillPropagator(claims ClaimStore) *HerdBackfillPropagator {
	return &HerdBackfillPropagator{
		claims: claims,
		log:    logger.GetAppLogger(),
	}
}

// Propagate gắn snapshot herd lên mọi claim cũ chưa có herd.
//
// Tham số:
//   - ctx: Context (KHÔNG phải session context của transaction)
//   - snapshot: Snapshot herd vừa resolve
//   - appReference: Reference của application
//   - species: Loài vật nuôi
//   - updatedBy: Người gây ra cập nhật
//
// Trả về:
//   - int: Số claim đã cập nhật thành công
//   - error: Chỉ khi không fetch được danh sách claim; lỗi cập nhật
//     từng claim không được trả về
func (p *HerdBackfillPropagator) Propagate(ctx context.Context, snapshot *models.HerdSnapshot, appReference, species, updatedBy string) (int, error) {
	claims, err := p.claims.FindByApplicationAndSpecies(ctx, appReference, species)
	if err != nil {
		return 0, err
	}

	var pending []*models.Claim
	for _, claim := range claims {
		if !claim.HasHerd() {
			pending = append(pending, claim)
		}
	}
	if len(pending) == 0 {
		return 0, nil
	}

	var (
		wg      sync.WaitGroup
		sem     = make(chan struct{}, backfillMaxConcurrent)
		mu      sync.Mutex
		updated int
	)

	for _, claim := range pending {
		wg.Add(1)
		sem <- struct{}{}
		go func(claim *models.Claim) {
			defer wg.Done()
			defer func() { <-sem }()

			entry := models.UpdateHistoryEntry{
				Field:     "herd",
				Note:      "Thông tin herd được áp hồi tố cho claim tạo trước khi hỗ trợ nhiều herd",
				OldValue:  models.UnnamedHerdValue,
				NewValue:  snapshot.Name,
				UpdatedBy: updatedBy,
				UpdatedAt: time.Now().UnixMilli(),
			}

			if err := p.claims.UpdateHerdSnapshot(ctx, claim.ID, snapshot, entry); err != nil {
				p.log.WithFields(logrus.Fields{
					"claimReference":       claim.Reference,
					"applicationReference": appReference,
					"herdId":               snapshot.ID,
					"error":                err.Error(),
				}).Warn("Áp herd hồi tố cho claim thất bại")
				return
			}

			mu.Lock()
			updated++
			mu.Unlock()
		}(claim)
	}

	wg.Wait()
	return updated, nil
}
