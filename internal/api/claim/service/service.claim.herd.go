package claimservice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"farm_claims/internal/api/claim/dto"
	"farm_claims/internal/api/claim/models"
	"farm_claims/internal/common"
	"farm_claims/internal/utility"
)

// Các lỗi xung đột phiên bản herd. Đây là lớp lỗi client sửa được:
// caller nên fetch lại trạng thái hiện tại rồi retry toàn bộ submission.
var (
	ErrHerdNotFound    = common.NewError(common.ErrCodeBusinessConflict, "Không tìm thấy herd với id đã cho", common.StatusConflict, nil)
	ErrHerdNotCurrent  = common.NewError(common.ErrCodeBusinessConflict, "Phiên bản herd đã bị thay thế, không thể sửa trên phiên bản cũ", common.StatusConflict, nil)
	ErrHerdSameVersion = common.NewError(common.ErrCodeBusinessConflict, "Phiên bản herd gửi lên trùng với phiên bản hiện tại", common.StatusConflict, nil)
)

// ResolvedHerd là kết quả của một lần resolve herd.
type ResolvedHerd struct {
	Herd       *models.Herd // Phiên bản hiện được coi là current
	WasChanged bool         // true nếu có phiên bản mới được ghi
	IsNewHerd  bool         // true nếu là herd hoàn toàn mới (version 1)
}

// HerdVersionResolver quyết định herd gửi lên là herd mới hay bản sửa
// của herd hiện có, phát hiện thay đổi thực chất, và ghi phiên bản cần
// lưu. Mọi thao tác ghi chạy qua context truyền vào, nên khi được gọi
// trong transaction thì các thao tác này thuộc transaction đó.
type HerdVersionResolver struct {
	herds HerdStore
}

// NewHerdVersionResolver tạo HerdVersionResolver.
func NewHerdVersionResolver(herds HerdStore) *HerdVersionResolver {
	return &HerdVersionResolver{herds: herds}
}

// Resolve xử lý một khai báo herd đính kèm claim.
//
// Tham số:
//   - ctx: Context (session context khi chạy trong transaction)
//   - input: Khai báo herd từ payload claim
//   - appReference: Reference của application
//   - species: Loài vật nuôi của claim
//   - createdBy: Người tạo
//
// Trả về:
//   - *ResolvedHerd: Phiên bản herd hiện hành sau khi resolve
//   - error: Lỗi xung đột phiên bản hoặc lỗi storage
func (r *HerdVersionResolver) Resolve(ctx context.Context, input *dto.HerdInput, appReference, species, createdBy string) (*ResolvedHerd, error) {
	if input.Version <= 1 {
		return r.createNewHerd(ctx, input, appReference, species, createdBy)
	}
	return r.reviseHerd(ctx, input, createdBy)
}

// createNewHerd ghi herd mới với version 1 và id sinh mới.
func (r *HerdVersionResolver) createNewHerd(ctx context.Context, input *dto.HerdInput, appReference, species, createdBy string) (*ResolvedHerd, error) {
	herd := &models.Herd{
		HerdID:               primitive.NewObjectID().Hex(),
		Version:              1,
		ApplicationReference: appReference,
		Species:              species,
		Name:                 input.Name,
		Cph:                  input.Cph,
		Reasons:              utility.SortedCopy(input.Reasons),
		CreatedBy:            createdBy,
		IsCurrent:            true,
	}

	inserted, err := r.herds.Insert(ctx, herd)
	if err != nil {
		return nil, fmt.Errorf("ghi herd mới thất bại: %w", err)
	}

	return &ResolvedHerd{Herd: inserted, WasChanged: true, IsNewHerd: true}, nil
}

// reviseHerd xử lý bản sửa của herd hiện có.
//
// Lần fetch trước khi ghi chỉ mang tính tham khảo: hàng rào thật chống
// hai writer cùng thắng là unique index trên (herdId, version). Khi hai
// transaction cùng chèn version N+1, đúng một bên nhận duplicate key.
func (r *HerdVersionResolver) reviseHerd(ctx context.Context, input *dto.HerdInput, createdBy string) (*ResolvedHerd, error) {
	existing, err := r.herds.FindCurrentById(ctx, input.ID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, ErrHerdNotFound
		}
		return nil, fmt.Errorf("tìm herd hiện tại thất bại: %w", err)
	}

	if !existing.IsCurrent {
		return nil, ErrHerdNotCurrent
	}
	if existing.Version == input.Version {
		return nil, ErrHerdSameVersion
	}

	incomingReasons := utility.SortedCopy(input.Reasons)
	if existing.Cph == input.Cph && utility.EqualStrings(utility.SortedCopy(existing.Reasons), incomingReasons) {
		// Không có thay đổi thực chất: không ghi phiên bản mới.
		return &ResolvedHerd{Herd: existing, WasChanged: false}, nil
	}

	next := &models.Herd{
		HerdID:               existing.HerdID,
		Version:              existing.Version + 1,
		ApplicationReference: existing.ApplicationReference,
		Species:              existing.Species,
		Name:                 existing.Name,
		Cph:                  input.Cph,
		Reasons:              incomingReasons,
		CreatedBy:            createdBy,
		IsCurrent:            true,
	}

	inserted, err := r.herds.Insert(ctx, next)
	if err != nil {
		if errors.Is(err, common.ErrMongoDuplicate) {
			// Writer khác vừa chèn cùng version: báo xung đột để caller retry.
			return nil, ErrHerdNotCurrent
		}
		return nil, fmt.Errorf("ghi phiên bản herd mới thất bại: %w", err)
	}

	if err := r.herds.MarkNotCurrent(ctx, existing.HerdID, existing.Version); err != nil {
		return nil, fmt.Errorf("hạ cờ isCurrent của phiên bản cũ thất bại: %w", err)
	}

	return &ResolvedHerd{Herd: inserted, WasChanged: true}, nil
}

// SnapshotOf dựng snapshot herd để gắn vào claim.
func SnapshotOf(herd *models.Herd) *models.HerdSnapshot {
	return &models.HerdSnapshot{
		ID:           herd.HerdID,
		Version:      herd.Version,
		Cph:          herd.Cph,
		Name:         herd.Name,
		Reasons:      herd.Reasons,
		AssociatedAt: time.Now().UTC().Format(time.RFC3339),
	}
}
