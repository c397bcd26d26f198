package claimservice

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"farm_claims/internal/api/claim/dto"
	"farm_claims/internal/api/claim/models"
	"farm_claims/internal/api/events"
	"farm_claims/internal/common"
	"farm_claims/internal/global"
	"farm_claims/internal/logger"
	"farm_claims/internal/utility"
)

// CreateClaimResult là kết quả của một lần tạo claim.
type CreateClaimResult struct {
	Claim          *models.Claim `json:"claim"`
	HerdGotUpdated bool          `json:"herdGotUpdated"`
	HerdData       *models.Herd  `json:"herdData,omitempty"`
}

// ClaimService điều phối toàn bộ luồng tạo claim: resolve herd, sampling
// trạng thái và chèn claim trong MỘT transaction; backfill và phát event
// chỉ chạy sau khi commit thành công.
type ClaimService struct {
	claims     ClaimStore
	herds      HerdStore
	sampler    *ComplianceSampler
	resolver   *HerdVersionResolver
	backfiller *HerdBackfillPropagator
	tx         TxRunner
	log        *logrus.Logger
}

// NewClaimService tạo ClaimService với các store MongoDB thật.
func NewClaimService() (*ClaimService, error) {
	claims, err := NewMongoClaimStore()
	if err != nil {
		return nil, err
	}
	herds, err := NewMongoHerdStore()
	if err != nil {
		return nil, err
	}
	counters, err := NewMongoCounterStore()
	if err != nil {
		return nil, err
	}
	tx, err := NewMongoTxRunner()
	if err != nil {
		return nil, err
	}

	cfg := global.MongoDB_ServerConfig
	sampler := NewComplianceSampler(counters, cfg.ComplianceCheckRatio, cfg.AssuranceEnabled, cfg.AssuranceStartDate)

	return NewClaimServiceWith(claims, herds, sampler, tx), nil
}

// NewClaimServiceWith tạo ClaimService từ các collaborator cho trước.
func NewClaimServiceWith(claims ClaimStore, herds HerdStore, sampler *ComplianceSampler, tx TxRunner) *ClaimService {
	return &ClaimService{
		claims:     claims,
		herds:      herds,
		sampler:    sampler,
		resolver:   NewHerdVersionResolver(herds),
		backfiller: NewHerdBackfillPropagator(claims),
		tx:         tx,
		log:        logger.GetAppLogger(),
	}
}

// CreateClaim biến một submission đã validate thành claim được lưu.
//
// Các bước 1-4 chạy trong một transaction: lỗi ở bất kỳ bước nào thì
// cả phiên bản herd lẫn claim đều không được nhìn thấy. Backfill và
// domain event chạy SAU commit, ngoài transaction.
//
// Tham số:
//   - ctx: Context ngoài transaction
//   - sbi: Số SBI của farm
//   - input: Payload claim đã qua validator
//   - isMultiHerdsClaim: Claim có thuộc luồng nhiều herd không
//
// Trả về:
//   - *CreateClaimResult: Claim đã lưu kèm thông tin herd
//   - error: Lỗi validate, xung đột phiên bản herd, hoặc lỗi storage
func (s *ClaimService) CreateClaim(ctx context.Context, sbi string, input *dto.ClaimCreateInput, isMultiHerdsClaim bool) (*CreateClaimResult, error) {
	species, ok := input.Data["typeOfLivestock"].(string)
	if !ok || !models.ValidSpecies(species) {
		return nil, fmt.Errorf("%w: typeOfLivestock không hợp lệ", common.ErrInvalidInput)
	}

	herdInput, err := input.ExtractHerd()
	if err != nil {
		return nil, err
	}
	if isMultiHerdsClaim && herdInput == nil {
		return nil, fmt.Errorf("%w: claim nhiều herd phải có dữ liệu herd", common.ErrRequiredField)
	}

	reference, err := GenerateClaimReference(input.Type, species)
	if err != nil {
		return nil, err
	}
	amount, err := AmountFor(input.Type, species)
	if err != nil {
		return nil, err
	}
	visitDate, _ := input.Data["dateOfVisit"].(string)

	var (
		result        *CreateClaimResult
		pendingEvents []events.DomainEvent
	)

	err = s.tx.WithTransaction(ctx, func(sessCtx context.Context) error {
		// Transaction có thể bị driver retry khi gặp lỗi transient,
		// nên mọi state của closure phải được reset ở đầu mỗi lần chạy.
		result = nil
		pendingEvents = pendingEvents[:0]

		var resolved *ResolvedHerd
		if isMultiHerdsClaim {
			resolved, err = s.resolver.Resolve(sessCtx, herdInput, input.ApplicationReference, species, input.CreatedBy)
			if err != nil {
				return err
			}
			if resolved.WasChanged {
				eventType := events.EventHerdVersionCreated
				if resolved.IsNewHerd {
					eventType = events.EventHerdCreated
				}
				pendingEvents = append(pendingEvents, events.DomainEvent{
					Type:                 eventType,
					Reference:            reference,
					ApplicationReference: input.ApplicationReference,
					SBI:                  sbi,
					Data: map[string]interface{}{
						"herdId":      resolved.Herd.HerdID,
						"herdVersion": resolved.Herd.Version,
					},
				})
			}
		}

		// Dùng ctx NGOÀI transaction cho bộ đếm: giá trị phải duy nhất
		// giữa các transaction song song chưa commit, nên thao tác $inc
		// không được nằm trong snapshot isolation của transaction này.
		status, err := s.sampler.SampleStatus(ctx, visitDate)
		if err != nil {
			return err
		}

		now := time.Now().UnixMilli()
		data := utility.CloneMap(input.Data, "herd")
		data["amount"] = amount

		claim := &models.Claim{
			Reference:            reference,
			ApplicationReference: input.ApplicationReference,
			SBI:                  sbi,
			Type:                 input.Type,
			Status:               status,
			Data:                 data,
			StatusHistory: []models.StatusHistoryEntry{
				{Status: status, ChangedBy: input.CreatedBy, ChangedAt: now},
			},
			UpdateHistory: []models.UpdateHistoryEntry{},
			CreatedBy:     input.CreatedBy,
		}
		if resolved != nil {
			claim.Herd = SnapshotOf(resolved.Herd)
		}

		inserted, err := s.claims.Insert(sessCtx, claim)
		if err != nil {
			return fmt.Errorf("chèn claim thất bại: %w", err)
		}

		pendingEvents = append(pendingEvents, events.DomainEvent{
			Type:                 events.EventClaimCreated,
			Reference:            inserted.Reference,
			ApplicationReference: inserted.ApplicationReference,
			SBI:                  sbi,
			Data: map[string]interface{}{
				"status": inserted.Status,
				"type":   inserted.Type,
			},
		})

		result = &CreateClaimResult{Claim: inserted, HerdGotUpdated: resolved != nil && resolved.WasChanged}
		if resolved != nil {
			result.HerdData = resolved.Herd
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Từ đây trở đi transaction đã commit: event và backfill không được
	// làm hỏng claim vừa tạo.
	for _, event := range pendingEvents {
		events.Emit(event)
	}

	if isMultiHerdsClaim && herdInput.Same == "yes" && result.HerdData != nil {
		snapshot := result.Claim.Herd
		updated, err := s.backfiller.Propagate(ctx, snapshot, input.ApplicationReference, species, input.CreatedBy)
		if err != nil {
			s.log.WithFields(logrus.Fields{
				"claimReference":       result.Claim.Reference,
				"applicationReference": input.ApplicationReference,
				"error":                err.Error(),
			}).Warn("Backfill herd cho các claim cũ thất bại")
		} else if updated > 0 {
			s.log.WithFields(logrus.Fields{
				"claimReference": result.Claim.Reference,
				"updatedClaims":  updated,
			}).Info("Đã áp herd hồi tố cho các claim cũ")
		}
	}

	return result, nil
}

// GetByReference tìm claim theo reference duy nhất.
func (s *ClaimService) GetByReference(ctx context.Context, reference string) (*models.Claim, error) {
	return s.claims.FindByReference(ctx, reference)
}

// GetByApplicationReference liệt kê claim của một application.
func (s *ClaimService) GetByApplicationReference(ctx context.Context, appReference string) ([]*models.Claim, error) {
	return s.claims.FindByApplicationReference(ctx, appReference)
}
