// Package claimhdl - Handler HTTP cho claim.
package claimhdl

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v3"

	appsvc "farm_claims/internal/api/application/service"
	basehdl "farm_claims/internal/api/base/handler"
	claimdto "farm_claims/internal/api/claim/dto"
	claimsvc "farm_claims/internal/api/claim/service"
	"farm_claims/internal/common"
	"farm_claims/internal/global"
	"farm_claims/internal/logger"
	"farm_claims/internal/utility"
)

// ClaimHandler xử lý các route claim.
type ClaimHandler struct {
	ClaimService       *claimsvc.ClaimService
	ApplicationService *appsvc.ApplicationService

	// Cache kết quả kiểm tra application tồn tại. Application hiếm khi
	// đổi trạng thái nên không cần hit database mỗi lần submit claim.
	appExistsCache *utility.Cache
}

// NewClaimHandler tạo ClaimHandler mới.
func NewClaimHandler() (*ClaimHandler, error) {
	claimService, err := claimsvc.NewClaimService()
	if err != nil {
		return nil, fmt.Errorf("tạo ClaimService: %w", err)
	}
	applicationService, err := appsvc.NewApplicationService()
	if err != nil {
		return nil, fmt.Errorf("tạo ApplicationService: %w", err)
	}
	return &ClaimHandler{
		ClaimService:       claimService,
		ApplicationService: applicationService,
		appExistsCache:     utility.NewCache(5*time.Minute, 10*time.Minute),
	}, nil
}

// applicationExists kiểm tra application còn hiệu lực, ưu tiên cache.
// Chỉ cache kết quả dương để application mới đăng ký dùng được ngay.
func (h *ClaimHandler) applicationExists(c fiber.Ctx, reference string) (bool, error) {
	if _, ok := h.appExistsCache.Get(reference); ok {
		return true, nil
	}
	exists, err := h.ApplicationService.ExistsByReference(c.Context(), reference)
	if err != nil {
		return false, err
	}
	if exists {
		h.appExistsCache.Set(reference, true)
	}
	return exists, nil
}

// HandleCreate xử lý POST /claims.
//
// Header X-SBI mang số SBI của farm gửi claim. Claim có dữ liệu herd
// trong payload được coi là claim thuộc luồng nhiều herd.
func (h *ClaimHandler) HandleCreate(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		sbi := c.Get("X-SBI")
		if sbi == "" {
			basehdl.HandleResponse(c, nil, fmt.Errorf("%w: thiếu header X-SBI", common.ErrRequiredField))
			return nil
		}

		var input claimdto.ClaimCreateInput
		if err := c.Bind().Body(&input); err != nil {
			basehdl.HandleResponse(c, nil, fmt.Errorf("%w: body không đúng định dạng JSON", common.ErrInvalidFormat))
			return nil
		}
		if err := global.Validate.Struct(&input); err != nil {
			basehdl.HandleResponse(c, nil, fmt.Errorf("%w: %v", common.ErrInvalidInput, err))
			return nil
		}

		herdInput, err := input.ExtractHerd()
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		if herdInput != nil {
			if err := global.Validate.Struct(herdInput); err != nil {
				basehdl.HandleResponse(c, nil, fmt.Errorf("%w: herd không hợp lệ: %v", common.ErrInvalidInput, err))
				return nil
			}
		}

		exists, err := h.applicationExists(c, input.ApplicationReference)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		if !exists {
			basehdl.HandleResponse(c, nil, fmt.Errorf("%w: application %s không tồn tại hoặc đã hết hiệu lực", common.ErrNotFound, input.ApplicationReference))
			return nil
		}

		isMultiHerdsClaim := herdInput != nil
		result, err := h.ClaimService.CreateClaim(c.Context(), sbi, &input, isMultiHerdsClaim)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}

		logger.LogClaim("created", result.Claim.Reference, c, map[string]interface{}{
			"applicationReference": result.Claim.ApplicationReference,
			"status":               result.Claim.Status,
			"herdGotUpdated":       result.HerdGotUpdated,
		})
		basehdl.HandleCreated(c, result)
		return nil
	})
}

// HandleGetByReference xử lý GET /claims/get-by-reference/:reference.
func (h *ClaimHandler) HandleGetByReference(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		reference := c.Params("reference")
		if reference == "" {
			basehdl.HandleResponse(c, nil, fmt.Errorf("%w: thiếu reference", common.ErrRequiredField))
			return nil
		}
		claim, err := h.ClaimService.GetByReference(c.Context(), reference)
		basehdl.HandleResponse(c, claim, err)
		return nil
	})
}

// HandleGetByApplicationReference xử lý GET /claims/get-by-application-reference/:reference.
func (h *ClaimHandler) HandleGetByApplicationReference(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		reference := c.Params("reference")
		if reference == "" {
			basehdl.HandleResponse(c, nil, fmt.Errorf("%w: thiếu reference", common.ErrRequiredField))
			return nil
		}
		claims, err := h.ClaimService.GetByApplicationReference(c.Context(), reference)
		basehdl.HandleResponse(c, claims, err)
		return nil
	})
}
