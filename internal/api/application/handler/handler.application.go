// Package apphdl - Handler HTTP cho application.
package apphdl

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	appdto "farm_claims/internal/api/application/dto"
	appsvc "farm_claims/internal/api/application/service"
	basehdl "farm_claims/internal/api/base/handler"
	"farm_claims/internal/common"
	"farm_claims/internal/global"
	"farm_claims/internal/logger"
)

// ApplicationHandler xử lý các route application.
type ApplicationHandler struct {
	ApplicationService *appsvc.ApplicationService
}

// NewApplicationHandler tạo ApplicationHandler mới.
func NewApplicationHandler() (*ApplicationHandler, error) {
	svc, err := appsvc.NewApplicationService()
	if err != nil {
		return nil, fmt.Errorf("tạo ApplicationService: %w", err)
	}
	return &ApplicationHandler{ApplicationService: svc}, nil
}

// HandleCreate xử lý POST /applications.
func (h *ApplicationHandler) HandleCreate(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		var input appdto.ApplicationCreateInput
		if err := c.Bind().Body(&input); err != nil {
			basehdl.HandleResponse(c, nil, fmt.Errorf("%w: body không đúng định dạng JSON", common.ErrInvalidFormat))
			return nil
		}
		if err := global.Validate.Struct(&input); err != nil {
			basehdl.HandleResponse(c, nil, fmt.Errorf("%w: %v", common.ErrInvalidInput, err))
			return nil
		}

		application, err := h.ApplicationService.CreateApplication(c.Context(), &input)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}

		logger.LogAction("application_created", c, map[string]interface{}{
			"reference": application.Reference,
			"sbi":       application.SBI,
		})
		basehdl.HandleCreated(c, application)
		return nil
	})
}

// HandleGetByReference xử lý GET /applications/get-by-reference/:reference.
func (h *ApplicationHandler) HandleGetByReference(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		reference := c.Params("reference")
		if reference == "" {
			basehdl.HandleResponse(c, nil, fmt.Errorf("%w: thiếu reference", common.ErrRequiredField))
			return nil
		}
		application, err := h.ApplicationService.GetByReference(c.Context(), reference)
		basehdl.HandleResponse(c, application, err)
		return nil
	})
}
