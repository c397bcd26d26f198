// Package appservice - Service nghiệp vụ cho application.
package appservice

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"

	"go.mongodb.org/mongo-driver/bson"

	appdto "farm_claims/internal/api/application/dto"
	appmodels "farm_claims/internal/api/application/models"
	basesvc "farm_claims/internal/api/base/service"
	"farm_claims/internal/common"
	"farm_claims/internal/global"
)

// applicationReferenceAlphabet bỏ các ký tự dễ nhầm lẫn (I, O, 0, U).
const applicationReferenceAlphabet = "ABCDEFGHJKLMNPQRSTVWXYZ123456789"

// ApplicationService xử lý nghiệp vụ application.
type ApplicationService struct {
	*basesvc.BaseServiceMongoImpl[*appmodels.Application]
}

// NewApplicationService tạo ApplicationService từ registry collection toàn cục.
func NewApplicationService() (*ApplicationService, error) {
	colName := global.MongoDB_ColNames.Applications
	col, exist := global.RegistryCollections.Get(colName)
	if !exist {
		return nil, fmt.Errorf("không tìm thấy collection %s: %w", colName, common.ErrNotFound)
	}
	return &ApplicationService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[*appmodels.Application](col),
	}, nil
}

// CreateApplication đăng ký application mới với reference sinh tự động.
func (s *ApplicationService) CreateApplication(ctx context.Context, input *appdto.ApplicationCreateInput) (*appmodels.Application, error) {
	reference, err := generateApplicationReference()
	if err != nil {
		return nil, err
	}

	application := &appmodels.Application{
		Reference:         reference,
		SBI:               input.SBI,
		OrganisationName:  input.OrganisationName,
		OrganisationEmail: input.OrganisationEmail,
		Status:            appmodels.ApplicationStatusAgreed,
		Data:              input.Data,
		CreatedBy:         input.CreatedBy,
	}

	return s.InsertOne(ctx, application)
}

// GetByReference tìm application theo reference.
func (s *ApplicationService) GetByReference(ctx context.Context, reference string) (*appmodels.Application, error) {
	return s.FindOne(ctx, bson.M{"reference": reference}, nil)
}

// ExistsByReference kiểm tra application có tồn tại và còn hiệu lực không.
func (s *ApplicationService) ExistsByReference(ctx context.Context, reference string) (bool, error) {
	filter := bson.M{
		"reference": reference,
		"status":    appmodels.ApplicationStatusAgreed,
	}
	return s.DocumentExists(ctx, filter)
}

// generateApplicationReference sinh reference dạng AHWR-XXXX-XXXX.
func generateApplicationReference() (string, error) {
	max := big.NewInt(int64(len(applicationReferenceAlphabet)))
	blocks := [2]string{}
	for b := range blocks {
		chars := make([]byte, 4)
		for i := range chars {
			idx, err := rand.Int(rand.Reader, max)
			if err != nil {
				return "", fmt.Errorf("sinh ký tự ngẫu nhiên thất bại: %w", err)
			}
			chars[i] = applicationReferenceAlphabet[idx.Int64()]
		}
		blocks[b] = string(chars)
	}
	return fmt.Sprintf("AHWR-%s-%s", blocks[0], blocks[1]), nil
}
