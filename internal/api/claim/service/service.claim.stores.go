package claimservice

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	basesvc "farm_claims/internal/api/base/service"
	"farm_claims/internal/api/claim/models"
	"farm_claims/internal/common"
	"farm_claims/internal/database"
	"farm_claims/internal/global"
	"farm_claims/internal/utility"
)

// ============================================================================
// STORE INTERFACES
// ============================================================================
// Các interface store tách business logic khỏi MongoDB để test được bằng fake.
// Mọi thao tác nhận context.Context: khi chạy trong transaction, context là
// session context và mọi thao tác qua đó là một phần của transaction.

// HerdStore là kho lưu các phiên bản herd (collection claim_herds).
type HerdStore interface {
	// Insert ghi một phiên bản herd mới. Trả về common.ErrMongoDuplicate
	// (qua ConvertMongoError) nếu cặp (herdId, version) đã tồn tại.
	Insert(ctx context.Context, herd *models.Herd) (*models.Herd, error)

	// FindCurrentById trả về phiên bản mới nhất của herd theo herdId.
	// Trả về common.ErrNotFound nếu herdId chưa tồn tại.
	FindCurrentById(ctx context.Context, herdID string) (*models.Herd, error)

	// MarkNotCurrent hạ cờ isCurrent của một phiên bản herd cụ thể.
	MarkNotCurrent(ctx context.Context, herdID string, version int) error
}

// ClaimStore là kho lưu claim (collection claims).
type ClaimStore interface {
	Insert(ctx context.Context, claim *models.Claim) (*models.Claim, error)
	FindByReference(ctx context.Context, reference string) (*models.Claim, error)
	FindByApplicationReference(ctx context.Context, appReference string) ([]*models.Claim, error)

	// FindByApplicationAndSpecies trả về các claim cùng application và cùng
	// loài vật nuôi, dùng cho bước áp herd hồi tố.
	FindByApplicationAndSpecies(ctx context.Context, appReference string, species string) ([]*models.Claim, error)

	// UpdateHerdSnapshot gắn snapshot herd và ghi update history cho một claim.
	UpdateHerdSnapshot(ctx context.Context, claimID interface{}, snapshot *models.HerdSnapshot, entry models.UpdateHistoryEntry) error
}

// CounterStore là bộ đếm sampling (collection claim_counters).
type CounterStore interface {
	// IncrementAndGet tăng bộ đếm nguyên tử và trả về giá trị sau khi tăng.
	IncrementAndGet(ctx context.Context) (int64, error)
}

// TxRunner chạy một hàm trong multi-document transaction.
type TxRunner interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ============================================================================
// MONGODB IMPLEMENTATIONS
// ============================================================================

// MongoHerdStore là HerdStore trên MongoDB.
type MongoHerdStore struct {
	*basesvc.BaseServiceMongoImpl[*models.Herd]
}

// NewMongoHerdStore tạo MongoHerdStore từ registry collection toàn cục.
func NewMongoHerdStore() (*MongoHerdStore, error) {
	colName := global.MongoDB_ColNames.ClaimHerds
	col, exist := global.RegistryCollections.Get(colName)
	if !exist {
		return nil, fmt.Errorf("không tìm thấy collection %s: %w", colName, common.ErrNotFound)
	}
	return &MongoHerdStore{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[*models.Herd](col),
	}, nil
}

func (s *MongoHerdStore) Insert(ctx context.Context, herd *models.Herd) (*models.Herd, error) {
	return s.InsertOne(ctx, herd)
}

func (s *MongoHerdStore) FindCurrentById(ctx context.Context, herdID string) (*models.Herd, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "version", Value: -1}})
	return s.FindOne(ctx, bson.M{"herdId": herdID}, opts)
}

func (s *MongoHerdStore) MarkNotCurrent(ctx context.Context, herdID string, version int) error {
	filter := bson.M{"herdId": herdID, "version": version}
	update := bson.M{"$set": bson.M{"isCurrent": false, "updatedAt": time.Now().UnixMilli()}}
	_, err := s.UpdateOne(ctx, filter, update, nil)
	return err
}

// MongoClaimStore là ClaimStore trên MongoDB.
type MongoClaimStore struct {
	*basesvc.BaseServiceMongoImpl[*models.Claim]
}

// NewMongoClaimStore tạo MongoClaimStore từ registry collection toàn cục.
func NewMongoClaimStore() (*MongoClaimStore, error) {
	colName := global.MongoDB_ColNames.Claims
	col, exist := global.RegistryCollections.Get(colName)
	if !exist {
		return nil, fmt.Errorf("không tìm thấy collection %s: %w", colName, common.ErrNotFound)
	}
	return &MongoClaimStore{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[*models.Claim](col),
	}, nil
}

func (s *MongoClaimStore) Insert(ctx context.Context, claim *models.Claim) (*models.Claim, error) {
	return s.InsertOne(ctx, claim)
}

func (s *MongoClaimStore) FindByReference(ctx context.Context, reference string) (*models.Claim, error) {
	return s.FindOne(ctx, bson.M{"reference": reference}, nil)
}

func (s *MongoClaimStore) FindByApplicationReference(ctx context.Context, appReference string) ([]*models.Claim, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return s.Find(ctx, bson.M{"applicationReference": appReference}, opts)
}

func (s *MongoClaimStore) FindByApplicationAndSpecies(ctx context.Context, appReference string, species string) ([]*models.Claim, error) {
	filter := bson.M{
		"applicationReference": appReference,
		"data.typeOfLivestock": species,
	}
	return s.Find(ctx, filter, nil)
}

func (s *MongoClaimStore) UpdateHerdSnapshot(ctx context.Context, claimID interface{}, snapshot *models.HerdSnapshot, entry models.UpdateHistoryEntry) error {
	var cb utility.CustomBson
	update, err := cb.Set(bson.M{"herd": snapshot, "updatedAt": time.Now().UnixMilli()})
	if err != nil {
		return err
	}
	push, err := cb.Push(bson.M{"updateHistory": entry})
	if err != nil {
		return err
	}
	for k, v := range push {
		update[k] = v
	}
	_, err = s.UpdateOne(ctx, bson.M{"_id": claimID}, update, nil)
	return err
}

// MongoCounterStore là CounterStore trên MongoDB, dùng một document singleton
// với $inc + upsert để bảo đảm giá trị trả về là duy nhất và đơn điệu.
type MongoCounterStore struct {
	collection *mongo.Collection
}

// NewMongoCounterStore tạo MongoCounterStore từ registry collection toàn cục.
func NewMongoCounterStore() (*MongoCounterStore, error) {
	colName := global.MongoDB_ColNames.ClaimCounters
	col, exist := global.RegistryCollections.Get(colName)
	if !exist {
		return nil, fmt.Errorf("không tìm thấy collection %s: %w", colName, common.ErrNotFound)
	}
	return &MongoCounterStore{collection: col}, nil
}

func (s *MongoCounterStore) IncrementAndGet(ctx context.Context) (int64, error) {
	now := time.Now().UnixMilli()
	filter := bson.M{"_id": models.ComplianceCheckCounterID}
	update := bson.M{
		"$inc":         bson.M{"count": 1},
		"$set":         bson.M{"updatedAt": now},
		"$setOnInsert": bson.M{"createdAt": now},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var counter models.ComplianceCheckCounter
	err := s.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&counter)
	if err != nil {
		return 0, common.ConvertMongoError(err)
	}
	return counter.Count, nil
}

// MongoTxRunner là TxRunner trên MongoDB session thật.
type MongoTxRunner struct {
	client *mongo.Client
}

// NewMongoTxRunner tạo MongoTxRunner từ mongo client toàn cục.
func NewMongoTxRunner() (*MongoTxRunner, error) {
	if global.MongoDB_Session == nil {
		return nil, fmt.Errorf("chưa khởi tạo kết nối MongoDB: %w", common.ErrConnection)
	}
	return &MongoTxRunner{client: global.MongoDB_Session}, nil
}

func (r *MongoTxRunner) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return database.WithTransaction(ctx, r.client, fn)
}
