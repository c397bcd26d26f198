package main

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	claimmodels "farm_claims/internal/api/claim/models"
	"farm_claims/internal/global"
	"farm_claims/internal/logger"
)

// InitDefaultData khởi tạo dữ liệu mặc định cho hệ thống.
func InitDefaultData() {
	log := logger.GetAppLogger()

	// Đảm bảo document bộ đếm sampling tồn tại. Bộ đếm vẫn được upsert
	// khi dùng lần đầu, nhưng tạo sẵn giúp thao tác $inc đầu tiên không
	// phải cạnh tranh upsert khi nhiều request tới cùng lúc.
	col, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.ClaimCounters)
	if !exist {
		log.Fatal("Collection claim_counters chưa được đăng ký")
		return
	}

	now := time.Now().UnixMilli()
	filter := bson.M{"_id": claimmodels.ComplianceCheckCounterID}
	update := bson.M{"$setOnInsert": bson.M{
		"count":     int64(0),
		"createdAt": now,
		"updatedAt": now,
	}}
	_, err := col.UpdateOne(context.TODO(), filter, update, options.Update().SetUpsert(true))
	if err != nil {
		log.WithError(err).Warn("Không tạo được document bộ đếm sampling, sẽ được upsert khi dùng lần đầu")
		return
	}

	log.Info("Initialized default data")
}
