package main

import (
	"context"

	"github.com/sirupsen/logrus"

	"farm_claims/config"
	appmodels "farm_claims/internal/api/application/models"
	claimmodels "farm_claims/internal/api/claim/models"
	"farm_claims/internal/database"
	deliverymodels "farm_claims/internal/delivery/models"
	"farm_claims/internal/global"
)

// Hàm khởi tạo các biến toàn cục
func InitGlobal() {
	initColNames()         // Khởi tạo tên các collection trong database
	initValidator()        // Khởi tạo validator
	initConfig()           // Khởi tạo cấu hình server
	initDatabase_MongoDB() // Khởi tạo kết nối database
}

// Hàm khởi tạo tên các collection trong database
func initColNames() {
	global.MongoDB_ColNames.Applications = "applications"
	global.MongoDB_ColNames.Claims = "claims"
	global.MongoDB_ColNames.ClaimHerds = "claim_herds"
	global.MongoDB_ColNames.ClaimCounters = "claim_counters"
	global.MongoDB_ColNames.EventOutbox = "event_outbox"

	logrus.Info("Initialized collection names")
}

// Hàm khởi tạo validator (đăng ký custom validators: no_xss, cph, sbi, visit_date, herd_reason)
func initValidator() {
	global.InitValidator()
	logrus.Info("Initialized validator")
}

// Hàm khởi tạo cấu hình server
func initConfig() {
	global.MongoDB_ServerConfig = config.NewConfig()
	if global.MongoDB_ServerConfig == nil {
		logrus.Fatalf("Failed to initialize config: config is nil")
	}
	logrus.Info("Initialized server config")
}

// Hàm khởi tạo kết nối database
func initDatabase_MongoDB() {
	var err error
	global.MongoDB_Session, err = database.GetInstance(global.MongoDB_ServerConfig)
	if err != nil {
		logrus.Fatalf("Failed to get database instance: %v", err)
	}
	logrus.Info("Connected to MongoDB")

	// Khởi tạo db và các collection nếu chưa có. Multi-document transaction
	// yêu cầu collection phải tồn tại trước khi transaction chạy.
	database.EnsureDatabaseAndCollections(global.MongoDB_Session)
	logrus.Info("Ensured database and collections")

	// Khởi tạo các index cho các collection
	dbName := global.MongoDB_ServerConfig.MongoDB_DBName
	db := global.MongoDB_Session.Database(dbName)
	database.CreateIndexes(context.TODO(), db.Collection(global.MongoDB_ColNames.Applications), appmodels.Application{})
	database.CreateIndexes(context.TODO(), db.Collection(global.MongoDB_ColNames.Claims), claimmodels.Claim{})
	database.CreateIndexes(context.TODO(), db.Collection(global.MongoDB_ColNames.ClaimHerds), claimmodels.Herd{})
	database.CreateIndexes(context.TODO(), db.Collection(global.MongoDB_ColNames.EventOutbox), deliverymodels.OutboxItem{})
	logrus.Info("Created indexes")
}
