package global

import (
	"farm_claims/config"
	"farm_claims/internal/registry"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoDB_CollectionName chứa tên các collection trong MongoDB
type MongoDB_CollectionName struct {
	Applications  string // Tên collection cho đơn đăng ký chương trình
	Claims        string // Tên collection cho claim
	ClaimHerds    string // Tên collection cho các phiên bản đàn vật nuôi
	ClaimCounters string // Tên collection cho bộ đếm sampling

	// Delivery System Collections
	EventOutbox string // Tên collection cho outbox sự kiện nghiệp vụ
}

// Các biến toàn cục
var Validate *validator.Validate                       // Biến để xác thực dữ liệu
var MongoDB_Session *mongo.Client                      // Phiên kết nối tới MongoDB
var MongoDB_ServerConfig *config.Configuration         // Cấu hình của server
var MongoDB_ColNames = *new(MongoDB_CollectionName)    // Tên các collection

// Các Registry
var RegistryCollections = registry.NewRegistry[*mongo.Collection]() // Registry chứa các collections
var RegistryDatabase = registry.NewRegistry[*mongo.Database]()      // Registry chứa các databases
