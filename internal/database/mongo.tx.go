package database

import (
	"context"
	"errors"
	"fmt"

	"farm_claims/internal/common"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
)

// WithTransaction chạy fn trong một multi-document transaction của MongoDB.
// Context truyền vào fn là session context - mọi thao tác collection dùng context
// này sẽ tham gia transaction; thao tác dùng context khác nằm ngoài transaction.
// Driver có thể gọi lại fn khi transaction bị transient error, nên fn phải viết
// theo kiểu có thể chạy lại được.
//
// Tham số:
// - ctx: Context gốc của request.
// - client: Kết nối MongoDB (transaction yêu cầu replica set).
// - fn: Thân transaction, trả về lỗi sẽ khiến toàn bộ transaction bị abort.
//
// Trả về:
// - error: common.ErrTransaction wrap lỗi gốc khi transaction thất bại.
func WithTransaction(ctx context.Context, client *mongo.Client, fn func(ctx context.Context) error) error {
	session, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrTransaction, err)
	}
	defer session.EndSession(ctx)

	txOpts := options.Transaction().
		SetReadConcern(readconcern.Snapshot()).
		SetWriteConcern(writeconcern.Majority())

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		return nil, fn(sessCtx)
	}, txOpts)
	if err != nil {
		// Giữ nguyên lỗi nghiệp vụ để caller phân biệt với lỗi hạ tầng
		var appErr *common.Error
		if errors.As(err, &appErr) {
			return err
		}
		return fmt.Errorf("%w: %v", common.ErrTransaction, err)
	}
	return nil
}
