// Package models - các hằng số nghiệp vụ của domain claim.
package models

// Trạng thái vòng đời của một claim.
const (
	// StatusOnHold - claim mới nộp, chờ xử lý bình thường.
	StatusOnHold = "ON_HOLD"
	// StatusInCheck - claim bị chọn vào diện kiểm tra tuân thủ theo sampling.
	StatusInCheck = "IN_CHECK"
	// StatusAgreed - claim đã được duyệt.
	StatusAgreed = "AGREED"
	// StatusReadyToPay - claim đã duyệt và sẵn sàng thanh toán.
	StatusReadyToPay = "READY_TO_PAY"
	// StatusPaid - claim đã thanh toán.
	StatusPaid = "PAID"
	// StatusRejected - claim bị từ chối.
	StatusRejected = "REJECTED"
	// StatusWithdrawn - claim bị chủ trang trại rút lại.
	StatusWithdrawn = "WITHDRAWN"
)

// Loại claim.
const (
	// ClaimTypeReview - claim cho đợt thăm khám sức khỏe định kỳ.
	ClaimTypeReview = "R"
	// ClaimTypeFollowUp - claim cho đợt theo dõi dịch bệnh đặc hữu sau thăm khám.
	ClaimTypeFollowUp = "E"
)

// Loài vật nuôi được chương trình hỗ trợ.
const (
	SpeciesBeef  = "beef"
	SpeciesDairy = "dairy"
	SpeciesPigs  = "pigs"
	SpeciesSheep = "sheep"
)

// ValidSpecies kiểm tra loài vật nuôi có được hỗ trợ không.
func ValidSpecies(species string) bool {
	switch species {
	case SpeciesBeef, SpeciesDairy, SpeciesPigs, SpeciesSheep:
		return true
	}
	return false
}

// ValidClaimType kiểm tra loại claim có hợp lệ không.
func ValidClaimType(claimType string) bool {
	return claimType == ClaimTypeReview || claimType == ClaimTypeFollowUp
}

// UnnamedHerdValue là giá trị hiển thị cho các claim cũ chưa khai báo đàn,
// dùng làm oldValue trong updateHistory khi backfill thông tin đàn.
const UnnamedHerdValue = "Unnamed herd"
