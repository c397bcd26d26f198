package global

import (
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// InitValidator khởi tạo và đăng ký các custom validator
func InitValidator() {
	// Khởi tạo validator
	Validate = validator.New()

	// Đăng ký các custom validator
	_ = Validate.RegisterValidation("no_xss", validateNoXSS)
	_ = Validate.RegisterValidation("cph", validateCph)
	_ = Validate.RegisterValidation("sbi", validateSbi)
	_ = Validate.RegisterValidation("visit_date", validateVisitDate)
	_ = Validate.RegisterValidation("herd_reason", validateHerdReason)
}

// validateNoXSS kiểm tra XSS
func validateNoXSS(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	dangerousPatterns := []string{
		"<script",
		"javascript:",
		"onerror=",
		"onload=",
		"onclick=",
		"eval(",
		"document.cookie",
		"document.write",
		"innerHTML",
		"<iframe",
		"<object",
		"<embed",
	}

	value = strings.ToLower(value)
	for _, pattern := range dangerousPatterns {
		if strings.Contains(value, pattern) {
			return false
		}
	}
	return true
}

// cphRegex khớp số CPH (County/Parish/Holding) dạng NN/NNN/NNNN
var cphRegex = regexp.MustCompile(`^\d{2}/\d{3}/\d{4}$`)

// validateCph kiểm tra định dạng số CPH của cơ sở chăn nuôi
func validateCph(fl validator.FieldLevel) bool {
	return cphRegex.MatchString(fl.Field().String())
}

// sbiRegex khớp số SBI (Single Business Identifier) gồm 9 chữ số
var sbiRegex = regexp.MustCompile(`^\d{9}$`)

// validateSbi kiểm tra định dạng số SBI của doanh nghiệp nông trại
func validateSbi(fl validator.FieldLevel) bool {
	return sbiRegex.MatchString(fl.Field().String())
}

// validateVisitDate kiểm tra ngày thăm khám theo định dạng YYYY-MM-DD
func validateVisitDate(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // Rỗng = optional, dùng kèm required nếu bắt buộc
	}
	_, err := time.Parse("2006-01-02", value)
	return err == nil
}

// herdReasons danh sách lý do hợp lệ khi khai báo một đàn riêng biệt
var herdReasons = map[string]bool{
	"onlyHerd":                true,
	"differentBreed":          true,
	"separateManagementNeeds": true,
	"uniqueHealthNeeds":       true,
	"keptSeparate":            true,
	"other":                   true,
}

// validateHerdReason kiểm tra lý do khai báo đàn nằm trong danh sách cho phép
func validateHerdReason(fl validator.FieldLevel) bool {
	return herdReasons[fl.Field().String()]
}
