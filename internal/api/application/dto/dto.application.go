package dto

// ApplicationCreateInput là input để đăng ký application mới
type ApplicationCreateInput struct {
	SBI               string                 `json:"sbi" validate:"required,sbi"` // Single business identifier, 9 chữ số
	OrganisationName  string                 `json:"organisationName" validate:"required"`
	OrganisationEmail string                 `json:"organisationEmail,omitempty" validate:"omitempty,email"`
	CreatedBy         string                 `json:"createdBy" validate:"required"`
	Data              map[string]interface{} `json:"data,omitempty"`
}
