package dto

import (
	"strings"

	"github.com/IEC2025/UeabInnovationHub-sub000/internal/model"
)

type CreateRegistrationRequest struct {
	RegistrationType    string `json:"registrationType" validate:"required,oneof=delegation exhibition"`
	FullName            string `json:"fullName" validate:"required,max=255"`
	OrganizationName    string `json:"organizationName" validate:"required,max=255"`
	Position            string `json:"position" validate:"required,max=255"`
	Email               string `json:"email" validate:"required,address,max=255"`
	Phone               string `json:"phone" validate:"required,max=64"`
	Category            string `json:"category" validate:"required,max=128"`
	ParticipantCount    string `json:"participantCount,omitempty" validate:"max=64"`
	BoothRequirements   string `json:"boothRequirements,omitempty" validate:"max=2000"`
	SpecialRequirements string `json:"specialRequirements,omitempty" validate:"max=2000"`
	PaymentPreference   string `json:"paymentPreference,omitempty" validate:"max=128"`
	AdditionalInfo      string `json:"additionalInfo,omitempty" validate:"max=5000"`
}

// Normalize trims every field so that whitespace-only input counts as absent.
func (r *CreateRegistrationRequest) Normalize() {
	trimAll(
		&r.RegistrationType, &r.FullName, &r.OrganizationName, &r.Position,
		&r.Email, &r.Phone, &r.Category, &r.ParticipantCount, &r.BoothRequirements,
		&r.SpecialRequirements, &r.PaymentPreference, &r.AdditionalInfo,
	)
}

func (r CreateRegistrationRequest) ToModel() *model.Registration {
	return &model.Registration{
		RegistrationType:    model.RegistrationType(r.RegistrationType),
		FullName:            r.FullName,
		OrganizationName:    r.OrganizationName,
		Position:            r.Position,
		Email:               r.Email,
		Phone:               r.Phone,
		Category:            r.Category,
		ParticipantCount:    optional(r.ParticipantCount),
		BoothRequirements:   optional(r.BoothRequirements),
		SpecialRequirements: optional(r.SpecialRequirements),
		PaymentPreference:   optional(r.PaymentPreference),
		AdditionalInfo:      optional(r.AdditionalInfo),
	}
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending contacted completed"`
}

func (r *UpdateStatusRequest) Normalize() {
	trimAll(&r.Status)
}

type CreateContactRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	Email       string `json:"email" validate:"required,address,max=255"`
	Phone       string `json:"phone,omitempty" validate:"max=64"`
	Subject     string `json:"subject" validate:"required,max=255"`
	EnquiryType string `json:"enquiryType" validate:"required,max=128"`
	Message     string `json:"message" validate:"required,max=10000"`
}

func (r *CreateContactRequest) Normalize() {
	trimAll(&r.Name, &r.Email, &r.Phone, &r.Subject, &r.EnquiryType, &r.Message)
}

func (r CreateContactRequest) ToModel() *model.ContactMessage {
	return &model.ContactMessage{
		Name:        r.Name,
		Email:       r.Email,
		Phone:       optional(r.Phone),
		Subject:     r.Subject,
		EnquiryType: r.EnquiryType,
		Message:     r.Message,
	}
}

type NewsletterRequest struct {
	Email string `json:"email" validate:"required,address,max=255"`
}

func (r *NewsletterRequest) Normalize() {
	trimAll(&r.Email)
	r.Email = strings.ToLower(r.Email)
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Normalize() {
	trimAll(&r.Username)
}

func trimAll(fields ...*string) {
	for _, f := range fields {
		*f = strings.TrimSpace(*f)
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
