package model

import "time"

type RegistrationType string

const (
	RegistrationTypeDelegation RegistrationType = "delegation"
	RegistrationTypeExhibition RegistrationType = "exhibition"
)

// RegistrationTypes is the fixed order used by listings and report summaries.
var RegistrationTypes = []RegistrationType{RegistrationTypeDelegation, RegistrationTypeExhibition}

func (t RegistrationType) Valid() bool {
	switch t {
	case RegistrationTypeDelegation, RegistrationTypeExhibition:
		return true
	}
	return false
}

// Label is the display form used in emails and reports.
func (t RegistrationType) Label() string {
	switch t {
	case RegistrationTypeDelegation:
		return "Delegation"
	case RegistrationTypeExhibition:
		return "Exhibition"
	}
	return string(t)
}

// Status is the admin workflow state of a registration. Any status may be
// followed by any other.
type Status string

const (
	StatusPending   Status = "pending"
	StatusContacted Status = "contacted"
	StatusCompleted Status = "completed"
)

var Statuses = []Status{StatusPending, StatusContacted, StatusCompleted}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusContacted, StatusCompleted:
		return true
	}
	return false
}

type Registration struct {
	ID                  int64            `db:"id" json:"id"`
	RegistrationType    RegistrationType `db:"registration_type" json:"registrationType"`
	FullName            string           `db:"full_name" json:"fullName"`
	OrganizationName    string           `db:"organization_name" json:"organizationName"`
	Position            string           `db:"position" json:"position"`
	Email               string           `db:"email" json:"email"`
	Phone               string           `db:"phone" json:"phone"`
	Category            string           `db:"category" json:"category"`
	ParticipantCount    *string          `db:"participant_count" json:"participantCount,omitempty"`
	BoothRequirements   *string          `db:"booth_requirements" json:"boothRequirements,omitempty"`
	SpecialRequirements *string          `db:"special_requirements" json:"specialRequirements,omitempty"`
	PaymentPreference   *string          `db:"payment_preference" json:"paymentPreference,omitempty"`
	AdditionalInfo      *string          `db:"additional_info" json:"additionalInfo,omitempty"`
	Status              Status           `db:"status" json:"status"`
	SubmittedAt         time.Time        `db:"submitted_at" json:"submittedAt"`
}

// RegistrationFilter narrows a registration listing. Zero values mean
// "no constraint"; Limit 0 returns every matching row.
type RegistrationFilter struct {
	Query  string
	Status Status
	Type   RegistrationType
	Limit  int
	Offset int
}

type ContactMessage struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Email       string    `db:"email" json:"email"`
	Phone       *string   `db:"phone" json:"phone,omitempty"`
	Subject     string    `db:"subject" json:"subject"`
	EnquiryType string    `db:"enquiry_type" json:"enquiryType"`
	Message     string    `db:"message" json:"message"`
	IsRead      bool      `db:"is_read" json:"isRead"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

type ContactFilter struct {
	UnreadOnly bool
	Limit      int
	Offset     int
}

type NewsletterSubscriber struct {
	ID        int64     `db:"id" json:"id"`
	Email     string    `db:"email" json:"email"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
