package db

import (
	"time"

	"github.com/google/uuid"
)

// Profile is a user's subscription state, owned by the external identity
// provider's user id. The interview engine reads tier and interview_count
// and increments the counter exactly once per started session.
type Profile struct {
	ID               uuid.UUID `json:"id"`
	Email            string    `json:"email"`
	SubscriptionTier string    `json:"subscription_tier"`
	InterviewCount   int       `json:"interview_count"`
	IsAdmin          bool      `json:"is_admin"`
	CreatedAt        time.Time `json:"created_at"`
}

// School is one row of the schools directory.
type School struct {
	ID                  uuid.UUID `json:"id"`
	Name                string    `json:"name"`
	LocationCity        string    `json:"location_city"`
	LocationState       string    `json:"location_state"`
	ProgramType         string    `json:"program_type"` // DNP, MSN or Both
	ProgramLengthMonths int       `json:"program_length_months"`
	TuitionTotal        int       `json:"tuition_total"`
	GPARequirement      float64   `json:"gpa_requirement"`
	ICUExperienceMonths int       `json:"icu_experience_months"`
	ApplicationDeadline string    `json:"application_deadline"`
	AcceptsNewGradICU   bool      `json:"accepts_new_grad_icu"`
	AcceptanceRate      float64   `json:"acceptance_rate"`
	NCLEXPassRate       float64   `json:"nclex_pass_rate"`
	WebsiteURL          string    `json:"website_url"`
	CreatedAt           time.Time `json:"created_at"`
}

// SchoolFilter narrows ListSchools. Zero values mean "no constraint".
type SchoolFilter struct {
	State             string
	ProgramType       string
	MaxTuition        int
	MaxGPARequirement float64
	AcceptsNewGradICU *bool
	Search            string
}

// Sponsor is a program sponsor shown on the sponsors page.
type Sponsor struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Title        string    `json:"title"`
	ImageURL     string    `json:"image_url"`
	WebsiteURL   string    `json:"website_url"`
	InstagramURL string    `json:"instagram_url"`
	Description  string    `json:"description"`
	DisplayOrder int       `json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
}

// InterviewInfo is the school-specific interview style record, gated to the
// ultimate tier.
type InterviewInfo struct {
	ID              uuid.UUID `json:"id"`
	SchoolName      string    `json:"school_name"`
	InterviewStyle  string    `json:"interview_style"`
	ClinicalFocus   string    `json:"clinical_focus"`
	EmotionalFocus  string    `json:"emotional_focus"`
	AdditionalNotes string    `json:"additional_notes"`
	LastUpdated     time.Time `json:"last_updated"`
}

// ExpeditedRequest is a user's ask to prioritize interview info for a school.
type ExpeditedRequest struct {
	ID         uuid.UUID `json:"id"`
	UserEmail  string    `json:"user_email"`
	SchoolName string    `json:"school_name"`
	Notes      string    `json:"notes"`
	CreatedAt  time.Time `json:"created_at"`
}

// Report statuses.
const (
	ReportStatusPending  = "pending"
	ReportStatusResolved = "resolved"
)

// Report flags incorrect data on a school row.
type Report struct {
	ID             uuid.UUID `json:"id"`
	SchoolName     string    `json:"school_name"`
	FieldWithError string    `json:"field_with_error"`
	Description    string    `json:"description"`
	ReporterEmail  string    `json:"reporter_email"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}
