package identity

import "time"

// User is the account row; PasswordHash never leaves the service layer.
type User struct {
	UserProfile
	PasswordHash string `json:"-"`
}

type UserProfile struct {
	UID          string    `json:"uid"`
	Email        string    `json:"email"`
	FullName     string    `json:"fullName"`
	CompanyName  string    `json:"companyName"`
	IndustryType string    `json:"industryType"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Company holds the settings page fields.
type Company struct {
	UID          string    `json:"uid"`
	CompanyName  string    `json:"companyName"`
	GSTIN        string    `json:"gstin"`
	IndustryType string    `json:"industryType"`
	MachineCount string    `json:"machineCount"`
	ShiftTimings string    `json:"shiftTimings"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

const (
	DefaultIndustryType = "Textile"
	DefaultShiftTimings = "General (9AM - 6PM)"
)
