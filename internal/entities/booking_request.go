package entities

import (
	"strings"
	"time"
)

// BookingRequest is the demo booking form as posted by the site.
type BookingRequest struct {
	Name             string `json:"name"`
	FirstName        string `json:"firstName"`
	LastName         string `json:"lastName"`
	Email            string `json:"email"`
	WorkEmail        string `json:"workEmail"`
	PhoneCountryCode string `json:"phoneCountryCode"`
	PhoneNumber      string `json:"phoneNumber"`
	Company          string `json:"company"`
	BusinessType     string `json:"businessType"`
	Readiness        string `json:"readiness"`
	Message          string `json:"message,omitempty"`
	Date             string `json:"date"`
	Time             string `json:"time"`
	Timezone         string `json:"timezone"`
}

// FullName joins first and last name.
func (b BookingRequest) FullName() string {
	return strings.TrimSpace(b.FirstName + " " + b.LastName)
}

// Phone joins country code and number.
func (b BookingRequest) Phone() string {
	return strings.TrimSpace(b.PhoneCountryCode + " " + b.PhoneNumber)
}

// BookingResponse is the JSON body returned by the booking endpoint.
type BookingResponse struct {
	Success  bool   `json:"success"`
	MeetLink string `json:"meetLink,omitempty"`
	EventID  string `json:"eventId,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Slot is a resolved meeting window in the booking's timezone.
type Slot struct {
	Start    time.Time
	End      time.Time
	TimeZone string
}
