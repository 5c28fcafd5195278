package entities

// BookingEmailData feeds the HTML and text email templates.
type BookingEmailData struct {
	Brand         string
	FirstName     string
	LastName      string
	WorkEmail     string
	Phone         string
	Company       string
	BusinessType  string
	Readiness     string
	Message       string
	DateFormatted string
	Time          string
	TimeZone      string
	MeetLink      string
	CurrentYear   int
}
