package entities

import "time"

// CalendarEvent is the provider-neutral description of an event to create.
type CalendarEvent struct {
	Title       string
	Description string
	Start       time.Time
	End         time.Time
	TimeZone    string
	Attendees   []string
}

// CalendarEventPatch carries the fields to change on an existing event.
// Zero values are left untouched.
type CalendarEventPatch struct {
	Title       string
	Description string
	Start       *time.Time
	End         *time.Time
	TimeZone    string
	Attendees   []string
}

// CalendarEventResult is what a provider reports back after a write.
type CalendarEventResult struct {
	Success  bool   `json:"success"`
	MeetLink string `json:"meetLink,omitempty"`
	EventID  string `json:"eventId,omitempty"`
	Error    string `json:"error,omitempty"`
}

// FilterAttendees drops blank addresses.
func FilterAttendees(emails ...string) []string {
	out := make([]string, 0, len(emails))
	for _, e := range emails {
		if e != "" {
			out = append(out, e)
		}
	}
	return out
}

// EventUpdateRequest is the admin payload for rescheduling or editing an
// event. Start and end are recomputed only when both date and time are set.
type EventUpdateRequest struct {
	Title       string   `json:"title,omitempty"`
	Description string   `json:"description,omitempty"`
	Date        string   `json:"date,omitempty"`
	Time        string   `json:"time,omitempty"`
	Timezone    string   `json:"timezone,omitempty"`
	Attendees   []string `json:"attendees,omitempty"`
}
