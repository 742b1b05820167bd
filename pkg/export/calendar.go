package export

import (
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
)

// CalendarEvent is one all-day entry in an ICS feed. End is inclusive.
type CalendarEvent struct {
	UID         string
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
	Modified    time.Time
}

// Calendar builds iCalendar feeds.
type Calendar struct {
	productID string
}

// NewCalendar constructs a Calendar that stamps feeds with productID.
func NewCalendar(productID string) *Calendar {
	if productID == "" {
		productID = "-//student-admin-console//courses//EN"
	}
	return &Calendar{productID: productID}
}

// ContentType of rendered feeds.
func (c *Calendar) ContentType() string { return "text/calendar; charset=utf-8" }

// Render serialises events into an ICS document. stamp is used as DTSTAMP.
func (c *Calendar) Render(name string, events []CalendarEvent, stamp time.Time) ([]byte, error) {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(c.productID)
	if name != "" {
		cal.SetName(name)
		cal.SetXWRCalName(name)
	}

	for _, evt := range events {
		if evt.UID == "" {
			return nil, fmt.Errorf("calendar event %q has no uid", evt.Summary)
		}
		if evt.Start.IsZero() {
			return nil, fmt.Errorf("calendar event %s has no start date", evt.UID)
		}
		end := evt.End
		if end.IsZero() || end.Before(evt.Start) {
			end = evt.Start
		}

		e := cal.AddEvent(evt.UID)
		e.SetDtStampTime(stamp)
		if !evt.Modified.IsZero() {
			e.SetModifiedAt(evt.Modified)
		}
		e.SetAllDayStartAt(evt.Start)
		// DTEND is exclusive for all-day events.
		e.SetAllDayEndAt(end.AddDate(0, 0, 1))
		e.SetSummary(evt.Summary)
		if evt.Description != "" {
			e.SetDescription(evt.Description)
		}
	}
	return []byte(cal.Serialize()), nil
}
