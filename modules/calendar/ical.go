package calendar

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	domain "github.com/example/pintask/domain/calendar"
)

// iCal date and date-time layouts.
const (
	layoutDate        = "20060102"
	layoutDateTime    = "20060102T150405"
	layoutDateTimeUTC = "20060102T150405Z"
)

// ParseFeedEvents turns a raw iCal body into DisplayEvents for one source.
// The registry is request-scoped: feed VTIMEZONEs are registered into it
// before any event time is resolved, so they override the fallback zone for
// matching identifiers. Events without a UID or a parseable DTSTART are
// skipped rather than failing the feed.
func ParseFeedEvents(src *domain.Source, body []byte, reg *ZoneRegistry) ([]DisplayEvent, error) {
	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	reg.RegisterVTimezones(cal)

	events := make([]DisplayEvent, 0)
	for _, ve := range cal.Events() {
		ev, ok := feedEvent(src, ve, reg)
		if !ok {
			continue
		}
		events = append(events, ev)
	}
	return events, nil
}

func feedEvent(src *domain.Source, ve *ical.VEvent, reg *ZoneRegistry) (DisplayEvent, bool) {
	uidProp := ve.GetProperty(ical.ComponentPropertyUniqueId)
	if uidProp == nil || uidProp.Value == "" {
		return DisplayEvent{}, false
	}

	startProp := ve.GetProperty(ical.ComponentPropertyDtStart)
	if startProp == nil {
		return DisplayEvent{}, false
	}
	start, allDay, err := resolveTime(startProp, reg)
	if err != nil {
		return DisplayEvent{}, false
	}

	end := start
	if allDay {
		end = start.AddDate(0, 0, 1)
	}
	if endProp := ve.GetProperty(ical.ComponentPropertyDtEnd); endProp != nil {
		if e, _, err := resolveTime(endProp, reg); err == nil {
			end = e
		}
	}

	title := ""
	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		title = p.Value
	}

	return DisplayEvent{
		ID:     src.ID + "-" + uidProp.Value,
		Title:  title,
		Start:  start,
		End:    end,
		AllDay: allDay,
		Resource: EventResource{
			Type:     ResourceCalendar,
			Color:    src.Color,
			SourceID: src.ID,
		},
	}, true
}

// resolveTime converts one DTSTART/DTEND property into an absolute instant.
// A trailing Z is UTC; a value with a TZID parameter resolves through the
// registry; a bare date-time is floating and resolves in the fallback zone.
// A date-only value (no time-of-day, the iCal DATE form) marks the event
// all-day and resolves to midnight in the fallback zone.
func resolveTime(p *ical.IANAProperty, reg *ZoneRegistry) (time.Time, bool, error) {
	v := strings.TrimSpace(p.Value)
	if v == "" {
		return time.Time{}, false, fmt.Errorf("empty time value")
	}

	dateOnly := !strings.Contains(v, "T")
	if params := p.ICalParameters; params != nil {
		if vs, ok := params["VALUE"]; ok && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
			dateOnly = true
		}
	}

	if dateOnly {
		wall, err := time.Parse(layoutDate, v)
		if err != nil {
			return time.Time{}, false, err
		}
		t := reg.Fallback().instant(wall.Year(), wall.Month(), wall.Day(), 0, 0, 0)
		return t, true, nil
	}

	if strings.HasSuffix(v, "Z") {
		t, err := time.Parse(layoutDateTimeUTC, v)
		if err != nil {
			return time.Time{}, false, err
		}
		return t, false, nil
	}

	wall, err := time.Parse(layoutDateTime, v)
	if err != nil {
		return time.Time{}, false, err
	}

	z := reg.Fallback()
	if params := p.ICalParameters; params != nil {
		if tzs, ok := params["TZID"]; ok && len(tzs) > 0 && tzs[0] != "" {
			z = reg.Resolve(tzs[0])
		}
	}
	t := z.instant(wall.Year(), wall.Month(), wall.Day(), wall.Hour(), wall.Minute(), wall.Second())
	return t, false, nil
}
