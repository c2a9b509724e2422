package calendar

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
)

// zone resolves a wall-clock reading to an absolute instant.
type zone interface {
	instant(year int, month time.Month, day, hour, min, sec int) time.Time
}

// fixedZone is a zone with a constant UTC offset.
type fixedZone struct {
	name   string
	offset int // seconds east of UTC
}

func (z fixedZone) instant(year int, month time.Month, day, hour, min, sec int) time.Time {
	return time.Date(year, month, day, hour, min, sec, 0, time.FixedZone(z.name, z.offset))
}

// transition describes a yearly daylight-saving boundary: the nth weekday of
// a month (week -1 means last), at the given wall-clock hour.
type transition struct {
	month   time.Month
	week    int
	weekday time.Weekday
	hour    int
}

// dayOfMonth returns the day of the month the transition falls on in year.
func (t transition) dayOfMonth(year int) int {
	if t.week == -1 {
		last := time.Date(year, t.month+1, 0, 0, 0, 0, 0, time.UTC)
		day := last.Day()
		for time.Date(year, t.month, day, 0, 0, 0, 0, time.UTC).Weekday() != t.weekday {
			day--
		}
		return day
	}
	day := 1
	for time.Date(year, t.month, day, 0, 0, 0, 0, time.UTC).Weekday() != t.weekday {
		day++
	}
	return day + 7*(t.week-1)
}

// dstRule is a zone with a standard and daylight offset and yearly
// transitions between them.
type dstRule struct {
	stdName   string
	dstName   string
	stdOffset int
	dstOffset int
	dstStart  transition
	dstEnd    transition
}

func (z dstRule) instant(year int, month time.Month, day, hour, min, sec int) time.Time {
	wall := time.Date(year, month, day, hour, min, sec, 0, time.UTC)
	start := time.Date(year, z.dstStart.month, z.dstStart.dayOfMonth(year), z.dstStart.hour, 0, 0, 0, time.UTC)
	end := time.Date(year, z.dstEnd.month, z.dstEnd.dayOfMonth(year), z.dstEnd.hour, 0, 0, 0, time.UTC)

	var dst bool
	if start.Before(end) {
		dst = !wall.Before(start) && wall.Before(end)
	} else {
		// Southern-hemisphere rules wrap the year boundary.
		dst = !wall.Before(start) || wall.Before(end)
	}

	name, offset := z.stdName, z.stdOffset
	if dst {
		name, offset = z.dstName, z.dstOffset
	}
	return time.Date(year, month, day, hour, min, sec, 0, time.FixedZone(name, offset))
}

// usEastern is the fallback zone for floating times: EST UTC-5 / EDT UTC-4,
// daylight saving from the second Sunday of March to the first Sunday of
// November, transitioning at 02:00 wall clock.
var usEastern = dstRule{
	stdName:   "EST",
	dstName:   "EDT",
	stdOffset: -5 * 3600,
	dstOffset: -4 * 3600,
	dstStart:  transition{month: time.March, week: 2, weekday: time.Sunday, hour: 2},
	dstEnd:    transition{month: time.November, week: 1, weekday: time.Sunday, hour: 2},
}

// FallbackTZID is the identifier the fallback zone is registered under.
const FallbackTZID = "America/New_York"

// ZoneRegistry maps timezone identifiers to zones for a single parse pass.
// Each feed fetch builds its own registry, so concurrent requests never
// share registration state. The fallback zone resolves floating times and
// unknown identifiers; feed-declared VTIMEZONEs registered afterwards
// override it for matching identifiers.
type ZoneRegistry struct {
	zones    map[string]zone
	fallback zone
}

// NewZoneRegistry creates a registry seeded with the US Eastern fallback.
func NewZoneRegistry() *ZoneRegistry {
	return &ZoneRegistry{
		zones:    map[string]zone{FallbackTZID: usEastern},
		fallback: usEastern,
	}
}

// Register adds or overrides a zone under the given identifier.
func (r *ZoneRegistry) Register(tzid string, z zone) {
	r.zones[tzid] = z
}

// Resolve returns the zone registered under tzid, or the fallback when the
// identifier is unknown.
func (r *ZoneRegistry) Resolve(tzid string) zone {
	if z, ok := r.zones[tzid]; ok {
		return z
	}
	return r.fallback
}

// Fallback returns the zone used for floating times.
func (r *ZoneRegistry) Fallback() zone {
	return r.fallback
}

// RegisterVTimezones registers every VTIMEZONE block of a parsed calendar.
// A block whose transition rules cannot be understood degrades to a fixed
// zone at its standard offset, which is still better than the fallback for
// a non-Eastern feed.
func (r *ZoneRegistry) RegisterVTimezones(cal *ical.Calendar) {
	for _, comp := range cal.Components {
		tz, ok := comp.(*ical.VTimezone)
		if !ok {
			continue
		}
		tzid := ""
		if p := tz.GetProperty(ical.ComponentProperty("TZID")); p != nil {
			tzid = p.Value
		}
		if tzid == "" {
			continue
		}
		if z, err := zoneFromVTimezone(tz); err == nil {
			r.Register(tzid, z)
		}
	}
}

// zoneFromVTimezone builds a zone from a VTIMEZONE's STANDARD and DAYLIGHT
// subcomponents.
func zoneFromVTimezone(tz *ical.VTimezone) (zone, error) {
	var std, dst *observance
	var haveStd, haveDst bool
	for _, sub := range tz.Components {
		switch c := sub.(type) {
		case *ical.Standard:
			if o, err := parseObservance(&c.ComponentBase); err == nil {
				std, haveStd = o, true
			}
		case *ical.Daylight:
			if o, err := parseObservance(&c.ComponentBase); err == nil {
				dst, haveDst = o, true
			}
		}
	}
	if !haveStd {
		return nil, fmt.Errorf("no STANDARD observance")
	}
	if !haveDst || std.rule == nil || dst.rule == nil {
		// No daylight saving declared, or rules too exotic: fix the offset.
		return fixedZone{name: std.name, offset: std.offset}, nil
	}
	return dstRule{
		stdName:   std.name,
		dstName:   dst.name,
		stdOffset: std.offset,
		dstOffset: dst.offset,
		dstStart:  *dst.rule,
		dstEnd:    *std.rule,
	}, nil
}

// observance is one STANDARD or DAYLIGHT block: the offset it transitions
// to, the wall-clock rule it begins on, and a display name.
type observance struct {
	name   string
	offset int
	rule   *transition
}

func parseObservance(cb *ical.ComponentBase) (*observance, error) {
	offProp := cb.GetProperty(ical.ComponentProperty("TZOFFSETTO"))
	if offProp == nil {
		return nil, fmt.Errorf("missing TZOFFSETTO")
	}
	offset, err := parseUTCOffset(offProp.Value)
	if err != nil {
		return nil, err
	}

	o := &observance{offset: offset}
	if p := cb.GetProperty(ical.ComponentProperty("TZNAME")); p != nil {
		o.name = p.Value
	}

	hour := 2
	if p := cb.GetProperty(ical.ComponentPropertyDtStart); p != nil {
		if i := strings.Index(p.Value, "T"); i >= 0 && len(p.Value) >= i+3 {
			if h, err := strconv.Atoi(p.Value[i+1 : i+3]); err == nil {
				hour = h
			}
		}
	}
	if p := cb.GetProperty(ical.ComponentPropertyRrule); p != nil {
		if t, err := parseYearlyRule(p.Value, hour); err == nil {
			o.rule = t
		}
	}
	return o, nil
}

// parseUTCOffset parses an iCal UTC offset such as "-0500" or "+093000"
// into seconds east of UTC.
func parseUTCOffset(v string) (int, error) {
	v = strings.TrimSpace(v)
	if len(v) < 5 {
		return 0, fmt.Errorf("bad utc offset %q", v)
	}
	sign := 1
	switch v[0] {
	case '+':
	case '-':
		sign = -1
	default:
		return 0, fmt.Errorf("bad utc offset %q", v)
	}
	hours, err := strconv.Atoi(v[1:3])
	if err != nil {
		return 0, fmt.Errorf("bad utc offset %q", v)
	}
	mins, err := strconv.Atoi(v[3:5])
	if err != nil {
		return 0, fmt.Errorf("bad utc offset %q", v)
	}
	secs := 0
	if len(v) >= 7 {
		if s, err := strconv.Atoi(v[5:7]); err == nil {
			secs = s
		}
	}
	return sign * (hours*3600 + mins*60 + secs), nil
}

// parseYearlyRule understands the yearly iCal recurrence form timezone
// definitions use, e.g. "FREQ=YEARLY;BYMONTH=3;BYDAY=2SU".
func parseYearlyRule(rrule string, hour int) (*transition, error) {
	var month, week int
	var weekday time.Weekday
	haveMonth, haveDay := false, false

	for _, part := range strings.Split(rrule, ";") {
		k, v, ok := strings.Cut(part, "=")
		if !ok {
			continue
		}
		switch strings.ToUpper(strings.TrimSpace(k)) {
		case "BYMONTH":
			m, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil || m < 1 || m > 12 {
				return nil, fmt.Errorf("bad BYMONTH in %q", rrule)
			}
			month = m
			haveMonth = true
		case "BYDAY":
			v = strings.TrimSpace(v)
			if len(v) < 3 {
				return nil, fmt.Errorf("bad BYDAY in %q", rrule)
			}
			n, err := strconv.Atoi(v[:len(v)-2])
			if err != nil || n == 0 || n > 5 || n < -1 {
				return nil, fmt.Errorf("bad BYDAY ordinal in %q", rrule)
			}
			wd, ok := weekdayAbbrevs[v[len(v)-2:]]
			if !ok {
				return nil, fmt.Errorf("bad BYDAY weekday in %q", rrule)
			}
			week = n
			weekday = wd
			haveDay = true
		}
	}
	if !haveMonth || !haveDay {
		return nil, fmt.Errorf("incomplete yearly rule %q", rrule)
	}
	return &transition{month: time.Month(month), week: week, weekday: weekday, hour: hour}, nil
}

var weekdayAbbrevs = map[string]time.Weekday{
	"SU": time.Sunday,
	"MO": time.Monday,
	"TU": time.Tuesday,
	"WE": time.Wednesday,
	"TH": time.Thursday,
	"FR": time.Friday,
	"SA": time.Saturday,
}
