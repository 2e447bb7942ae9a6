package orders

import (
	"fmt"
	"medmarket-service/internal/app/models"
	"medmarket-service/internal/pkg/constvars"
	"medmarket-service/internal/pkg/dto/responses"
	"strconv"
	"strings"
	"time"
)

// clock holds a local wall time (hour and minute).
type clock struct {
	H int
	M int
}

// dayWindow is an inclusive start and exclusive end wall-clock window for a single day.
type dayWindow struct {
	Start clock
	End   clock
}

// weeklyPlan lists zero or more windows per weekday.
type weeklyPlan struct {
	Monday    []dayWindow
	Tuesday   []dayWindow
	Wednesday []dayWindow
	Thursday  []dayWindow
	Friday    []dayWindow
	Saturday  []dayWindow
	Sunday    []dayWindow
}

func (wp weeklyPlan) forWeekday(wd time.Weekday) []dayWindow {
	switch wd {
	case time.Monday:
		return wp.Monday
	case time.Tuesday:
		return wp.Tuesday
	case time.Wednesday:
		return wp.Wednesday
	case time.Thursday:
		return wp.Thursday
	case time.Friday:
		return wp.Friday
	case time.Saturday:
		return wp.Saturday
	case time.Sunday:
		return wp.Sunday
	default:
		return nil
	}
}

type interval struct {
	Start time.Time
	End   time.Time
}

// ValidateOperatingHours reports whether s can be read as an opening-hours string.
func ValidateOperatingHours(s string) error {
	_, err := parseOperatingHours(s)
	return err
}

// parseOperatingHours reads strings like "Mon-Fri 08:00-18:00; Sat 09:00-14:00",
// "Mon,Wed 09:00-12:00,14:00-17:00" or "Daily 08:00-20:00".
func parseOperatingHours(s string) (weeklyPlan, error) {
	var wp weeklyPlan
	segments := strings.Split(s, ";")
	parsed := 0
	for _, segment := range segments {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}

		fields := strings.Fields(segment)
		if len(fields) < 2 {
			return weeklyPlan{}, fmt.Errorf("segment %q needs days and hours", segment)
		}

		days, ok := expandDaySpec(fields[0])
		if !ok {
			return weeklyPlan{}, fmt.Errorf("unknown days %q", fields[0])
		}

		for _, rawWindow := range strings.Split(strings.Join(fields[1:], ""), ",") {
			w, err := parseWindow(rawWindow)
			if err != nil {
				return weeklyPlan{}, err
			}
			for _, wd := range days {
				appendWindow(&wp, wd, w)
			}
		}
		parsed++
	}

	if parsed == 0 {
		return weeklyPlan{}, fmt.Errorf("no operating hours in %q", s)
	}
	return wp, nil
}

func parseWindow(s string) (dayWindow, error) {
	bounds := strings.Split(strings.TrimSpace(s), "-")
	if len(bounds) != 2 {
		return dayWindow{}, fmt.Errorf("window %q must be HH:MM-HH:MM", s)
	}
	start, ok1 := parseClockFlex(bounds[0])
	end, ok2 := parseClockFlex(bounds[1])
	if !ok1 || !ok2 || !validWindow(start, end) {
		return dayWindow{}, fmt.Errorf("invalid window %q", s)
	}
	return dayWindow{Start: start, End: end}, nil
}

func parseClockFlex(s string) (clock, bool) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ".", ":")
	parts := strings.Split(s, ":")
	if len(parts) < 2 {
		return clock{}, false
	}
	h, err1 := strconv.Atoi(parts[0])
	m, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || h < 0 || h > 23 || m < 0 || m > 59 {
		return clock{}, false
	}
	return clock{H: h, M: m}, true
}

func validWindow(a, b clock) bool {
	return a.H*60+a.M < b.H*60+b.M
}

// expandDaySpec accepts "Daily", a single day, a range "Mon-Fri" (wrapping allowed) or a
// comma list "Mon,Wed,Fri".
func expandDaySpec(spec string) ([]time.Weekday, bool) {
	t := strings.ToLower(strings.TrimSpace(spec))
	if t == "daily" || t == "everyday" {
		return []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday}, true
	}

	if strings.Contains(t, ",") {
		var out []time.Weekday
		for _, token := range strings.Split(t, ",") {
			days, ok := expandDaySpec(token)
			if !ok {
				return nil, false
			}
			out = append(out, days...)
		}
		return out, true
	}

	if from, to, found := strings.Cut(t, "-"); found {
		a := mapDayToken(from)
		b := mapDayToken(to)
		if a == nil || b == nil {
			return nil, false
		}
		var out []time.Weekday
		for wd := a[0]; ; wd = (wd + 1) % 7 {
			out = append(out, wd)
			if wd == b[0] {
				break
			}
		}
		return out, true
	}

	days := mapDayToken(t)
	return days, days != nil
}

func mapDayToken(s string) []time.Weekday {
	t := strings.ToLower(strings.TrimSpace(s))
	switch t {
	case "mon", "monday":
		return []time.Weekday{time.Monday}
	case "tue", "tues", "tuesday":
		return []time.Weekday{time.Tuesday}
	case "wed", "wednesday":
		return []time.Weekday{time.Wednesday}
	case "thu", "thur", "thurs", "thursday":
		return []time.Weekday{time.Thursday}
	case "fri", "friday":
		return []time.Weekday{time.Friday}
	case "sat", "saturday":
		return []time.Weekday{time.Saturday}
	case "sun", "sunday":
		return []time.Weekday{time.Sunday}
	}
	return nil
}

func appendWindow(wp *weeklyPlan, wd time.Weekday, w dayWindow) {
	switch wd {
	case time.Monday:
		wp.Monday = append(wp.Monday, w)
	case time.Tuesday:
		wp.Tuesday = append(wp.Tuesday, w)
	case time.Wednesday:
		wp.Wednesday = append(wp.Wednesday, w)
	case time.Thursday:
		wp.Thursday = append(wp.Thursday, w)
	case time.Friday:
		wp.Friday = append(wp.Friday, w)
	case time.Saturday:
		wp.Saturday = append(wp.Saturday, w)
	case time.Sunday:
		wp.Sunday = append(wp.Sunday, w)
	}
}

func dayWorkIntervals(day time.Time, tz *time.Location, windows []dayWindow) []interval {
	var out []interval
	for _, w := range windows {
		start := atClock(day, w.Start.H, w.Start.M, tz)
		end := atClock(day, w.End.H, w.End.M, tz)
		if end.After(start) {
			out = append(out, interval{Start: start, End: end})
		}
	}
	return out
}

func generateSlotsBetween(start, end time.Time, slotMinutes int) []interval {
	if slotMinutes <= 0 {
		return nil
	}
	step := time.Duration(slotMinutes) * time.Minute
	var out []interval
	for t := start; !t.Add(step).After(end); t = t.Add(step) {
		out = append(out, interval{Start: t, End: t.Add(step)})
	}
	return out
}

func atClock(day time.Time, h, m int, loc *time.Location) time.Time {
	d := day.In(loc)
	y, mo, dd := d.Date()
	return time.Date(y, mo, dd, h, m, 0, 0, loc)
}

func overlapCount(slot interval, booked []models.BookedSlot) int {
	count := 0
	for _, b := range booked {
		if b.Start.Before(slot.End) && b.End.After(slot.Start) {
			count++
		}
	}
	return count
}

// slotQuery describes one slot listing. Now is the reference instant; slots starting before
// it are skipped.
type slotQuery struct {
	OperatingHours   string
	From             time.Time
	Days             int
	Now              time.Time
	Booked           []models.BookedSlot
	LimitedThreshold int
	Location         *time.Location
}

// buildTimeSlots derives 30-minute slots from operating hours for Days consecutive local days
// starting at From and classifies each by its overlapping bookings.
func buildTimeSlots(q slotQuery) ([]responses.TimeSlot, error) {
	plan, err := parseOperatingHours(q.OperatingHours)
	if err != nil {
		return nil, err
	}

	loc := q.Location
	if loc == nil {
		loc = time.UTC
	}
	days := q.Days
	if days < 1 {
		days = 1
	}

	slots := make([]responses.TimeSlot, 0)
	first := atClock(q.From, 0, 0, loc)
	for i := 0; i < days; i++ {
		day := first.AddDate(0, 0, i)
		for _, window := range dayWorkIntervals(day, loc, plan.forWeekday(day.Weekday())) {
			for _, slot := range generateSlotsBetween(window.Start, window.End, constvars.TimeSlotDurationInMinutes) {
				if slot.Start.Before(q.Now) {
					continue
				}
				bookings := overlapCount(slot, q.Booked)
				status := constvars.TimeSlotAvailable
				if q.LimitedThreshold > 0 && bookings >= q.LimitedThreshold {
					status = constvars.TimeSlotLimited
				}
				slots = append(slots, responses.TimeSlot{
					Start:    slot.Start,
					End:      slot.End,
					Status:   status,
					Bookings: bookings,
				})
			}
		}
	}
	return slots, nil
}
