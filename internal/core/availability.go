package core

import (
	"strings"
	"time"
)

const (
	Day   Granularity = "day"
	Week  Granularity = "week"
	Month Granularity = "month"
)

const (
	Forward  Direction = 1
	Backward Direction = -1
)

const (
	SlotFree SlotState = iota
	SlotBooked
)

type (
	// Granularity is the unit of a visible booking range and its paging step.
	Granularity string

	Direction int

	SlotState int

	// Grid is a time-slot by date occupancy table. Cells[i][j] is the state
	// of Slots[i] on Dates[j].
	Grid struct {
		Dates []Date        `json:"dates"`
		Slots []string      `json:"slots"`
		Cells [][]SlotState `json:"cells"`
	}

	slotKey struct {
		date string
		time string
	}
)

// DefaultTimeSlots is the hourly vocabulary used when none is configured.
var DefaultTimeSlots = []string{
	"11:00", "12:00", "13:00", "14:00", "15:00",
	"16:00", "17:00", "18:00", "19:00", "20:00",
}

// ParseGranularity accepts both the short names and the daily/weekly/monthly
// forms.
func ParseGranularity(s string) (Granularity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "day", "daily":
		return Day, nil
	case "week", "weekly", "":
		return Week, nil
	case "month", "monthly":
		return Month, nil
	}
	return "", ErrInvalidGranularity
}

func ParseDirection(s string) Direction {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "prev", "previous", "back", "backward", "-1":
		return Backward
	}
	return Forward
}

func (s SlotState) String() string {
	if s == SlotBooked {
		return "booked"
	}
	return "free"
}

func (s SlotState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// WeekStart returns the Monday on or before d.
func WeekStart(d Date) Date {
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDays(-offset)
}

// BuildRange lists the calendar days visible for ref at granularity g.
func BuildRange(ref Date, g Granularity) []Date {
	if !ref.Valid() {
		return nil
	}
	switch g {
	case Day:
		return []Date{ref}
	case Week:
		start := WeekStart(ref)
		out := make([]Date, 7)
		for i := range out {
			out[i] = start.AddDays(i)
		}
		return out
	case Month:
		first := NewDate(ref.Year(), ref.Month(), 1)
		n := daysIn(ref.Year(), ref.Month())
		out := make([]Date, n)
		for i := range out {
			out[i] = first.AddDays(i)
		}
		return out
	}
	return nil
}

func daysIn(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// NextPeriod moves ref one unit of g in direction dir. Month steps clamp the
// day to the end of the target month, so Jan 31 + 1 month is Feb 28 (or 29).
func NextPeriod(ref Date, g Granularity, dir Direction) Date {
	if !ref.Valid() {
		return ref
	}
	step := int(dir)
	switch g {
	case Day:
		return ref.AddDays(step)
	case Week:
		return ref.AddDays(7 * step)
	case Month:
		y, m := ref.Year(), ref.Month()+step
		for m < 1 {
			m += 12
			y--
		}
		for m > 12 {
			m -= 12
			y++
		}
		d := ref.Day()
		if last := daysIn(y, m); d > last {
			d = last
		}
		return NewDate(y, m, d)
	}
	return ref
}

// ActiveBookings drops bookings that no longer hold their slot.
func ActiveBookings(bookings []Booking) []Booking {
	out := make([]Booking, 0, len(bookings))
	for _, b := range bookings {
		if b.Status.Occupies() {
			out = append(out, b)
		}
	}
	return out
}

func indexBookings(bookings []Booking) map[slotKey]struct{} {
	idx := make(map[slotKey]struct{}, len(bookings))
	for _, b := range bookings {
		if !b.AppointmentDate.Valid() {
			continue
		}
		idx[slotKey{b.AppointmentDate.String(), b.AppointmentTime}] = struct{}{}
	}
	return idx
}

// BuildGrid marks every (slot, date) cell that has a booking. Bookings are
// indexed once so the cost is linear in cells plus bookings. Two bookings
// on the same cell render as a single booked cell.
func BuildGrid(dates []Date, timeSlots []string, bookings []Booking) Grid {
	g := Grid{
		Dates: append([]Date(nil), dates...),
		Slots: append([]string(nil), timeSlots...),
	}
	if len(dates) == 0 || len(timeSlots) == 0 {
		g.Cells = [][]SlotState{}
		return g
	}
	idx := indexBookings(bookings)
	keys := make([]string, len(dates))
	for j, d := range dates {
		keys[j] = d.String()
	}
	g.Cells = make([][]SlotState, len(timeSlots))
	for i, t := range timeSlots {
		row := make([]SlotState, len(dates))
		for j := range dates {
			if _, ok := idx[slotKey{keys[j], t}]; ok {
				row[j] = SlotBooked
			}
		}
		g.Cells[i] = row
	}
	return g
}

// At returns the state of the cell for (date, time). Cells outside the
// grid report free and ok=false.
func (g Grid) At(date Date, t string) (SlotState, bool) {
	si, di := -1, -1
	for i, s := range g.Slots {
		if s == t {
			si = i
			break
		}
	}
	key := date.String()
	for j, d := range g.Dates {
		if d.String() == key {
			di = j
			break
		}
	}
	if si < 0 || di < 0 {
		return SlotFree, false
	}
	return g.Cells[si][di], true
}

// BookedCount returns the number of booked cells.
func (g Grid) BookedCount() int {
	n := 0
	for _, row := range g.Cells {
		for _, c := range row {
			if c == SlotBooked {
				n++
			}
		}
	}
	return n
}

// IsSlotFree reports whether no booking occupies (date, time). It is the
// pre-insert guard; the store's unique index is what actually prevents a
// double booking.
func IsSlotFree(date Date, t string, bookings []Booking) bool {
	key := date.String()
	for _, b := range bookings {
		if !b.AppointmentDate.Valid() {
			continue
		}
		if b.AppointmentTime == t && b.AppointmentDate.String() == key {
			return false
		}
	}
	return true
}
