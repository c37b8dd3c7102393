package resource

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// Rejection reasons reported by Restrictions.Validate. Each rule failure maps
// to exactly one of these, in the order the rules are checked, so callers can
// rely on deterministic error messages.
var (
	ErrInvalidWindow         = errors.New("end time must be after start time")
	ErrAdvanceNoticeTooShort = errors.New("reservation does not meet the minimum advance notice")
	ErrDurationTooLong       = errors.New("reservation exceeds the maximum duration")
	ErrDisallowedDay         = errors.New("reservation day is not allowed for this resource")
	ErrDisallowedTime        = errors.New("reservation time is outside the allowed hours")
	ErrRoleNotAllowed        = errors.New("role is not allowed to book this resource")

	ErrInvalidTimeOfDay    = errors.New("time of day must be in HH:mm format")
	ErrInvalidWeekday      = errors.New("weekday must be between 0 and 6")
	ErrInvalidRestrictions = errors.New("invalid restrictions")
)

// TimeOfDay is a wall-clock time with minute precision, parsed from "HH:mm".
type TimeOfDay struct {
	minutes int
}

func NewTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return TimeOfDay{}, ErrInvalidTimeOfDay
	}
	return TimeOfDay{minutes: t.Hour()*60 + t.Minute()}, nil
}

func (t TimeOfDay) Minutes() int {
	return t.minutes
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.minutes/60, t.minutes%60)
}

// RestrictionsConfig is the raw, serializable shape of a resource's booking
// rules, as stored in the resources.restrictions jsonb column. All fields are
// optional; absence means unrestricted for that dimension.
type RestrictionsConfig struct {
	MinAdvanceNotice *int     `json:"min_advance_notice,omitempty"` // minutes
	MaxDuration      *int     `json:"max_duration,omitempty"`       // minutes
	AllowedStartTime *string  `json:"allowed_start_time,omitempty"` // HH:mm
	AllowedEndTime   *string  `json:"allowed_end_time,omitempty"`   // HH:mm
	AllowedDays      []int    `json:"allowed_days,omitempty"`       // 0=Sunday .. 6=Saturday
	AllowedRoles     []string `json:"allowed_roles,omitempty"`
}

// Restrictions is the validated, closed form of RestrictionsConfig.
type Restrictions struct {
	minAdvanceNotice *time.Duration
	maxDuration      *time.Duration
	allowedStart     *TimeOfDay
	allowedEnd       *TimeOfDay
	allowedDays      []time.Weekday
	allowedRoles     []string
}

func NewRestrictions(cfg RestrictionsConfig) (Restrictions, error) {
	var r Restrictions

	if cfg.MinAdvanceNotice != nil {
		if *cfg.MinAdvanceNotice < 0 {
			return Restrictions{}, ErrInvalidRestrictions
		}
		d := time.Duration(*cfg.MinAdvanceNotice) * time.Minute
		r.minAdvanceNotice = &d
	}

	if cfg.MaxDuration != nil {
		if *cfg.MaxDuration <= 0 {
			return Restrictions{}, ErrInvalidRestrictions
		}
		d := time.Duration(*cfg.MaxDuration) * time.Minute
		r.maxDuration = &d
	}

	// Start and end of the allowed window come as a pair; one without the
	// other cannot express a bookable range.
	if (cfg.AllowedStartTime == nil) != (cfg.AllowedEndTime == nil) {
		return Restrictions{}, ErrInvalidRestrictions
	}
	if cfg.AllowedStartTime != nil {
		start, err := NewTimeOfDay(*cfg.AllowedStartTime)
		if err != nil {
			return Restrictions{}, err
		}
		end, err := NewTimeOfDay(*cfg.AllowedEndTime)
		if err != nil {
			return Restrictions{}, err
		}
		if end.Minutes() <= start.Minutes() {
			return Restrictions{}, ErrInvalidRestrictions
		}
		r.allowedStart = &start
		r.allowedEnd = &end
	}

	if len(cfg.AllowedDays) > 0 {
		seen := map[time.Weekday]bool{}
		for _, d := range cfg.AllowedDays {
			if d < 0 || d > 6 {
				return Restrictions{}, ErrInvalidWeekday
			}
			seen[time.Weekday(d)] = true
		}
		for d := range seen {
			r.allowedDays = append(r.allowedDays, d)
		}
		sort.Slice(r.allowedDays, func(i, j int) bool { return r.allowedDays[i] < r.allowedDays[j] })
	}

	if len(cfg.AllowedRoles) > 0 {
		r.allowedRoles = append(r.allowedRoles, cfg.AllowedRoles...)
	}

	return r, nil
}

func (r Restrictions) Config() RestrictionsConfig {
	var cfg RestrictionsConfig
	if r.minAdvanceNotice != nil {
		m := int(r.minAdvanceNotice.Minutes())
		cfg.MinAdvanceNotice = &m
	}
	if r.maxDuration != nil {
		m := int(r.maxDuration.Minutes())
		cfg.MaxDuration = &m
	}
	if r.allowedStart != nil {
		s := r.allowedStart.String()
		e := r.allowedEnd.String()
		cfg.AllowedStartTime = &s
		cfg.AllowedEndTime = &e
	}
	for _, d := range r.allowedDays {
		cfg.AllowedDays = append(cfg.AllowedDays, int(d))
	}
	cfg.AllowedRoles = append(cfg.AllowedRoles, r.allowedRoles...)
	return cfg
}

func (r Restrictions) IsZero() bool {
	return r.minAdvanceNotice == nil && r.maxDuration == nil &&
		r.allowedStart == nil && len(r.allowedDays) == 0 && len(r.allowedRoles) == 0
}

// Validate applies each configured rule to the candidate window in a fixed
// order and returns the first violation. now is injected so advance-notice
// checks are testable.
func (r Restrictions) Validate(start, end time.Time, role string, now time.Time) error {
	if !end.After(start) {
		return ErrInvalidWindow
	}

	if r.minAdvanceNotice != nil && start.Sub(now) < *r.minAdvanceNotice {
		return ErrAdvanceNoticeTooShort
	}

	if r.maxDuration != nil && end.Sub(start) > *r.maxDuration {
		return ErrDurationTooLong
	}

	if len(r.allowedDays) > 0 {
		for _, day := range spanDays(start, end) {
			if !r.dayAllowed(day) {
				return ErrDisallowedDay
			}
		}
	}

	if r.allowedStart != nil {
		if err := r.validateHours(start, end); err != nil {
			return err
		}
	}

	if len(r.allowedRoles) > 0 && !r.roleAllowed(role) {
		return ErrRoleNotAllowed
	}

	return nil
}

func (r Restrictions) dayAllowed(day time.Weekday) bool {
	for _, d := range r.allowedDays {
		if d == day {
			return true
		}
	}
	return false
}

func (r Restrictions) roleAllowed(role string) bool {
	for _, allowed := range r.allowedRoles {
		if allowed == role {
			return true
		}
	}
	return false
}

// validateHours requires the whole window to sit inside
// [allowedStart, allowedEnd] on a single calendar day. A window ending at
// exactly midnight counts as ending at 24:00 of the starting day.
func (r Restrictions) validateHours(start, end time.Time) error {
	startMin := start.Hour()*60 + start.Minute()
	endMin := end.Hour()*60 + end.Minute()

	sameDay := start.Year() == end.Year() && start.YearDay() == end.YearDay()
	if !sameDay {
		midnight := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location()).AddDate(0, 0, 1)
		if !end.Equal(midnight) {
			return ErrDisallowedTime
		}
		endMin = 24 * 60
	}

	if startMin < r.allowedStart.Minutes() || endMin > r.allowedEnd.Minutes() {
		return ErrDisallowedTime
	}
	return nil
}

// spanDays lists every calendar day the half-open window [start, end) touches.
func spanDays(start, end time.Time) []time.Weekday {
	var days []time.Weekday
	last := end.Add(-time.Nanosecond)
	day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	for !day.After(last) {
		days = append(days, day.Weekday())
		day = day.AddDate(0, 0, 1)
	}
	return days
}
