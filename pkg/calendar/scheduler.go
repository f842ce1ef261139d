// Package calendar hands out creation timestamps that follow a weekly
// working-hours pattern.
package calendar

import (
	"errors"
	"fmt"
	"time"
)

const (
	DefaultStartHour = 7
	DefaultEndHour   = 18
)

// DefaultQuotas is the number of events per weekday, indexed by time.Weekday
// (Sunday first). A zero quota marks a day without activity.
var DefaultQuotas = []int{30, 2, 2, 10, 100, 0, 0}

// DefaultEpoch is the first timestamp handed out by a scheduler built without
// WithEpoch. It is a Monday.
var DefaultEpoch = time.Date(2010, time.January, 4, DefaultStartHour, 0, 0, 0, time.UTC)

var ErrNoWorkingDay = errors.New("calendar: every weekday quota is zero")

// Scheduler is a monotonically advancing timestamp generator. It is not safe
// for concurrent use; every generation run owns its schedulers.
type Scheduler struct {
	next      time.Time
	quotas    []int
	intervals []time.Duration
	startHour int
	endHour   int
}

type Option func(*Scheduler)

// WithEpoch sets the first timestamp.
func WithEpoch(t time.Time) Option {
	return func(s *Scheduler) {
		s.next = t
	}
}

// WithQuotas replaces the weekday quotas. The day of week wraps modulo the
// number of quotas.
func WithQuotas(quotas ...int) Option {
	return func(s *Scheduler) {
		s.quotas = append([]int(nil), quotas...)
	}
}

// WithWorkingHours sets the hour a working day starts and the last hour in
// which timestamps are still handed out.
func WithWorkingHours(start, end int) Option {
	return func(s *Scheduler) {
		s.startHour = start
		s.endHour = end
	}
}

// New builds a scheduler. An epoch that falls on a day without activity is
// moved to the start of the next working day.
func New(opts ...Option) (*Scheduler, error) {
	s := &Scheduler{
		next:      DefaultEpoch,
		quotas:    DefaultQuotas,
		startHour: DefaultStartHour,
		endHour:   DefaultEndHour,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.startHour < 0 || s.endHour > 23 || s.startHour >= s.endHour {
		return nil, fmt.Errorf("calendar: invalid working hours %d-%d", s.startHour, s.endHour)
	}
	if len(s.quotas) == 0 {
		return nil, ErrNoWorkingDay
	}

	workingDay := time.Duration(s.endHour-s.startHour) * time.Hour
	s.intervals = make([]time.Duration, len(s.quotas))
	for i, q := range s.quotas {
		switch {
		case q < 0:
			return nil, fmt.Errorf("calendar: negative quota %d for day %d", q, i)
		case q == 0:
			s.intervals[i] = workingDay
		default:
			interval := time.Second
			if secs := int(workingDay / time.Second); secs > q {
				interval = time.Duration(secs/q) * time.Second
			}
			s.intervals[i] = interval
		}
	}
	working := false
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		working = working || s.quotas[int(wd)%len(s.quotas)] > 0
	}
	if !working {
		return nil, ErrNoWorkingDay
	}

	if s.quota(s.next) == 0 {
		s.next = s.nextWorkingDay(s.next)
	}
	return s, nil
}

// Default returns a scheduler on the default weekly schedule.
func Default() *Scheduler {
	s, err := New()
	if err != nil {
		panic(err)
	}
	return s
}

// Next returns the current timestamp and advances the schedule by the
// interval of the current weekday. A candidate that leaves the working day
// moves to the start hour of the next day with a non-zero quota.
func (s *Scheduler) Next() time.Time {
	current := s.next

	candidate := current.Add(s.intervals[s.dayIndex(current)])
	if candidate.Hour() > s.endHour || !sameDay(candidate, current) {
		candidate = s.nextWorkingDay(current)
	}
	s.next = candidate

	return current
}

// Peek returns the timestamp the next call to Next hands out.
func (s *Scheduler) Peek() time.Time {
	return s.next
}

func (s *Scheduler) dayIndex(t time.Time) int {
	return int(t.Weekday()) % len(s.quotas)
}

func (s *Scheduler) quota(t time.Time) int {
	return s.quotas[s.dayIndex(t)]
}

func (s *Scheduler) nextWorkingDay(from time.Time) time.Time {
	y, m, d := from.Date()
	day := time.Date(y, m, d+1, s.startHour, 0, 0, 0, from.Location())
	for s.quota(day) == 0 {
		day = day.AddDate(0, 0, 1)
	}
	return day
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
