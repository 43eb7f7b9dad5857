// Package scheduling holds the pure booking rules: slot conflicts, status
// transitions and past-due detection. Nothing here touches storage.
package scheduling

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/meinhoongagan/therapy-booking/apperr"
	"github.com/meinhoongagan/therapy-booking/models"
)

// Policy is consulted by the appointment service. Swap the implementation to
// enforce a stricter transition table without touching the service.
type Policy interface {
	HasConflict(candidate models.Appointment, existing []models.Appointment) bool
	ValidateTransition(current, requested models.AppointmentStatus, notes *string) error
	IsPastDue(a models.Appointment, now time.Time) bool
}

// Permissive accepts every status change except cancelling without notes.
type Permissive struct{}

func DefaultPolicy() Policy { return Permissive{} }

// HasConflict reports whether any non-cancelled appointment for the same therapy
// and date overlaps the candidate's half-open [start, end) interval. The candidate
// itself (same id) is skipped so updates can re-check their own slot.
func (Permissive) HasConflict(candidate models.Appointment, existing []models.Appointment) bool {
	for _, e := range existing {
		if e.ID != uuid.Nil && e.ID == candidate.ID {
			continue
		}
		if e.Status == models.StatusCancelled {
			continue
		}
		if e.TherapyID != candidate.TherapyID || !SameDate(e.Date, candidate.Date) {
			continue
		}
		if Overlaps(e.StartTime, e.EndTime, candidate.StartTime, candidate.EndTime) {
			return true
		}
	}
	return false
}

func (Permissive) ValidateTransition(_, requested models.AppointmentStatus, notes *string) error {
	if !requested.Valid() {
		return apperr.BadRequest("invalid status %q", requested)
	}
	if requested == models.StatusCancelled && !hasText(notes) {
		return apperr.BadRequest("cancellation reason is required to cancel an appointment")
	}
	return nil
}

func (Permissive) IsPastDue(a models.Appointment, now time.Time) bool {
	return a.Status == models.StatusOccupied && a.EndTime.Before(now)
}

// Overlaps treats both intervals as half-open, so back-to-back slots do not collide.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// SameDate compares calendar dates in UTC.
func SameDate(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

// DateOf truncates t to midnight UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ValidateInterval is the structural check applied to input before it reaches the store.
func ValidateInterval(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return apperr.BadRequest("startTime and endTime are required")
	}
	if !end.After(start) {
		return apperr.BadRequest("endTime must be after startTime")
	}
	return nil
}

func hasText(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}
