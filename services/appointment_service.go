package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/meinhoongagan/therapy-booking/apperr"
	"github.com/meinhoongagan/therapy-booking/authz"
	"github.com/meinhoongagan/therapy-booking/models"
	"github.com/meinhoongagan/therapy-booking/repository"
	"github.com/meinhoongagan/therapy-booking/scheduling"
)

const defaultCancellationNote = "cancellation approved by an administrator"

type CreateAppointmentInput struct {
	Date       time.Time
	StartTime  time.Time
	EndTime    time.Time
	TherapyID  uuid.UUID
	Status     models.AppointmentStatus
	Notes      *string
	AdminNotes *string
}

// Validate performs the structural checks done before the store is consulted.
func (in CreateAppointmentInput) Validate() error {
	if in.Date.IsZero() {
		return apperr.BadRequest("date is required")
	}
	if in.TherapyID == uuid.Nil {
		return apperr.BadRequest("therapyId is required")
	}
	return scheduling.ValidateInterval(in.StartTime, in.EndTime)
}

// UpdateAppointmentInput is a partial update; nil fields are left untouched.
type UpdateAppointmentInput struct {
	Date       *time.Time
	StartTime  *time.Time
	EndTime    *time.Time
	TherapyID  *uuid.UUID
	Status     *models.AppointmentStatus
	Notes      *string
	AdminNotes *string
}

func (in UpdateAppointmentInput) changesSchedule() bool {
	return in.Date != nil || in.StartTime != nil || in.EndTime != nil || in.TherapyID != nil
}

type AppointmentService struct {
	repo   repository.IAppointmentRepository
	users  repository.IUserRepository
	policy scheduling.Policy
	mailer Mailer
	log    *zap.Logger
	now    func() time.Time
}

func NewAppointmentService(
	repo repository.IAppointmentRepository,
	users repository.IUserRepository,
	policy scheduling.Policy,
	mailer Mailer,
	log *zap.Logger,
) *AppointmentService {
	if policy == nil {
		policy = scheduling.DefaultPolicy()
	}
	return &AppointmentService{
		repo:   repo,
		users:  users,
		policy: policy,
		mailer: mailer,
		log:    log,
		now:    time.Now,
	}
}

// WithClock replaces the time source used by CompletePastAppointments.
func (s *AppointmentService) WithClock(now func() time.Time) *AppointmentService {
	s.now = now
	return s
}

func (s *AppointmentService) ReadAll(ctx context.Context) ([]models.Appointment, error) {
	return s.repo.FindAll(ctx)
}

func (s *AppointmentService) ReadByID(ctx context.Context, id uuid.UUID) (*models.Appointment, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *AppointmentService) ReadByUser(ctx context.Context, userID uuid.UUID) ([]models.Appointment, error) {
	return s.repo.FindByUser(ctx, userID)
}

// Owner loads an appointment for the authorization gate.
func (s *AppointmentService) Owner(ctx context.Context, id uuid.UUID) (authz.Owned, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Create books a new slot. Only admins may set the initial status or admin notes.
func (s *AppointmentService) Create(ctx context.Context, in CreateAppointmentInput, role models.Role) (*models.Appointment, error) {
	if role != models.RoleAdmin {
		in.Status = ""
		in.AdminNotes = nil
	}
	if in.Status != "" {
		if err := s.policy.ValidateTransition("", in.Status, in.Notes); err != nil {
			return nil, err
		}
	}

	candidate := models.Appointment{
		Date:       scheduling.DateOf(in.Date),
		StartTime:  in.StartTime.UTC(),
		EndTime:    in.EndTime.UTC(),
		TherapyID:  in.TherapyID,
		Status:     in.Status,
		Notes:      in.Notes,
		AdminNotes: in.AdminNotes,
	}

	err := s.repo.Transaction(ctx, func(tx repository.IAppointmentRepository) error {
		existing, err := tx.FindByTherapyAndDate(ctx, candidate.TherapyID, candidate.Date)
		if err != nil {
			return err
		}
		if s.policy.HasConflict(candidate, existing) {
			return apperr.Conflict("appointment time conflicts with another booking")
		}
		return tx.Create(ctx, &candidate)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("appointment created",
		zap.String("appointment_id", candidate.ID.String()),
		zap.String("therapy_id", candidate.TherapyID.String()),
		zap.String("status", string(candidate.Status)),
	)
	return s.repo.FindByID(ctx, candidate.ID)
}

// Update applies a partial change. Callers that are not admins may only touch notes;
// every other field they send is dropped. An empty role is treated as USER.
func (s *AppointmentService) Update(ctx context.Context, id uuid.UUID, in UpdateAppointmentInput, role models.Role) (*models.Appointment, error) {
	if role == "" {
		role = models.RoleUser
	}
	if role != models.RoleAdmin {
		in = UpdateAppointmentInput{Notes: in.Notes}
	}

	err := s.repo.Transaction(ctx, func(tx repository.IAppointmentRepository) error {
		current, err := tx.FindByID(ctx, id)
		if err != nil {
			return err
		}

		fields := map[string]interface{}{}
		if in.Status != nil {
			if err := s.policy.ValidateTransition(current.Status, *in.Status, in.Notes); err != nil {
				return err
			}
			fields["status"] = *in.Status
		}
		if in.Notes != nil {
			fields["notes"] = *in.Notes
		}
		if in.AdminNotes != nil {
			fields["admin_notes"] = *in.AdminNotes
		}

		if in.changesSchedule() {
			next := *current
			if in.Date != nil {
				next.Date = scheduling.DateOf(*in.Date)
			}
			if in.StartTime != nil {
				next.StartTime = in.StartTime.UTC()
			}
			if in.EndTime != nil {
				next.EndTime = in.EndTime.UTC()
			}
			if in.TherapyID != nil {
				next.TherapyID = *in.TherapyID
			}
			if in.Status != nil {
				next.Status = *in.Status
			}
			if err := scheduling.ValidateInterval(next.StartTime, next.EndTime); err != nil {
				return err
			}
			existing, err := tx.FindByTherapyAndDate(ctx, next.TherapyID, next.Date)
			if err != nil {
				return err
			}
			if next.Status != models.StatusCancelled && s.policy.HasConflict(next, existing) {
				return apperr.Conflict("appointment time conflicts with another booking")
			}
			fields["date"] = next.Date
			fields["start_time"] = next.StartTime
			fields["end_time"] = next.EndTime
			fields["therapy_id"] = next.TherapyID
		}

		return tx.Update(ctx, id, fields)
	})
	if err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

// RequestCancellation puts the appointment back into PENDING with the user's reason,
// waiting for an admin to approve the cancellation.
func (s *AppointmentService) RequestCancellation(ctx context.Context, id uuid.UUID, notes string) (*models.Appointment, error) {
	if strings.TrimSpace(notes) == "" {
		return nil, apperr.BadRequest("notes are required to request a cancellation")
	}
	fields := map[string]interface{}{
		"status": models.StatusPending,
		"notes":  notes,
	}
	if err := s.repo.Update(ctx, id, fields); err != nil {
		return nil, err
	}
	s.log.Info("cancellation requested", zap.String("appointment_id", id.String()))
	return s.repo.FindByID(ctx, id)
}

func (s *AppointmentService) Assign(ctx context.Context, appointmentID, userID uuid.UUID) (*models.Appointment, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}

	err := s.repo.Transaction(ctx, func(tx repository.IAppointmentRepository) error {
		if _, err := tx.FindByID(ctx, appointmentID); err != nil {
			return err
		}
		exists, err := tx.LinkExists(ctx, appointmentID, userID)
		if err != nil {
			return err
		}
		if exists {
			return apperr.Conflict("user %s is already assigned to appointment %s", userID, appointmentID)
		}
		link := models.AppointmentUser{AppointmentID: appointmentID, UserID: userID, Approved: true}
		if err := tx.CreateLink(ctx, &link); err != nil {
			return err
		}
		_, err = tx.SetStatus(ctx, []uuid.UUID{appointmentID}, models.StatusOccupied)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("appointment assigned",
		zap.String("appointment_id", appointmentID.String()),
		zap.String("user_id", userID.String()),
	)
	return s.repo.FindByID(ctx, appointmentID)
}

func (s *AppointmentService) Approve(ctx context.Context, id uuid.UUID) (*models.Appointment, error) {
	if err := s.repo.Update(ctx, id, map[string]interface{}{"status": models.StatusOccupied}); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

// ApproveCancellation frees a PENDING slot: the status becomes newStatus and every
// assignment link is removed. Notes, when given, are stored with the status. A
// CANCELLED slot left without any reason gets defaultCancellationNote. Former
// assignees are notified after commit.
func (s *AppointmentService) ApproveCancellation(ctx context.Context, id uuid.UUID, newStatus models.AppointmentStatus, notes *string) (*models.Appointment, error) {
	if newStatus != models.StatusAvailable && newStatus != models.StatusCancelled {
		return nil, apperr.BadRequest("newStatus must be %s or %s", models.StatusAvailable, models.StatusCancelled)
	}

	var released []models.AppointmentUser
	err := s.repo.Transaction(ctx, func(tx repository.IAppointmentRepository) error {
		current, err := tx.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if current.Status != models.StatusPending {
			return apperr.BadRequest("appointment %s is %s, only PENDING appointments can have a cancellation approved", id, current.Status)
		}
		fields := map[string]interface{}{"status": newStatus}
		reason := current.Notes
		if notes != nil && strings.TrimSpace(*notes) != "" {
			fields["notes"] = *notes
			reason = notes
		}
		if newStatus == models.StatusCancelled && (reason == nil || strings.TrimSpace(*reason) == "") {
			fields["notes"] = defaultCancellationNote
		}
		if err := tx.Update(ctx, id, fields); err != nil {
			return err
		}
		released = current.Users
		return tx.DeleteLinks(ctx, id)
	})
	if err != nil {
		return nil, err
	}

	s.notifyCancellation(id, released)
	return s.repo.FindByID(ctx, id)
}

func (s *AppointmentService) notifyCancellation(id uuid.UUID, released []models.AppointmentUser) {
	if s.mailer == nil {
		return
	}
	for _, link := range released {
		if link.User == nil || link.User.Email == "" {
			continue
		}
		body := fmt.Sprintf("<p>Hola, %s</p><p>Tu cita ha sido cancelada.</p>", link.User.Name)
		if err := s.mailer.Send(link.User.Email, "Cita cancelada", body); err != nil {
			s.log.Warn("cancellation notice failed",
				zap.String("appointment_id", id.String()),
				zap.String("user_id", link.UserID.String()),
				zap.Error(err),
			)
		}
	}
}

// CompletePastAppointments marks every OCCUPIED appointment whose end time has passed
// as COMPLETED and reports how many rows changed. A second run finds nothing to do.
func (s *AppointmentService) CompletePastAppointments(ctx context.Context) (int64, error) {
	now := s.now()
	var completed int64
	err := s.repo.Transaction(ctx, func(tx repository.IAppointmentRepository) error {
		candidates, err := tx.FindByStatusEndingBefore(ctx, models.StatusOccupied, now)
		if err != nil {
			return err
		}
		ids := make([]uuid.UUID, 0, len(candidates))
		for _, a := range candidates {
			if s.policy.IsPastDue(a, now) {
				ids = append(ids, a.ID)
			}
		}
		completed, err = tx.SetStatus(ctx, ids, models.StatusCompleted)
		return err
	})
	if err != nil {
		return 0, err
	}
	if completed > 0 {
		s.log.Info("past appointments completed", zap.Int64("count", completed))
	}
	return completed, nil
}

func (s *AppointmentService) Delete(ctx context.Context, id uuid.UUID) (*models.Appointment, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, err
	}
	s.log.Info("appointment deleted", zap.String("appointment_id", id.String()))
	return a, nil
}
