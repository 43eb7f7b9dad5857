package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/meinhoongagan/therapy-booking/apperr"
	"github.com/meinhoongagan/therapy-booking/models"
	"github.com/meinhoongagan/therapy-booking/repository"
	"github.com/meinhoongagan/therapy-booking/scheduling"
)

// mockAppointmentRepo keeps appointments and links in maps. Transaction restores
// the previous state when fn fails.
type mockAppointmentRepo struct {
	mu           sync.Mutex
	appointments map[uuid.UUID]models.Appointment
	links        []models.AppointmentUser
	users        *mockUserRepo
	updates      int
}

func newMockAppointmentRepo(users *mockUserRepo) *mockAppointmentRepo {
	return &mockAppointmentRepo{appointments: map[uuid.UUID]models.Appointment{}, users: users}
}

func (m *mockAppointmentRepo) hydrate(a models.Appointment) models.Appointment {
	a.Users = nil
	for _, l := range m.links {
		if l.AppointmentID != a.ID {
			continue
		}
		if m.users != nil {
			if u, ok := m.users.users[l.UserID]; ok {
				u := u
				l.User = &u
			}
		}
		a.Users = append(a.Users, l)
	}
	return a
}

func (m *mockAppointmentRepo) sorted(filter func(models.Appointment) bool) []models.Appointment {
	var out []models.Appointment
	for _, a := range m.appointments {
		if filter(a) {
			out = append(out, m.hydrate(a))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out
}

func (m *mockAppointmentRepo) FindAll(_ context.Context) ([]models.Appointment, error) {
	return m.sorted(func(models.Appointment) bool { return true }), nil
}

func (m *mockAppointmentRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Appointment, error) {
	a, ok := m.appointments[id]
	if !ok {
		return nil, apperr.NotFound("appointment %s not found", id)
	}
	a = m.hydrate(a)
	return &a, nil
}

func (m *mockAppointmentRepo) FindByUser(_ context.Context, userID uuid.UUID) ([]models.Appointment, error) {
	linked := map[uuid.UUID]bool{}
	for _, l := range m.links {
		if l.UserID == userID {
			linked[l.AppointmentID] = true
		}
	}
	return m.sorted(func(a models.Appointment) bool { return linked[a.ID] }), nil
}

func (m *mockAppointmentRepo) FindByTherapyAndDate(_ context.Context, therapyID uuid.UUID, date time.Time) ([]models.Appointment, error) {
	return m.sorted(func(a models.Appointment) bool {
		return a.TherapyID == therapyID && scheduling.SameDate(a.Date, date)
	}), nil
}

func (m *mockAppointmentRepo) FindByStatusEndingBefore(_ context.Context, status models.AppointmentStatus, before time.Time) ([]models.Appointment, error) {
	return m.sorted(func(a models.Appointment) bool {
		return a.Status == status && a.EndTime.Before(before)
	}), nil
}

func (m *mockAppointmentRepo) Create(_ context.Context, a *models.Appointment) error {
	if err := a.BeforeCreate(nil); err != nil {
		return err
	}
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	m.appointments[a.ID] = *a
	return nil
}

func (m *mockAppointmentRepo) Update(_ context.Context, id uuid.UUID, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	a, ok := m.appointments[id]
	if !ok {
		return apperr.NotFound("appointment %s not found", id)
	}
	for k, v := range fields {
		switch k {
		case "status":
			a.Status = v.(models.AppointmentStatus)
		case "notes":
			s := v.(string)
			a.Notes = &s
		case "admin_notes":
			s := v.(string)
			a.AdminNotes = &s
		case "date":
			a.Date = v.(time.Time)
		case "start_time":
			a.StartTime = v.(time.Time)
		case "end_time":
			a.EndTime = v.(time.Time)
		case "therapy_id":
			a.TherapyID = v.(uuid.UUID)
		}
	}
	m.appointments[id] = a
	m.updates++
	return nil
}

func (m *mockAppointmentRepo) SetStatus(_ context.Context, ids []uuid.UUID, status models.AppointmentStatus) (int64, error) {
	var n int64
	for _, id := range ids {
		if a, ok := m.appointments[id]; ok {
			a.Status = status
			m.appointments[id] = a
			n++
		}
	}
	if n > 0 {
		m.updates++
	}
	return n, nil
}

func (m *mockAppointmentRepo) LinkExists(_ context.Context, appointmentID, userID uuid.UUID) (bool, error) {
	for _, l := range m.links {
		if l.AppointmentID == appointmentID && l.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockAppointmentRepo) CreateLink(_ context.Context, link *models.AppointmentUser) error {
	if err := link.BeforeCreate(nil); err != nil {
		return err
	}
	link.CreatedAt = time.Now()
	m.links = append(m.links, *link)
	return nil
}

func (m *mockAppointmentRepo) DeleteLinks(_ context.Context, appointmentID uuid.UUID) error {
	kept := m.links[:0]
	for _, l := range m.links {
		if l.AppointmentID != appointmentID {
			kept = append(kept, l)
		}
	}
	m.links = kept
	return nil
}

func (m *mockAppointmentRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.appointments[id]; !ok {
		return apperr.NotFound("appointment %s not found", id)
	}
	delete(m.appointments, id)
	return m.DeleteLinks(context.Background(), id)
}

func (m *mockAppointmentRepo) Transaction(_ context.Context, fn func(repository.IAppointmentRepository) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	saved := make(map[uuid.UUID]models.Appointment, len(m.appointments))
	for k, v := range m.appointments {
		saved[k] = v
	}
	savedLinks := append([]models.AppointmentUser(nil), m.links...)
	savedUpdates := m.updates

	if err := fn(m); err != nil {
		m.appointments = saved
		m.links = savedLinks
		m.updates = savedUpdates
		return err
	}
	return nil
}

func (m *mockAppointmentRepo) linksFor(id uuid.UUID) []models.AppointmentUser {
	var out []models.AppointmentUser
	for _, l := range m.links {
		if l.AppointmentID == id {
			out = append(out, l)
		}
	}
	return out
}

type mockUserRepo struct {
	users map[uuid.UUID]models.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: map[uuid.UUID]models.User{}}
}

func (m *mockUserRepo) add(u models.User) models.User {
	_ = u.BeforeCreate(nil)
	m.users[u.ID] = u
	return u
}

func (m *mockUserRepo) FindAll(_ context.Context) ([]models.User, error) {
	out := make([]models.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, u)
	}
	return out, nil
}

func (m *mockUserRepo) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, apperr.NotFound("user %s not found", id)
	}
	return &u, nil
}

func (m *mockUserRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]models.User, error) {
	var out []models.User
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *mockUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, apperr.NotFound("user %s not found", email)
}

func (m *mockUserRepo) Create(_ context.Context, u *models.User) error {
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return apperr.Conflict("user already exists")
		}
	}
	_ = u.BeforeCreate(nil)
	m.users[u.ID] = *u
	return nil
}

func (m *mockUserRepo) Update(_ context.Context, id uuid.UUID, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	u, ok := m.users[id]
	if !ok {
		return apperr.NotFound("user %s not found", id)
	}
	for k, v := range fields {
		switch k {
		case "name":
			u.Name = v.(string)
		case "email":
			u.Email = v.(string)
		case "password":
			u.Password = v.(string)
		case "role":
			u.Role = v.(models.Role)
		case "approved":
			u.Approved = v.(bool)
		case "message":
			s := v.(string)
			u.Message = &s
		case "avatar":
			s := v.(string)
			u.Avatar = &s
		}
	}
	m.users[id] = u
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.users[id]; !ok {
		return apperr.NotFound("user %s not found", id)
	}
	delete(m.users, id)
	return nil
}

type sentMail struct {
	to, subject, body string
}

type recordingMailer struct {
	sent []sentMail
	err  error
}

func (r *recordingMailer) Send(to, subject, body string) error {
	r.sent = append(r.sent, sentMail{to, subject, body})
	return r.err
}

var (
	_ repository.IAppointmentRepository = (*mockAppointmentRepo)(nil)
	_ repository.IUserRepository        = (*mockUserRepo)(nil)
)

func testLogger() *zap.Logger { return zap.NewNop() }
