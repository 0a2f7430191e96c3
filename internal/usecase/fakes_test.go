package usecase

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"therapist-crm/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var errDB = errors.New("connection reset")

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

type memProfiles struct {
	items   map[uuid.UUID]*entity.Profile
	findErr error
	updates []map[string]interface{}
}

func newMemProfiles(profiles ...*entity.Profile) *memProfiles {
	r := &memProfiles{items: map[uuid.UUID]*entity.Profile{}}
	for _, p := range profiles {
		r.items[p.ID] = p
	}
	return r
}

func (r *memProfiles) Create(ctx context.Context, p *entity.Profile) error {
	r.items[p.ID] = p
	return nil
}

func (r *memProfiles) FindByID(ctx context.Context, id uuid.UUID) (*entity.Profile, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	p, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *memProfiles) Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	r.updates = append(r.updates, fields)
	p, ok := r.items[id]
	if !ok {
		return nil
	}
	if v, ok := fields["role"].(string); ok {
		p.Role = v
	}
	if v, ok := fields["full_name"].(string); ok {
		p.FullName = v
	}
	if v, ok := fields["phone"].(string); ok {
		p.Phone = v
	}
	if v, ok := fields["avatar_url"].(string); ok {
		p.AvatarURL = v
	}
	return nil
}

type memConsents struct {
	items     []entity.LegalConsent
	createErr error
}

func (r *memConsents) Create(ctx context.Context, c *entity.LegalConsent) error {
	if r.createErr != nil {
		return r.createErr
	}
	c.ID = uuid.New()
	r.items = append(r.items, *c)
	return nil
}

func (r *memConsents) FindByUserAndVersion(ctx context.Context, userID uuid.UUID, version string) (*entity.LegalConsent, error) {
	for i := range r.items {
		if r.items[i].UserID == userID && r.items[i].AgreedVersion == version {
			c := r.items[i]
			return &c, nil
		}
	}
	return nil, nil
}

type memTherapists struct {
	mu      sync.Mutex
	items   []entity.Therapist
	findErr error
}

func (r *memTherapists) FindAll(ctx context.Context, filter entity.TherapistFilter) ([]entity.Therapist, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	var out []entity.Therapist
	for _, t := range r.items {
		if filter.IsActive != nil && t.IsActive != *filter.IsActive {
			continue
		}
		if len(filter.Statuses) > 0 && !contains(filter.Statuses, t.Status) {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (r *memTherapists) find(match func(*entity.Therapist) bool) *entity.Therapist {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if match(&r.items[i]) {
			t := r.items[i]
			return &t
		}
	}
	return nil
}

func (r *memTherapists) FindByID(ctx context.Context, id uuid.UUID) (*entity.Therapist, error) {
	return r.find(func(t *entity.Therapist) bool { return t.ID == id }), nil
}

func (r *memTherapists) FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Therapist, error) {
	return r.find(func(t *entity.Therapist) bool { return t.UserID != nil && *t.UserID == userID }), nil
}

func (r *memTherapists) Create(ctx context.Context, t *entity.Therapist) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t.ID = uuid.New()
	r.items = append(r.items, *t)
	return nil
}

func (r *memTherapists) Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		t := &r.items[i]
		if t.ID != id {
			continue
		}
		if v, ok := fields["status"].(string); ok {
			t.Status = v
		}
		if v, ok := fields["is_active"].(bool); ok {
			t.IsActive = v
		}
		if v, ok := fields["is_verified"].(bool); ok {
			t.IsVerified = v
		}
		if v, ok := fields["resume_url"].(string); ok {
			t.ResumeURL = v
		}
	}
	return nil
}

func (r *memTherapists) Delete(ctx context.Context, id uuid.UUID) error {
	return nil
}

type memPatients struct {
	mu        sync.Mutex
	items     []entity.Patient
	findErr   error
	createErr error
}

func (r *memPatients) FindAll(ctx context.Context, filter entity.PatientFilter) ([]entity.Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	return append([]entity.Patient(nil), r.items...), nil
}

func (r *memPatients) find(match func(*entity.Patient) bool) *entity.Patient {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if match(&r.items[i]) {
			p := r.items[i]
			return &p
		}
	}
	return nil
}

func (r *memPatients) FindByID(ctx context.Context, id uuid.UUID) (*entity.Patient, error) {
	return r.find(func(p *entity.Patient) bool { return p.ID == id }), nil
}

func (r *memPatients) FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Patient, error) {
	return r.find(func(p *entity.Patient) bool { return p.UserID != nil && *p.UserID == userID }), nil
}

func (r *memPatients) Create(ctx context.Context, p *entity.Patient) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	p.ID = uuid.New()
	r.items = append(r.items, *p)
	return nil
}

func (r *memPatients) Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		p := &r.items[i]
		if p.ID != id {
			continue
		}
		if v, ok := fields["status"].(string); ok {
			p.Status = v
		}
		if v, ok := fields["assigned_therapist_id"]; ok {
			if tid, ok := v.(uuid.UUID); ok {
				p.AssignedTherapistID = &tid
			} else {
				p.AssignedTherapistID = nil
			}
		}
		if v, ok := fields["matched_at"].(time.Time); ok {
			p.MatchedAt = &v
		}
	}
	return nil
}

func (r *memPatients) Delete(ctx context.Context, id uuid.UUID) error {
	return nil
}

type memLeads struct {
	mu        sync.Mutex
	items     []entity.Lead
	findErr   error
	createErr error
	updateErr error
}

func (r *memLeads) FindAll(ctx context.Context, filter entity.LeadFilter) ([]entity.Lead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	return append([]entity.Lead(nil), r.items...), nil
}

func (r *memLeads) FindByID(ctx context.Context, id uuid.UUID) (*entity.Lead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if r.items[i].ID == id {
			l := r.items[i]
			return &l, nil
		}
	}
	return nil, nil
}

func (r *memLeads) Create(ctx context.Context, l *entity.Lead) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	l.ID = uuid.New()
	r.items = append(r.items, *l)
	return nil
}

func (r *memLeads) Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return r.updateErr
	}
	for i := range r.items {
		l := &r.items[i]
		if l.ID != id {
			continue
		}
		if v, ok := fields["status"].(string); ok {
			l.Status = v
		}
		if v, ok := fields["converted_to_patient_id"].(uuid.UUID); ok {
			l.ConvertedToPatientID = &v
		}
		if v, ok := fields["converted_at"].(time.Time); ok {
			l.ConvertedAt = &v
		}
	}
	return nil
}

func (r *memLeads) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if r.items[i].ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return nil
}

type memAppointments struct {
	items     []entity.Appointment
	createErr error
}

func (r *memAppointments) FindAll(ctx context.Context, filter entity.AppointmentFilter) ([]entity.Appointment, error) {
	var out []entity.Appointment
	for _, a := range r.items {
		if filter.PatientID != nil && a.PatientID != *filter.PatientID {
			continue
		}
		if filter.TherapistID != nil && a.TherapistID != *filter.TherapistID {
			continue
		}
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (r *memAppointments) FindByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error) {
	for i := range r.items {
		if r.items[i].ID == id {
			a := r.items[i]
			return &a, nil
		}
	}
	return nil, nil
}

func (r *memAppointments) Create(ctx context.Context, a *entity.Appointment) error {
	if r.createErr != nil {
		return r.createErr
	}
	a.ID = uuid.New()
	r.items = append(r.items, *a)
	return nil
}

func (r *memAppointments) Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	for i := range r.items {
		if r.items[i].ID == id {
			if v, ok := fields["status"].(string); ok {
				r.items[i].Status = v
			}
		}
	}
	return nil
}

type memReviews struct {
	items []entity.Review
}

func (r *memReviews) FindByTherapist(ctx context.Context, therapistID uuid.UUID) ([]entity.Review, error) {
	var out []entity.Review
	for _, rv := range r.items {
		if rv.TherapistID == therapistID {
			out = append(out, rv)
		}
	}
	return out, nil
}

func (r *memReviews) Create(ctx context.Context, review *entity.Review) error {
	review.ID = uuid.New()
	r.items = append(r.items, *review)
	return nil
}

type memProgress struct {
	items map[string]entity.CourseProgress
}

func newMemProgress() *memProgress {
	return &memProgress{items: map[string]entity.CourseProgress{}}
}

func (r *memProgress) FindByUser(ctx context.Context, userID uuid.UUID, courseType string) ([]entity.CourseProgress, error) {
	var out []entity.CourseProgress
	for _, p := range r.items {
		if p.UserID == userID && (courseType == "" || p.CourseType == courseType) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memProgress) FindByUserAndVideo(ctx context.Context, userID uuid.UUID, videoID string) (*entity.CourseProgress, error) {
	p, ok := r.items[userID.String()+"/"+videoID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

// Upsert overwrites every column, like the SQL implementation.
func (r *memProgress) Upsert(ctx context.Context, p *entity.CourseProgress) error {
	r.items[p.UserID.String()+"/"+p.VideoID] = *p
	return nil
}

type memCertifications struct {
	items []entity.Certification
}

func (r *memCertifications) FindByUser(ctx context.Context, userID uuid.UUID) ([]entity.Certification, error) {
	var out []entity.Certification
	for _, c := range r.items {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *memCertifications) FindByUserAndType(ctx context.Context, userID uuid.UUID, certType string) (*entity.Certification, error) {
	for i := range r.items {
		if r.items[i].UserID == userID && r.items[i].CertificationType == certType {
			c := r.items[i]
			return &c, nil
		}
	}
	return nil, nil
}

type auditEntry struct {
	Action   string
	EntityID string
}

type fakeAudit struct {
	mu      sync.Mutex
	entries []auditEntry
}

func (a *fakeAudit) record(action, entityID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, auditEntry{Action: action, EntityID: entityID})
	return nil
}

func (a *fakeAudit) LogCreate(ctx context.Context, actorID *uuid.UUID, action, entityName, entityID string, newValue interface{}) error {
	return a.record(action, entityID)
}

func (a *fakeAudit) LogUpdate(ctx context.Context, actorID *uuid.UUID, action, entityName, entityID string, oldValue, newValue interface{}) error {
	return a.record(action, entityID)
}

func (a *fakeAudit) LogDelete(ctx context.Context, actorID *uuid.UUID, action, entityName, entityID string, oldValue interface{}) error {
	return a.record(action, entityID)
}

func (a *fakeAudit) actions() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, len(a.entries))
	for i, e := range a.entries {
		out[i] = e.Action
	}
	return out
}

type sentNotification struct {
	Type string
	To   string
	Data map[string]interface{}
}

// fakeNotifications delivers everything unless down is set. Empty
// recipients are never sent.
type fakeNotifications struct {
	mu   sync.Mutex
	down bool
	sent []sentNotification
}

func (n *fakeNotifications) Notify(ctx context.Context, notifType, to string, data map[string]interface{}, reference string) bool {
	if to == "" || n.down {
		return false
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentNotification{Type: notifType, To: to, Data: data})
	return true
}

func (n *fakeNotifications) ProcessPending(ctx context.Context) (int, error) { return 0, nil }

func (n *fakeNotifications) Run(ctx context.Context) {}

func (n *fakeNotifications) List(ctx context.Context, statuses []string) ([]entity.Notification, error) {
	return nil, nil
}

func (n *fakeNotifications) Retry(ctx context.Context, id uuid.UUID) (*entity.Notification, error) {
	return nil, nil
}

func (n *fakeNotifications) Abandon(ctx context.Context, id uuid.UUID) (*entity.Notification, error) {
	return nil, nil
}

func (n *fakeNotifications) byType(notifType string) []sentNotification {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []sentNotification
	for _, s := range n.sent {
		if s.Type == notifType {
			out = append(out, s)
		}
	}
	return out
}

type fakeRecovery struct {
	link string
	err  error
}

func (f fakeRecovery) IssueRecoveryLink(ctx context.Context, email string) (string, error) {
	return f.link, f.err
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
