package usecase

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"sync"
	"time"

	"heartcoach/internal/data/entity"
	"heartcoach/internal/data/repository"
	"heartcoach/pkg/events"
	"heartcoach/pkg/utils"

	"github.com/google/uuid"
)

func testConfig() *utils.Config {
	return &utils.Config{
		App: utils.AppConfig{Name: "HeartCoach", Timezone: "UTC"},
		JWT: utils.JWTConfig{Secret: "test-secret", AccessExpiryMinute: 60, RefreshExpiryDays: 30},
		OTP: utils.OTPConfig{TTLSeconds: 300, Digits: 6, Issuer: "HeartCoach"},
	}
}

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newClock(t time.Time) *fakeClock { return &fakeClock{t: t} }

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

// ------------- kv store -------------

type fakeStore struct {
	mu     sync.Mutex
	values map[string]string
	ttls   map[string]time.Duration
	err    error

	// afterGet runs once a Get has read its value, outside the lock, so tests can
	// interleave other calls between a read and the write that follows it.
	afterGet func(key string)
}

func newFakeStore() *fakeStore {
	return &fakeStore{values: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (s *fakeStore) Set(_ context.Context, key, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.values[key] = value
	s.ttls[key] = ttl
	return nil
}

func (s *fakeStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	if s.err != nil {
		s.mu.Unlock()
		return "", false, s.err
	}
	v, ok := s.values[key]
	hook := s.afterGet
	s.mu.Unlock()

	if hook != nil {
		hook(key)
	}
	return v, ok, nil
}

func (s *fakeStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	delete(s.values, key)
	return nil
}

func (s *fakeStore) DeleteIfEqual(_ context.Context, key, value string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return false, s.err
	}
	if current, ok := s.values[key]; !ok || current != value {
		return false, nil
	}
	delete(s.values, key)
	return true, nil
}

func (s *fakeStore) Close() error { return nil }

// ------------- senders -------------

type sentMessage struct {
	to   string
	body string
}

type fakeSender struct {
	mu   sync.Mutex
	sent []sentMessage
	err  error
}

func (f *fakeSender) SendEmail(_ context.Context, to, _, body string) error {
	return f.record(to, body)
}

func (f *fakeSender) SendSMS(_ context.Context, to, body string) error {
	return f.record(to, body)
}

func (f *fakeSender) record(to, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMessage{to: to, body: body})
	return nil
}

var codePattern = regexp.MustCompile(`\b\d{6}\b`)

// lastCode extracts the code from the most recent message.
func (f *fakeSender) lastCode() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sent) == 0 {
		return ""
	}
	return codePattern.FindString(f.sent[len(f.sent)-1].body)
}

// ------------- metrics & events -------------

type fakeRecorder struct {
	mu         sync.Mutex
	otp        map[string]int
	created    int
	updated    int
	duplicates int
}

func newFakeRecorder() *fakeRecorder { return &fakeRecorder{otp: map[string]int{}} }

func (r *fakeRecorder) RecordOTP(outcome, channel string) {
	r.mu.Lock()
	r.otp[outcome+"/"+channel]++
	r.mu.Unlock()
}

func (r *fakeRecorder) RecordIntakeUpsert(created bool) {
	r.mu.Lock()
	if created {
		r.created++
	} else {
		r.updated++
	}
	r.mu.Unlock()
}

func (r *fakeRecorder) RecordIntakeDuplicateRetry() {
	r.mu.Lock()
	r.duplicates++
	r.mu.Unlock()
}

func (r *fakeRecorder) RecordHTTPRequest(string, string, int, time.Duration) {}

type fakePublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *fakePublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, e)
	return nil
}

func (p *fakePublisher) Close() error { return nil }

// ------------- repositories -------------

type fakeMedicineRepo struct {
	mu        sync.Mutex
	medicines map[uuid.UUID]*entity.Medicine
	schedules *fakeScheduleRepo
}

func (f *fakeMedicineRepo) CreateWithSchedules(_ context.Context, m *entity.Medicine) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *m
	cp.Schedules = nil
	f.medicines[m.ID] = &cp
	for _, s := range m.Schedules {
		f.schedules.put(s)
	}
	return nil
}

func (f *fakeMedicineRepo) FindByIDAndUser(_ context.Context, id, userID uuid.UUID) (*entity.Medicine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.medicines[id]
	if !ok || m.UserID != userID {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

func (f *fakeMedicineRepo) ListByUserWithSchedules(ctx context.Context, userID uuid.UUID) ([]*entity.Medicine, error) {
	f.mu.Lock()
	var out []*entity.Medicine
	for _, m := range f.medicines {
		if m.UserID == userID {
			cp := *m
			out = append(out, &cp)
		}
	}
	f.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	for _, m := range out {
		m.Schedules, _ = f.schedules.FindByMedicine(ctx, m.ID, userID)
	}
	return out, nil
}

func (f *fakeMedicineRepo) Update(_ context.Context, m *entity.Medicine, schedules []*entity.MedicineSchedule) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	old, ok := f.medicines[m.ID]
	if !ok || old.UserID != m.UserID {
		return fmt.Errorf("update medicine %s: %w", m.ID, repository.ErrNotAffected)
	}
	cp := *m
	cp.Schedules = nil
	f.medicines[m.ID] = &cp
	if schedules != nil {
		f.schedules.deleteByMedicine(m.ID)
		for _, s := range schedules {
			f.schedules.put(s)
		}
	}
	return nil
}

func (f *fakeMedicineRepo) Delete(_ context.Context, id, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.medicines[id]
	if !ok || m.UserID != userID {
		return fmt.Errorf("delete medicine %s: %w", id, repository.ErrNotAffected)
	}
	delete(f.medicines, id)
	f.schedules.deleteByMedicine(id)
	return nil
}

type fakeScheduleRepo struct {
	mu        sync.Mutex
	schedules map[uuid.UUID]*entity.MedicineSchedule
}

func (f *fakeScheduleRepo) put(s *entity.MedicineSchedule) {
	f.mu.Lock()
	cp := *s
	f.schedules[s.ID] = &cp
	f.mu.Unlock()
}

func (f *fakeScheduleRepo) deleteByMedicine(medicineID uuid.UUID) {
	f.mu.Lock()
	for id, s := range f.schedules {
		if s.MedicineID == medicineID {
			delete(f.schedules, id)
		}
	}
	f.mu.Unlock()
}

func (f *fakeScheduleRepo) FindForMedicine(_ context.Context, id, medicineID, userID uuid.UUID) (*entity.MedicineSchedule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.schedules[id]
	if !ok || s.MedicineID != medicineID || s.UserID != userID {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (f *fakeScheduleRepo) FindByIDAndUser(_ context.Context, id, userID uuid.UUID) (*entity.MedicineSchedule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.schedules[id]
	if !ok || s.UserID != userID {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (f *fakeScheduleRepo) FindByMedicine(_ context.Context, medicineID, userID uuid.UUID) ([]*entity.MedicineSchedule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.MedicineSchedule
	for _, s := range f.schedules {
		if s.MedicineID == medicineID && s.UserID == userID {
			cp := *s
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TimeOfDay < out[j].TimeOfDay })
	return out, nil
}

func (f *fakeScheduleRepo) Update(_ context.Context, s *entity.MedicineSchedule) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	old, ok := f.schedules[s.ID]
	if !ok || old.UserID != s.UserID {
		return fmt.Errorf("update schedule %s: %w", s.ID, repository.ErrNotAffected)
	}
	cp := *s
	f.schedules[s.ID] = &cp
	return nil
}

type intakeKey struct {
	scheduleID uuid.UUID
	date       string
}

// fakeIntakeRepo enforces the (schedule, date) uniqueness of the real table. When
// findGate is set, the first two Find calls wait for each other so both miss.
type fakeIntakeRepo struct {
	mu       sync.Mutex
	rows     map[intakeKey]*entity.DailyIntake
	findGate *sync.WaitGroup
	gated    int
	creates  int
	updates  int
}

func newFakeIntakeRepo() *fakeIntakeRepo {
	return &fakeIntakeRepo{rows: map[intakeKey]*entity.DailyIntake{}}
}

func keyOf(scheduleID uuid.UUID, date time.Time) intakeKey {
	return intakeKey{scheduleID: scheduleID, date: date.Format(utils.DateLayout)}
}

func (f *fakeIntakeRepo) Find(_ context.Context, scheduleID uuid.UUID, date time.Time) (*entity.DailyIntake, error) {
	f.mu.Lock()
	var found *entity.DailyIntake
	if row, ok := f.rows[keyOf(scheduleID, date)]; ok {
		cp := *row
		found = &cp
	}
	if f.findGate != nil && f.gated < 2 {
		f.gated++
		gate := f.findGate
		f.mu.Unlock()
		gate.Done()
		gate.Wait()
		return found, nil
	}
	f.mu.Unlock()
	return found, nil
}

func (f *fakeIntakeRepo) Create(_ context.Context, in *entity.DailyIntake) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := keyOf(in.ScheduleID, in.IntakeDate)
	if _, ok := f.rows[k]; ok {
		return fmt.Errorf("create intake: %w", repository.ErrDuplicate)
	}
	cp := *in
	f.rows[k] = &cp
	f.creates++
	return nil
}

func (f *fakeIntakeRepo) Update(_ context.Context, in *entity.DailyIntake) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for k, row := range f.rows {
		if row.ID == in.ID {
			cp := *row
			cp.Status = in.Status
			cp.Note = in.Note
			cp.StatusChangedAt = in.StatusChangedAt
			cp.UpdatedAt = in.UpdatedAt
			f.rows[k] = &cp
			f.updates++
			return nil
		}
	}
	return fmt.Errorf("update intake %s: %w", in.ID, repository.ErrNotAffected)
}

func (f *fakeIntakeRepo) ListByUserAndDate(_ context.Context, userID uuid.UUID, date time.Time) ([]*entity.DailyIntake, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.DailyIntake
	for k, row := range f.rows {
		if row.UserID == userID && k.date == date.Format(utils.DateLayout) {
			cp := *row
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeIntakeRepo) ListByMedicineInRange(_ context.Context, userID, _ uuid.UUID, from, to time.Time) ([]*entity.DailyIntake, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.DailyIntake
	for _, row := range f.rows {
		if row.UserID == userID && !row.IntakeDate.Before(from) && !row.IntakeDate.After(to) {
			cp := *row
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].IntakeDate.Before(out[j].IntakeDate) })
	return out, nil
}

func (f *fakeIntakeRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.rows)
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*entity.User
}

func (f *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if sameString(existing.Email, u.Email) || sameString(existing.PhoneNumber, u.PhoneNumber) {
			return fmt.Errorf("create user: %w", repository.ErrDuplicate)
		}
	}
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func sameString(a, b *string) bool {
	return a != nil && b != nil && *a == *b
}

func (f *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeUserRepo) find(match func(*entity.User) bool) *entity.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if match(u) {
			cp := *u
			return &cp
		}
	}
	return nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	return f.find(func(u *entity.User) bool { return u.Email != nil && *u.Email == email }), nil
}

func (f *fakeUserRepo) FindByPhone(_ context.Context, phone string) (*entity.User, error) {
	return f.find(func(u *entity.User) bool { return u.PhoneNumber != nil && *u.PhoneNumber == phone }), nil
}

type fakeUserInfoRepo struct {
	mu    sync.Mutex
	infos map[uuid.UUID]*entity.UserInfo
}

func (f *fakeUserInfoRepo) FindByUserID(_ context.Context, userID uuid.UUID) (*entity.UserInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if info, ok := f.infos[userID]; ok {
		cp := *info
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeUserInfoRepo) Upsert(_ context.Context, info *entity.UserInfo) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *info
	f.infos[info.UserID] = &cp
	return nil
}

type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*entity.Session
	now      func() time.Time
}

func (f *fakeSessionRepo) Create(_ context.Context, s *entity.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *s
	f.sessions[s.Token] = &cp
	return nil
}

func (f *fakeSessionRepo) FindValidSession(_ context.Context, token uuid.UUID) (*entity.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[token]
	if !ok || s.RevokedAt != nil || !s.ExpiresAt.After(f.now()) {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSessionRepo) Revoke(_ context.Context, token uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[token]
	if !ok || s.RevokedAt != nil {
		return fmt.Errorf("revoke session: %w", repository.ErrNotAffected)
	}
	now := f.now()
	s.RevokedAt = &now
	return nil
}

func (f *fakeSessionRepo) RevokeAllUserSessions(_ context.Context, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := f.now()
	for _, s := range f.sessions {
		if s.UserID == userID && s.RevokedAt == nil {
			s.RevokedAt = &now
		}
	}
	return nil
}

type fakeVitalRepo struct {
	mu     sync.Mutex
	vitals []*entity.Vital
}

func (f *fakeVitalRepo) Create(_ context.Context, v *entity.Vital) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *v
	f.vitals = append(f.vitals, &cp)
	return nil
}

func (f *fakeVitalRepo) FindByIDAndUser(_ context.Context, id, userID uuid.UUID) (*entity.Vital, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, v := range f.vitals {
		if v.ID == id && v.UserID == userID {
			cp := *v
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeVitalRepo) ListByUser(_ context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Vital, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var mine []*entity.Vital
	for i := len(f.vitals) - 1; i >= 0; i-- {
		if f.vitals[i].UserID == userID {
			mine = append(mine, f.vitals[i])
		}
	}
	if offset >= len(mine) {
		return nil, nil
	}
	return mine[offset:min(len(mine), offset+limit)], nil
}

func (f *fakeVitalRepo) CountByUser(_ context.Context, userID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, v := range f.vitals {
		if v.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (f *fakeVitalRepo) ListInRange(_ context.Context, userID uuid.UUID, start, end *time.Time, limit int) ([]*entity.Vital, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Vital
	for _, v := range f.vitals {
		if v.UserID != userID {
			continue
		}
		if start != nil && v.RecordedAt.Before(*start) {
			continue
		}
		if end != nil && !v.RecordedAt.Before(*end) {
			continue
		}
		out = append(out, v)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeVitalRepo) Update(_ context.Context, v *entity.Vital) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, existing := range f.vitals {
		if existing.ID == v.ID && existing.UserID == v.UserID {
			cp := *v
			f.vitals[i] = &cp
			return nil
		}
	}
	return fmt.Errorf("update vital: %w", repository.ErrNotAffected)
}

func (f *fakeVitalRepo) Delete(_ context.Context, id, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, v := range f.vitals {
		if v.ID == id && v.UserID == userID {
			f.vitals = append(f.vitals[:i], f.vitals[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("delete vital: %w", repository.ErrNotAffected)
}

type fakeWaterRepo struct {
	mu     sync.Mutex
	goals  []*entity.WaterGoal
	totals map[string]int
}

func waterKey(userID uuid.UUID, date time.Time) string {
	return userID.String() + "/" + date.Format(utils.DateLayout)
}

func (f *fakeWaterRepo) CreateGoal(_ context.Context, g *entity.WaterGoal) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.goals = append(f.goals, g)
	return nil
}

func (f *fakeWaterRepo) LatestGoal(_ context.Context, userID uuid.UUID) (*entity.WaterGoal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.goals) - 1; i >= 0; i-- {
		if f.goals[i].UserID == userID {
			return f.goals[i], nil
		}
	}
	return nil, nil
}

func (f *fakeWaterRepo) AddIntake(_ context.Context, userID uuid.UUID, date time.Time, ml int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.totals[waterKey(userID, date)] += ml
	return f.totals[waterKey(userID, date)], nil
}

func (f *fakeWaterRepo) FindIntake(_ context.Context, userID uuid.UUID, date time.Time) (*entity.WaterIntake, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	total, ok := f.totals[waterKey(userID, date)]
	if !ok {
		return nil, nil
	}
	return &entity.WaterIntake{ID: uuid.New(), UserID: userID, IntakeML: total, Date: date}, nil
}

func (f *fakeWaterRepo) ResetIntake(_ context.Context, userID uuid.UUID, date time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.totals, waterKey(userID, date))
	return nil
}

// ------------- wiring -------------

type fakes struct {
	repo      *repository.Repository
	users     *fakeUserRepo
	infos     *fakeUserInfoRepo
	sessions  *fakeSessionRepo
	medicines *fakeMedicineRepo
	schedules *fakeScheduleRepo
	intakes   *fakeIntakeRepo
	vitals    *fakeVitalRepo
	water     *fakeWaterRepo
}

func newFakes(clock *fakeClock) *fakes {
	schedules := &fakeScheduleRepo{schedules: map[uuid.UUID]*entity.MedicineSchedule{}}
	f := &fakes{
		users:     &fakeUserRepo{users: map[uuid.UUID]*entity.User{}},
		infos:     &fakeUserInfoRepo{infos: map[uuid.UUID]*entity.UserInfo{}},
		sessions:  &fakeSessionRepo{sessions: map[uuid.UUID]*entity.Session{}, now: clock.Now},
		medicines: &fakeMedicineRepo{medicines: map[uuid.UUID]*entity.Medicine{}, schedules: schedules},
		schedules: schedules,
		intakes:   newFakeIntakeRepo(),
		vitals:    &fakeVitalRepo{},
		water:     &fakeWaterRepo{totals: map[string]int{}},
	}
	f.repo = &repository.Repository{
		User:     f.users,
		UserInfo: f.infos,
		Session:  f.sessions,
		Medicine: f.medicines,
		Schedule: f.schedules,
		Intake:   f.intakes,
		Vital:    f.vitals,
		Water:    f.water,
	}
	return f
}

var errBoom = errors.New("boom")

func mustDate(value string) time.Time {
	d, err := utils.ParseDate(value)
	if err != nil {
		panic(err)
	}
	return d
}

func strPtr(s string) *string { return &s }
