package web

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"adjja/internal/adapters/http/middleware"

	accountDomain "adjja/internal/domain/account"
	classDomain "adjja/internal/domain/academyclass"
	coachDomain "adjja/internal/domain/coach"
	courseDomain "adjja/internal/domain/course"
	enrollmentDomain "adjja/internal/domain/enrollment"
	planDomain "adjja/internal/domain/plan"
	studentDomain "adjja/internal/domain/student"

	accountStore "adjja/internal/adapters/storage/account"
	classStore "adjja/internal/adapters/storage/academyclass"
	coachStore "adjja/internal/adapters/storage/coach"
	studentStore "adjja/internal/adapters/storage/student"
)

// Mock implementations for testing

type mockAccountStore struct {
	accounts map[string]accountDomain.Account
	tokens   map[string]accountDomain.ActivationToken
	// failLookups makes every read return a non-not-found error,
	// simulating a store outage for degraded-lookup tests.
	failLookups bool
}

func newMockAccountStore() *mockAccountStore {
	return &mockAccountStore{
		accounts: make(map[string]accountDomain.Account),
		tokens:   make(map[string]accountDomain.ActivationToken),
	}
}

var errStoreDown = errors.New("store unavailable")

func (m *mockAccountStore) GetByID(ctx context.Context, id string) (accountDomain.Account, error) {
	if m.failLookups {
		return accountDomain.Account{}, errStoreDown
	}
	if a, ok := m.accounts[id]; ok {
		return a, nil
	}
	return accountDomain.Account{}, sql.ErrNoRows
}

func (m *mockAccountStore) GetByEmail(ctx context.Context, email string) (accountDomain.Account, error) {
	if m.failLookups {
		return accountDomain.Account{}, errStoreDown
	}
	for _, a := range m.accounts {
		if strings.EqualFold(a.Email, strings.TrimSpace(email)) {
			return a, nil
		}
	}
	return accountDomain.Account{}, sql.ErrNoRows
}

func (m *mockAccountStore) Save(ctx context.Context, a accountDomain.Account) error {
	m.accounts[a.ID] = a
	return nil
}

func (m *mockAccountStore) Delete(ctx context.Context, id string) error {
	delete(m.accounts, id)
	return nil
}

func (m *mockAccountStore) List(ctx context.Context, filter accountStore.ListFilter) ([]accountDomain.Account, error) {
	var out []accountDomain.Account
	for _, a := range m.accounts {
		if filter.Role != "" && a.Role != filter.Role {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (m *mockAccountStore) Count(ctx context.Context) (int, error) {
	return len(m.accounts), nil
}

func (m *mockAccountStore) SaveActivationToken(ctx context.Context, t accountDomain.ActivationToken) error {
	m.tokens[t.Token] = t
	return nil
}

func (m *mockAccountStore) GetActivationTokenByToken(ctx context.Context, token string) (accountDomain.ActivationToken, error) {
	if t, ok := m.tokens[token]; ok {
		return t, nil
	}
	return accountDomain.ActivationToken{}, sql.ErrNoRows
}

func (m *mockAccountStore) InvalidateTokensForAccount(ctx context.Context, accountID string) error {
	for k, t := range m.tokens {
		if t.AccountID == accountID {
			t.Used = true
			m.tokens[k] = t
		}
	}
	return nil
}

type mockStudentStore struct {
	students map[string]studentDomain.Student
}

func newMockStudentStore() *mockStudentStore {
	return &mockStudentStore{students: make(map[string]studentDomain.Student)}
}

func (m *mockStudentStore) GetByID(ctx context.Context, id string) (studentDomain.Student, error) {
	if s, ok := m.students[id]; ok {
		return s, nil
	}
	return studentDomain.Student{}, sql.ErrNoRows
}

func (m *mockStudentStore) GetByEmail(ctx context.Context, email string) (studentDomain.Student, error) {
	for _, s := range m.students {
		if strings.EqualFold(s.Email, email) {
			return s, nil
		}
	}
	return studentDomain.Student{}, sql.ErrNoRows
}

func (m *mockStudentStore) GetByAccountID(ctx context.Context, accountID string) (studentDomain.Student, error) {
	for _, s := range m.students {
		if s.AccountID == accountID {
			return s, nil
		}
	}
	return studentDomain.Student{}, sql.ErrNoRows
}

func (m *mockStudentStore) Save(ctx context.Context, s studentDomain.Student) error {
	m.students[s.ID] = s
	return nil
}

func (m *mockStudentStore) Delete(ctx context.Context, id string) error {
	delete(m.students, id)
	return nil
}

func (m *mockStudentStore) SearchByName(ctx context.Context, query string, limit int) ([]studentDomain.Student, error) {
	var out []studentDomain.Student
	for _, s := range m.students {
		if s.Status == studentDomain.StatusArchived {
			continue
		}
		if strings.Contains(strings.ToLower(s.Name), strings.ToLower(query)) {
			out = append(out, s)
		}
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (m *mockStudentStore) List(ctx context.Context, filter studentStore.ListFilter) ([]studentDomain.Student, error) {
	var out []studentDomain.Student
	for _, s := range m.students {
		if filter.Belt != "" && s.Belt != filter.Belt {
			continue
		}
		if filter.Status != "" && s.Status != filter.Status {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (m *mockStudentStore) Count(ctx context.Context, filter studentStore.ListFilter) (int, error) {
	list, _ := m.List(ctx, filter)
	return len(list), nil
}

type mockCoachStore struct {
	coaches map[string]coachDomain.Coach
}

func newMockCoachStore() *mockCoachStore {
	return &mockCoachStore{coaches: make(map[string]coachDomain.Coach)}
}

func (m *mockCoachStore) GetByID(ctx context.Context, id string) (coachDomain.Coach, error) {
	if c, ok := m.coaches[id]; ok {
		return c, nil
	}
	return coachDomain.Coach{}, sql.ErrNoRows
}

func (m *mockCoachStore) GetByEmail(ctx context.Context, email string) (coachDomain.Coach, error) {
	for _, c := range m.coaches {
		if strings.EqualFold(c.Email, email) {
			return c, nil
		}
	}
	return coachDomain.Coach{}, sql.ErrNoRows
}

func (m *mockCoachStore) GetByAccountID(ctx context.Context, accountID string) (coachDomain.Coach, error) {
	for _, c := range m.coaches {
		if c.AccountID == accountID {
			return c, nil
		}
	}
	return coachDomain.Coach{}, sql.ErrNoRows
}

func (m *mockCoachStore) Save(ctx context.Context, c coachDomain.Coach) error {
	m.coaches[c.ID] = c
	return nil
}

func (m *mockCoachStore) Delete(ctx context.Context, id string) error {
	delete(m.coaches, id)
	return nil
}

func (m *mockCoachStore) List(ctx context.Context, filter coachStore.ListFilter) ([]coachDomain.Coach, error) {
	var out []coachDomain.Coach
	for _, c := range m.coaches {
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (m *mockCoachStore) Count(ctx context.Context, filter coachStore.ListFilter) (int, error) {
	list, _ := m.List(ctx, filter)
	return len(list), nil
}

type mockClassStore struct {
	classes map[string]classDomain.Class
}

func newMockClassStore() *mockClassStore {
	return &mockClassStore{classes: make(map[string]classDomain.Class)}
}

func (m *mockClassStore) GetByID(ctx context.Context, id string) (classDomain.Class, error) {
	if c, ok := m.classes[id]; ok {
		return c, nil
	}
	return classDomain.Class{}, sql.ErrNoRows
}

func (m *mockClassStore) Save(ctx context.Context, c classDomain.Class) error {
	m.classes[c.ID] = c
	return nil
}

func (m *mockClassStore) Delete(ctx context.Context, id string) error {
	delete(m.classes, id)
	return nil
}

func (m *mockClassStore) List(ctx context.Context, filter classStore.ListFilter) ([]classDomain.Class, error) {
	var out []classDomain.Class
	for _, c := range m.classes {
		if filter.Level != "" && c.Level != filter.Level {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (m *mockClassStore) ListByCoach(ctx context.Context, coachID string) ([]classDomain.Class, error) {
	var out []classDomain.Class
	for _, c := range m.classes {
		if c.CoachID == coachID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockClassStore) Count(ctx context.Context) (int, error) {
	return len(m.classes), nil
}

type mockEnrollmentStore struct {
	enrollments map[string]enrollmentDomain.Enrollment
	// failClassIDs simulates per-class save failures (e.g. a full class)
	// so partial-enrollment outcomes can be exercised.
	failClassIDs map[string]bool
}

func newMockEnrollmentStore() *mockEnrollmentStore {
	return &mockEnrollmentStore{
		enrollments:  make(map[string]enrollmentDomain.Enrollment),
		failClassIDs: make(map[string]bool),
	}
}

func (m *mockEnrollmentStore) GetByID(ctx context.Context, id string) (enrollmentDomain.Enrollment, error) {
	if e, ok := m.enrollments[id]; ok {
		return e, nil
	}
	return enrollmentDomain.Enrollment{}, sql.ErrNoRows
}

func (m *mockEnrollmentStore) Save(ctx context.Context, e enrollmentDomain.Enrollment) error {
	if m.failClassIDs[e.ClassID] {
		return errors.New("class is full")
	}
	m.enrollments[e.ID] = e
	return nil
}

func (m *mockEnrollmentStore) Delete(ctx context.Context, id string) error {
	delete(m.enrollments, id)
	return nil
}

func (m *mockEnrollmentStore) ListByStudent(ctx context.Context, studentID string) ([]enrollmentDomain.Enrollment, error) {
	var out []enrollmentDomain.Enrollment
	for _, e := range m.enrollments {
		if e.StudentID == studentID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *mockEnrollmentStore) ListByClass(ctx context.Context, classID string) ([]enrollmentDomain.Enrollment, error) {
	var out []enrollmentDomain.Enrollment
	for _, e := range m.enrollments {
		if e.ClassID == classID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *mockEnrollmentStore) CountByClass(ctx context.Context, classID string) (int, error) {
	list, _ := m.ListByClass(ctx, classID)
	return len(list), nil
}

type mockPlanStore struct {
	plans map[string]planDomain.Plan
}

func newMockPlanStore() *mockPlanStore {
	return &mockPlanStore{plans: make(map[string]planDomain.Plan)}
}

func (m *mockPlanStore) GetByID(ctx context.Context, id string) (planDomain.Plan, error) {
	if p, ok := m.plans[id]; ok {
		return p, nil
	}
	return planDomain.Plan{}, sql.ErrNoRows
}

func (m *mockPlanStore) Save(ctx context.Context, p planDomain.Plan) error {
	m.plans[p.ID] = p
	return nil
}

func (m *mockPlanStore) Delete(ctx context.Context, id string) error {
	delete(m.plans, id)
	return nil
}

func (m *mockPlanStore) List(ctx context.Context, activeOnly bool) ([]planDomain.Plan, error) {
	var out []planDomain.Plan
	for _, p := range m.plans {
		if activeOnly && !p.Active {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (m *mockPlanStore) Count(ctx context.Context) (int, error) {
	return len(m.plans), nil
}

type mockCourseStore struct {
	courses map[string]courseDomain.Course
	videos  map[string]courseDomain.Video
}

func newMockCourseStore() *mockCourseStore {
	return &mockCourseStore{
		courses: make(map[string]courseDomain.Course),
		videos:  make(map[string]courseDomain.Video),
	}
}

func (m *mockCourseStore) GetByID(ctx context.Context, id string) (courseDomain.Course, error) {
	if c, ok := m.courses[id]; ok {
		return c, nil
	}
	return courseDomain.Course{}, sql.ErrNoRows
}

func (m *mockCourseStore) Save(ctx context.Context, c courseDomain.Course) error {
	m.courses[c.ID] = c
	return nil
}

func (m *mockCourseStore) Delete(ctx context.Context, id string) error {
	delete(m.courses, id)
	for k, v := range m.videos {
		if v.CourseID == id {
			delete(m.videos, k)
		}
	}
	return nil
}

func (m *mockCourseStore) List(ctx context.Context, publishedOnly bool) ([]courseDomain.Course, error) {
	var out []courseDomain.Course
	for _, c := range m.courses {
		if publishedOnly && !c.Published {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (m *mockCourseStore) Count(ctx context.Context) (int, error) {
	return len(m.courses), nil
}

func (m *mockCourseStore) GetVideoByID(ctx context.Context, id string) (courseDomain.Video, error) {
	if v, ok := m.videos[id]; ok {
		return v, nil
	}
	return courseDomain.Video{}, sql.ErrNoRows
}

func (m *mockCourseStore) SaveVideo(ctx context.Context, v courseDomain.Video) error {
	m.videos[v.ID] = v
	return nil
}

func (m *mockCourseStore) DeleteVideo(ctx context.Context, id string) error {
	delete(m.videos, id)
	return nil
}

func (m *mockCourseStore) ListVideosByCourse(ctx context.Context, courseID string) ([]courseDomain.Video, error) {
	var out []courseDomain.Video
	for _, v := range m.videos {
		if v.CourseID == courseID {
			out = append(out, v)
		}
	}
	return out, nil
}

// newTestStores resets the package globals with fresh map-backed mocks.
func newTestStores() *Stores {
	s := &Stores{
		AccountStore:    newMockAccountStore(),
		StudentStore:    newMockStudentStore(),
		CoachStore:      newMockCoachStore(),
		ClassStore:      newMockClassStore(),
		EnrollmentStore: newMockEnrollmentStore(),
		PlanStore:       newMockPlanStore(),
		CourseStore:     newMockCourseStore(),
	}
	s.VideoStore = s.CourseStore.(*mockCourseStore)
	stores = s
	sessions = middleware.NewSessionStore()
	wizardRegistry = newWizardSessions()
	return s
}

func authRequest(method, url string, body string, sess middleware.Session) *http.Request {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, url, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}
	ctx := middleware.ContextWithSession(req.Context(), sess)
	return req.WithContext(ctx)
}

var adminSession = middleware.Session{
	AccountID: "admin-1",
	Email:     "admin@example.com",
	Role:      "admin",
}

var coachSession = middleware.Session{
	AccountID: "coach-acct-1",
	Email:     "coach@example.com",
	Role:      "coach",
}

var studentSession = middleware.Session{
	AccountID: "student-acct-1",
	Email:     "student@example.com",
	Role:      "student",
}

func TestHandleLogin(t *testing.T) {
	s := newTestStores()

	acct := accountDomain.Account{
		ID:     "acct-1",
		Email:  "maria@example.com",
		Role:   "admin",
		Status: accountDomain.StatusActive,
	}
	if err := acct.SetPassword("correct-horse-battery"); err != nil {
		t.Fatalf("SetPassword: %v", err)
	}
	s.AccountStore.Save(context.Background(), acct)

	t.Run("success", func(t *testing.T) {
		body := `{"Email":"maria@example.com","Password":"correct-horse-battery"}`
		req := httptest.NewRequest("POST", "/login", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		handleLogin(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		var resp map[string]any
		json.Unmarshal(rec.Body.Bytes(), &resp)
		if resp["AccountID"] != "acct-1" {
			t.Errorf("expected AccountID acct-1, got %v", resp["AccountID"])
		}
		cookies := rec.Result().Cookies()
		found := false
		for _, c := range cookies {
			if c.Name == middleware.SessionCookieName() && c.Value != "" {
				found = true
			}
		}
		if !found {
			t.Error("expected session cookie to be set")
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		body := `{"Email":"maria@example.com","Password":"nope"}`
		req := httptest.NewRequest("POST", "/login", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		handleLogin(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("get not allowed", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/login", nil)
		rec := httptest.NewRecorder()
		handleLogin(rec, req)
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405, got %d", rec.Code)
		}
	})
}

func TestHandleStudents_Auth(t *testing.T) {
	newTestStores()

	t.Run("no session", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/students", nil)
		rec := httptest.NewRecorder()
		handleStudents(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("student role forbidden", func(t *testing.T) {
		req := authRequest("GET", "/api/students", "", studentSession)
		rec := httptest.NewRecorder()
		handleStudents(rec, req)
		if rec.Code != http.StatusForbidden {
			t.Errorf("expected 403, got %d", rec.Code)
		}
	})

	t.Run("coach allowed", func(t *testing.T) {
		req := authRequest("GET", "/api/students", "", coachSession)
		rec := httptest.NewRecorder()
		handleStudents(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", rec.Code)
		}
	})
}

func TestHandleStudents_List(t *testing.T) {
	s := newTestStores()
	ctx := context.Background()
	s.StudentStore.Save(ctx, studentDomain.Student{ID: "s1", Name: "Ana", Email: "ana@example.com", Belt: "blue", Status: "active"})
	s.StudentStore.Save(ctx, studentDomain.Student{ID: "s2", Name: "Ben", Email: "ben@example.com", Belt: "white", Status: "active"})

	req := authRequest("GET", "/api/students?belt=blue", "", adminSession)
	rec := httptest.NewRecorder()
	handleStudents(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var list []studentDomain.Student
	json.Unmarshal(rec.Body.Bytes(), &list)
	if len(list) != 1 || list[0].ID != "s1" {
		t.Errorf("expected only s1, got %+v", list)
	}
}

func TestHandleStudents_EmptyListIsArray(t *testing.T) {
	newTestStores()

	req := authRequest("GET", "/api/students", "", adminSession)
	rec := httptest.NewRecorder()
	handleStudents(rec, req)

	if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
		t.Errorf("expected [], got %q", got)
	}
}

func TestHandleStudentProfile(t *testing.T) {
	s := newTestStores()
	ctx := context.Background()
	s.StudentStore.Save(ctx, studentDomain.Student{ID: "s1", Name: "Ana", Email: "ana@example.com", Belt: "blue", Status: "active"})
	s.ClassStore.Save(ctx, classDomain.Class{ID: "c1", Name: "Morning Gi", Schedule: "Mon 6:00 AM - 7:00 AM"})
	s.EnrollmentStore.Save(ctx, enrollmentDomain.Enrollment{ID: "e1", StudentID: "s1", ClassID: "c1"})

	req := authRequest("GET", "/api/students/profile?id=s1", "", adminSession)
	rec := httptest.NewRecorder()
	handleStudentProfile(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Student studentDomain.Student
		Classes []struct {
			ClassID  string
			Name     string
			Schedule string
		}
	}
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Student.Name != "Ana" {
		t.Errorf("expected student Ana, got %q", resp.Student.Name)
	}
	if len(resp.Classes) != 1 || resp.Classes[0].Name != "Morning Gi" {
		t.Errorf("expected Morning Gi enrollment, got %+v", resp.Classes)
	}
}

func TestHandleStudentProfile_NotFound(t *testing.T) {
	newTestStores()

	req := authRequest("GET", "/api/students/profile?id=missing", "", adminSession)
	rec := httptest.NewRecorder()
	handleStudentProfile(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestHandleStudentArchiveRestore(t *testing.T) {
	s := newTestStores()
	ctx := context.Background()
	s.StudentStore.Save(ctx, studentDomain.Student{ID: "s1", Name: "Ana", Email: "ana@example.com", Belt: "blue", Status: "active"})

	t.Run("coach forbidden", func(t *testing.T) {
		req := authRequest("POST", "/api/students/archive", `{"StudentID":"s1"}`, coachSession)
		rec := httptest.NewRecorder()
		handleStudentArchive(rec, req)
		if rec.Code != http.StatusForbidden {
			t.Errorf("expected 403, got %d", rec.Code)
		}
	})

	t.Run("archive", func(t *testing.T) {
		req := authRequest("POST", "/api/students/archive", `{"StudentID":"s1"}`, adminSession)
		rec := httptest.NewRecorder()
		handleStudentArchive(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d: %s", rec.Code, rec.Body.String())
		}
		st, _ := s.StudentStore.GetByID(ctx, "s1")
		if st.Status != studentDomain.StatusArchived {
			t.Errorf("expected archived, got %q", st.Status)
		}
	})

	t.Run("restore", func(t *testing.T) {
		req := authRequest("POST", "/api/students/restore", `{"StudentID":"s1"}`, adminSession)
		rec := httptest.NewRecorder()
		handleStudentRestore(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d: %s", rec.Code, rec.Body.String())
		}
		st, _ := s.StudentStore.GetByID(ctx, "s1")
		if st.Status != studentDomain.StatusActive {
			t.Errorf("expected active, got %q", st.Status)
		}
	})
}

func TestHandleCoachDeactivateActivate(t *testing.T) {
	s := newTestStores()
	ctx := context.Background()
	s.CoachStore.Save(ctx, coachDomain.Coach{ID: "co1", Name: "Rafael", Email: "rafael@example.com", Belt: "black", Status: "active"})

	req := authRequest("POST", "/api/coaches/deactivate", `{"CoachID":"co1"}`, adminSession)
	rec := httptest.NewRecorder()
	handleCoachDeactivate(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", rec.Code, rec.Body.String())
	}
	c, _ := s.CoachStore.GetByID(ctx, "co1")
	if c.Status != coachDomain.StatusInactive {
		t.Errorf("expected inactive, got %q", c.Status)
	}

	// Deactivating twice is an error surfaced to the client.
	rec = httptest.NewRecorder()
	handleCoachDeactivate(rec, authRequest("POST", "/api/coaches/deactivate", `{"CoachID":"co1"}`, adminSession))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 on double deactivate, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	handleCoachActivate(rec, authRequest("POST", "/api/coaches/activate", `{"CoachID":"co1"}`, adminSession))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	c, _ = s.CoachStore.GetByID(ctx, "co1")
	if c.Status != coachDomain.StatusActive {
		t.Errorf("expected active, got %q", c.Status)
	}
}

func TestHandleCoachProfile(t *testing.T) {
	s := newTestStores()
	ctx := context.Background()
	s.CoachStore.Save(ctx, coachDomain.Coach{ID: "co1", Name: "Rafael", Email: "rafael@example.com", Belt: "black", Status: "active"})
	s.ClassStore.Save(ctx, classDomain.Class{ID: "c1", Name: "No-Gi", CoachID: "co1", Schedule: "Wed 7:00 PM - 8:30 PM"})

	req := authRequest("GET", "/api/coaches/profile?id=co1", "", coachSession)
	rec := httptest.NewRecorder()
	handleCoachProfile(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp struct {
		Coach   coachDomain.Coach
		Classes []classDomain.Class
	}
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Coach.Name != "Rafael" {
		t.Errorf("expected Rafael, got %q", resp.Coach.Name)
	}
	if len(resp.Classes) != 1 || resp.Classes[0].ID != "c1" {
		t.Errorf("expected class c1, got %+v", resp.Classes)
	}
}

func TestHandleClassDetail(t *testing.T) {
	s := newTestStores()
	ctx := context.Background()
	s.ClassStore.Save(ctx, classDomain.Class{
		ID: "c1", Name: "Morning Gi", Instructor: "Rafael",
		Schedule: "Mon 6:00 AM - 7:00 AM", Level: "all", Capacity: 20, Duration: 60,
	})
	s.EnrollmentStore.Save(ctx, enrollmentDomain.Enrollment{ID: "e1", StudentID: "s1", ClassID: "c1"})
	s.EnrollmentStore.Save(ctx, enrollmentDomain.Enrollment{ID: "e2", StudentID: "s2", ClassID: "c1"})

	req := authRequest("GET", "/api/classes/detail?id=c1", "", coachSession)
	rec := httptest.NewRecorder()
	handleClassDetail(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp struct {
		Enrolled int
		Spots    int
		Slot     struct {
			Day     string
			Minutes int
		}
	}
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Enrolled != 2 {
		t.Errorf("expected 2 enrolled, got %d", resp.Enrolled)
	}
	if resp.Spots != 18 {
		t.Errorf("expected 18 spots, got %d", resp.Spots)
	}
	if resp.Slot.Day != "Monday" || resp.Slot.Minutes != 60 {
		t.Errorf("unexpected slot %+v", resp.Slot)
	}
}

func TestHandleClassRoster(t *testing.T) {
	s := newTestStores()
	ctx := context.Background()
	s.ClassStore.Save(ctx, classDomain.Class{ID: "c1", Name: "Morning Gi"})
	s.StudentStore.Save(ctx, studentDomain.Student{ID: "s1", Name: "Ana", Email: "ana@example.com", Belt: "blue", Stripes: 2, Status: "active"})
	s.EnrollmentStore.Save(ctx, enrollmentDomain.Enrollment{ID: "e1", StudentID: "s1", ClassID: "c1"})
	// enrollment pointing at a deleted student is skipped, not fatal
	s.EnrollmentStore.Save(ctx, enrollmentDomain.Enrollment{ID: "e2", StudentID: "gone", ClassID: "c1"})

	req := authRequest("GET", "/api/classes/roster?id=c1", "", coachSession)
	rec := httptest.NewRecorder()
	handleClassRoster(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var roster []struct {
		StudentID string
		Name      string
		Belt      string
	}
	json.Unmarshal(rec.Body.Bytes(), &roster)
	if len(roster) != 1 || roster[0].Name != "Ana" {
		t.Errorf("expected roster of [Ana], got %+v", roster)
	}
}

func TestHandleSchedulePreview(t *testing.T) {
	newTestStores()

	t.Run("valid", func(t *testing.T) {
		req := authRequest("GET", "/api/classes/schedule-preview?schedule=Mon+6%3A00+AM+-+7%3A30+AM", "", coachSession)
		rec := httptest.NewRecorder()
		handleSchedulePreview(rec, req)
		var resp struct {
			OK   bool
			Slot struct{ Minutes int }
		}
		json.Unmarshal(rec.Body.Bytes(), &resp)
		if !resp.OK || resp.Slot.Minutes != 90 {
			t.Errorf("expected OK 90 minutes, got %+v", resp)
		}
	})

	t.Run("invalid", func(t *testing.T) {
		req := authRequest("GET", "/api/classes/schedule-preview?schedule=whenever", "", coachSession)
		rec := httptest.NewRecorder()
		handleSchedulePreview(rec, req)
		var resp struct {
			OK    bool
			Error string
		}
		json.Unmarshal(rec.Body.Bytes(), &resp)
		if resp.OK || resp.Error == "" {
			t.Errorf("expected failure with message, got %+v", resp)
		}
	})
}

func TestHandlePlans(t *testing.T) {
	s := newTestStores()

	t.Run("create", func(t *testing.T) {
		body := `{"Name":"Unlimited","PriceCents":14900,"Currency":"nzd","Interval":"monthly"}`
		req := authRequest("POST", "/api/plans", body, adminSession)
		rec := httptest.NewRecorder()
		handlePlans(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		var p planDomain.Plan
		json.Unmarshal(rec.Body.Bytes(), &p)
		if p.Currency != "NZD" {
			t.Errorf("expected currency normalized to NZD, got %q", p.Currency)
		}
		if !p.Active {
			t.Error("new plan should be active")
		}
	})

	t.Run("invalid interval", func(t *testing.T) {
		body := `{"Name":"Weird","PriceCents":100,"Currency":"NZD","Interval":"fortnightly"}`
		req := authRequest("POST", "/api/plans", body, adminSession)
		rec := httptest.NewRecorder()
		handlePlans(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("retire", func(t *testing.T) {
		s.PlanStore.Save(context.Background(), planDomain.Plan{ID: "p1", Name: "Basic", PriceCents: 9900, Currency: "NZD", Interval: "monthly", Active: true})

		req := authRequest("POST", "/api/plans/retire", `{"PlanID":"p1"}`, adminSession)
		rec := httptest.NewRecorder()
		handlePlanRetire(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}
		p, _ := s.PlanStore.GetByID(context.Background(), "p1")
		if p.Active {
			t.Error("expected plan retired")
		}

		// retiring twice is an error
		rec = httptest.NewRecorder()
		handlePlanRetire(rec, authRequest("POST", "/api/plans/retire", `{"PlanID":"p1"}`, adminSession))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400 on double retire, got %d", rec.Code)
		}
	})

	t.Run("list active only", func(t *testing.T) {
		req := authRequest("GET", "/api/plans?active=true", "", coachSession)
		rec := httptest.NewRecorder()
		handlePlans(rec, req)
		var plans []planDomain.Plan
		json.Unmarshal(rec.Body.Bytes(), &plans)
		for _, p := range plans {
			if !p.Active {
				t.Errorf("retired plan %q in active list", p.Name)
			}
		}
	})
}

func TestHandleCourses_Visibility(t *testing.T) {
	s := newTestStores()
	ctx := context.Background()
	s.CourseStore.Save(ctx, courseDomain.Course{ID: "k1", Title: "Guard Basics", Published: true})
	s.CourseStore.Save(ctx, courseDomain.Course{ID: "k2", Title: "Draft Course", Published: false})

	t.Run("student sees published only", func(t *testing.T) {
		req := authRequest("GET", "/api/courses", "", studentSession)
		rec := httptest.NewRecorder()
		handleCourses(rec, req)
		var list []courseDomain.Course
		json.Unmarshal(rec.Body.Bytes(), &list)
		if len(list) != 1 || list[0].ID != "k1" {
			t.Errorf("expected only published course, got %+v", list)
		}
	})

	t.Run("coach sees drafts", func(t *testing.T) {
		req := authRequest("GET", "/api/courses", "", coachSession)
		rec := httptest.NewRecorder()
		handleCourses(rec, req)
		var list []courseDomain.Course
		json.Unmarshal(rec.Body.Bytes(), &list)
		if len(list) != 2 {
			t.Errorf("expected 2 courses, got %d", len(list))
		}
	})

	t.Run("student cannot open draft detail", func(t *testing.T) {
		req := authRequest("GET", "/api/courses/detail?id=k2", "", studentSession)
		rec := httptest.NewRecorder()
		handleCourseDetail(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", rec.Code)
		}
	})
}

func TestHandleCourseDetail_RendersMarkdown(t *testing.T) {
	s := newTestStores()
	ctx := context.Background()
	s.CourseStore.Save(ctx, courseDomain.Course{
		ID: "k1", Title: "Guard Basics", Published: true,
		Description: "# Closed Guard\n\nKeep your **elbows** in.",
	})

	req := authRequest("GET", "/api/courses/detail?id=k1", "", studentSession)
	rec := httptest.NewRecorder()
	handleCourseDetail(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp struct {
		DescriptionHTML string
	}
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if !strings.Contains(resp.DescriptionHTML, "<h1") {
		t.Errorf("expected rendered heading, got %q", resp.DescriptionHTML)
	}
	if !strings.Contains(resp.DescriptionHTML, "<strong>elbows</strong>") {
		t.Errorf("expected rendered bold, got %q", resp.DescriptionHTML)
	}
}

func TestHandleCourseDetail_EscapesRawHTML(t *testing.T) {
	s := newTestStores()
	ctx := context.Background()
	s.CourseStore.Save(ctx, courseDomain.Course{
		ID: "k1", Title: "XSS", Published: true,
		Description: "<script>alert(1)</script>",
	})

	req := authRequest("GET", "/api/courses/detail?id=k1", "", studentSession)
	rec := httptest.NewRecorder()
	handleCourseDetail(rec, req)

	var resp struct {
		DescriptionHTML string
	}
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if strings.Contains(resp.DescriptionHTML, "<script>") {
		t.Errorf("raw script tag must be escaped, got %q", resp.DescriptionHTML)
	}
}

func TestHandleCourseVideos(t *testing.T) {
	s := newTestStores()
	ctx := context.Background()
	s.CourseStore.Save(ctx, courseDomain.Course{ID: "k1", Title: "Guard Basics"})

	t.Run("add extracts youtube id", func(t *testing.T) {
		body := `{"CourseID":"k1","Title":"Lesson 1","YouTubeURL":"https://www.youtube.com/watch?v=dQw4w9WgXcQ","Position":0}`
		req := authRequest("POST", "/api/courses/videos", body, coachSession)
		rec := httptest.NewRecorder()
		handleCourseVideos(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		var v courseDomain.Video
		json.Unmarshal(rec.Body.Bytes(), &v)
		if v.YouTubeID != "dQw4w9WgXcQ" {
			t.Errorf("expected extracted ID, got %q", v.YouTubeID)
		}
	})

	t.Run("bad url rejected", func(t *testing.T) {
		body := `{"CourseID":"k1","Title":"Lesson 2","YouTubeURL":"https://vimeo.com/12345","Position":1}`
		req := authRequest("POST", "/api/courses/videos", body, coachSession)
		rec := httptest.NewRecorder()
		handleCourseVideos(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("unknown course", func(t *testing.T) {
		body := `{"CourseID":"nope","Title":"Lesson","YouTubeURL":"https://youtu.be/dQw4w9WgXcQ","Position":0}`
		req := authRequest("POST", "/api/courses/videos", body, coachSession)
		rec := httptest.NewRecorder()
		handleCourseVideos(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", rec.Code)
		}
	})
}

func TestHandleCoursePublishUnpublish(t *testing.T) {
	s := newTestStores()
	ctx := context.Background()
	s.CourseStore.Save(ctx, courseDomain.Course{ID: "k1", Title: "Guard Basics"})

	rec := httptest.NewRecorder()
	handleCoursePublish(rec, authRequest("POST", "/api/courses/publish", `{"CourseID":"k1"}`, coachSession))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", rec.Code, rec.Body.String())
	}
	c, _ := s.CourseStore.GetByID(ctx, "k1")
	if !c.Published {
		t.Error("expected published")
	}

	rec = httptest.NewRecorder()
	handleCourseUnpublish(rec, authRequest("POST", "/api/courses/unpublish", `{"CourseID":"k1"}`, coachSession))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	c, _ = s.CourseStore.GetByID(ctx, "k1")
	if c.Published {
		t.Error("expected unpublished")
	}
}

func TestHandleClassDelete_AdminOnly(t *testing.T) {
	s := newTestStores()
	ctx := context.Background()
	s.ClassStore.Save(ctx, classDomain.Class{ID: "c1", Name: "Morning Gi"})

	rec := httptest.NewRecorder()
	handleClassDelete(rec, authRequest("POST", "/api/classes/delete", `{"ClassID":"c1"}`, coachSession))
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403 for coach, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	handleClassDelete(rec, authRequest("POST", "/api/classes/delete", `{"ClassID":"c1"}`, adminSession))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if _, err := s.ClassStore.GetByID(ctx, "c1"); err == nil {
		t.Error("expected class gone")
	}
}
