package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/sthmu/Student-Manager/models"
	"github.com/sthmu/Student-Manager/repository"
)

type fakeStudentStore struct {
	students  []models.Student
	nextID    uint
	createErr error
}

func (f *fakeStudentStore) ListActive() ([]models.Student, error) {
	var out []models.Student
	for _, s := range f.students {
		if s.IsActive {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeStudentStore) ListInactive() ([]models.Student, error) {
	var out []models.Student
	for _, s := range f.students {
		if !s.IsActive {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeStudentStore) ListAll() ([]models.Student, error) {
	return append([]models.Student(nil), f.students...), nil
}

func (f *fakeStudentStore) GetByID(id uint) (*models.Student, error) {
	for i := range f.students {
		if f.students[i].ID == id {
			s := f.students[i]
			return &s, nil
		}
	}
	return nil, nil
}

func (f *fakeStudentStore) FindByEmail(email string) (*models.Student, error) {
	for i := range f.students {
		if f.students[i].Email == email {
			s := f.students[i]
			return &s, nil
		}
	}
	return nil, nil
}

func (f *fakeStudentStore) Create(s *models.Student) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.nextID++
	s.ID = f.nextID
	f.students = append(f.students, *s)
	return nil
}

func (f *fakeStudentStore) Update(id uint, s *models.Student) (int64, error) {
	for i := range f.students {
		if f.students[i].ID == id {
			f.students[i].Name = s.Name
			f.students[i].Email = s.Email
			f.students[i].Phone = s.Phone
			f.students[i].Course = s.Course
			f.students[i].EnrolmentDate = s.EnrolmentDate
			return 1, nil
		}
	}
	return 0, nil
}

func (f *fakeStudentStore) SoftDelete(id uint) (int64, error) {
	for i := range f.students {
		if f.students[i].ID == id {
			f.students[i].IsActive = false
			return 1, nil
		}
	}
	return 0, nil
}

func (f *fakeStudentStore) SoftDeleteMany(ids []uint) (int64, error) {
	var n int64
	for _, id := range ids {
		c, _ := f.SoftDelete(id)
		n += c
	}
	return n, nil
}

func (f *fakeStudentStore) Search(term string) ([]models.Student, error) {
	term = strings.ToLower(term)
	var out []models.Student
	for _, s := range f.students {
		if !s.IsActive {
			continue
		}
		course := ""
		if s.Course != nil {
			course = *s.Course
		}
		if strings.Contains(strings.ToLower(s.Name), term) ||
			strings.Contains(strings.ToLower(s.Email), term) ||
			strings.Contains(strings.ToLower(course), term) {
			out = append(out, s)
		}
	}
	return out, nil
}

// doParam is doJSON with the :id path parameter bound.
func doParam(t *testing.T, h func(echo.Context) error, method, id, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, "/api/students/"+id, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(id)
	if err := h(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	var out map[string]any
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
			t.Fatalf("decode response: %v (%s)", err, rec.Body.String())
		}
	}
	return rec, out
}

func seedStudent(f *fakeStudentStore, name, email string, active bool) models.Student {
	f.nextID++
	s := models.Student{ID: f.nextID, Name: name, Email: email, IsActive: active}
	f.students = append(f.students, s)
	return s
}

func studentsFrom(t *testing.T, body map[string]any) []any {
	t.Helper()
	list, ok := body["students"].([]any)
	if !ok {
		t.Fatalf("no students array in %v", body)
	}
	return list
}

func TestListDefaultsToActive(t *testing.T) {
	store := &fakeStudentStore{}
	seedStudent(store, "Bob", "bob@test.com", true)
	seedStudent(store, "Carol", "carol@test.com", false)
	h := NewStudentHandler(store)

	rec, body := doJSON(t, h.List, http.MethodGet, "/api/students", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := len(studentsFrom(t, body)); got != 1 {
		t.Fatalf("got %d students, want 1", got)
	}
}

func TestListStatusFilters(t *testing.T) {
	store := &fakeStudentStore{}
	seedStudent(store, "Bob", "bob@test.com", true)
	seedStudent(store, "Carol", "carol@test.com", false)
	h := NewStudentHandler(store)

	for status, want := range map[string]int{"active": 1, "inactive": 1, "all": 2} {
		rec, body := doJSON(t, h.List, http.MethodGet, "/api/students?status="+status, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status=%s code = %d", status, rec.Code)
		}
		if got := len(studentsFrom(t, body)); got != want {
			t.Fatalf("status=%s got %d students, want %d", status, got, want)
		}
	}
}

func TestListEmptyIsArrayNotNull(t *testing.T) {
	h := NewStudentHandler(&fakeStudentStore{})
	rec, _ := doJSON(t, h.List, http.MethodGet, "/api/students", "")
	if !strings.Contains(rec.Body.String(), `"students":[]`) {
		t.Fatalf("empty list should encode as [], got %s", rec.Body.String())
	}
}

func TestGetStudent(t *testing.T) {
	store := &fakeStudentStore{}
	s := seedStudent(store, "Bob", "bob@test.com", true)
	h := NewStudentHandler(store)

	rec, body := doParam(t, h.Get, http.MethodGet, fmt.Sprint(s.ID), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	got := body["student"].(map[string]any)
	if got["name"] != "Bob" || got["email"] != "bob@test.com" {
		t.Fatalf("student = %v", got)
	}
}

func TestGetStudentNotFound(t *testing.T) {
	h := NewStudentHandler(&fakeStudentStore{})
	for _, id := range []string{"99", "abc", "-1"} {
		rec, _ := doParam(t, h.Get, http.MethodGet, id, "")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("id=%q status = %d, want 404", id, rec.Code)
		}
	}
}

func TestCreateStudent(t *testing.T) {
	store := &fakeStudentStore{}
	h := NewStudentHandler(store)

	rec, body := doJSON(t, h.Create, http.MethodPost, "/api/students",
		`{"name":"Bob","email":"Bob@Test.com","phone":"0123456789","course":"Physics","enrolment_date":"2024-09-01"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	got := body["student"].(map[string]any)
	if got["id"].(float64) <= 0 {
		t.Fatalf("id not assigned: %v", got)
	}
	if got["email"] != "bob@test.com" {
		t.Fatalf("email not normalized: %v", got["email"])
	}
	if got["is_active"] != true {
		t.Fatalf("new student should be active: %v", got)
	}
}

func TestCreateStudentValidation(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"missing name", `{"email":"bob@test.com"}`},
		{"missing email", `{"name":"Bob"}`},
		{"bad email", `{"name":"Bob","email":"not-an-email"}`},
		{"bad enrolment date", `{"name":"Bob","email":"bob@test.com","enrolment_date":"01/09/2024"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewStudentHandler(&fakeStudentStore{})
			rec, _ := doJSON(t, h.Create, http.MethodPost, "/api/students", tc.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestCreateStudentDuplicateEmail(t *testing.T) {
	store := &fakeStudentStore{}
	seedStudent(store, "Bob", "bob@test.com", true)
	h := NewStudentHandler(store)

	before := len(store.students)
	rec, _ := doJSON(t, h.Create, http.MethodPost, "/api/students",
		`{"name":"Other","email":"bob@test.com"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if len(store.students) != before {
		t.Fatal("duplicate row was created")
	}
}

func TestCreateStudentLostRaceMapsTo409(t *testing.T) {
	store := &fakeStudentStore{createErr: repository.ErrEmailTaken}
	h := NewStudentHandler(store)

	rec, _ := doJSON(t, h.Create, http.MethodPost, "/api/students",
		`{"name":"Bob","email":"bob@test.com"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
}

func TestUpdateStudent(t *testing.T) {
	store := &fakeStudentStore{}
	s := seedStudent(store, "Bob", "bob@test.com", true)
	h := NewStudentHandler(store)

	rec, body := doParam(t, h.Update, http.MethodPut, fmt.Sprint(s.ID),
		`{"name":"Bobby","email":"bobby@test.com","course":"Maths"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	got := body["student"].(map[string]any)
	if got["name"] != "Bobby" || got["email"] != "bobby@test.com" || got["course"] != "Maths" {
		t.Fatalf("student = %v", got)
	}
}

func TestUpdateStudentNotFound(t *testing.T) {
	h := NewStudentHandler(&fakeStudentStore{})
	rec, _ := doParam(t, h.Update, http.MethodPut, "42", `{"name":"Bob","email":"bob@test.com"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestUpdateStudentDuplicateEmail(t *testing.T) {
	store := &fakeStudentStore{}
	seedStudent(store, "Bob", "bob@test.com", true)
	s := seedStudent(store, "Carol", "carol@test.com", true)
	h := NewStudentHandler(store)

	rec, _ := doParam(t, h.Update, http.MethodPut, fmt.Sprint(s.ID),
		`{"name":"Carol","email":"bob@test.com"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestDeleteStudentFlipsActiveFlag(t *testing.T) {
	store := &fakeStudentStore{}
	s := seedStudent(store, "Bob", "bob@test.com", true)
	seedStudent(store, "Carol", "carol@test.com", true)
	h := NewStudentHandler(store)

	rec, _ := doParam(t, h.Delete, http.MethodDelete, fmt.Sprint(s.ID), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	// Gone from active, present in inactive, total unchanged.
	_, body := doJSON(t, h.List, http.MethodGet, "/api/students?status=active", "")
	if got := len(studentsFrom(t, body)); got != 1 {
		t.Fatalf("active count = %d, want 1", got)
	}
	_, body = doJSON(t, h.List, http.MethodGet, "/api/students?status=inactive", "")
	if got := len(studentsFrom(t, body)); got != 1 {
		t.Fatalf("inactive count = %d, want 1", got)
	}
	_, body = doJSON(t, h.List, http.MethodGet, "/api/students?status=all", "")
	if got := len(studentsFrom(t, body)); got != 2 {
		t.Fatalf("all count = %d, want 2", got)
	}
}

func TestDeleteStudentNotFound(t *testing.T) {
	h := NewStudentHandler(&fakeStudentStore{})
	rec, _ := doParam(t, h.Delete, http.MethodDelete, "42", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestDeleteManyMixedIDs(t *testing.T) {
	store := &fakeStudentStore{}
	a := seedStudent(store, "Bob", "bob@test.com", true)
	b := seedStudent(store, "Carol", "carol@test.com", true)
	h := NewStudentHandler(store)

	rec, body := doJSON(t, h.DeleteMany, http.MethodPost, "/api/students/delete-multiple",
		fmt.Sprintf(`{"ids":[%d,%d,999]}`, a.ID, b.ID))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if body["count"].(float64) != 2 {
		t.Fatalf("count = %v, want 2", body["count"])
	}
}

func TestDeleteManyAllMissingIsStillSuccess(t *testing.T) {
	h := NewStudentHandler(&fakeStudentStore{})
	rec, body := doJSON(t, h.DeleteMany, http.MethodPost, "/api/students/delete-multiple", `{"ids":[7,8,9]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if body["count"].(float64) != 0 {
		t.Fatalf("count = %v, want 0", body["count"])
	}
}

func TestDeleteManyRequiresIDs(t *testing.T) {
	h := NewStudentHandler(&fakeStudentStore{})
	for _, body := range []string{`{}`, `{"ids":[]}`} {
		rec, _ := doJSON(t, h.DeleteMany, http.MethodPost, "/api/students/delete-multiple", body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("body=%s status = %d, want 400", body, rec.Code)
		}
	}
}

func TestStudentLifecycle(t *testing.T) {
	store := &fakeStudentStore{}
	h := NewStudentHandler(store)

	rec, body := doJSON(t, h.Create, http.MethodPost, "/api/students",
		`{"name":"Bob","email":"bob@test.com"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d", rec.Code)
	}
	id := fmt.Sprint(int(body["student"].(map[string]any)["id"].(float64)))

	rec, body = doParam(t, h.Get, http.MethodGet, id, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
	got := body["student"].(map[string]any)
	if got["name"] != "Bob" || got["email"] != "bob@test.com" {
		t.Fatalf("fetched student = %v", got)
	}

	rec, _ = doParam(t, h.Delete, http.MethodDelete, id, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d", rec.Code)
	}

	rec, _ = doParam(t, h.Get, http.MethodGet, id, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete status = %d, want 404", rec.Code)
	}
}

func TestSearchRequiresQuery(t *testing.T) {
	h := NewStudentHandler(&fakeStudentStore{})
	rec, _ := doJSON(t, h.Search, http.MethodGet, "/api/students/search", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestSearchMatchesCaseInsensitively(t *testing.T) {
	store := &fakeStudentStore{}
	seedStudent(store, "Bob Smith", "bob@test.com", true)
	seedStudent(store, "Carol Jones", "carol@test.com", true)
	seedStudent(store, "Bobby Inactive", "bobby@test.com", false)
	h := NewStudentHandler(store)

	rec, body := doJSON(t, h.Search, http.MethodGet, "/api/students/search?query=BOB", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if body["count"].(float64) != 1 {
		t.Fatalf("count = %v, want 1 (inactive rows must not match)", body["count"])
	}
}
