package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sthmu/Student-Manager/models"
	"github.com/sthmu/Student-Manager/repository"
)

// StudentStore is what the student handlers need from the data layer.
type StudentStore interface {
	ListActive() ([]models.Student, error)
	ListInactive() ([]models.Student, error)
	ListAll() ([]models.Student, error)
	GetByID(id uint) (*models.Student, error)
	FindByEmail(email string) (*models.Student, error)
	Create(s *models.Student) error
	Update(id uint, s *models.Student) (int64, error)
	SoftDelete(id uint) (int64, error)
	SoftDeleteMany(ids []uint) (int64, error)
	Search(term string) ([]models.Student, error)
}

type StudentHandler struct {
	Students StudentStore
}

func NewStudentHandler(students StudentStore) *StudentHandler {
	return &StudentHandler{Students: students}
}

type studentPayload struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Course        string `json:"course"`
	EnrolmentDate string `json:"enrolment_date"` // YYYY-MM-DD or empty
}

func (p *studentPayload) normalize() {
	p.Name = strings.Join(strings.Fields(p.Name), " ")
	p.Email = strings.TrimSpace(strings.ToLower(p.Email))
	p.Phone = strings.TrimSpace(p.Phone)
	p.Course = strings.TrimSpace(p.Course)
	p.EnrolmentDate = strings.TrimSpace(p.EnrolmentDate)
}

func (p *studentPayload) validate() (string, bool) {
	if p.Name == "" || p.Email == "" {
		return "Name and email are required", false
	}
	if !emailRe.MatchString(p.Email) {
		return "Invalid email format", false
	}
	if p.EnrolmentDate != "" {
		if _, err := time.Parse("2006-01-02", p.EnrolmentDate); err != nil {
			return "Enrolment date must be YYYY-MM-DD", false
		}
	}
	return "", true
}

// toModel assumes validate() has passed.
func (p *studentPayload) toModel() models.Student {
	s := models.Student{Name: p.Name, Email: p.Email, IsActive: true}
	if p.Phone != "" {
		s.Phone = &p.Phone
	}
	if p.Course != "" {
		s.Course = &p.Course
	}
	if p.EnrolmentDate != "" {
		if d, err := time.Parse("2006-01-02", p.EnrolmentDate); err == nil {
			s.EnrolmentDate = &d
		}
	}
	return s
}

// GET /api/students?status=active|inactive|all
func (h *StudentHandler) List(c echo.Context) error {
	var (
		students []models.Student
		err      error
	)
	switch c.QueryParam("status") {
	case "inactive":
		students, err = h.Students.ListInactive()
	case "all":
		students, err = h.Students.ListAll()
	default:
		students, err = h.Students.ListActive()
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"message": "Error fetching students", "error": err.Error()})
	}
	if students == nil {
		students = []models.Student{}
	}
	return c.JSON(http.StatusOK, map[string]any{"students": students})
}

// GET /api/students/:id
func (h *StudentHandler) Get(c echo.Context) error {
	id, ok := parseID(c.Param("id"))
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]any{"message": "Student not found"})
	}
	s, err := h.Students.GetByID(id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"message": "Error fetching student", "error": err.Error()})
	}
	// A soft-deleted record is gone as far as single-record reads are
	// concerned; only the status-filtered listings can still see it.
	if s == nil || !s.IsActive {
		return c.JSON(http.StatusNotFound, map[string]any{"message": "Student not found"})
	}
	return c.JSON(http.StatusOK, map[string]any{"student": s})
}

// POST /api/students
func (h *StudentHandler) Create(c echo.Context) error {
	var p studentPayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"message": "Invalid request body"})
	}
	p.normalize()
	if msg, ok := p.validate(); !ok {
		return c.JSON(http.StatusBadRequest, map[string]any{"message": msg})
	}

	existing, err := h.Students.FindByEmail(p.Email)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"message": "Error adding student", "error": err.Error()})
	}
	if existing != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"message": "Email already exists"})
	}

	s := p.toModel()
	if err := h.Students.Create(&s); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			// Lost the race against a concurrent create; the unique
			// index is the source of truth.
			return c.JSON(http.StatusConflict, map[string]any{"message": "Email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]any{"message": "Error adding student", "error": err.Error()})
	}
	return c.JSON(http.StatusCreated, map[string]any{
		"message": "Student added successfully",
		"student": s,
	})
}

// PUT /api/students/:id
func (h *StudentHandler) Update(c echo.Context) error {
	id, ok := parseID(c.Param("id"))
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]any{"message": "Student not found"})
	}
	existing, err := h.Students.GetByID(id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"message": "Error updating student", "error": err.Error()})
	}
	if existing == nil {
		return c.JSON(http.StatusNotFound, map[string]any{"message": "Student not found"})
	}

	var p studentPayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"message": "Invalid request body"})
	}
	p.normalize()
	if msg, ok := p.validate(); !ok {
		return c.JSON(http.StatusBadRequest, map[string]any{"message": msg})
	}

	if p.Email != existing.Email {
		dup, err := h.Students.FindByEmail(p.Email)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]any{"message": "Error updating student", "error": err.Error()})
		}
		if dup != nil && dup.ID != id {
			return c.JSON(http.StatusBadRequest, map[string]any{"message": "Email already exists"})
		}
	}

	s := p.toModel()
	if _, err := h.Students.Update(id, &s); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return c.JSON(http.StatusConflict, map[string]any{"message": "Email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]any{"message": "Error updating student", "error": err.Error()})
	}

	updated, err := h.Students.GetByID(id)
	if err != nil || updated == nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"message": "Error updating student"})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"message": "Student updated successfully",
		"student": updated,
	})
}

// DELETE /api/students/:id (soft delete)
func (h *StudentHandler) Delete(c echo.Context) error {
	id, ok := parseID(c.Param("id"))
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]any{"message": "Student not found"})
	}
	existing, err := h.Students.GetByID(id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"message": "Error deleting student", "error": err.Error()})
	}
	if existing == nil {
		return c.JSON(http.StatusNotFound, map[string]any{"message": "Student not found"})
	}
	if _, err := h.Students.SoftDelete(id); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"message": "Error deleting student", "error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]any{"message": "Student deleted successfully"})
}

// POST /api/students/delete-multiple
//
// Ids that do not exist simply do not count toward the result; a mixed
// batch is success with the real affected count, not an error.
func (h *StudentHandler) DeleteMany(c echo.Context) error {
	var req struct {
		IDs []uint `json:"ids"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"message": "Invalid student IDs"})
	}
	if len(req.IDs) == 0 {
		return c.JSON(http.StatusBadRequest, map[string]any{"message": "Invalid student IDs"})
	}
	count, err := h.Students.SoftDeleteMany(req.IDs)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"message": "Error deleting students", "error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"message": fmt.Sprintf("%d students deleted successfully", count),
		"count":   count,
	})
}

// GET /api/students/search?query=
func (h *StudentHandler) Search(c echo.Context) error {
	query := c.QueryParam("query")
	if query == "" {
		return c.JSON(http.StatusBadRequest, map[string]any{"message": "Search query is required"})
	}
	students, err := h.Students.Search(query)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"message": "Error searching students", "error": err.Error()})
	}
	if students == nil {
		students = []models.Student{}
	}
	return c.JSON(http.StatusOK, map[string]any{
		"students": students,
		"count":    len(students),
	})
}
