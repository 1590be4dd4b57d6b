package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/sthmu/Student-Manager/models"
)

// StudentRepository is a thin SQL wrapper around the students table.
// It performs no input validation; handlers own that.
type StudentRepository struct {
	db *gorm.DB
}

func NewStudentRepository(db *gorm.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

func (r *StudentRepository) ListActive() ([]models.Student, error) {
	var students []models.Student
	err := r.db.Where("is_active = ?", true).Order("created_at DESC").Find(&students).Error
	return students, err
}

func (r *StudentRepository) ListInactive() ([]models.Student, error) {
	var students []models.Student
	err := r.db.Where("is_active = ?", false).Order("created_at DESC").Find(&students).Error
	return students, err
}

func (r *StudentRepository) ListAll() ([]models.Student, error) {
	var students []models.Student
	err := r.db.Order("created_at DESC").Find(&students).Error
	return students, err
}

// GetByID returns (nil, nil) when the id does not exist; absence is not
// an error at this layer.
func (r *StudentRepository) GetByID(id uint) (*models.Student, error) {
	var s models.Student
	err := r.db.First(&s, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// FindByEmail is the duplicate pre-check: id-only projection, nil when
// the email is unused.
func (r *StudentRepository) FindByEmail(email string) (*models.Student, error) {
	var s models.Student
	err := r.db.Select("id").Where("email = ?", email).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *StudentRepository) Create(s *models.Student) error {
	return translateUnique(r.db.Create(s).Error)
}

// Update replaces name/email/phone/course/enrolment_date on the
// identified row. A zero affected-row count means the id did not exist.
func (r *StudentRepository) Update(id uint, s *models.Student) (int64, error) {
	tx := r.db.Model(&models.Student{}).Where("id = ?", id).Updates(map[string]any{
		"name":           s.Name,
		"email":          s.Email,
		"phone":          s.Phone,
		"course":         s.Course,
		"enrolment_date": s.EnrolmentDate,
	})
	return tx.RowsAffected, translateUnique(tx.Error)
}

func (r *StudentRepository) SoftDelete(id uint) (int64, error) {
	tx := r.db.Model(&models.Student{}).Where("id = ?", id).Update("is_active", false)
	return tx.RowsAffected, tx.Error
}

// SoftDeleteMany flips is_active for every existing id in ids. Ids that
// do not exist simply do not count; that is success, not failure.
func (r *StudentRepository) SoftDeleteMany(ids []uint) (int64, error) {
	tx := r.db.Model(&models.Student{}).Where("id IN ?", ids).Update("is_active", false)
	return tx.RowsAffected, tx.Error
}

// HardDelete removes the row permanently. Not exposed through any
// route; administrative use only.
func (r *StudentRepository) HardDelete(id uint) (int64, error) {
	tx := r.db.Delete(&models.Student{}, "id = ?", id)
	return tx.RowsAffected, tx.Error
}

// Search matches term case-insensitively against name, email and
// course, active records only, newest first.
func (r *StudentRepository) Search(term string) ([]models.Student, error) {
	like := "%" + term + "%"
	var students []models.Student
	err := r.db.
		Where("is_active = ?", true).
		Where("name ILIKE ? OR email ILIKE ? OR course ILIKE ?", like, like, like).
		Order("created_at DESC").
		Find(&students).Error
	return students, err
}

func (r *StudentRepository) Count() (int64, error) {
	var n int64
	err := r.db.Model(&models.Student{}).Count(&n).Error
	return n, err
}
