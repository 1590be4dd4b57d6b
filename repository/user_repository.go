package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/sthmu/Student-Manager/models"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) FindByEmail(email string) (*models.User, error) {
	var u models.User
	err := r.db.Where("email = ?", email).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) FindByUsername(username string) (*models.User, error) {
	var u models.User
	err := r.db.Where("username = ?", username).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) FindByID(id uint) (*models.User, error) {
	var u models.User
	err := r.db.First(&u, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) Create(u *models.User) error {
	return translateUnique(r.db.Create(u).Error)
}

// Update applies the given column values to the identified account.
// Accounts are updated via explicit field updates; there is no
// full-record replacement for users.
func (r *UserRepository) Update(id uint, fields map[string]any) (int64, error) {
	tx := r.db.Model(&models.User{}).Where("id = ?", id).Updates(fields)
	return tx.RowsAffected, translateUnique(tx.Error)
}

// Delete removes the account outright; user accounts have no
// soft-delete semantics.
func (r *UserRepository) Delete(id uint) (int64, error) {
	tx := r.db.Delete(&models.User{}, "id = ?", id)
	return tx.RowsAffected, tx.Error
}

func (r *UserRepository) EmailExists(email string) (bool, error) {
	var n int64
	err := r.db.Model(&models.User{}).Where("email = ?", email).Count(&n).Error
	return n > 0, err
}

func (r *UserRepository) UsernameExists(username string) (bool, error) {
	var n int64
	err := r.db.Model(&models.User{}).Where("username = ?", username).Count(&n).Error
	return n > 0, err
}

func (r *UserRepository) Count() (int64, error) {
	var n int64
	err := r.db.Model(&models.User{}).Count(&n).Error
	return n, err
}
