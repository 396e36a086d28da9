package repository

import (
	"freightdesk/internal/models"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(u *models.User) error {
	return r.db.Create(u).Error
}

func (r *UserRepository) GetByID(id uint) (*models.User, error) {
	var u models.User
	err := r.db.First(&u, id).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	var u models.User
	err := r.db.Where("email = ?", email).First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByGoogleID(googleID string) (*models.User, error) {
	var u models.User
	err := r.db.Where("google_id = ?", googleID).First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// ListActiveByRoles returns active users whose role is in roles, e.g. the
// staff recipient list for the status-change fan-out.
func (r *UserRepository) ListActiveByRoles(roles []string) ([]models.User, error) {
	var list []models.User
	err := r.db.Where("role IN ? AND active = ?", roles, true).Find(&list).Error
	return list, err
}

func (r *UserRepository) List(limit, offset int) ([]models.User, error) {
	var list []models.User
	err := r.db.Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

func (r *UserRepository) Update(u *models.User) error {
	return r.db.Save(u).Error
}

func (r *UserRepository) SetActive(id uint, active bool) error {
	return r.db.Model(&models.User{}).Where("id = ?", id).Update("active", active).Error
}
