package repository

import (
	"freightdesk/internal/models"

	"gorm.io/gorm"
)

type CustomerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

func (r *CustomerRepository) Create(c *models.Customer) error {
	return r.db.Create(c).Error
}

func (r *CustomerRepository) GetByID(id uint) (*models.Customer, error) {
	var c models.Customer
	err := r.db.First(&c, id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CustomerRepository) List(limit, offset int) ([]models.Customer, error) {
	var list []models.Customer
	err := r.db.Order("name ASC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

func (r *CustomerRepository) Count() (int64, error) {
	var n int64
	err := r.db.Model(&models.Customer{}).Count(&n).Error
	return n, err
}

func (r *CustomerRepository) Update(c *models.Customer) error {
	return r.db.Save(c).Error
}

func (r *CustomerRepository) Delete(id uint) error {
	return r.db.Delete(&models.Customer{}, id).Error
}
