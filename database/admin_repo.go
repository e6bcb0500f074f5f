package database

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rpupo63/portfolio/errs"
	"github.com/rpupo63/portfolio/models"
)

type AdminRepo struct {
	db *gorm.DB
}

func NewAdminRepo(db *gorm.DB) *AdminRepo {
	return &AdminRepo{db}
}

func (r *AdminRepo) FindAll() ([]*models.Admin, error) {
	var admins []*models.Admin
	if err := r.db.Order("created_at ASC").Find(&admins).Error; err != nil {
		return nil, errs.NewDatabaseError("list", "admins", err)
	}
	return admins, nil
}

func (r *AdminRepo) FindByID(id uuid.UUID) (*models.Admin, error) {
	var admin models.Admin
	if err := r.db.Where("id = ?", id).First(&admin).Error; err != nil {
		return nil, errs.NewDatabaseError("find", "admin", err)
	}
	return &admin, nil
}

// FindByEmail looks an admin up by case-insensitive email
func (r *AdminRepo) FindByEmail(email string) (*models.Admin, error) {
	var admin models.Admin
	if err := r.db.Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&admin).Error; err != nil {
		return nil, errs.NewDatabaseError("find", "admin", err)
	}
	return &admin, nil
}

func (r *AdminRepo) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&models.Admin{}).Count(&count).Error; err != nil {
		return 0, errs.NewDatabaseError("count", "admins", err)
	}
	return count, nil
}

func (r *AdminRepo) Add(admin *models.Admin) error {
	admin.Email = strings.ToLower(strings.TrimSpace(admin.Email))
	if err := r.db.Create(admin).Error; err != nil {
		return errs.NewDatabaseError("create", "admin", err)
	}
	return nil
}

func (r *AdminRepo) Update(admin *models.Admin) error {
	admin.Email = strings.ToLower(strings.TrimSpace(admin.Email))
	result := r.db.Model(&models.Admin{}).Where("id = ?", admin.ID).Updates(map[string]any{
		"email":         admin.Email,
		"password_hash": admin.PasswordHash,
	})
	if result.Error != nil {
		return errs.NewDatabaseError("update", "admin", result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.NewNotFound(fmt.Sprintf("admin %s", admin.ID))
	}
	return nil
}

func (r *AdminRepo) Delete(id uuid.UUID) error {
	result := r.db.Where("id = ?", id).Delete(&models.Admin{})
	if result.Error != nil {
		return errs.NewDatabaseError("delete", "admin", result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.NewNotFound(fmt.Sprintf("admin %s", id))
	}
	return nil
}
