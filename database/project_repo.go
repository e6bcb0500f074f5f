package database

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rpupo63/portfolio/errs"
	"github.com/rpupo63/portfolio/models"
)

type ProjectRepo struct {
	db *gorm.DB
}

func NewProjectRepo(db *gorm.DB) *ProjectRepo {
	return &ProjectRepo{db}
}

// GetDB returns the underlying database connection for debugging purposes
func (r *ProjectRepo) GetDB() *gorm.DB {
	return r.db
}

// FindAll returns all projects, featured first, then by sort order, newest first
func (r *ProjectRepo) FindAll() ([]*models.Project, error) {
	var projects []*models.Project
	err := r.db.
		Order("featured DESC").
		Order("sort_order ASC").
		Order("created_at DESC").
		Find(&projects).Error
	if err != nil {
		return nil, errs.NewDatabaseError("list", "projects", err)
	}
	return projects, nil
}

// FindByID returns a project by its ID
func (r *ProjectRepo) FindByID(id uuid.UUID) (*models.Project, error) {
	var project models.Project
	err := r.db.Where("id = ?", id).First(&project).Error
	if err != nil {
		return nil, errs.NewDatabaseError("find", "project", err)
	}
	return &project, nil
}

// Add inserts a new project and its tag rows
func (r *ProjectRepo) Add(project *models.Project) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("TagRows").Create(project).Error; err != nil {
			return errs.NewDatabaseError("create", "project", err)
		}
		return syncTags(tx, project)
	})
}

// Update saves an existing project and replaces its tag rows
func (r *ProjectRepo) Update(project *models.Project) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Project{}).Where("id = ?", project.ID).Select("*").Omit("ID", "CreatedAt", "TagRows").Updates(project)
		if result.Error != nil {
			return errs.NewDatabaseError("update", "project", result.Error)
		}
		if result.RowsAffected == 0 {
			return errs.NewNotFound(fmt.Sprintf("project %s", project.ID))
		}
		return syncTags(tx, project)
	})
}

// Delete removes a project and its tag rows by id
func (r *ProjectRepo) Delete(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&models.ProjectTag{}).Error; err != nil {
			return errs.NewDatabaseError("delete", "project tags", err)
		}
		result := tx.Where("id = ?", id).Delete(&models.Project{})
		if result.Error != nil {
			return errs.NewDatabaseError("delete", "project", result.Error)
		}
		if result.RowsAffected == 0 {
			return errs.NewNotFound(fmt.Sprintf("project %s", id))
		}
		return nil
	})
}

func syncTags(tx *gorm.DB, project *models.Project) error {
	if err := tx.Where("project_id = ?", project.ID).Delete(&models.ProjectTag{}).Error; err != nil {
		return errs.NewDatabaseError("sync", "project tags", err)
	}
	for _, value := range project.TagValues() {
		tag := models.ProjectTag{ProjectID: project.ID, Value: value}
		if err := tx.Create(&tag).Error; err != nil {
			return errs.NewDatabaseError("create", "project tag", err)
		}
	}
	return nil
}
