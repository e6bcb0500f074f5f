package database

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rpupo63/portfolio/errs"
	"github.com/rpupo63/portfolio/models"
)

type ProjectTagRepo struct {
	db *gorm.DB
}

func NewProjectTagRepo(db *gorm.DB) *ProjectTagRepo {
	return &ProjectTagRepo{db}
}

// FindByProject returns the tags of one project
func (r *ProjectTagRepo) FindByProject(projectID uuid.UUID) ([]*models.ProjectTag, error) {
	var projectTags []*models.ProjectTag
	if err := r.db.Where("project_id = ?", projectID).Order("value").Find(&projectTags).Error; err != nil {
		return nil, errs.NewDatabaseError("list", "project tags", err)
	}
	return projectTags, nil
}

// DistinctValues returns every tag value in use, alphabetically
func (r *ProjectTagRepo) DistinctValues() ([]string, error) {
	var values []string
	err := r.db.Model(&models.ProjectTag{}).Distinct("value").Order("value").Pluck("value", &values).Error
	if err != nil {
		return nil, errs.NewDatabaseError("list", "tag values", err)
	}
	return values, nil
}
