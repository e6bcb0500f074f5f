package database

import (
	"gorm.io/gorm"
)

type Database struct {
	projectRepo    *ProjectRepo
	projectTagRepo *ProjectTagRepo
	adminRepo      *AdminRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		projectRepo:    NewProjectRepo(db),
		projectTagRepo: NewProjectTagRepo(db),
		adminRepo:      NewAdminRepo(db),
	}
}

// Accessor methods for each repository

func (d Database) ProjectRepo() *ProjectRepo {
	return d.projectRepo
}

func (d Database) ProjectTagRepo() *ProjectTagRepo {
	return d.projectTagRepo
}

func (d Database) AdminRepo() *AdminRepo {
	return d.adminRepo
}
