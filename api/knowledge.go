package api

import (
	"context"

	"github.com/rpupo63/portfolio/catalog"
	"github.com/rpupo63/portfolio/chatbot"
	"github.com/rpupo63/portfolio/database"
	"github.com/rpupo63/portfolio/models"
)

// ProjectKnowledge builds the chatbot knowledge from the profile and the
// current project catalog.
func ProjectKnowledge(projectRepo *database.ProjectRepo, profile chatbot.Profile) chatbot.KnowledgeFunc {
	return func(ctx context.Context) ([]string, error) {
		projects, err := projectRepo.FindAll()
		if err != nil {
			return chatbot.Knowledge(profile, nil), err
		}
		records := make([]catalog.ProjectRecord, 0, len(projects))
		for _, project := range projects {
			records = append(records, projectRecord(project))
		}
		return chatbot.Knowledge(profile, records), nil
	}
}

func projectRecord(p *models.Project) catalog.ProjectRecord {
	return catalog.ProjectRecord{
		ID:          p.ID.String(),
		Title:       p.Title,
		Description: p.Description,
		Link:        p.Link,
		GithubURL:   p.GithubURL,
		TechStack:   p.TechStack,
		Tags:        p.Tags,
		Featured:    p.Featured,
		SortOrder:   p.SortOrder,
		ImageURL:    p.ImageURL,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
