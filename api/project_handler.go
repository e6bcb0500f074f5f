package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio/database"
	"github.com/rpupo63/portfolio/errs"
	"github.com/rpupo63/portfolio/models"
	"github.com/rpupo63/portfolio/storage"
)

type projectHandler struct {
	responder      Responder
	logger         zerolog.Logger
	projectRepo    *database.ProjectRepo
	projectTagRepo *database.ProjectTagRepo
	images         storage.ImageStore
}

func newProjectHandler(projectRepo *database.ProjectRepo, projectTagRepo *database.ProjectTagRepo, images storage.ImageStore) projectHandler {
	logger := log.With().Str("handlerName", "projectHandler").Logger()

	return projectHandler{
		responder:      NewResponder(logger),
		logger:         logger,
		projectRepo:    projectRepo,
		projectTagRepo: projectTagRepo,
		images:         images,
	}
}

func (h projectHandler) projectIDParam(r *http.Request) (uuid.UUID, error) {
	projectIDStr := chi.URLParam(r, "projectID")
	if projectIDStr == "" {
		return uuid.Nil, errs.NewBadRequestError("missing projectID")
	}
	projectID, err := uuid.Parse(projectIDStr)
	if err != nil {
		// An id that cannot exist is reported like any other missing project
		return uuid.Nil, errs.NewNotFoundError("project not found")
	}
	return projectID, nil
}

// getAllProjects retrieves all projects
// @Summary Get all projects
// @Description Retrieves all projects, featured first, then by sort order, newest first
// @Tags Projects
// @Produce json
// @Success 200 {array} models.Project "List of projects"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error fetching projects"
// @Router /api/projects [get]
func (h projectHandler) getAllProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projects, err := h.projectRepo.FindAll()
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if projects == nil {
			projects = []*models.Project{}
		}
		h.responder.WriteJSON(w, projects)
	}
}

// getProject retrieves a specific project by ID
// @Summary Get project
// @Tags Projects
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Success 200 {object} models.Project "Project details"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Router /api/projects/{projectID} [get]
func (h projectHandler) getProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := h.projectIDParam(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.projectRepo.FindByID(projectID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, project)
	}
}

// createProject creates a new project
// @Summary Create project
// @Description Creates a project from multipart text fields plus an optional "image" file
// @Tags Projects
// @Accept multipart/form-data
// @Produce json
// @Success 201 {object} models.Project "Created project"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid project data"
// @Router /api/projects [post]
func (h projectHandler) createProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input, err := parseProjectInput(w, r, h.responder)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var project models.Project
		input.apply(&project)
		if err := validateProject(&project); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if input.image != nil {
			url, err := h.images.Save(r.Context(), input.image.filename, input.image.contentType, input.image.reader())
			if err != nil {
				h.responder.WriteError(w, err)
				return
			}
			project.ImageURL = url
		}

		err = h.projectRepo.Add(&project)
		recordMutation("create", err)
		if err != nil {
			h.discardImage(r, project.ImageURL)
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Info().Str("projectId", project.ID.String()).Msg("Project created")
		h.responder.WriteJSONStatus(w, http.StatusCreated, project)
	}
}

// updateProject applies the fields present in the request to a project
// @Summary Update project
// @Description Partial update. Fields not sent are unchanged and a missing "image" part keeps the stored image.
// @Tags Projects
// @Accept multipart/form-data
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Success 200 {object} models.Project "Updated project"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid project data"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Router /api/projects/{projectID} [patch]
func (h projectHandler) updateProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := h.projectIDParam(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		// Verify project exists
		project, err := h.projectRepo.FindByID(projectID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		input, err := parseProjectInput(w, r, h.responder)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		input.apply(project)
		if err := validateProject(project); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		previousImage := project.ImageURL
		if input.image != nil {
			url, err := h.images.Save(r.Context(), input.image.filename, input.image.contentType, input.image.reader())
			if err != nil {
				h.responder.WriteError(w, err)
				return
			}
			project.ImageURL = url
		}

		err = h.projectRepo.Update(project)
		recordMutation("update", err)
		if err != nil {
			if project.ImageURL != previousImage {
				h.discardImage(r, project.ImageURL)
			}
			h.responder.WriteError(w, err)
			return
		}
		if project.ImageURL != previousImage {
			h.discardImage(r, previousImage)
		}

		updated, err := h.projectRepo.FindByID(projectID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, updated)
	}
}

// deleteProject deletes a project by ID
// @Summary Delete project
// @Tags Projects
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Success 200 {object} StatusResponse "Success message"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Router /api/projects/{projectID} [delete]
func (h projectHandler) deleteProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := h.projectIDParam(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		// Verify project exists
		project, err := h.projectRepo.FindByID(projectID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		err = h.projectRepo.Delete(projectID)
		recordMutation("delete", err)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.discardImage(r, project.ImageURL)

		h.responder.WriteJSON(w, StatusResponse{Status: "success", Message: "project deleted successfully"})
	}
}

// getAllTags lists the distinct tags in use
// @Summary Get tags
// @Tags Projects
// @Produce json
// @Success 200 {array} string "Tag values"
// @Router /api/tags [get]
func (h projectHandler) getAllTags() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		values, err := h.projectTagRepo.DistinctValues()
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if values == nil {
			values = []string{}
		}
		h.responder.WriteJSON(w, values)
	}
}

func (h projectHandler) discardImage(r *http.Request, url string) {
	if url == "" {
		return
	}
	if err := h.images.Delete(r.Context(), url); err != nil {
		h.logger.Warn().Err(err).Str("imageUrl", url).Msg("Failed to delete stored image")
	}
}
