package api

import (
	"bytes"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/rpupo63/portfolio/errs"
	"github.com/rpupo63/portfolio/models"
	"github.com/rpupo63/portfolio/storage"
)

const maxMultipartMemory = 1 << 20

// projectInput holds the fields present in a create or update request.
// A nil field was not sent.
type projectInput struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Link        *string `json:"link"`
	GithubURL   *string `json:"githubUrl"`
	TechStack   *string `json:"techStack"`
	Tags        *string `json:"tags"`
	Featured    *bool   `json:"featured"`
	SortOrder   *int    `json:"sortOrder"`

	image *uploadedImage
}

type uploadedImage struct {
	filename    string
	contentType string
	data        []byte
}

// parseProjectInput reads a multipart form (with an optional "image" file
// part) or a JSON body.
func parseProjectInput(w http.ResponseWriter, r *http.Request, responder Responder) (projectInput, error) {
	var input projectInput

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/json":
		if err := responder.DecodeJSON(w, r, &input); err != nil {
			return input, err
		}
		return input, nil
	case "multipart/form-data":
	default:
		return input, errs.NewUnsupportedMediaTypeError(mediaType, []string{"multipart/form-data", "application/json"})
	}

	r.Body = http.MaxBytesReader(w, r.Body, storage.MaxImageSize+maxMultipartMemory)
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return input, errs.NewMaxBodySizeExceededError(storage.MaxImageSize + maxMultipartMemory)
		}
		return input, errs.NewMalformedPayloadError("multipart", err)
	}

	values := r.MultipartForm.Value
	text := func(key string) *string {
		if v, ok := values[key]; ok && len(v) > 0 {
			s := v[0]
			return &s
		}
		return nil
	}

	input.Title = text("title")
	input.Description = text("description")
	input.Link = text("link")
	input.GithubURL = text("githubUrl")
	input.TechStack = text("techStack")
	input.Tags = text("tags")

	if raw := text("featured"); raw != nil {
		featured, err := parseFormBool(*raw)
		if err != nil {
			return input, errs.NewInvalidFieldError("featured", "must be true or false")
		}
		input.Featured = &featured
	}
	if raw := text("sortOrder"); raw != nil {
		sortOrder := 0
		if trimmed := strings.TrimSpace(*raw); trimmed != "" {
			n, err := strconv.Atoi(trimmed)
			if err != nil {
				return input, errs.NewInvalidFieldError("sortOrder", "must be a whole number")
			}
			sortOrder = n
		}
		input.SortOrder = &sortOrder
	}

	file, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return input, nil
	}
	if err != nil {
		return input, errs.NewMalformedPayloadError("image", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return input, errs.NewMalformedPayloadError("image", err)
	}
	if len(data) == 0 {
		return input, nil
	}
	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	input.image = &uploadedImage{filename: header.Filename, contentType: contentType, data: data}
	return input, nil
}

func parseFormBool(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "on", "yes":
		return true, nil
	case "", "off", "no":
		return false, nil
	}
	return strconv.ParseBool(strings.TrimSpace(raw))
}

// apply copies the present fields onto project.
func (in projectInput) apply(project *models.Project) {
	if in.Title != nil {
		project.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		project.Description = strings.TrimSpace(*in.Description)
	}
	if in.Link != nil {
		project.Link = strings.TrimSpace(*in.Link)
	}
	if in.GithubURL != nil {
		project.GithubURL = strings.TrimSpace(*in.GithubURL)
	}
	if in.TechStack != nil {
		project.TechStack = models.NormalizeList(*in.TechStack)
	}
	if in.Tags != nil {
		project.Tags = models.NormalizeList(*in.Tags)
	}
	if in.Featured != nil {
		project.Featured = *in.Featured
	}
	if in.SortOrder != nil {
		project.SortOrder = *in.SortOrder
	}
}

func validateProject(project *models.Project) error {
	if project.Title == "" {
		return errs.NewMissingRequiredFieldError("title")
	}
	if project.Description == "" {
		return errs.NewMissingRequiredFieldError("description")
	}
	return nil
}

func (img *uploadedImage) reader() io.Reader {
	return bytes.NewReader(img.data)
}
