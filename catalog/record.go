package catalog

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// ProjectRecord is one project as returned by the catalog service.
type ProjectRecord struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Link        string    `json:"link"`
	GithubURL   string    `json:"githubUrl"`
	TechStack   string    `json:"techStack"`
	Tags        string    `json:"tags"`
	Featured    bool      `json:"featured"`
	SortOrder   int       `json:"sortOrder"`
	ImageURL    string    `json:"imageUrl"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (r ProjectRecord) TechStackList() []string {
	return SplitList(r.TechStack)
}

func (r ProjectRecord) TagList() []string {
	return SplitList(r.Tags)
}

// SplitList interprets a comma-delimited wire field as its ordered,
// trimmed, non-empty tokens.
func SplitList(raw string) []string {
	var tokens []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			tokens = append(tokens, part)
		}
	}
	return tokens
}

// DisplayOrder returns a new slice with featured projects first, then by
// sort order. Ties keep their catalog order.
func DisplayOrder(records []ProjectRecord) []ProjectRecord {
	ordered := make([]ProjectRecord, len(records))
	copy(ordered, records)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Featured != ordered[j].Featured {
			return ordered[i].Featured
		}
		return ordered[i].SortOrder < ordered[j].SortOrder
	})
	return ordered
}

// ProjectFields is the text payload of a create or update.
type ProjectFields struct {
	Title       string
	Description string
	Link        string
	GithubURL   string
	TechStack   string
	Tags        string
	Featured    bool
	SortOrder   int
}

// formValues lists the multipart text parts in a stable order.
func (f ProjectFields) formValues() [][2]string {
	return [][2]string{
		{"title", f.Title},
		{"description", f.Description},
		{"link", f.Link},
		{"githubUrl", f.GithubURL},
		{"techStack", f.TechStack},
		{"tags", f.Tags},
		{"featured", fmt.Sprint(f.Featured)},
		{"sortOrder", fmt.Sprint(f.SortOrder)},
	}
}

// ImageAttachment is a local image selected for upload.
type ImageAttachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// LoadImage reads an image from disk and sniffs its content type.
func LoadImage(path string) (*ImageAttachment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading image: %w", err)
	}
	return &ImageAttachment{
		Filename:    filepath.Base(path),
		ContentType: http.DetectContentType(data),
		Data:        data,
	}, nil
}

func (img *ImageAttachment) clone() *ImageAttachment {
	if img == nil {
		return nil
	}
	data := make([]byte, len(img.Data))
	copy(data, img.Data)
	return &ImageAttachment{Filename: img.Filename, ContentType: img.ContentType, Data: data}
}

// AdminRecord is an admin account as listed by the service.
type AdminRecord struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AdminUpdate changes an admin's email, password or both. Empty fields
// are left unchanged.
type AdminUpdate struct {
	Email    string `json:"email,omitempty"`
	Password string `json:"password,omitempty"`
}

// ContactForm is the public contact form payload.
type ContactForm struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// HealthStatus is the body of GET /api/health.
type HealthStatus struct {
	Status string `json:"status"`
	Uptime string `json:"uptime"`
}
