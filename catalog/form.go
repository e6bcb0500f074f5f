package catalog

import (
	"strconv"
	"strings"
	"sync"

	"github.com/rpupo63/portfolio/errs"
)

// FormState is the editable subset of a project plus the edit target and
// an optional pending image.
type FormState struct {
	TargetID    string
	Title       string
	Description string
	Link        string
	GithubURL   string
	TechStack   string
	Tags        string
	Featured    bool
	SortOrder   int
	// ImageURL is the stored image of the record being edited. It is
	// informative only and never sent back.
	ImageURL     string
	PendingImage *ImageAttachment
}

func (s FormState) Editing() bool {
	return s.TargetID != ""
}

// Fields returns the text payload for a submit.
func (s FormState) Fields() ProjectFields {
	return ProjectFields{
		Title:       s.Title,
		Description: s.Description,
		Link:        s.Link,
		GithubURL:   s.GithubURL,
		TechStack:   s.TechStack,
		Tags:        s.Tags,
		Featured:    s.Featured,
		SortOrder:   s.SortOrder,
	}
}

// EditForm holds the project currently being created or edited,
// independent of the catalog list.
type EditForm struct {
	mu    sync.Mutex
	state FormState
}

// NewEditForm returns a form in create mode.
func NewEditForm() *EditForm {
	return &EditForm{}
}

func (f *EditForm) BeginCreate() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = FormState{}
}

// BeginEdit copies record's editable fields into the form. record itself
// is never referenced afterwards.
func (f *EditForm) BeginEdit(record ProjectRecord) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = FormState{
		TargetID:    record.ID,
		Title:       record.Title,
		Description: record.Description,
		Link:        record.Link,
		GithubURL:   record.GithubURL,
		TechStack:   record.TechStack,
		Tags:        record.Tags,
		Featured:    record.Featured,
		SortOrder:   record.SortOrder,
		ImageURL:    record.ImageURL,
	}
}

// SetField updates one field by its wire name, coercing featured to a
// boolean and sortOrder to an integer.
func (f *EditForm) SetField(name, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch name {
	case "title":
		f.state.Title = value
	case "description":
		f.state.Description = value
	case "link":
		f.state.Link = value
	case "githubUrl":
		f.state.GithubURL = value
	case "techStack":
		f.state.TechStack = value
	case "tags":
		f.state.Tags = value
	case "featured":
		featured, err := parseCheckbox(value)
		if err != nil {
			return errs.NewValidationError(name, "featured must be true or false")
		}
		f.state.Featured = featured
	case "sortOrder":
		value = strings.TrimSpace(value)
		if value == "" {
			f.state.SortOrder = 0
			return nil
		}
		sortOrder, err := strconv.Atoi(value)
		if err != nil {
			return errs.NewValidationError(name, "sortOrder must be a whole number")
		}
		f.state.SortOrder = sortOrder
	default:
		return errs.NewValidationError(name, "unknown field "+name)
	}
	return nil
}

func parseCheckbox(value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "on", "yes", "y":
		return true, nil
	case "off", "no", "n", "":
		return false, nil
	}
	return strconv.ParseBool(strings.TrimSpace(value))
}

// AttachImage replaces any pending image. The stored ImageURL is left as is.
func (f *EditForm) AttachImage(img *ImageAttachment) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.PendingImage = img.clone()
}

// Validate reports the first missing required field.
func (f *EditForm) Validate() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state.validate()
}

func (s FormState) validate() error {
	if strings.TrimSpace(s.Title) == "" {
		return errs.NewValidationError("title", "title is required")
	}
	if strings.TrimSpace(s.Description) == "" {
		return errs.NewValidationError("description", "description is required")
	}
	return nil
}

// Snapshot returns a copy of the current state.
func (f *EditForm) Snapshot() FormState {
	f.mu.Lock()
	defer f.mu.Unlock()
	snapshot := f.state
	snapshot.PendingImage = f.state.PendingImage.clone()
	return snapshot
}
