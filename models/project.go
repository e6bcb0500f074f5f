package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Project is a showcased portfolio project. TechStack and Tags are stored
// as the comma-delimited text the admin typed; tags are mirrored into
// ProjectTag rows for lookup.
type Project struct {
	ID          uuid.UUID    `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Title       string       `json:"title" db:"title" gorm:"type:text;not null"`
	Description string       `json:"description" db:"description" gorm:"type:text;not null"`
	Link        string       `json:"link" db:"link" gorm:"type:text"`
	GithubURL   string       `json:"githubUrl" db:"github_url" gorm:"column:github_url;type:text"`
	TechStack   string       `json:"techStack" db:"tech_stack" gorm:"type:text"`
	Tags        string       `json:"tags" db:"tags" gorm:"type:text"`
	Featured    bool         `json:"featured" db:"featured" gorm:"not null;default:false;index"`
	SortOrder   int          `json:"sortOrder" db:"sort_order" gorm:"not null;default:0"`
	ImageURL    string       `json:"imageUrl" db:"image_url" gorm:"column:image_url;type:text"`
	CreatedAt   time.Time    `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time    `json:"updatedAt" db:"updated_at"`
	TagRows     []ProjectTag `json:"-" gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE"`
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TagValues returns the distinct, trimmed tag tokens in input order.
func (p *Project) TagValues() []string {
	return splitDistinct(p.Tags)
}

// NormalizeList trims every token of a comma-delimited field and drops
// empty ones: " Go, ,React " becomes "Go, React".
func NormalizeList(raw string) string {
	return strings.Join(splitDistinct(raw), ", ")
}

func splitDistinct(raw string) []string {
	var values []string
	seen := make(map[string]bool)
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" || seen[strings.ToLower(part)] {
			continue
		}
		seen[strings.ToLower(part)] = true
		values = append(values, part)
	}
	return values
}
