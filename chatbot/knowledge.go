package chatbot

import (
	"fmt"
	"strings"

	"github.com/rpupo63/portfolio/catalog"
)

const maxProjectDescription = 250

// Profile describes the site owner.
type Profile struct {
	Name       string       `yaml:"name" json:"name"`
	Role       string       `yaml:"role" json:"role"`
	Website    string       `yaml:"website" json:"website"`
	About      string       `yaml:"about" json:"about"`
	Skills     []string     `yaml:"skills" json:"skills"`
	Experience []Experience `yaml:"experience" json:"experience"`
	Contact    ContactInfo  `yaml:"contact" json:"contact"`
}

type Experience struct {
	Role        string `yaml:"role" json:"role"`
	Company     string `yaml:"company" json:"company"`
	Duration    string `yaml:"duration" json:"duration"`
	Description string `yaml:"description" json:"description"`
}

type ContactInfo struct {
	Email    string `yaml:"email" json:"email"`
	Phone    string `yaml:"phone" json:"phone"`
	LinkedIn string `yaml:"linkedin" json:"linkedin"`
	GitHub   string `yaml:"github" json:"github"`
}

// Knowledge flattens the profile and the project catalog into the lines
// handed to the language model.
func Knowledge(profile Profile, projects []catalog.ProjectRecord) []string {
	var lines []string
	addLine := func(label, value string) {
		if value = strings.TrimSpace(value); value != "" {
			lines = append(lines, label+value)
		}
	}

	addLine("Name: ", profile.Name)
	addLine("Role: ", profile.Role)
	addLine("Website: ", profile.Website)
	addLine("About: ", profile.About)
	if len(profile.Skills) > 0 {
		lines = append(lines, "Skills: "+strings.Join(profile.Skills, ", "))
	}

	if len(projects) > 0 {
		lines = append(lines, "\nProjects:")
		for _, project := range catalog.DisplayOrder(projects) {
			lines = append(lines, fmt.Sprintf("- %s: %s", project.Title, truncate(project.Description, maxProjectDescription)))
			if project.Link != "" {
				lines = append(lines, "  Link: "+project.Link)
			}
			if stack := project.TechStackList(); len(stack) > 0 {
				lines = append(lines, "  Tech: "+strings.Join(stack, ", "))
			}
		}
	}

	if len(profile.Experience) > 0 {
		lines = append(lines, "\nExperience:")
		for _, exp := range profile.Experience {
			lines = append(lines, fmt.Sprintf("- %s at %s (%s): %s", exp.Role, exp.Company, exp.Duration, exp.Description))
		}
	}

	contact := profile.Contact
	if contact != (ContactInfo{}) {
		lines = append(lines, "\nContact Information:")
		addLine("- Email: ", contact.Email)
		addLine("- Phone: ", contact.Phone)
		addLine("- LinkedIn: ", contact.LinkedIn)
		addLine("- GitHub: ", contact.GitHub)
	}

	return lines
}

func truncate(s string, max int) string {
	runes := []rune(strings.TrimSpace(s))
	if len(runes) <= max {
		return string(runes)
	}
	return string(runes[:max])
}
