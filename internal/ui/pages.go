package ui

import (
	"fmt"
	"html/template"

	"github.com/zeno/dashboard/auth"
	"github.com/zeno/dashboard/models"
)

// GoldBody is the body of the gold dashboard page.
type GoldBody struct {
	Cards    []Card
	Projects []*models.Project
}

// NewGoldBody builds the gold dashboard cards for user.
func NewGoldBody(user *auth.CurrentUser, projects []*models.Project) GoldBody {
	name := "trader"
	if user != nil {
		name = user.Name
		if name == "" {
			name = user.Email
		}
	}

	active := 0
	for _, p := range projects {
		if p.Status == models.ProjectStatusActive {
			active++
		}
	}

	return GoldBody{
		Cards: []Card{
			{
				Variant: CardGold,
				Header:  template.HTML("<h4>Welcome back</h4>"),
				Body:    template.HTML("<p>Hello, " + template.HTMLEscapeString(name) + ".</p>"),
			},
			{
				Variant: CardGlass,
				Header:  template.HTML("<h4>Projects</h4>"),
				Body:    template.HTML(fmt.Sprintf("<p>%d active of %d</p>", active, len(projects))),
			},
		},
		Projects: projects,
	}
}
