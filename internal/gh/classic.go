package gh

import (
	"context"
	"fmt"

	"github.com/h0rv/ghp-action/internal/domain"
	"github.com/machinebox/graphql"
)

// Queries against classic (pre-v2) project boards. GitHub has retired the
// classic projects API on most hosts; these remain for GitHub Enterprise
// Server installs that still serve it.

type classicProjectNodes struct {
	Nodes []struct {
		ID      string `json:"id"`
		Name    string `json:"name"`
		Columns struct {
			Nodes []struct {
				ID   string `json:"id"`
				Name string `json:"name"`
			} `json:"nodes"`
		} `json:"columns"`
	} `json:"nodes"`
}

func (p *classicProjectNodes) toDomain() []domain.ClassicProject {
	if p == nil {
		return []domain.ClassicProject{}
	}

	projects := make([]domain.ClassicProject, 0, len(p.Nodes))
	for _, node := range p.Nodes {
		project := domain.ClassicProject{
			ID:      node.ID,
			Name:    node.Name,
			Columns: make([]domain.ClassicColumn, 0, len(node.Columns.Nodes)),
		}
		for _, col := range node.Columns.Nodes {
			project.Columns = append(project.Columns, domain.ClassicColumn{ID: col.ID, Name: col.Name})
		}
		projects = append(projects, project)
	}
	return projects
}

// RepositoryProjects finds the most recent open classic project of a
// repository whose name matches projectName, with up to 15 columns.
func (c *Client) RepositoryProjects(ctx context.Context, owner, repo, projectName string) ([]domain.ClassicProject, error) {
	req := graphql.NewRequest(`
		query($owner: String!, $name: String!, $projectName: String!) {
			repository(owner: $owner, name: $name) {
				projects(search: $projectName, last: 1, states: [OPEN]) {
					nodes {
						name
						id
						columns(first: 15) {
							nodes {
								name
								id
							}
						}
					}
				}
			}
		}
	`)
	req.Var("owner", owner)
	req.Var("name", repo)
	req.Var("projectName", projectName)

	var resp struct {
		Repository *struct {
			Projects *classicProjectNodes `json:"projects"`
		} `json:"repository"`
	}

	if err := c.makeRequest(ctx, req, &resp); err != nil {
		return nil, fmt.Errorf("failed to get repository projects: %w", err)
	}

	if resp.Repository == nil {
		return []domain.ClassicProject{}, nil
	}
	return resp.Repository.Projects.toDomain(), nil
}

// OrganizationProjects finds the most recent open classic project of an
// organization whose name matches projectName, with up to 10 columns.
func (c *Client) OrganizationProjects(ctx context.Context, owner, projectName string) ([]domain.ClassicProject, error) {
	req := graphql.NewRequest(`
		query($owner: String!, $projectName: String!) {
			organization(login: $owner) {
				projects(search: $projectName, last: 1, states: [OPEN]) {
					nodes {
						name
						id
						columns(first: 10) {
							nodes {
								name
								id
							}
						}
					}
				}
			}
		}
	`)
	req.Var("owner", owner)
	req.Var("projectName", projectName)

	var resp struct {
		Organization *struct {
			Projects *classicProjectNodes `json:"projects"`
		} `json:"organization"`
	}

	if err := c.makeRequest(ctx, req, &resp); err != nil {
		return nil, fmt.Errorf("failed to get organization projects: %w", err)
	}

	if resp.Organization == nil {
		return []domain.ClassicProject{}, nil
	}
	return resp.Organization.Projects.toDomain(), nil
}

// UserProjects finds the most recent open classic project of a user whose
// name matches projectName, with up to 10 columns.
func (c *Client) UserProjects(ctx context.Context, owner, projectName string) ([]domain.ClassicProject, error) {
	req := graphql.NewRequest(`
		query($owner: String!, $projectName: String!) {
			user(login: $owner) {
				projects(search: $projectName, last: 1, states: [OPEN]) {
					nodes {
						name
						id
						columns(first: 10) {
							nodes {
								name
								id
							}
						}
					}
				}
			}
		}
	`)
	req.Var("owner", owner)
	req.Var("projectName", projectName)

	var resp struct {
		User *struct {
			Projects *classicProjectNodes `json:"projects"`
		} `json:"user"`
	}

	if err := c.makeRequest(ctx, req, &resp); err != nil {
		return nil, fmt.Errorf("failed to get user projects: %w", err)
	}

	if resp.User == nil {
		return []domain.ClassicProject{}, nil
	}
	return resp.User.Projects.toDomain(), nil
}

// IssueCards returns the classic project cards of the issue at issueURL.
func (c *Client) IssueCards(ctx context.Context, issueURL string) ([]domain.ClassicCard, error) {
	req := graphql.NewRequest(`
		query($link: URI!) {
			resource(url: $link) {
				... on Issue {
					projectCards {
						nodes {
							id
							isArchived
							project {
								name
								id
							}
						}
					}
				}
			}
		}
	`)
	req.Var("link", issueURL)

	var resp struct {
		Resource *struct {
			ProjectCards *struct {
				Nodes []struct {
					ID         string `json:"id"`
					IsArchived bool   `json:"isArchived"`
					Project    *struct {
						ID   string `json:"id"`
						Name string `json:"name"`
					} `json:"project"`
				} `json:"nodes"`
			} `json:"projectCards"`
		} `json:"resource"`
	}

	if err := c.makeRequest(ctx, req, &resp); err != nil {
		return nil, fmt.Errorf("failed to get issue cards: %w", err)
	}

	if resp.Resource == nil || resp.Resource.ProjectCards == nil {
		return []domain.ClassicCard{}, nil
	}

	cards := make([]domain.ClassicCard, 0, len(resp.Resource.ProjectCards.Nodes))
	for _, node := range resp.Resource.ProjectCards.Nodes {
		card := domain.ClassicCard{
			ID:         node.ID,
			IsArchived: node.IsArchived,
		}
		if node.Project != nil {
			card.ProjectID = node.Project.ID
			card.ProjectName = node.Project.Name
		}
		cards = append(cards, card)
	}

	return cards, nil
}
