package gh

import (
	"context"
	"fmt"

	"github.com/h0rv/ghp-action/internal/domain"
	"github.com/machinebox/graphql"
)

// OwnerType represents whether an owner is an organization or user.
type OwnerType string

const (
	OwnerTypeOrganization OwnerType = "Organization"
	OwnerTypeUser         OwnerType = "User"
)

// IssueProjectItems returns the project items of an issue, one per project it
// belongs to. Only the first 10 are fetched; an issue on more projects is
// partially seen. A node that is not an issue yields an empty slice.
func (c *Client) IssueProjectItems(ctx context.Context, issueID string) ([]domain.ProjectItemRef, error) {
	req := graphql.NewRequest(`
		query($issueId: ID!) {
			node(id: $issueId) {
				... on Issue {
					projectItems(first: 10) {
						nodes {
							id
							project {
								id
							}
						}
					}
				}
			}
		}
	`)
	req.Var("issueId", issueID)

	var resp struct {
		Node *struct {
			ProjectItems *struct {
				Nodes []*struct {
					ID      string `json:"id"`
					Project *struct {
						ID string `json:"id"`
					} `json:"project"`
				} `json:"nodes"`
			} `json:"projectItems"`
		} `json:"node"`
	}

	if err := c.makeRequest(ctx, req, &resp); err != nil {
		return nil, fmt.Errorf("failed to get issue project items: %w", err)
	}

	if resp.Node == nil || resp.Node.ProjectItems == nil {
		return []domain.ProjectItemRef{}, nil
	}

	items := make([]domain.ProjectItemRef, 0, len(resp.Node.ProjectItems.Nodes))
	for _, node := range resp.Node.ProjectItems.Nodes {
		if node == nil || node.Project == nil {
			continue
		}
		items = append(items, domain.ProjectItemRef{
			ItemID:    node.ID,
			ProjectID: node.Project.ID,
		})
	}

	return items, nil
}

// ResolveOwner determines if a login is an organization or user.
// Returns the owner type, owner ID, and error if the login doesn't exist.
func (c *Client) ResolveOwner(ctx context.Context, login string) (OwnerType, string, error) {
	req := graphql.NewRequest(`
		query($login: String!) {
			organization(login: $login) {
				id
			}
			user(login: $login) {
				id
			}
		}
	`)
	req.Var("login", login)

	var resp struct {
		Organization *struct {
			ID string `json:"id"`
		} `json:"organization"`
		User *struct {
			ID string `json:"id"`
		} `json:"user"`
	}

	// GitHub reports the lookup that missed as a NOT_FOUND error next to the
	// data of the one that hit, so an error is only fatal when both are empty.
	err := c.makeRequest(ctx, req, &resp)

	if resp.Organization != nil {
		return OwnerTypeOrganization, resp.Organization.ID, nil
	}
	if resp.User != nil {
		return OwnerTypeUser, resp.User.ID, nil
	}
	if err != nil {
		return "", "", fmt.Errorf("failed to resolve owner: %w", err)
	}

	return "", "", fmt.Errorf("login '%s' not found (neither organization nor user)", login)
}

// ListProjects lists the Projects v2 of an owner.
func (c *Client) ListProjects(ctx context.Context, ownerType OwnerType, ownerID string, login string) ([]domain.Project, error) {
	fragment := "Organization"
	if ownerType == OwnerTypeUser {
		fragment = "User"
	}

	req := graphql.NewRequest(fmt.Sprintf(`
		query($id: ID!, $first: Int!) {
			node(id: $id) {
				... on %s {
					projectsV2(first: $first) {
						nodes {
							id
							number
							title
						}
					}
				}
			}
		}
	`, fragment))
	req.Var("id", ownerID)
	req.Var("first", 100)

	var resp struct {
		Node *struct {
			ProjectsV2 struct {
				Nodes []struct {
					ID     string `json:"id"`
					Number int    `json:"number"`
					Title  string `json:"title"`
				} `json:"nodes"`
			} `json:"projectsV2"`
		} `json:"node"`
	}

	if err := c.makeRequest(ctx, req, &resp); err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	if resp.Node == nil {
		return []domain.Project{}, nil
	}

	projects := make([]domain.Project, 0, len(resp.Node.ProjectsV2.Nodes))
	for _, node := range resp.Node.ProjectsV2.Nodes {
		projects = append(projects, domain.Project{
			ID:     node.ID,
			Number: node.Number,
			Title:  node.Title,
			Owner:  login,
		})
	}

	return projects, nil
}

// GetProjectFields fetches the fields of a project, including the options of
// SINGLE_SELECT fields in the order the project shows them.
func (c *Client) GetProjectFields(ctx context.Context, projectID string) ([]domain.FieldDef, error) {
	req := graphql.NewRequest(`
		query($projectId: ID!) {
			node(id: $projectId) {
				... on ProjectV2 {
					fields(first: 50) {
						nodes {
							... on ProjectV2Field {
								id
								name
								dataType
							}
							... on ProjectV2SingleSelectField {
								id
								name
								dataType
								options {
									id
									name
									color
								}
							}
							... on ProjectV2IterationField {
								id
								name
								dataType
							}
						}
					}
				}
			}
		}
	`)
	req.Var("projectId", projectID)

	var resp struct {
		Node *struct {
			Fields struct {
				Nodes []struct {
					ID       string `json:"id"`
					Name     string `json:"name"`
					DataType string `json:"dataType"`
					Options  []struct {
						ID    string `json:"id"`
						Name  string `json:"name"`
						Color string `json:"color"`
					} `json:"options"`
				} `json:"nodes"`
			} `json:"fields"`
		} `json:"node"`
	}

	if err := c.makeRequest(ctx, req, &resp); err != nil {
		return nil, fmt.Errorf("failed to get project fields: %w", err)
	}

	if resp.Node == nil {
		return []domain.FieldDef{}, nil
	}

	fields := make([]domain.FieldDef, 0, len(resp.Node.Fields.Nodes))
	for _, node := range resp.Node.Fields.Nodes {
		field := domain.FieldDef{
			ID:   node.ID,
			Name: node.Name,
			Type: node.DataType,
		}

		if node.DataType == domain.FieldTypeSingleSelect {
			field.Options = make([]domain.Option, 0, len(node.Options))
			for _, opt := range node.Options {
				field.Options = append(field.Options, domain.Option{
					ID:    opt.ID,
					Name:  opt.Name,
					Color: opt.Color,
				})
			}
		}

		fields = append(fields, field)
	}

	return fields, nil
}
