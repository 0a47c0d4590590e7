package gh

import (
	"context"
	"fmt"

	"github.com/h0rv/ghp-action/internal/domain"
	"github.com/machinebox/graphql"
)

type issueNode struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

type pullRequestNode struct {
	ID                      string `json:"id"`
	BaseRefName             string `json:"baseRefName"`
	HeadRefName             string `json:"headRefName"`
	Number                  int    `json:"number"`
	State                   string `json:"state"`
	ClosingIssuesReferences *struct {
		Edges []struct {
			Node *issueNode `json:"node"`
		} `json:"edges"`
	} `json:"closingIssuesReferences"`
}

type pullRequestEdge struct {
	Node   *pullRequestNode `json:"node"`
	Cursor string           `json:"cursor"`
}

func (e pullRequestEdge) toDomain() domain.PullRequestRef {
	pr := domain.PullRequestRef{
		ID:          e.Node.ID,
		BaseRefName: e.Node.BaseRefName,
		HeadRefName: e.Node.HeadRefName,
		Number:      e.Node.Number,
		State:       e.Node.State,
		Cursor:      e.Cursor,
	}

	if refs := e.Node.ClosingIssuesReferences; refs != nil {
		pr.ClosingIssues = make([]domain.IssueRef, 0, len(refs.Edges))
		for _, edge := range refs.Edges {
			if edge.Node == nil {
				continue
			}
			pr.ClosingIssues = append(pr.ClosingIssues, domain.IssueRef{
				ID:    edge.Node.ID,
				Title: edge.Node.Title,
				URL:   edge.Node.URL,
			})
		}
	}

	return pr
}

func edgesToDomain(edges []pullRequestEdge) []domain.PullRequestRef {
	prs := make([]domain.PullRequestRef, 0, len(edges))
	for _, edge := range edges {
		if edge.Node == nil {
			continue
		}
		prs = append(prs, edge.toDomain())
	}
	return prs
}

// LastPullRequests returns the two most recent open pull requests targeting
// branch, each with up to 100 closing issues. A missing repository or an
// empty connection yields an empty slice.
func (c *Client) LastPullRequests(ctx context.Context, owner, repo, branch string) ([]domain.PullRequestRef, error) {
	req := graphql.NewRequest(`
		query($owner: String!, $name: String!, $branch: String!) {
			repository(owner: $owner, name: $name) {
				pullRequests(last: 2, baseRefName: $branch, states: [OPEN]) {
					edges {
						node {
							id
							baseRefName
							headRefName
							number
							state
							closingIssuesReferences(first: 100) {
								edges {
									node {
										id
										title
										url
									}
								}
							}
						}
						cursor
					}
				}
			}
		}
	`)

	req.Var("owner", owner)
	req.Var("name", repo)
	req.Var("branch", branch)

	var resp struct {
		Repository *struct {
			PullRequests *struct {
				Edges []pullRequestEdge `json:"edges"`
			} `json:"pullRequests"`
		} `json:"repository"`
	}

	if err := c.makeRequest(ctx, req, &resp); err != nil {
		return nil, fmt.Errorf("failed to get last pull requests: %w", err)
	}

	if resp.Repository == nil || resp.Repository.PullRequests == nil {
		return []domain.PullRequestRef{}, nil
	}

	return edgesToDomain(resp.Repository.PullRequests.Edges), nil
}

// PullRequestsPage returns one page of pull requests in any state targeting
// branch, starting after cursor. An empty cursor requests the first page.
func (c *Client) PullRequestsPage(ctx context.Context, owner, repo, branch, cursor string) (domain.PullRequestPage, error) {
	req := graphql.NewRequest(`
		query($owner: String!, $name: String!, $branch: String!, $cursor: String) {
			repository(owner: $owner, name: $name) {
				pullRequests(first: 100, baseRefName: $branch, after: $cursor) {
					pageInfo {
						hasNextPage
						endCursor
					}
					edges {
						node {
							id
							baseRefName
							headRefName
							number
							state
							closingIssuesReferences(first: 100) {
								edges {
									node {
										id
										title
										url
									}
								}
							}
						}
						cursor
					}
				}
			}
		}
	`)

	req.Var("owner", owner)
	req.Var("name", repo)
	req.Var("branch", branch)
	if cursor != "" {
		req.Var("cursor", cursor)
	} else {
		req.Var("cursor", nil)
	}

	var resp struct {
		Repository *struct {
			PullRequests *struct {
				PageInfo struct {
					HasNextPage bool   `json:"hasNextPage"`
					EndCursor   string `json:"endCursor"`
				} `json:"pageInfo"`
				Edges []pullRequestEdge `json:"edges"`
			} `json:"pullRequests"`
		} `json:"repository"`
	}

	if err := c.makeRequest(ctx, req, &resp); err != nil {
		return domain.PullRequestPage{}, fmt.Errorf("failed to get pull requests page: %w", err)
	}

	if resp.Repository == nil || resp.Repository.PullRequests == nil {
		return domain.PullRequestPage{PullRequests: []domain.PullRequestRef{}}, nil
	}

	conn := resp.Repository.PullRequests
	return domain.PullRequestPage{
		PullRequests: edgesToDomain(conn.Edges),
		EndCursor:    conn.PageInfo.EndCursor,
		HasNextPage:  conn.PageInfo.HasNextPage,
	}, nil
}
