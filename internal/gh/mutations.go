package gh

import (
	"context"
	"fmt"

	"github.com/h0rv/ghp-action/internal/domain"
	"github.com/machinebox/graphql"
)

// UpdateItemField sets a project item's SINGLE_SELECT field to the given option
// and returns the updated item's ID. Setting the option an item already has
// leaves it unchanged.
func (c *Client) UpdateItemField(ctx context.Context, update domain.FieldUpdateRequest) (string, error) {
	req := graphql.NewRequest(`
		mutation($projectId: ID!, $itemId: ID!, $fieldId: ID!, $value: ProjectV2FieldValue!) {
			updateProjectV2ItemFieldValue(
				input: {
					projectId: $projectId
					itemId: $itemId
					fieldId: $fieldId
					value: $value
				}
			) {
				projectV2Item {
					id
				}
			}
		}
	`)

	req.Var("projectId", update.ProjectID)
	req.Var("itemId", update.ItemID)
	req.Var("fieldId", update.FieldID)
	req.Var("value", map[string]interface{}{
		"singleSelectOptionId": update.OptionID,
	})

	var resp struct {
		UpdateProjectV2ItemFieldValue *struct {
			ProjectV2Item *struct {
				ID string `json:"id"`
			} `json:"projectV2Item"`
		} `json:"updateProjectV2ItemFieldValue"`
	}

	if err := c.makeRequest(ctx, req, &resp); err != nil {
		return "", fmt.Errorf("failed to update item field: %w", err)
	}

	if resp.UpdateProjectV2ItemFieldValue == nil || resp.UpdateProjectV2ItemFieldValue.ProjectV2Item == nil {
		return "", nil
	}

	return resp.UpdateProjectV2ItemFieldValue.ProjectV2Item.ID, nil
}

// AddIssueToColumn adds an issue as a card to a classic project column.
// Returns the mutation's clientMutationId, which is empty unless one was sent.
func (c *Client) AddIssueToColumn(ctx context.Context, columnID, issueID string) (string, error) {
	req := graphql.NewRequest(`
		mutation($columnId: ID!, $issueId: ID!) {
			addProjectCard(input: {projectColumnId: $columnId, contentId: $issueId}) {
				clientMutationId
			}
		}
	`)

	req.Var("columnId", columnID)
	req.Var("issueId", issueID)

	var resp struct {
		AddProjectCard *struct {
			ClientMutationID string `json:"clientMutationId"`
		} `json:"addProjectCard"`
	}

	if err := c.makeRequest(ctx, req, &resp); err != nil {
		return "", fmt.Errorf("failed to add issue to column: %w", err)
	}

	if resp.AddProjectCard == nil {
		return "", nil
	}

	return resp.AddProjectCard.ClientMutationID, nil
}
