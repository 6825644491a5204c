package linear

import (
	"context"
	"fmt"
)

// Viewer is the user owning the API key.
type Viewer struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Team is a remote team available for linking.
type Team struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Key  string `json:"key"`
}

// Issue is the result of issue creation.
type Issue struct {
	ID         string `json:"id"`
	Identifier string `json:"identifier"`
	URL        string `json:"url"`
	Title      string `json:"title"`
}

const viewerQuery = `query Viewer {
  viewer {
    id
    name
    email
  }
}`

const teamsQuery = `query Teams {
  teams {
    nodes {
      id
      name
      key
    }
  }
}`

const issueCreateMutation = `mutation CreateIssue($title: String!, $teamId: String!, $description: String) {
  issueCreate(input: { title: $title, teamId: $teamId, description: $description }) {
    success
    issue {
      id
      identifier
      url
      title
    }
  }
}`

// Wire shapes use pointers so an omitted field is distinguishable from an
// empty one.

type viewerData struct {
	Viewer *struct {
		ID    *string `json:"id"`
		Name  *string `json:"name"`
		Email *string `json:"email"`
	} `json:"viewer"`
}

type teamNode struct {
	ID   *string `json:"id"`
	Name *string `json:"name"`
	Key  *string `json:"key"`
}

type teamsData struct {
	Teams *struct {
		Nodes *[]teamNode `json:"nodes"`
	} `json:"teams"`
}

type issueNode struct {
	ID         *string `json:"id"`
	Identifier *string `json:"identifier"`
	URL        *string `json:"url"`
	Title      *string `json:"title"`
}

type issueCreateData struct {
	IssueCreate *struct {
		Success *bool      `json:"success"`
		Issue   *issueNode `json:"issue"`
	} `json:"issueCreate"`
}

// Viewer returns the authenticated user. It is used to validate a key.
func (c *Client) Viewer(ctx context.Context) (*Viewer, error) {
	const op = "viewer"

	var data viewerData
	if err := c.do(ctx, op, viewerQuery, nil, &data); err != nil {
		return nil, err
	}
	if data.Viewer == nil {
		return nil, &ProtocolError{Op: op, Reason: `missing field "viewer"`}
	}

	var (
		v   Viewer
		err error
	)
	if v.ID, err = require(op, "viewer.id", data.Viewer.ID); err != nil {
		return nil, err
	}
	if v.Name, err = require(op, "viewer.name", data.Viewer.Name); err != nil {
		return nil, err
	}
	if v.Email, err = require(op, "viewer.email", data.Viewer.Email); err != nil {
		return nil, err
	}
	return &v, nil
}

// Teams returns every team visible to the key.
func (c *Client) Teams(ctx context.Context) ([]Team, error) {
	const op = "teams"

	var data teamsData
	if err := c.do(ctx, op, teamsQuery, nil, &data); err != nil {
		return nil, err
	}
	if data.Teams == nil {
		return nil, &ProtocolError{Op: op, Reason: `missing field "teams"`}
	}
	if data.Teams.Nodes == nil {
		return nil, &ProtocolError{Op: op, Reason: `missing field "teams.nodes"`}
	}

	nodes := *data.Teams.Nodes
	teams := make([]Team, 0, len(nodes))
	for i, n := range nodes {
		var (
			t   Team
			err error
		)
		prefix := fmt.Sprintf("teams.nodes[%d]", i)
		if t.ID, err = require(op, prefix+".id", n.ID); err != nil {
			return nil, err
		}
		if t.Name, err = require(op, prefix+".name", n.Name); err != nil {
			return nil, err
		}
		if t.Key, err = require(op, prefix+".key", n.Key); err != nil {
			return nil, err
		}
		teams = append(teams, t)
	}
	return teams, nil
}

// CreateIssue creates an issue in teamID. An empty description is sent as null.
func (c *Client) CreateIssue(ctx context.Context, teamID, title, description string) (*Issue, error) {
	const op = "issueCreate"

	vars := map[string]any{
		"title":       title,
		"teamId":      teamID,
		"description": nil,
	}
	if description != "" {
		vars["description"] = description
	}

	var data issueCreateData
	if err := c.do(ctx, op, issueCreateMutation, vars, &data); err != nil {
		return nil, err
	}
	if data.IssueCreate == nil {
		return nil, &ProtocolError{Op: op, Reason: `missing field "issueCreate"`}
	}

	success, err := require(op, "issueCreate.success", data.IssueCreate.Success)
	if err != nil {
		return nil, err
	}
	if !success {
		return nil, &IssueCreateRejectedError{TeamID: teamID, Title: title}
	}

	node := data.IssueCreate.Issue
	if node == nil {
		return nil, &ProtocolError{Op: op, Reason: `missing field "issueCreate.issue"`}
	}

	var issue Issue
	if issue.ID, err = require(op, "issue.id", node.ID); err != nil {
		return nil, err
	}
	if issue.Identifier, err = require(op, "issue.identifier", node.Identifier); err != nil {
		return nil, err
	}
	if issue.URL, err = require(op, "issue.url", node.URL); err != nil {
		return nil, err
	}
	if issue.Title, err = require(op, "issue.title", node.Title); err != nil {
		return nil, err
	}
	return &issue, nil
}
