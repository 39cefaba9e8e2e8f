package notion

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Airohh/Appli-Food-Course/internal/infrastructure/config"
	"github.com/Airohh/Appli-Food-Course/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const apiVersion = "2022-06-28"

// Client talks to the workspace page-database API. Rate limits (429) and
// server errors are retried with exponential backoff.
type Client struct {
	cfg    config.NotionConfig
	client *resty.Client
}

// NewClient builds a Client from the workspace settings.
func NewClient(cfg config.NotionConfig) *Client {
	client := resty.New().
		SetBaseURL("https://api.notion.com/v1").
		SetTimeout(cfg.Timeout).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.Token)).
		SetHeader("Notion-Version", apiVersion).
		SetRetryCount(5).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(60 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if err != nil {
				return true
			}
			return r.StatusCode() == http.StatusTooManyRequests ||
				r.StatusCode() >= http.StatusInternalServerError
		})

	return &Client{
		cfg:    cfg,
		client: client,
	}
}

// NormalizeID folds a 32-hex database or page id into its dashed form.
// Anything that is not 32 hex characters after dash removal passes through.
func NormalizeID(rawID string) string {
	token := strings.TrimSpace(strings.ReplaceAll(rawID, "-", ""))
	if len(token) != 32 {
		return rawID
	}
	return fmt.Sprintf("%s-%s-%s-%s-%s",
		token[0:8], token[8:12], token[12:16], token[16:20], token[20:32])
}

// Page is one database row.
type Page struct {
	ID             string              `json:"id"`
	URL            string              `json:"url"`
	CreatedTime    string              `json:"created_time"`
	LastEditedTime string              `json:"last_edited_time"`
	Properties     map[string]Property `json:"properties"`
}

type queryResponse struct {
	Results    []Page  `json:"results"`
	HasMore    bool    `json:"has_more"`
	NextCursor *string `json:"next_cursor"`
}

type databaseResponse struct {
	Properties map[string]PropertyDefinition `json:"properties"`
}

// PropertyDefinition is one column of a database schema.
type PropertyDefinition struct {
	Type string `json:"type"`
}

// QueryAllPages walks the database's pages through cursor pagination.
func (c *Client) QueryAllPages(ctx context.Context, databaseID string) ([]Page, error) {
	normalized := NormalizeID(databaseID)
	if normalized == "" {
		return nil, fmt.Errorf("empty database id")
	}

	var pages []Page
	var cursor *string
	for {
		body := map[string]interface{}{}
		if cursor != nil {
			body["start_cursor"] = *cursor
		}

		var payload queryResponse
		resp, err := c.client.R().
			SetContext(ctx).
			SetBody(body).
			SetResult(&payload).
			Post(fmt.Sprintf("/databases/%s/query", normalized))
		if err != nil {
			return nil, fmt.Errorf("failed to query database %s: %w", normalized, err)
		}
		if resp.StatusCode() != http.StatusOK {
			return nil, fmt.Errorf("database query returned status %d: %s", resp.StatusCode(), resp.String())
		}

		pages = append(pages, payload.Results...)
		if !payload.HasMore || payload.NextCursor == nil {
			return pages, nil
		}
		cursor = payload.NextCursor
	}
}

// retrieveDatabase fetches a database's schema.
func (c *Client) retrieveDatabase(ctx context.Context, databaseID string) (*databaseResponse, error) {
	var payload databaseResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetResult(&payload).
		Get(fmt.Sprintf("/databases/%s", NormalizeID(databaseID)))
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve database %s: %w", databaseID, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("database retrieve returned status %d: %s", resp.StatusCode(), resp.String())
	}
	if len(payload.Properties) == 0 {
		return nil, fmt.Errorf("database %s returned no properties", databaseID)
	}
	return &payload, nil
}

// CreatePage inserts a new row with the given properties.
func (c *Client) CreatePage(ctx context.Context, databaseID string, properties map[string]interface{}) (string, error) {
	body := map[string]interface{}{
		"parent":     map[string]string{"database_id": NormalizeID(databaseID)},
		"properties": properties,
	}

	var created Page
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&created).
		Post("/pages")
	if err != nil {
		return "", fmt.Errorf("failed to create page: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("page create returned status %d: %s", resp.StatusCode(), resp.String())
	}
	return created.ID, nil
}

// UpdatePage patches an existing row's properties.
func (c *Client) UpdatePage(ctx context.Context, pageID string, properties map[string]interface{}) error {
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(map[string]interface{}{"properties": properties}).
		Patch(fmt.Sprintf("/pages/%s", pageID))
	if err != nil {
		return fmt.Errorf("failed to update page %s: %w", pageID, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("page update returned status %d: %s", resp.StatusCode(), resp.String())
	}
	return nil
}

// ArchivePage marks a row as archived, the API's delete.
func (c *Client) ArchivePage(ctx context.Context, pageID string) error {
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(map[string]interface{}{"archived": true}).
		Patch(fmt.Sprintf("/pages/%s", pageID))
	if err != nil {
		return fmt.Errorf("failed to archive page %s: %w", pageID, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("page archive returned status %d: %s", resp.StatusCode(), resp.String())
	}
	common.LogDebug("page archived", zap.String("page_id", pageID))
	return nil
}
