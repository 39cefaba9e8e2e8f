package spoonacular

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/Airohh/Appli-Food-Course/internal/infrastructure/config"
	"github.com/Airohh/Appli-Food-Course/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// ErrAllKeysExhausted is returned when every configured API key answered
// 402 Payment Required.
var ErrAllKeysExhausted = errors.New("recipe search quota exhausted on all API keys")

// ErrUnauthorized is returned on a 401, meaning the key itself is invalid.
var ErrUnauthorized = errors.New("recipe search API key invalid")

// Client talks to the Spoonacular recipe API. When no key is configured the
// client answers from a local mock catalogue so the pipeline stays runnable
// offline.
type Client struct {
	cfg    config.SpoonacularConfig
	client *resty.Client
}

// NewClient builds a Client with retry and backoff on transient failures.
func NewClient(cfg config.SpoonacularConfig) *Client {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetRetryCount(3).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(8 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if err != nil {
				return true
			}
			return r.StatusCode() >= http.StatusInternalServerError
		})

	return &Client{
		cfg:    cfg,
		client: client,
	}
}

// SearchOptions narrows a candidate search.
type SearchOptions struct {
	Query          string
	Number         int
	Diet           string
	MaxReadyMinute int
	Offset         int
}

// Search runs a complexSearch and returns normalized candidates, rotating
// through the configured keys when one runs out of quota. A zero offset
// defaults to the current week's slice of the popularity ranking, so
// successive weekly runs see different recipes.
func (c *Client) Search(ctx context.Context, opts SearchOptions) ([]Candidate, error) {
	keys := c.cfg.Keys()
	if len(keys) == 0 {
		return nil, fmt.Errorf("no recipe search API key configured")
	}
	if opts.Offset == 0 {
		opts.Offset = WeekOffset(time.Now(), opts.Number)
	}

	var lastErr error
	for i, key := range keys {
		payload, err := c.complexSearch(ctx, key, opts)
		if err == nil {
			candidates := make([]Candidate, 0, len(payload.Results))
			for _, recipe := range payload.Results {
				candidates = append(candidates, normalizeRecipe(recipe))
			}
			common.LogInfo("recipe search completed",
				zap.Int("returned", len(candidates)),
				zap.Int("requested", opts.Number),
			)
			return candidates, nil
		}
		if errors.Is(err, errQuotaExceeded) {
			common.LogWarn("recipe search quota reached, rotating key",
				zap.Int("key_index", i+1),
				zap.Int("keys_total", len(keys)),
			)
			lastErr = ErrAllKeysExhausted
			continue
		}
		return nil, err
	}
	return nil, lastErr
}

// RecipeIngredients fetches one recipe's ingredient list scaled to the
// desired portions. Keys are tried in reverse order to spare the primary
// key's quota for searches.
func (c *Client) RecipeIngredients(ctx context.Context, spoonID int, desiredPortions int) ([]RecipeIngredient, error) {
	if c.cfg.UseMock {
		if ingredients, ok := MockRecipeIngredients(spoonID, desiredPortions); ok {
			return ingredients, nil
		}
		return nil, fmt.Errorf("recipe %d not in mock catalogue", spoonID)
	}

	keys := c.cfg.Keys()
	if len(keys) == 0 {
		return nil, fmt.Errorf("no recipe search API key configured")
	}

	for i := len(keys) - 1; i >= 0; i-- {
		recipe, err := c.recipeInformation(ctx, keys[i], spoonID)
		if err == nil {
			return scaleIngredients(*recipe, desiredPortions), nil
		}
		if errors.Is(err, errQuotaExceeded) {
			common.LogWarn("recipe lookup quota reached, rotating key",
				zap.Int("spoon_id", spoonID),
			)
			continue
		}
		return nil, err
	}
	return nil, ErrAllKeysExhausted
}

var errQuotaExceeded = errors.New("quota exceeded")

func (c *Client) complexSearch(ctx context.Context, apiKey string, opts SearchOptions) (*searchResponse, error) {
	params := map[string]string{
		"apiKey":               apiKey,
		"addRecipeInformation": "true",
		"fillIngredients":      "true",
		"addRecipeNutrition":   "true",
		"instructionsRequired": "true",
		"number":               strconv.Itoa(opts.Number),
		"diet":                 opts.Diet,
		"maxReadyTime":         strconv.Itoa(opts.MaxReadyMinute),
		"sort":                 "popularity",
		"offset":               strconv.Itoa(opts.Offset),
	}
	if opts.Query != "" {
		params["query"] = opts.Query
	}

	var payload searchResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetResult(&payload).
		Get("/recipes/complexSearch")
	if err != nil {
		return nil, fmt.Errorf("failed to call recipe search: %w", err)
	}

	switch resp.StatusCode() {
	case http.StatusOK:
		return &payload, nil
	case http.StatusPaymentRequired:
		return nil, errQuotaExceeded
	case http.StatusUnauthorized:
		return nil, ErrUnauthorized
	default:
		return nil, fmt.Errorf("recipe search returned status %d: %s", resp.StatusCode(), resp.String())
	}
}

func (c *Client) recipeInformation(ctx context.Context, apiKey string, spoonID int) (*wireRecipe, error) {
	var recipe wireRecipe
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"apiKey":           apiKey,
			"includeNutrition": "false",
		}).
		SetResult(&recipe).
		Get(fmt.Sprintf("/recipes/%d/information", spoonID))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recipe %d: %w", spoonID, err)
	}

	switch resp.StatusCode() {
	case http.StatusOK:
		return &recipe, nil
	case http.StatusPaymentRequired:
		return nil, errQuotaExceeded
	case http.StatusUnauthorized:
		return nil, ErrUnauthorized
	default:
		return nil, fmt.Errorf("recipe lookup returned status %d: %s", resp.StatusCode(), resp.String())
	}
}

// Candidates returns recipes for the week: the mock catalogue when mock
// mode is on or no key is set, otherwise a live search. A failing live
// search falls back to the mock catalogue rather than aborting the run.
func (c *Client) Candidates(ctx context.Context, opts SearchOptions) []Candidate {
	if c.cfg.UseMock {
		common.LogInfo("recipe search in mock mode")
		return MockCandidates()
	}
	if len(c.cfg.Keys()) == 0 {
		common.LogWarn("no recipe search API key, falling back to mock catalogue")
		return MockCandidates()
	}

	candidates, err := c.Search(ctx, opts)
	if err != nil {
		common.LogWarn("recipe search failed, falling back to mock catalogue",
			zap.Error(err),
		)
		return MockCandidates()
	}
	for _, candidate := range candidates {
		if candidate.Image == "" {
			common.LogWarn("recipe without image", zap.String("title", candidate.Title))
		}
	}
	return candidates
}

// WeekOffset spreads searches over the year so successive weeks see
// different recipes.
func WeekOffset(now time.Time, number int) int {
	_, week := now.ISOWeek()
	return (week - 1) * number
}
