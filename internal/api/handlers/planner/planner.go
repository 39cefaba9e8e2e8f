package planner

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/Airohh/Appli-Food-Course/internal/core/pipeline"
	"github.com/Airohh/Appli-Food-Course/internal/core/shopping"
	"github.com/Airohh/Appli-Food-Course/internal/infrastructure/config"
	"github.com/Airohh/Appli-Food-Course/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// runTimeout bounds one detached pipeline run.
const runTimeout = 10 * time.Minute

// Handler exposes the pipeline over HTTP.
type Handler struct {
	cfg      *config.Config
	pipeline *pipeline.Pipeline
}

// NewHandler wires the pipeline into the HTTP surface.
func NewHandler(cfg *config.Config, p *pipeline.Pipeline) *Handler {
	return &Handler{cfg: cfg, pipeline: p}
}

// RunRequest is the optional trigger body.
type RunRequest struct {
	Query        string `json:"query"`
	DryRun       bool   `json:"dry_run"`
	NoLLM        bool   `json:"no_llm"`
	RefreshStock bool   `json:"refresh_stock"`
	Week         string `json:"week"`
}

// HandleRun starts a pipeline run in the background and returns its id.
// A second trigger while one is running gets a 409.
func (h *Handler) HandleRun(c *gin.Context) {
	var req RunRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid request body",
				"code":  common.ErrCodeInvalidRequest,
			})
			return
		}
	}

	if !h.pipeline.TryAcquire() {
		c.JSON(common.ErrPipelineBusy.Status, gin.H{
			"error": common.ErrPipelineBusy.Message,
			"code":  common.ErrPipelineBusy.Code,
		})
		return
	}

	runID := common.GenerateUUID()
	opts := pipeline.Options{
		Query:         req.Query,
		DryRun:        req.DryRun,
		LLMEnabled:    !req.NoLLM && h.cfg.LLM.APIKey != "",
		LLMFallback:   !req.NoLLM,
		RefreshStock:  req.RefreshStock,
		SyncWorkspace: h.cfg.Notion.Token != "",
		StockPath:     h.cfg.Planner.StockPath,
		Week:          req.Week,
	}

	go func() {
		defer h.pipeline.Release()
		ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
		defer cancel()
		if _, err := h.pipeline.Run(ctx, runID, opts); err != nil {
			common.LogError("pipeline run failed",
				zap.String("run_id", runID),
				zap.Error(err))
		}
	}()

	c.JSON(http.StatusAccepted, gin.H{
		"run_id": runID,
		"status": "started",
	})
}

// HandleGroceries serves the latest filtered shopping list artifact.
func (h *Handler) HandleGroceries(c *gin.Context) {
	store := pipeline.NewStore(h.cfg.Planner.ArtifactDir, false)
	lines, err := pipeline.LoadGroceries(store.PurchasesPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			c.JSON(http.StatusOK, gin.H{"count": 0, "items": []shopping.GroceryLine{}})
			return
		}
		common.LogError("Failed to load groceries artifact", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load groceries"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count": len(lines),
		"items": lines,
	})
}

// HandleMenu serves the latest menu artifact.
func (h *Handler) HandleMenu(c *gin.Context) {
	store := pipeline.NewStore(h.cfg.Planner.ArtifactDir, false)
	raw, err := os.ReadFile(store.MenuPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			c.JSON(http.StatusOK, gin.H{"count": 0, "items": []pipeline.MenuEntry{}})
			return
		}
		common.LogError("Failed to load menu artifact", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load menu"})
		return
	}

	var entries []pipeline.MenuEntry
	if err := common.ParseJSONBytes(raw, &entries); err != nil {
		common.LogError("Menu artifact is corrupt", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Menu artifact is corrupt"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count": len(entries),
		"items": entries,
	})
}
