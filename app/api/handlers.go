package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/geopulse/geopulse/app/artifacts"
	"github.com/geopulse/geopulse/app/database"
	"github.com/geopulse/geopulse/app/pipeline"
	"github.com/geopulse/geopulse/app/signal"
	"github.com/geopulse/geopulse/app/tasks"
)

func NewHandler(store *artifacts.Store, postRepo database.PostRepository, runRepo database.RunRepository,
	runner *pipeline.Runner, scheduler tasks.TaskSchedulerInterface) *Handler {
	return &Handler{
		store:     store,
		postRepo:  postRepo,
		runRepo:   runRepo,
		runner:    runner,
		scheduler: scheduler,
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	if h.runRepo != nil {
		if run, err := h.runRepo.GetLastCompletedRun(); err == nil && run != nil {
			health["last_completed_run"] = run.CompletedAt
		}
	}
	if h.postRepo != nil {
		if count, err := h.postRepo.GetPostCount(); err == nil {
			health["posts_archived"] = count
		}
	}

	c.JSON(http.StatusOK, health)
}

// GetSignals serves the enriched signal artifact. Optional query
// params: company (canonical name filter), tag, limit.
func (h *Handler) GetSignals(c *gin.Context) {
	signals, err := h.store.ReadSignals()
	if err != nil {
		slog.Error("Failed to read signals artifact", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read signals"})
		return
	}

	company := c.Query("company")
	tag := c.Query("tag")
	if company != "" || tag != "" {
		filtered := make([]signal.Signal, 0, len(signals))
		for _, s := range signals {
			if company != "" && !containsString(s.CompaniesMentioned, company) {
				continue
			}
			if tag != "" && !s.HasTag(tag) {
				continue
			}
			filtered = append(filtered, s)
		}
		signals = filtered
	}

	if limitStr := c.Query("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit >= 0 && limit < len(signals) {
			signals = signals[:limit]
		}
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"signals": signals,
		"total":   len(signals),
	})
}

func (h *Handler) GetTrends(c *gin.Context) {
	doc, err := h.store.ReadTrends()
	if err != nil {
		slog.Error("Failed to read trends artifact", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read trends"})
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (h *Handler) GetClusters(c *gin.Context) {
	doc, err := h.store.ReadClusters()
	if err != nil {
		slog.Error("Failed to read clusters artifact", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read clusters"})
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (h *Handler) GetOpportunities(c *gin.Context) {
	doc, err := h.store.ReadOpportunities()
	if err != nil {
		slog.Error("Failed to read opportunities artifact", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read opportunities"})
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (h *Handler) GetDiscoveredSources(c *gin.Context) {
	sources, err := h.store.ReadDiscovered()
	if err != nil {
		slog.Error("Failed to read discovered sources", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read discovered sources"})
		return
	}
	c.JSON(http.StatusOK, map[string]interface{}{
		"sources": sources,
		"total":   len(sources),
	})
}

func (h *Handler) GetRuns(c *gin.Context) {
	limit := 20
	if limitStr := c.Query("limit"); limitStr != "" {
		if n, err := strconv.Atoi(limitStr); err == nil && n > 0 {
			limit = n
		}
	}

	runs, err := h.runRepo.GetRecentRuns(limit)
	if err != nil {
		slog.Error("Database error", "operation", "get_runs", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"runs":  runs,
		"total": len(runs),
	})
}

// APIRefresh enqueues a pipeline run. An optional since=YYYY-MM-DD
// query parameter requests an incremental run.
func (h *Handler) APIRefresh(c *gin.Context) {
	opts := pipeline.RunOptions{}
	if since := c.Query("since"); since != "" {
		if _, err := time.Parse("2006-01-02", since); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid since parameter, expected YYYY-MM-DD"})
			return
		}
		opts.SinceDate = since
	}

	task := tasks.NewRunPipelineTask(h.runner, opts)
	if err := h.scheduler.EnqueueTask(task); err != nil {
		slog.Error("Error enqueueing pipeline task", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to enqueue pipeline run",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Pipeline run enqueued",
		"task": gin.H{
			"id":   task.ID,
			"type": task.Type,
		},
	})
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
