package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/feedden/feedden/app/aggregator"
	"github.com/feedden/feedden/app/database"
)

func NewHandler(service *aggregator.Service, accountRepo database.AccountRepository) *Handler {
	return &Handler{
		service:     service,
		accountRepo: accountRepo,
	}
}

func callerID(c *gin.Context) string {
	return c.GetString("userID")
}

// userError separates input errors (reported with a message, no side
// effects) from storage failures (logged, opaque 500).
func userError(err error) (int, bool) {
	switch {
	case errors.Is(err, aggregator.ErrFolderNotFound),
		errors.Is(err, aggregator.ErrSubscriptionNotFound):
		return http.StatusNotFound, true
	case errors.Is(err, aggregator.ErrFolderExists),
		errors.Is(err, aggregator.ErrSubscriptionExists),
		errors.Is(err, aggregator.ErrFeedDuplicate),
		errors.Is(err, aggregator.ErrInvalidFeedURL):
		return http.StatusBadRequest, true
	default:
		return http.StatusInternalServerError, false
	}
}

func respondError(c *gin.Context, operation string, err error) {
	status, isUserError := userError(err)
	if !isUserError {
		slog.Error("Storage error", "operation", operation, "error", err)
		c.JSON(status, gin.H{"error": "Internal error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func (h *Handler) RefreshFolder(c *gin.Context) {
	var body struct {
		Folder string `json:"folder" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Request params could not be parsed"})
		return
	}

	if err := h.service.Refresh(c.Request.Context(), callerID(c), body.Folder); err != nil {
		respondError(c, "refresh", err)
		return
	}

	c.Status(http.StatusCreated)
}

func (h *Handler) ListPosts(c *gin.Context) {
	folder := c.Query("folder")
	if folder == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Request params could not be parsed"})
		return
	}

	sort := aggregator.ParseSortMode(c.Query("sort"))
	read := c.Query("read") == "true"
	star := c.Query("star") == "true"
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	payload, err := h.service.ListPosts(c.Request.Context(), callerID(c), folder, sort, read, star, page)
	if err != nil {
		respondError(c, "list_posts", err)
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", payload)
}

func (h *Handler) AddSubscription(c *gin.Context) {
	var body struct {
		Folder string `json:"folder" binding:"required"`
		Name   string `json:"name" binding:"required"`
		URL    string `json:"url" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Request params could not be parsed"})
		return
	}

	subID, err := h.service.AddSubscription(c.Request.Context(), callerID(c), body.Folder, body.Name, body.URL)
	if err != nil {
		respondError(c, "add_subscription", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": subID})
}

func (h *Handler) RemoveSubscription(c *gin.Context) {
	folder := c.Query("folder")
	name := c.Query("name")
	if folder == "" || name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Request params could not be parsed"})
		return
	}

	if err := h.service.RemoveSubscription(c.Request.Context(), callerID(c), folder, name); err != nil {
		respondError(c, "remove_subscription", err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) AddFolder(c *gin.Context) {
	var body struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Request could not be parsed"})
		return
	}

	if err := h.service.AddFolder(c.Request.Context(), callerID(c), body.Name); err != nil {
		respondError(c, "add_folder", err)
		return
	}

	c.Status(http.StatusCreated)
}

func (h *Handler) RemoveFolder(c *gin.Context) {
	name := c.Query("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Request params could not be parsed"})
		return
	}

	if err := h.service.RemoveFolder(c.Request.Context(), callerID(c), name); err != nil {
		respondError(c, "remove_folder", err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) ListFolders(c *gin.Context) {
	folders, err := h.service.ListFolders(c.Request.Context(), callerID(c))
	if err != nil {
		respondError(c, "list_folders", err)
		return
	}
	if folders == nil {
		folders = []string{}
	}

	c.JSON(http.StatusOK, folders)
}

func (h *Handler) SetStatus(c *gin.Context) {
	var body struct {
		Post string `json:"post" binding:"required"`
		Read *bool  `json:"read"`
		Star *bool  `json:"star"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Request params could not be parsed"})
		return
	}

	if err := h.service.SetStatus(c.Request.Context(), callerID(c), body.Post, body.Read, body.Star); err != nil {
		respondError(c, "set_status", err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
