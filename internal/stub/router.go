package stub

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/saeedalam/trendvision-mcp/pkg/types"
)

const maxNoteLength = 10000

// Handler serves the workbench endpoints from a Store
type Handler struct {
	store  *Store
	token  string
	author string
	logger *zap.Logger
}

// Options configure the stub API
type Options struct {
	// Token, when set, must be presented as a bearer token on every request
	Token string
	// Author is recorded as createdBy on notes added through the API
	Author string
	Logger *zap.Logger
}

// NewRouter builds the gin engine for the stub API
func NewRouter(store *Store, opts Options) *gin.Engine {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Author == "" {
		opts.Author = "trendvision-mcp"
	}

	h := &Handler{store: store, token: opts.Token, author: opts.Author, logger: opts.Logger}

	r := gin.New()
	// Alert ids are path-escaped by clients
	r.UseRawPath = true
	r.UnescapePathValues = true
	r.Use(gin.Recovery(), h.accessLog, h.authenticate)

	wb := r.Group("/v3.0/workbench/alerts")
	wb.GET("", h.ListAlerts)
	wb.GET("/:id", h.GetAlert)
	wb.GET("/:id/notes", h.ListNotes)
	wb.POST("/:id/notes", h.AddNote)

	return r
}

func (h *Handler) accessLog(c *gin.Context) {
	start := time.Now()
	c.Next()
	h.logger.Debug("stub api request",
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Int("status", c.Writer.Status()),
		zap.Duration("latency", time.Since(start)))
}

func (h *Handler) authenticate(c *gin.Context) {
	if h.token == "" {
		c.Next()
		return
	}
	if c.GetHeader("Authorization") != "Bearer "+h.token {
		abortWithError(c, http.StatusUnauthorized, "Unauthorized", "missing or invalid bearer token")
		return
	}
	c.Next()
}

func abortWithError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

// ListAlerts handles GET /v3.0/workbench/alerts
func (h *Handler) ListAlerts(c *gin.Context) {
	filter := ListFilter{
		Severity:  c.Query("severity"),
		Status:    c.Query("status"),
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
	}

	if top := c.Query("top"); top != "" {
		n, err := strconv.Atoi(top)
		if err != nil || n <= 0 {
			abortWithError(c, http.StatusBadRequest, "BadRequest", "top must be a positive integer")
			return
		}
		filter.Limit = n
	}
	if skip := c.Query("skipToken"); skip != "" {
		n, err := strconv.Atoi(skip)
		if err != nil || n < 0 {
			abortWithError(c, http.StatusBadRequest, "BadRequest", "invalid skipToken")
			return
		}
		filter.Offset = n
	}

	alerts, more, err := h.store.ListAlerts(filter)
	if err != nil {
		h.logger.Error("stub list alerts failed", zap.Error(err))
		abortWithError(c, http.StatusInternalServerError, "InternalServerError", err.Error())
		return
	}

	page := types.AlertsPage{Items: alerts}
	if page.Items == nil {
		page.Items = []types.AlertDetail{}
	}
	if more {
		page.NextLink = nextLink(c, filter.Offset+len(alerts))
	}

	c.JSON(http.StatusOK, page)
}

func nextLink(c *gin.Context, offset int) string {
	q := c.Request.URL.Query()
	q.Set("skipToken", strconv.Itoa(offset))

	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	u := url.URL{Scheme: scheme, Host: c.Request.Host, Path: c.Request.URL.Path, RawQuery: q.Encode()}
	return u.String()
}

// GetAlert handles GET /v3.0/workbench/alerts/:id
func (h *Handler) GetAlert(c *gin.Context) {
	alert, err := h.store.GetAlert(c.Param("id"))
	if err != nil {
		h.storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, alert)
}

// ListNotes handles GET /v3.0/workbench/alerts/:id/notes
func (h *Handler) ListNotes(c *gin.Context) {
	notes, err := h.store.ListNotes(c.Param("id"))
	if err != nil {
		h.storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.NotesPage{Items: notes})
}

// AddNote handles POST /v3.0/workbench/alerts/:id/notes
func (h *Handler) AddNote(c *gin.Context) {
	var body types.NewNote
	if err := c.ShouldBindJSON(&body); err != nil {
		abortWithError(c, http.StatusBadRequest, "BadRequest", "invalid payload")
		return
	}
	if n := utf8.RuneCountInString(body.Content); n == 0 || n > maxNoteLength {
		abortWithError(c, http.StatusBadRequest, "BadRequest", "content must be 1-10000 characters")
		return
	}

	note, err := h.store.AddNote(c.Param("id"), body.Content, h.author)
	if err != nil {
		h.storeError(c, err)
		return
	}

	c.Header("Location", strings.TrimSuffix(c.Request.URL.Path, "/")+"/"+note.ID)
	c.JSON(http.StatusCreated, note)
}

func (h *Handler) storeError(c *gin.Context, err error) {
	if errors.Is(err, ErrNotFound) {
		abortWithError(c, http.StatusNotFound, "NotFound", "alert "+c.Param("id")+" not found")
		return
	}
	h.logger.Error("stub store failed", zap.Error(err))
	abortWithError(c, http.StatusInternalServerError, "InternalServerError", err.Error())
}
