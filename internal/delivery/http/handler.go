package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	analyticsusecase "linklytics/internal/analytics/usecase"
	"linklytics/internal/shortener/domain"
	shortenerusecase "linklytics/internal/shortener/usecase"
	"linklytics/pkg/problemdetails"
)

// Handler exposes the shortener and analytics services over HTTP.
type Handler struct {
	links     *shortenerusecase.LinkService
	analytics *analyticsusecase.AnalyticsService
	baseURL   string
	logger    *zap.Logger
}

// NewHandler creates a new Handler.
func NewHandler(links *shortenerusecase.LinkService, analytics *analyticsusecase.AnalyticsService, baseURL string, logger *zap.Logger) *Handler {
	return &Handler{
		links:     links,
		analytics: analytics,
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		logger:    logger,
	}
}

type createShortLinkRequest struct {
	LongURL     string `json:"longUrl"`
	CustomAlias string `json:"customAlias"`
	Topic       string `json:"topic"`
}

type createShortLinkResponse struct {
	Alias     string    `json:"alias"`
	ShortURL  string    `json:"shortUrl"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateShortLink handles POST /api/url/shorten.
func (h *Handler) CreateShortLink(w http.ResponseWriter, r *http.Request) {
	owner := r.Header.Get("X-User-ID")
	if owner == "" {
		writeProblem(w, problemdetails.New(
			http.StatusUnauthorized,
			problemdetails.TypeUnauthorized,
			"Unauthorized",
			"X-User-ID header is required",
		))
		return
	}

	var req createShortLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, problemdetails.New(
			http.StatusBadRequest,
			problemdetails.TypeInvalidRequest,
			"Invalid Request",
			"Request body must be valid JSON",
		))
		return
	}

	link, err := h.links.Create(r.Context(), shortenerusecase.CreateLinkParams{
		LongURL:     req.LongURL,
		CustomAlias: req.CustomAlias,
		Topic:       req.Topic,
		OwnerID:     owner,
	})
	if err != nil {
		h.writeCreateError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, createShortLinkResponse{
		Alias:     link.Alias,
		ShortURL:  h.baseURL + "/api/url/" + link.Alias,
		CreatedAt: link.CreatedAt,
	})
}

func (h *Handler) writeCreateError(w http.ResponseWriter, err error) {
	var dup *domain.DuplicateURLError

	switch {
	case errors.Is(err, domain.ErrInvalidURL):
		writeProblem(w, problemdetails.New(
			http.StatusBadRequest,
			problemdetails.TypeInvalidURL,
			"Invalid URL",
			err.Error(),
		))
	case errors.Is(err, domain.ErrInvalidAlias):
		writeProblem(w, problemdetails.NewValidation([]problemdetails.FieldError{
			{Field: "customAlias", Message: err.Error()},
		}))
	case errors.As(err, &dup):
		writeProblem(w, problemdetails.New(
			http.StatusConflict,
			problemdetails.TypeConflict,
			"Duplicate URL",
			err.Error(),
		))
	case errors.Is(err, domain.ErrAliasTaken):
		writeProblem(w, problemdetails.New(
			http.StatusConflict,
			problemdetails.TypeConflict,
			"Alias Taken",
			"The requested alias is already in use",
		))
	case errors.Is(err, domain.ErrAliasConflict):
		writeProblem(w, problemdetails.New(
			http.StatusConflict,
			problemdetails.TypeConflict,
			"Alias Conflict",
			"Could not allocate a unique alias, please retry",
		))
	default:
		h.logger.Error("failed to create short link", zap.Error(err))
		writeProblem(w, problemdetails.New(
			http.StatusInternalServerError,
			problemdetails.TypeInternalError,
			"Internal Server Error",
			"An unexpected error occurred",
		))
	}
}

// Redirect handles GET /api/url/{alias}.
func (h *Handler) Redirect(w http.ResponseWriter, r *http.Request) {
	alias := chi.URLParam(r, "alias")

	longURL, err := h.links.Resolve(r.Context(), alias, r.UserAgent(), clientIP(r))
	if err != nil {
		if errors.Is(err, domain.ErrLinkNotFound) {
			writeProblem(w, problemdetails.New(
				http.StatusNotFound,
				problemdetails.TypeNotFound,
				"Not Found",
				"Short link not found",
			))
			return
		}
		h.logger.Error("failed to resolve alias", zap.String("alias", alias), zap.Error(err))
		writeProblem(w, problemdetails.New(
			http.StatusInternalServerError,
			problemdetails.TypeInternalError,
			"Internal Server Error",
			"An unexpected error occurred",
		))
		return
	}

	http.Redirect(w, r, longURL, http.StatusFound)
}

// GetLinkAnalytics handles GET /api/analytics/{alias}.
func (h *Handler) GetLinkAnalytics(w http.ResponseWriter, r *http.Request) {
	alias := chi.URLParam(r, "alias")

	view, err := h.analytics.LinkAnalytics(r.Context(), alias)
	if err != nil {
		if errors.Is(err, domain.ErrLinkNotFound) {
			writeProblem(w, problemdetails.New(
				http.StatusNotFound,
				problemdetails.TypeNotFound,
				"Not Found",
				"Short link not found",
			))
			return
		}
		h.logger.Error("failed to compute link analytics", zap.String("alias", alias), zap.Error(err))
		writeProblem(w, problemdetails.New(
			http.StatusInternalServerError,
			problemdetails.TypeInternalError,
			"Internal Server Error",
			"An unexpected error occurred",
		))
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// GetTopicAnalytics handles GET /api/analytics/topic/{topic}.
func (h *Handler) GetTopicAnalytics(w http.ResponseWriter, r *http.Request) {
	topic := chi.URLParam(r, "topic")

	view, err := h.analytics.TopicAnalytics(r.Context(), topic)
	if err != nil {
		h.logger.Error("failed to compute topic analytics", zap.String("topic", topic), zap.Error(err))
		writeProblem(w, problemdetails.New(
			http.StatusInternalServerError,
			problemdetails.TypeInternalError,
			"Internal Server Error",
			"An unexpected error occurred",
		))
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// GetOverallAnalytics handles GET /api/analytics/overall.
func (h *Handler) GetOverallAnalytics(w http.ResponseWriter, r *http.Request) {
	owner := r.Header.Get("X-User-ID")
	if owner == "" {
		writeProblem(w, problemdetails.New(
			http.StatusUnauthorized,
			problemdetails.TypeUnauthorized,
			"Unauthorized",
			"X-User-ID header is required",
		))
		return
	}

	view, err := h.analytics.OverallAnalytics(r.Context(), owner)
	if err != nil {
		h.logger.Error("failed to compute overall analytics", zap.String("owner", owner), zap.Error(err))
		writeProblem(w, problemdetails.New(
			http.StatusInternalServerError,
			problemdetails.TypeInternalError,
			"Internal Server Error",
			"An unexpected error occurred",
		))
		return
	}

	writeJSON(w, http.StatusOK, view)
}
