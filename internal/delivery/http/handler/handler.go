package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/user/page-analyzer/internal/delivery/http/middleware"
	"github.com/user/page-analyzer/internal/delivery/http/request"
	"github.com/user/page-analyzer/internal/delivery/http/response"
	"github.com/user/page-analyzer/internal/delivery/http/view"
	"github.com/user/page-analyzer/internal/entity"
	"github.com/user/page-analyzer/internal/repository"
	"github.com/user/page-analyzer/internal/usecase"
	"github.com/user/page-analyzer/pkg/urlutil"
	"go.uber.org/zap"
)

// Flash texts shown to the user.
const (
	msgURLAdded     = "Page successfully added"
	msgURLExists    = "Page already exists"
	msgCheckDone    = "Page successfully checked"
	msgCheckFailed  = "An error occurred while checking the page"
	msgURLNotFound  = "Page not found"
	msgInvalidURL   = "Invalid URL"
	msgEmptyURL     = "URL must not be empty"
	msgTooLongURL   = "URL must not exceed 255 characters"
	msgInternalFail = "Internal server error"
)

const flashWriteTimeout = 2 * time.Second

// HealthCheck pings one dependency.
type HealthCheck func(ctx context.Context) error

type Handler struct {
	urlManager usecase.URLManager
	checker    usecase.Checker
	flashes    repository.FlashStore
	views      *view.Renderer
	health     map[string]HealthCheck
	logger     *zap.Logger
}

func NewHandler(
	urlManager usecase.URLManager,
	checker usecase.Checker,
	flashes repository.FlashStore,
	views *view.Renderer,
	health map[string]HealthCheck,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		urlManager: urlManager,
		checker:    checker,
		flashes:    flashes,
		views:      views,
		health:     health,
		logger:     logger,
	}
}

// HandleIndex renders the add-URL form.
func (h *Handler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, view.PageIndex, view.IndexData{})
}

// HandleCreateURL registers a URL and redirects to its page (post/redirect/get).
func (h *Handler) HandleCreateURL(w http.ResponseWriter, r *http.Request) {
	form, err := request.ParseAddURLForm(r)
	if err != nil {
		h.render(w, r, http.StatusUnprocessableEntity, view.PageIndex, view.IndexData{Error: msgInvalidURL},
			entity.Flash{Level: entity.FlashDanger, Message: msgInvalidURL})
		return
	}

	result, err := h.urlManager.Add(r.Context(), form.Name)
	if err != nil {
		if urlutil.IsValidationError(err) {
			message := validationMessage(err)
			h.render(w, r, http.StatusUnprocessableEntity, view.PageIndex, view.IndexData{Value: form.Name, Error: message},
				entity.Flash{Level: entity.FlashDanger, Message: message})
			return
		}
		h.logger.Error("failed to add url", zap.String("url", form.Name), zap.Error(err))
		http.Error(w, msgInternalFail, http.StatusInternalServerError)
		return
	}

	if result.Created {
		h.flash(r, entity.FlashSuccess, msgURLAdded)
	} else {
		h.flash(r, entity.FlashInfo, msgURLExists)
	}
	http.Redirect(w, r, urlPath(result.ID), http.StatusFound)
}

// HandleListURLs renders every URL with its latest check.
func (h *Handler) HandleListURLs(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.urlManager.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list urls", zap.Error(err))
		http.Error(w, msgInternalFail, http.StatusInternalServerError)
		return
	}
	h.render(w, r, http.StatusOK, view.PageURLs, summaries)
}

// HandleShowURL renders one URL with its check history.
func (h *Handler) HandleShowURL(w http.ResponseWriter, r *http.Request) {
	id, ok := request.URLID(r)
	if !ok {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}

	detail, err := h.urlManager.Get(r.Context(), id)
	if errors.Is(err, usecase.ErrURLNotFound) {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("failed to load url", zap.Int64("url_id", id), zap.Error(err))
		http.Error(w, msgInternalFail, http.StatusInternalServerError)
		return
	}
	h.render(w, r, http.StatusOK, view.PageURL, detail)
}

// HandleRunCheck runs one check and redirects back with the outcome as a flash.
func (h *Handler) HandleRunCheck(w http.ResponseWriter, r *http.Request) {
	id, ok := request.URLID(r)
	if !ok {
		h.flash(r, entity.FlashDanger, msgURLNotFound)
		http.Redirect(w, r, "/urls", http.StatusFound)
		return
	}

	_, err := h.checker.Run(r.Context(), id)
	var fetchErr *usecase.FetchError
	switch {
	case err == nil:
		h.flash(r, entity.FlashSuccess, msgCheckDone)
		http.Redirect(w, r, urlPath(id), http.StatusFound)
	case errors.Is(err, usecase.ErrURLNotFound):
		h.flash(r, entity.FlashDanger, msgURLNotFound)
		http.Redirect(w, r, "/urls", http.StatusFound)
	case errors.As(err, &fetchErr):
		h.flash(r, entity.FlashDanger, msgCheckFailed)
		http.Redirect(w, r, urlPath(id), http.StatusFound)
	default:
		h.logger.Error("failed to run check", zap.Int64("url_id", id), zap.Error(err))
		http.Error(w, msgInternalFail, http.StatusInternalServerError)
	}
}

// HandleHealthCheck pings every registered dependency.
func (h *Handler) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := response.HealthResponse{Status: "ok", Components: make(map[string]string, len(h.health))}
	for name, ping := range h.health {
		if err := ping(ctx); err != nil {
			h.logger.Error("health check failed", zap.String("component", name), zap.Error(err))
			resp.Components[name] = "unhealthy"
			resp.Status = "unhealthy"
			continue
		}
		resp.Components[name] = "healthy"
	}

	status := http.StatusOK
	if resp.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	response.JSON(w, h.logger, status, resp)
}

// render pops the session's pending flashes, appends extra, and renders page.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, page string, data any, extra ...entity.Flash) {
	flashes, err := h.flashes.Pop(r.Context(), middleware.SessionID(r.Context()))
	if err != nil {
		h.logger.Warn("failed to read flash messages", zap.Error(err))
	}
	flashes = append(flashes, extra...)

	err = h.views.Render(w, status, page, view.Page{Flashes: flashes, Data: data})
	switch {
	case err == nil:
	case errors.Is(err, view.ErrResponseWrite):
		h.logger.Warn("failed to write page", zap.String("page", page), zap.Error(err))
	default:
		h.logger.Error("failed to render page", zap.String("page", page), zap.Error(err))
		http.Error(w, msgInternalFail, http.StatusInternalServerError)
	}
}

// flash queues a message for the next page. It outlives the request deadline
// so a check cut off by the timeout still reports its failure.
func (h *Handler) flash(r *http.Request, level, message string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), flashWriteTimeout)
	defer cancel()
	err := h.flashes.Add(ctx, middleware.SessionID(r.Context()), entity.Flash{Level: level, Message: message})
	if err != nil {
		h.logger.Warn("failed to store flash message", zap.String("message", message), zap.Error(err))
	}
}

func validationMessage(err error) string {
	switch {
	case errors.Is(err, urlutil.ErrEmptyURL):
		return msgEmptyURL
	case errors.Is(err, urlutil.ErrTooLong):
		return msgTooLongURL
	default:
		return msgInvalidURL
	}
}

func urlPath(id int64) string {
	return fmt.Sprintf("/urls/%d", id)
}
