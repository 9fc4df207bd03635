package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	errorvalues "github.com/nanohana/tsuzuri/internal/error_values"
	"github.com/nanohana/tsuzuri/pkg/httputil"
)

func (s *Server) Notifications(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("list notifications error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	unreadOnly := r.URL.Query().Get("unread_only") == "true"
	pagination := parsePagination(r, 20, 100)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	notifications, err := s.notificationService.List(ctx, uid, unreadOnly, pagination)
	if err != nil {
		logger.Error("list notifications error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while listing notifications", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, notifications)
	logger.Info("notifications provided")
}

func (s *Server) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("mark notification error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		logger.Error("mark notification error: invalid id")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid notification id", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	err = s.notificationService.MarkRead(ctx, id, uid)
	if err != nil {
		if errors.Is(err, errorvalues.ErrNotificationNotFound) {
			logger.Error("mark notification error: unexist notification")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "notification not found", nil)
			return
		}
		logger.Error("mark notification error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while marking notification", nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
	logger.Info("notification marked read")
}

func (s *Server) MarkAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("mark all notifications error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	if err = s.notificationService.MarkAllRead(ctx, uid); err != nil {
		logger.Error("mark all notifications error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while marking notifications", nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
	logger.Info("all notifications marked read")
}

func (s *Server) UnreadNotificationCount(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("unread count error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	count, err := s.notificationService.UnreadCount(ctx, uid)
	if err != nil {
		logger.Error("unread count error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while counting notifications", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{"unread_count": count})
}
