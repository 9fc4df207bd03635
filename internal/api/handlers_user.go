package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	errorvalues "github.com/nanohana/tsuzuri/internal/error_values"
	"github.com/nanohana/tsuzuri/internal/service"
	"github.com/nanohana/tsuzuri/pkg/httputil"
)

type UpdateMeRequest struct {
	Username        *string `json:"username"`
	Email           *string `json:"email"`
	Password        *string `json:"password"`
	ProfileImageURL *string `json:"profile_image_url"`
}

type DeleteMeRequest struct {
	Password string `json:"password"`
}

// parsePagination reads limit/page query params with the same clamping rules
// for every listing endpoint.
func parsePagination(r *http.Request, defaultLimit, maxLimit int) service.PaginationOpts {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit < 1 || limit > maxLimit {
		limit = defaultLimit
	}
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}
	return service.PaginationOpts{
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}

func (s *Server) Me(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("get me error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	user, err := s.userService.GetByID(ctx, uid)
	if err != nil {
		logger.Error("get me error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while getting profile", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, user)
	logger.Info("profile provided")
}

func (s *Server) GetUser(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	if _, err := GetUIDFromContext(r); err != nil {
		logger.Error("get user error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		logger.Error("get user error: invalid id")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid user id", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	user, err := s.userService.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			logger.Error("get user error: unexist user")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "user not found", nil)
			return
		}
		logger.Error("get user error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while getting user", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, user)
	logger.Info("user provided")
}

func (s *Server) SearchUsers(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("search users error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	query := r.URL.Query().Get("query")
	if query == "" {
		logger.Error("search users error: empty query")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "query param is required", nil)
		return
	}
	pagination := parsePagination(r, 20, 100)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	users, err := s.userService.Search(ctx, query, uid, pagination)
	if err != nil {
		logger.Error("search users error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while searching users", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, users)
	logger.Info("users search provided")
}

func (s *Server) UpdateMe(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("update profile error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	var req UpdateMeRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("update profile error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	user, err := s.userService.UpdateProfile(ctx, uid, &service.UpdateProfileRequest{
		Username:        req.Username,
		Email:           req.Email,
		Password:        req.Password,
		ProfileImageURL: req.ProfileImageURL,
	})
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrUserExists):
			logger.Error("update profile error: username taken")
			httputil.WriteErrorResponse(w, http.StatusConflict, "user with such name already exists", nil)
		case errors.Is(err, errorvalues.ErrEmailExists):
			logger.Error("update profile error: email taken")
			httputil.WriteErrorResponse(w, http.StatusConflict, "this email is already registered", nil)
		case errors.Is(err, errorvalues.ErrUserNotFound):
			logger.Error("update profile error: unexist user")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "user not found", nil)
		default:
			logger.Error("update profile error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while updating profile", nil)
		}
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, user)
	logger.Info("profile updated")
}

func (s *Server) DeleteMe(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("delete account error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	var req DeleteMeRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("delete account error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	err = s.userService.DeleteAccount(ctx, uid, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrWrongCredentials):
			logger.Error("delete account error: wrong password")
			httputil.WriteErrorResponse(w, http.StatusForbidden, "wrong password", nil)
		case errors.Is(err, errorvalues.ErrUserNotFound):
			logger.Error("delete account error: unexist user")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "user not found", nil)
		default:
			logger.Error("delete account error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while deleting account", nil)
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
	logger.Info("account deleted")
}
