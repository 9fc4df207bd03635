package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	errorvalues "github.com/nanohana/tsuzuri/internal/error_values"
	"github.com/nanohana/tsuzuri/internal/service"
	"github.com/nanohana/tsuzuri/pkg/entity"
	"github.com/nanohana/tsuzuri/pkg/httputil"
)

type CreateDiaryRequest struct {
	Title                string `json:"title"`
	Content              string `json:"content"`
	TimeLimitSec         int    `json:"time_limit_sec"`
	CharLimit            int    `json:"char_limit"`
	ViewLimitDurationSec int    `json:"view_limit_duration_sec"`
}

type DiariesResponse struct {
	Page    int             `json:"page"`
	Limit   int             `json:"limit"`
	Diaries []*entity.Diary `json:"diaries"`
}

func (s *Server) CreateDiary(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("create diary error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	var req CreateDiaryRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("create diary error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	diary, err := s.diaryService.CreateDiary(ctx, uid, &service.CreateDiaryRequest{
		Title:                req.Title,
		Content:              req.Content,
		TimeLimitSec:         req.TimeLimitSec,
		CharLimit:            req.CharLimit,
		ViewLimitDurationSec: req.ViewLimitDurationSec,
	})
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrContentTooLong):
			logger.Error("create diary error: content over char limit")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "content exceeds the char limit", nil)
		case errors.Is(err, errorvalues.ErrUserNotFound):
			logger.Error("create diary error: unexist user")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "couldn't create diary: user doesn't exist", nil)
		default:
			logger.Error("create diary error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while creating diary", nil)
		}
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, diary)
	logger.Info("diary created")
}

func (s *Server) RandomRules(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	if _, err := GetUIDFromContext(r); err != nil {
		logger.Error("random rules error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, s.diaryService.RandomRules())
}

func (s *Server) MyDiaries(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("get my diaries error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	pagination := parsePagination(r, 20, 100)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*15)
	defer cancel()
	diaries, err := s.diaryService.ListOwn(ctx, uid, pagination)
	if err != nil {
		logger.Error("getting diaries list error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error while getting diaries list", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, DiariesResponse{
		Page:    pagination.Offset/pagination.Limit + 1,
		Limit:   pagination.Limit,
		Diaries: diaries,
	})
	logger.Info("diaries provided")
}

func (s *Server) FriendFeed(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("get feed error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	pagination := parsePagination(r, 20, 100)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*15)
	defer cancel()
	diaries, err := s.diaryService.ListFriendFeed(ctx, uid, pagination)
	if err != nil {
		logger.Error("getting feed error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error while getting friend feed", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, DiariesResponse{
		Page:    pagination.Offset/pagination.Limit + 1,
		Limit:   pagination.Limit,
		Diaries: diaries,
	})
	logger.Info("feed provided")
}

func (s *Server) PublicFeed(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	if _, err := GetUIDFromContext(r); err != nil {
		logger.Error("get public feed error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	pagination := parsePagination(r, 20, 100)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*15)
	defer cancel()
	diaries, err := s.diaryService.ListPublic(ctx, pagination)
	if err != nil {
		logger.Error("getting public feed error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error while getting public feed", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, DiariesResponse{
		Page:    pagination.Offset/pagination.Limit + 1,
		Limit:   pagination.Limit,
		Diaries: diaries,
	})
	logger.Info("public feed provided")
}

func (s *Server) GetDiary(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("get diary error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		logger.Error("get diary error: invalid id")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid diary id", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	diary, err := s.diaryService.GetDiary(ctx, id, uid)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrDiaryNotFound):
			logger.Error("get diary error: unexist diary")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "diary not found", nil)
		case errors.Is(err, errorvalues.ErrDiaryNotViewable):
			logger.Error("get diary error: window closed")
			httputil.WriteErrorResponse(w, http.StatusForbidden, "this diary is no longer visible", nil)
		default:
			logger.Error("get diary error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while getting diary", nil)
		}
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, diary)
	logger.Info("diary provided")
}

func (s *Server) RecordDiaryView(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("record view error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		logger.Error("record view error: invalid id")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid diary id", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	err = s.diaryService.RecordView(ctx, id, uid)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrDiaryNotFound):
			logger.Error("record view error: unexist diary")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "diary not found", nil)
		case errors.Is(err, errorvalues.ErrDiaryNotViewable):
			logger.Error("record view error: window closed")
			httputil.WriteErrorResponse(w, http.StatusForbidden, "this diary is no longer visible", nil)
		default:
			logger.Error("record view error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while recording view", nil)
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
	logger.Info("view recorded")
}

func (s *Server) DeleteDiary(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("diary deletion error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		logger.Error("diary deletion error: invalid id")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid diary id", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	err = s.diaryService.DeleteDiary(ctx, id, uid)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrDiaryNotFound):
			logger.Error("diary deletion error: unexist diary")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "diary not found", nil)
		case errors.Is(err, errorvalues.ErrWrongOwner):
			logger.Error("diary deletion error: not an owner")
			httputil.WriteErrorResponse(w, http.StatusForbidden, "only the owner may delete a diary", nil)
		default:
			logger.Error("diary deletion error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while deleting diary", nil)
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
	logger.Info("diary deleted")
}

func (s *Server) LikeDiary(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("like error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		logger.Error("like error: invalid id")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid diary id", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	err = s.diaryService.Like(ctx, id, uid)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrDiaryNotFound):
			logger.Error("like error: unexist diary")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "diary not found", nil)
		case errors.Is(err, errorvalues.ErrAlreadyLiked):
			logger.Error("like error: duplicate like")
			httputil.WriteErrorResponse(w, http.StatusConflict, "diary is already liked", nil)
		default:
			logger.Error("like error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while liking diary", nil)
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
	logger.Info("diary liked")
}

func (s *Server) UnlikeDiary(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("unlike error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		logger.Error("unlike error: invalid id")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid diary id", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	err = s.diaryService.Unlike(ctx, id, uid)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrNotLiked):
			logger.Error("unlike error: like not found")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "like not found", nil)
		default:
			logger.Error("unlike error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while unliking diary", nil)
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
	logger.Info("diary unliked")
}
