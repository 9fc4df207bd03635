package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	errorvalues "github.com/nanohana/tsuzuri/internal/error_values"
	"github.com/nanohana/tsuzuri/pkg/httputil"
)

func (s *Server) RequestDiaryFeedback(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("request diary feedback error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	diaryID, err := uuid.Parse(r.PathValue("diary_id"))
	if err != nil {
		logger.Error("request diary feedback error: invalid id")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid diary id", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	err = s.feedbackService.RequestDiaryFeedback(ctx, diaryID, uid)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrDiaryNotFound):
			logger.Error("request diary feedback error: unexist diary")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "diary not found", nil)
		case errors.Is(err, errorvalues.ErrWrongOwner):
			logger.Error("request diary feedback error: not an owner")
			httputil.WriteErrorResponse(w, http.StatusForbidden, "only the owner may request feedback", nil)
		case errors.Is(err, errorvalues.ErrFeedbackExists):
			logger.Error("request diary feedback error: duplicate feedback")
			httputil.WriteErrorResponse(w, http.StatusConflict, "feedback for this diary already exists", nil)
		default:
			logger.Error("request diary feedback error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while requesting feedback", nil)
		}
		return
	}
	// Generation runs in the background; the client polls the GET endpoint.
	w.WriteHeader(http.StatusAccepted)
	logger.Info("diary feedback scheduled")
}

func (s *Server) GetDiaryFeedback(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("get diary feedback error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	diaryID, err := uuid.Parse(r.PathValue("diary_id"))
	if err != nil {
		logger.Error("get diary feedback error: invalid id")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid diary id", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	feedback, err := s.feedbackService.GetDiaryFeedback(ctx, diaryID, uid)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrDiaryNotFound), errors.Is(err, errorvalues.ErrFeedbackNotFound):
			logger.Error("get diary feedback error: not found")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "feedback not found", nil)
		case errors.Is(err, errorvalues.ErrWrongOwner):
			logger.Error("get diary feedback error: not an owner")
			httputil.WriteErrorResponse(w, http.StatusForbidden, "only the owner may read feedback", nil)
		default:
			logger.Error("get diary feedback error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while getting feedback", nil)
		}
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, feedback)
	logger.Info("diary feedback provided")
}

func (s *Server) RequestPeriodFeedback(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("request period feedback error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	period := r.PathValue("period")
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*15)
	defer cancel()
	err = s.feedbackService.RequestPeriodFeedback(ctx, uid, period)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrInvalidPeriod):
			logger.Error("request period feedback error: invalid period")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "period must be weekly or monthly", nil)
		case errors.Is(err, errorvalues.ErrFeedbackExists):
			logger.Error("request period feedback error: duplicate feedback")
			httputil.WriteErrorResponse(w, http.StatusConflict, "feedback for this period already exists", nil)
		case errors.Is(err, errorvalues.ErrNoDiariesInRange):
			logger.Error("request period feedback error: no diaries")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "no diaries in this period", nil)
		default:
			logger.Error("request period feedback error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while requesting feedback", nil)
		}
		return
	}
	w.WriteHeader(http.StatusAccepted)
	logger.Info("period feedback scheduled")
}

func (s *Server) GetPeriodFeedback(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("get period feedback error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	period := r.PathValue("period")
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	feedback, err := s.feedbackService.GetLatestPeriodFeedback(ctx, uid, period)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrInvalidPeriod):
			logger.Error("get period feedback error: invalid period")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "period must be weekly or monthly", nil)
		case errors.Is(err, errorvalues.ErrFeedbackNotFound):
			logger.Error("get period feedback error: not found")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "feedback not found", nil)
		default:
			logger.Error("get period feedback error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while getting feedback", nil)
		}
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, feedback)
	logger.Info("period feedback provided")
}
