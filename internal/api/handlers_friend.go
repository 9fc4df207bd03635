package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	errorvalues "github.com/nanohana/tsuzuri/internal/error_values"
	"github.com/nanohana/tsuzuri/pkg/entity"
	"github.com/nanohana/tsuzuri/pkg/httputil"
)

func (s *Server) SendFriendRequest(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("send friend request error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	toID, err := uuid.Parse(r.PathValue("user_id"))
	if err != nil {
		logger.Error("send friend request error: invalid user id")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid user id", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	request, err := s.friendService.SendRequest(ctx, uid, toID)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrSelfRequest):
			logger.Error("send friend request error: self request")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "cannot send a friend request to yourself", nil)
		case errors.Is(err, errorvalues.ErrUserNotFound):
			logger.Error("send friend request error: unexist user")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "user not found", nil)
		default:
			logger.Error("send friend request error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while sending friend request", nil)
		}
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, request)
	logger.Info("friend request handled")
}

func (s *Server) AcceptFriendRequest(w http.ResponseWriter, r *http.Request) {
	s.resolveFriendRequest(w, r, true)
}

func (s *Server) RejectFriendRequest(w http.ResponseWriter, r *http.Request) {
	s.resolveFriendRequest(w, r, false)
}

func (s *Server) resolveFriendRequest(w http.ResponseWriter, r *http.Request, accept bool) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("resolve friend request error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	requestID, err := uuid.Parse(r.PathValue("request_id"))
	if err != nil {
		logger.Error("resolve friend request error: invalid request id")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request id", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	var request *entity.FriendRequest
	if accept {
		request, err = s.friendService.Accept(ctx, requestID, uid)
	} else {
		request, err = s.friendService.Reject(ctx, requestID, uid)
	}
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrRequestNotFound), errors.Is(err, errorvalues.ErrNotRequestRecipient):
			// Requests addressed to someone else stay invisible.
			logger.Error("resolve friend request error: request not available")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "friend request not found", nil)
		case errors.Is(err, errorvalues.ErrRequestResolved):
			logger.Error("resolve friend request error: already resolved")
			httputil.WriteErrorResponse(w, http.StatusConflict, "this request is already resolved", nil)
		default:
			logger.Error("resolve friend request error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while resolving friend request", nil)
		}
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, request)
	logger.Info("friend request resolved")
}

func parseStatusFilter(r *http.Request) (*entity.RequestStatus, bool) {
	raw := r.URL.Query().Get("status")
	if raw == "" {
		return nil, true
	}
	status := entity.RequestStatus(raw)
	switch status {
	case entity.StatusPending, entity.StatusAccepted, entity.StatusRejected:
		return &status, true
	}
	return nil, false
}

func (s *Server) ReceivedFriendRequests(w http.ResponseWriter, r *http.Request) {
	s.listFriendRequests(w, r, true)
}

func (s *Server) SentFriendRequests(w http.ResponseWriter, r *http.Request) {
	s.listFriendRequests(w, r, false)
}

func (s *Server) listFriendRequests(w http.ResponseWriter, r *http.Request, received bool) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("list friend requests error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	status, ok := parseStatusFilter(r)
	if !ok {
		logger.Error("list friend requests error: invalid status filter")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid status filter", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	var requests []entity.FriendRequestDetail
	if received {
		requests, err = s.friendService.ListReceived(ctx, uid, status)
	} else {
		requests, err = s.friendService.ListSent(ctx, uid, status)
	}
	if err != nil {
		logger.Error("list friend requests error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while listing friend requests", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, requests)
	logger.Info("friend requests provided")
}

func (s *Server) Friends(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("list friends error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	friends, err := s.friendService.ListFriends(ctx, uid)
	if err != nil {
		logger.Error("list friends error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while listing friends", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, friends)
	logger.Info("friends provided")
}

func (s *Server) FriendDiaries(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("friend diaries error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	friendID, err := uuid.Parse(r.PathValue("user_id"))
	if err != nil {
		logger.Error("friend diaries error: invalid user id")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid user id", nil)
		return
	}
	pagination := parsePagination(r, 20, 100)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*15)
	defer cancel()
	diaries, err := s.diaryService.ListFriendDiaries(ctx, uid, friendID, pagination)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrNotFriends):
			logger.Error("friend diaries error: not friends")
			httputil.WriteErrorResponse(w, http.StatusForbidden, "you may only view diaries of your friends", nil)
		default:
			logger.Error("friend diaries error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while getting friend diaries", nil)
		}
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, DiariesResponse{
		Page:    pagination.Offset/pagination.Limit + 1,
		Limit:   pagination.Limit,
		Diaries: diaries,
	})
	logger.Info("friend diaries provided")
}
