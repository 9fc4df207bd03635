package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/nanohana/tsuzuri/internal/service"
)

type Server struct {
	mx                  *chi.Mux
	userService         service.UserServiceI
	diaryService        service.DiaryServiceI
	friendService       service.FriendServiceI
	notificationService service.NotificationServiceI
	feedbackService     service.FeedbackServiceI
	jwtService          JWTServiceI
}

type ServicesList struct {
	UserService         service.UserServiceI
	DiaryService        service.DiaryServiceI
	FriendService       service.FriendServiceI
	NotificationService service.NotificationServiceI
	FeedbackService     service.FeedbackServiceI
	JwtService          JWTServiceI
}

func New(servicesOptions *ServicesList) *Server {
	return &Server{
		mx:                  chi.NewMux(),
		userService:         servicesOptions.UserService,
		diaryService:        servicesOptions.DiaryService,
		friendService:       servicesOptions.FriendService,
		notificationService: servicesOptions.NotificationService,
		feedbackService:     servicesOptions.FeedbackService,
		jwtService:          servicesOptions.JwtService,
	}
}

func (s *Server) Run(address string) error {
	s.registerRoutes()
	return http.ListenAndServe(address, s.mx)
}

func (s *Server) Handler() http.Handler {
	s.registerRoutes()
	return s.mx
}

func (s *Server) registerRoutes() {
	s.mx.Use(s.RequestIDMiddleware, s.SettingUpLoggerMiddleware)
	s.mx.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", s.Register)
		r.Post("/auth/login", s.Login)

		r.Group(func(r chi.Router) {
			r.Use(s.AuthMiddleware)

			r.Get("/users/me", s.Me)
			r.Put("/users/me", s.UpdateMe)
			r.Delete("/users/me", s.DeleteMe)
			r.Get("/users/search", s.SearchUsers)
			r.Get("/users/{id}", s.GetUser)

			r.Post("/diary", s.CreateDiary)
			r.Get("/diary/random_rules", s.RandomRules)
			r.Get("/diary/my", s.MyDiaries)
			r.Get("/diary/feed", s.FriendFeed)
			r.Get("/diary/public", s.PublicFeed)
			r.Get("/diary/{id}", s.GetDiary)
			r.Delete("/diary/{id}", s.DeleteDiary)
			r.Post("/diary/{id}/view", s.RecordDiaryView)
			r.Post("/diary/{id}/like", s.LikeDiary)
			r.Delete("/diary/{id}/like", s.UnlikeDiary)

			r.Post("/friend/request/{user_id}", s.SendFriendRequest)
			r.Post("/friend/accept/{request_id}", s.AcceptFriendRequest)
			r.Post("/friend/reject/{request_id}", s.RejectFriendRequest)
			r.Get("/friend/requests", s.ReceivedFriendRequests)
			r.Get("/friend/requests/sent", s.SentFriendRequests)
			r.Get("/friend/list", s.Friends)
			r.Get("/friend/{user_id}/diaries", s.FriendDiaries)

			r.Get("/notifications", s.Notifications)
			r.Post("/notifications/{id}/read", s.MarkNotificationRead)
			r.Post("/notifications/read-all", s.MarkAllNotificationsRead)
			r.Get("/notifications/unread_count", s.UnreadNotificationCount)

			r.Post("/feedback/diary/{diary_id}", s.RequestDiaryFeedback)
			r.Get("/feedback/diary/{diary_id}", s.GetDiaryFeedback)
			r.Post("/feedback/{period}", s.RequestPeriodFeedback)
			r.Get("/feedback/{period}", s.GetPeriodFeedback)
		})
	})
}
