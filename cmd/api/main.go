package main

import (
	"log"
	"strconv"

	"github.com/panjf2000/ants/v2"

	"github.com/nanohana/tsuzuri/internal/api"
	"github.com/nanohana/tsuzuri/internal/repository"
	"github.com/nanohana/tsuzuri/internal/service"
	"github.com/nanohana/tsuzuri/pkg/cleanup"
	"github.com/nanohana/tsuzuri/pkg/config"
	jwtservice "github.com/nanohana/tsuzuri/pkg/jwt_service"
	"github.com/nanohana/tsuzuri/pkg/textgen"
)

func init() {
	service.InitValidator()
}

func main() {
	defer cleanup.CleanUp()
	cfg := config.New()
	dbCfg := repository.PGCfg{
		Address:  cfg.GetString("POSTGRES_DB_ADDRESS"),
		Username: cfg.GetString("POSTGRES_USER"),
		Password: cfg.GetString("POSTGRES_PASSWORD"),
		DB:       cfg.GetString("POSTGRES_DB"),
	}

	usersRepo := repository.NewUsersRepo(&dbCfg)
	diariesRepo := repository.NewDiariesRepo(&dbCfg)
	likesRepo := repository.NewLikesRepo(&dbCfg)
	friendRequestsRepo := repository.NewFriendRequestsRepo(&dbCfg)
	notificationsRepo := repository.NewNotificationsRepo(&dbCfg)
	feedbackRepo := repository.NewFeedbackRepo(&dbCfg)

	pool, err := ants.NewPool(parseIntEnv(cfg.GetStringOr("FEEDBACK_WORKERS", "4")))
	if err != nil {
		log.Fatal("creating worker pool error: " + err.Error())
	}
	cleanup.Register(&cleanup.Job{Name: "feedback worker pool", F: func() error {
		pool.Release()
		return nil
	}})

	generator := textgen.New(
		cfg.GetString("TEXTGEN_API_URL"),
		cfg.GetString("TEXTGEN_API_KEY"),
		cfg.GetStringOr("TEXTGEN_MODEL", "gpt-4o-mini"),
	)

	defaultViewLimit := parseIntEnv(cfg.GetStringOr("DEFAULT_VIEW_LIMIT_SEC", "600"))

	serv := api.New(&api.ServicesList{
		UserService:         service.NewUserService(usersRepo),
		DiaryService:        service.NewDiaryService(diariesRepo, likesRepo, usersRepo, friendRequestsRepo, notificationsRepo, defaultViewLimit),
		FriendService:       service.NewFriendService(friendRequestsRepo, usersRepo, notificationsRepo),
		NotificationService: service.NewNotificationService(notificationsRepo),
		FeedbackService:     service.NewFeedbackService(feedbackRepo, diariesRepo, notificationsRepo, generator, pool),
		JwtService:          jwtservice.New(cfg.GetString("JWT_SECRET")),
	})
	err = serv.Run(cfg.GetString("API_ADDRESS"))
	if err != nil {
		log.Println("Server error: " + err.Error())
	}
}

func parseIntEnv(raw string) int {
	v, err := strconv.Atoi(raw)
	if err != nil {
		log.Fatal("invalid numeric env value: " + raw)
	}
	return v
}
