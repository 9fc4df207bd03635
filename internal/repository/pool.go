package repository

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nanohana/tsuzuri/pkg/cleanup"
)

// newPool dials postgres and registers the pool for graceful shutdown. Fatal on
// failure: the app has nothing to do without its store.
func newPool(cfg DBConfig, repoName string) *pgxpool.Pool {
	pool, err := pgxpool.New(context.Background(), cfg.ConnString())
	if err != nil {
		log.Fatal("creating connection for " + repoName + " error: " + err.Error())
	}
	err = pool.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for " + repoName + ": " + err.Error())
	}
	cleanup.Register(&cleanup.Job{
		Name: "closing pgxpool of " + repoName,
		F: func() error {
			pool.Close()
			return nil
		},
	})
	return pool
}
