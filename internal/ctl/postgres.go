package ctl

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/yatube/internal/server/config"
	"github.com/dmitrijs2005/yatube/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/yatube/internal/server/services"
)

// OpenPostgres is the Opener used by yatubectl.
func OpenPostgres(ctx context.Context, dsn string) (Admin, func() error, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, nil, err
	}

	cfg := &config.Config{}
	cfg.LoadDefaults()

	m := repomanager.NewPostgresRepositoryManager()
	us := services.NewUserService(db, m, cfg)
	return services.NewAdminService(db, m, us), db.Close, nil
}
