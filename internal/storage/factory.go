package storage

import (
	"context"

	config "github.com/jacqinthebox/todolist/internal/configs"
	apperrors "github.com/jacqinthebox/todolist/internal/errors"
)

// New constructs the backend named by cfg.Backend. An unrecognized kind is
// a configuration error; callers treat it as fatal at startup, never
// per-request.
func New(ctx context.Context, cfg config.Config) (Store, error) {
	switch cfg.Backend {
	case config.BackendSQLite:
		return NewSQLiteStore(cfg.SQLitePath)
	case config.BackendAzure:
		return NewAzureTableStore(ctx, AzureOptions{
			TableName:           cfg.AzureTableName,
			ConnectionString:    cfg.AzureConnectionString,
			AccountName:         cfg.AzureAccountName,
			AccountURL:          cfg.AzureAccountURL,
			UseWorkloadIdentity: cfg.UseWorkloadIdentity,
		})
	case config.BackendRedis:
		return NewRedisStore(cfg.RedisAddr)
	default:
		return nil, apperrors.Wrap(apperrors.ErrInvalidBackend, cfg.Backend)
	}
}
