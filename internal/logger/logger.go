package logger

import (
	"context"

	"go-chms/internal/config"
	"go-chms/internal/database"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// NewLogger builds the zap logger. With LOG_TO_DB set, entries are also
// stored in the Mongo logs collection.
func NewLogger(lc fx.Lifecycle, cfg *config.Config, mongodb *database.MongodbDB) (*zap.Logger, error) {
	var zapConfig zap.Config
	if cfg.Environment == "production" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}
	zapConfig.EncoderConfig.FunctionKey = "func"

	baseLogger, err := zapConfig.Build()
	if err != nil {
		return nil, err
	}
	if !cfg.LogToDB || mongodb == nil || mongodb.DB == nil {
		return baseLogger, nil
	}

	dbWriter := NewDBLogWriter(mongodb, cfg)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			dbWriter.Close()
			return nil
		},
	})

	return zap.New(NewDBCore(baseLogger.Core(), dbWriter), zap.AddCaller()), nil
}
