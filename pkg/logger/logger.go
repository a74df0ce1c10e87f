package logger

import (
	"os"

	"go.uber.org/zap"
)

// New builds the process-wide zap logger. Production config unless
// APP_ENV=development.
func New() (*zap.Logger, error) {
	if os.Getenv("APP_ENV") == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
