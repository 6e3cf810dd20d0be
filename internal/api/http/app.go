package http

import (
	"time"

	"go.uber.org/zap"
)

// AppDependencies holds ambient collaborators for NewApp.
type AppDependencies struct {
	Logger         *zap.Logger
	RequestTimeout time.Duration
}
