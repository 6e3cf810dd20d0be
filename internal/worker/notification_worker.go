package worker

import (
	"go.uber.org/zap"
)

// HandlerRegistrar subscribes event handlers, e.g. *service.NotificationService.
type HandlerRegistrar interface {
	RegisterHandlers()
}

// StartNotificationWorker registers the assignment side-effect handlers on
// the in-process dispatcher. Handlers run synchronously in the publishing
// request; nothing is started in the background.
func StartNotificationWorker(logger *zap.Logger, registrars ...HandlerRegistrar) int {
	registered := 0
	for _, r := range registrars {
		if r == nil {
			continue
		}
		r.RegisterHandlers()
		registered++
	}
	if logger != nil {
		logger.Info("notification handlers registered", zap.Int("count", registered))
	}
	return registered
}
