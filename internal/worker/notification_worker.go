package worker

import (
	"github.com/spec-kit/support-portal/internal/service"
)

// StartNotificationWorker hooks the feed cache invalidation into the
// event stream.
func StartNotificationWorker(notificationService *service.NotificationService) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
}
