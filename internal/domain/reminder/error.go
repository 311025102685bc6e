package reminder

import "errors"

var (
	ErrPermissionDenied    = errors.New("notification permission not granted")
	ErrNotPhysicalDevice   = errors.New("push notifications require a physical device")
	ErrNotRegistered       = errors.New("notifications are not registered")
	ErrSourceFetch         = errors.New("failed to fetch upcoming doses")
	ErrListScheduled       = errors.New("failed to list scheduled reminders")
	ErrChannelProvisioning = errors.New("failed to configure notification channel")
	ErrStepTimeout         = errors.New("step timed out")
	ErrIncompleteFlush     = errors.New("previous reminders were not all cancelled")
	ErrPassLock            = errors.New("failed to acquire sync pass lock")
)
