package operation

import (
	"github.com/pharoslabs/pharos/async/event"
)

// Notifier interface defines the methods of the service that provides operation updates to consumers.
type Notifier interface {
	OperationFeed() *event.Feed
}
