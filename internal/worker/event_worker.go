package worker

import (
	"go.uber.org/zap"

	"github.com/deliverlabs/food-ordering-service/internal/events"
	"github.com/deliverlabs/food-ordering-service/internal/messaging"
	"github.com/deliverlabs/food-ordering-service/internal/realtime"
)

// StartEventWorkers registers the consumers of order lifecycle events. publisher may be
// nil when the broker relay is disabled.
func StartEventWorkers(dispatcher events.Dispatcher, relay *realtime.Relay, publisher *messaging.Publisher, logger *zap.Logger) {
	if dispatcher == nil {
		return
	}
	if relay != nil {
		relay.RegisterHandlers()
	}
	consumers := []string{"realtime"}
	if publisher != nil {
		publisher.RegisterHandlers(dispatcher)
		consumers = append(consumers, "rabbitmq")
	}
	logger.Info("event consumers registered", zap.Strings("consumers", consumers))
}
