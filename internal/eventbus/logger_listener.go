package eventbus

import (
	"context"

	"github.com/annel0/voxelnav/internal/logging"
)

// StartLoggingListener подписывается на все события и пишет их в лог.
// Функция неблокирующая.
func StartLoggingListener(bus EventBus) (Subscription, error) {
	sub, err := bus.Subscribe(context.Background(), Filter{}, func(ctx context.Context, ev *Envelope) {
		if ev.EventType == EventPathCompleted {
			if pe, err := DecodePathEvent(ev); err == nil {
				logging.Debug("[EventBus] %s %s req=%s reason=%s len=%d expanded=%d",
					ev.ID, ev.EventType, pe.RequestID, pe.Reason, pe.Length, pe.Expanded)
				return
			}
		}
		logging.Debug("[EventBus] %s %s src=%s prio=%d size=%dB", ev.ID, ev.EventType, ev.Source, ev.Priority, len(ev.Payload))
	})
	if err != nil {
		return nil, err
	}
	logging.Info("LoggingListener: подписка на все события активирована")
	return sub, nil
}
