package push

import (
	"context"
	"log/slog"

	"github.com/learnlive/api/internal/domain"
	"github.com/learnlive/api/internal/metrics"
)

// TokenRegistry is the slice of device token storage the dispatcher needs.
type TokenRegistry interface {
	TokensFor(ctx context.Context, userID string) ([]domain.DeviceToken, error)
	DeleteByToken(ctx context.Context, token string) error
}

// Dispatcher sends a notification to all of a user's devices and prunes
// tokens the provider reports as dead. Dispatch is best effort: it never
// returns an error, because push delivery must not fail the write that
// produced the notification.
type Dispatcher struct {
	provider Provider
	registry TokenRegistry
	logger   *slog.Logger
}

func NewDispatcher(provider Provider, registry TokenRegistry, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{provider: provider, registry: registry, logger: logger}
}

// Dispatch looks up the user's tokens, sends the message, and deletes every
// token the provider marked unregistered or invalid. Transient failures are
// logged and left alone so the next dispatch retries them naturally.
func (d *Dispatcher) Dispatch(ctx context.Context, userID string, msg Message) {
	devices, err := d.registry.TokensFor(ctx, userID)
	if err != nil {
		metrics.PushDispatches.WithLabelValues("registry_error").Inc()
		d.logger.Error("device token lookup failed", "user_id", userID, "err", err)
		return
	}
	if len(devices) == 0 {
		metrics.PushDispatches.WithLabelValues("no_tokens").Inc()
		return
	}

	tokens := make([]string, len(devices))
	for i, dev := range devices {
		tokens[i] = dev.Token
	}

	results, err := d.provider.Send(ctx, tokens, msg)
	if err != nil {
		metrics.PushDispatches.WithLabelValues("provider_error").Inc()
		d.logger.Error("push send failed", "user_id", userID, "tokens", len(tokens), "err", err)
		return
	}

	sent := 0
	for i, res := range results {
		if i >= len(tokens) {
			break
		}
		if res.Success {
			sent++
			continue
		}
		switch res.Reason {
		case ReasonUnregistered, ReasonInvalidToken:
			if err := d.registry.DeleteByToken(ctx, tokens[i]); err != nil {
				d.logger.Warn("dead token cleanup failed", "user_id", userID, "err", err)
				continue
			}
			metrics.PushTokensInvalidated.Inc()
			d.logger.Info("removed dead device token", "user_id", userID, "reason", res.Reason)
		default:
			d.logger.Warn("push delivery failed", "user_id", userID, "reason", res.Reason, "detail", res.Detail)
		}
	}

	metrics.PushDispatches.WithLabelValues("sent").Inc()
	d.logger.Debug("dispatched push", "user_id", userID, "sent", sent, "total", len(tokens))
}
