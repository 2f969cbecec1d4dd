package nats

import (
	"fmt"

	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/app/config"
	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/platform/logger"
	"github.com/nats-io/nats.go"
)

const clientName = "dealership-events"

func connectionOptions(cfg config.NATSConfig, log logger.Logger) []nats.Option {
	return []nats.Option{
		nats.Name(clientName),
		nats.Timeout(cfg.ConnectTimeout),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				log.Warnw("Event bus disconnected", "url", cfg.URL, "error", err)
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Infow("Event bus reconnected", "url", nc.ConnectedUrl())
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			log.Info("Event bus connection closed, order and vehicle events are no longer published")
		}),
	}
}

// NewConnection dials the event bus used for order and vehicle events.
func NewConnection(cfg config.NATSConfig, log logger.Logger) (*nats.Conn, error) {
	log = log.Named("NATS")
	nc, err := nats.Connect(cfg.URL, connectionOptions(cfg, log)...)
	if err != nil {
		log.Warnw("Event bus connect failed", "url", cfg.URL, "error", err)
		return nil, fmt.Errorf("failed to connect to NATS at %s: %w", cfg.URL, err)
	}
	log.Infow("Connected to event bus", "url", nc.ConnectedUrl())
	return nc, nil
}
