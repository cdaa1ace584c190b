package messaging

import (
	"fmt"

	"github.com/nats-io/nats.go"

	coreport "github.com/amirhossein-jamali/referral-ledger/internal/domain/port/core"
)

// Connect opens a NATS connection that keeps reconnecting in the background
func Connect(url string, logger coreport.Logger) (*nats.Conn, error) {
	conn, err := nats.Connect(url,
		nats.Name("referral-ledger"),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			fields := map[string]any{"url": url}
			if err != nil {
				fields["error"] = err.Error()
			}
			logger.Warn("NATS disconnected", fields)
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("NATS reconnected", map[string]any{"url": c.ConnectedUrl()})
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect %s: %w", url, err)
	}
	return conn, nil
}
