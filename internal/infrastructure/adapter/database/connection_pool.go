package database

import (
	"context"
	"database/sql"
	"time"

	coreport "github.com/amirhossein-jamali/referral-ledger/internal/domain/port/core"
)

// ConnectionPoolMonitor periodically pings the database and warns when the pool nears exhaustion
type ConnectionPoolMonitor struct {
	db          *sql.DB
	logger      coreport.Logger
	checkPeriod time.Duration
	stopChan    chan struct{}
}

// NewConnectionPoolMonitor creates a new connection pool monitor
func NewConnectionPoolMonitor(db *sql.DB, logger coreport.Logger, checkPeriod time.Duration) *ConnectionPoolMonitor {
	return &ConnectionPoolMonitor{
		db:          db,
		logger:      logger,
		checkPeriod: checkPeriod,
		stopChan:    make(chan struct{}),
	}
}

// Start begins monitoring in a background goroutine
func (m *ConnectionPoolMonitor) Start() {
	go func() {
		ticker := time.NewTicker(m.checkPeriod)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				m.check()
			case <-m.stopChan:
				return
			}
		}
	}()
}

// Stop stops the monitoring
func (m *ConnectionPoolMonitor) Stop() {
	close(m.stopChan)
}

func (m *ConnectionPoolMonitor) check() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := m.db.PingContext(ctx); err != nil {
		m.logger.Error("Database ping failed", map[string]any{"error": err.Error()})
	}

	stats := m.db.Stats()
	threshold := float64(stats.MaxOpenConnections) * 0.8
	if stats.MaxOpenConnections > 0 && float64(stats.InUse) > threshold {
		m.logger.Warn("Database connection pool nearly exhausted", map[string]any{
			"in_use":     stats.InUse,
			"max_open":   stats.MaxOpenConnections,
			"idle":       stats.Idle,
			"wait_count": stats.WaitCount,
			"wait_time":  stats.WaitDuration.String(),
		})
	}
}
