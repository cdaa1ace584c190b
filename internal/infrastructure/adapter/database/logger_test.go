package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	coreport "github.com/amirhossein-jamali/referral-ledger/internal/domain/port/core"
	zaplogger "github.com/amirhossein-jamali/referral-ledger/internal/infrastructure/adapter/logger"
	timeprovider "github.com/amirhossein-jamali/referral-ledger/internal/infrastructure/adapter/time"
)

func newObservedLogger(level string) (*DatabaseLogger, *observer.ObservedLogs) {
	obsCore, logs := observer.New(zapcore.DebugLevel)
	core := zaplogger.NewZapLoggerFromCore(obsCore, coreport.LogLevelDebug)
	return NewDatabaseLogger(core, timeprovider.NewRealTimeProvider(), level), logs
}

func TestDatabaseLogger_Trace(t *testing.T) {
	dbLogger, logs := newObservedLogger("info")
	sql := func() (string, int64) { return "SELECT * FROM accounts", 1 }

	dbLogger.Trace(context.Background(), time.Now(), sql, nil)
	dbLogger.Trace(context.Background(), time.Now(), sql, gorm.ErrRecordNotFound)
	dbLogger.Trace(context.Background(), time.Now(), sql, errors.New("syntax error"))
	dbLogger.Trace(context.Background(), time.Now().Add(-time.Second), sql, nil)

	entries := logs.All()
	require.Len(t, entries, 4)
	assert.Equal(t, "SQL Query", entries[0].Message)
	assert.Equal(t, "SELECT", entries[0].ContextMap()["type"])
	assert.Equal(t, "database", entries[0].ContextMap()["source"])
	assert.Equal(t, "SQL Query", entries[1].Message)
	assert.Equal(t, "SQL Error", entries[2].Message)
	assert.Equal(t, "Slow SQL Query", entries[3].Message)
}

func TestDatabaseLogger_Silent(t *testing.T) {
	dbLogger, logs := newObservedLogger("info")
	silent := dbLogger.LogMode(logger.Silent)

	silent.Trace(context.Background(), time.Now(), func() (string, int64) { return "SELECT 1", 1 }, errors.New("boom"))
	silent.Error(context.Background(), "ignored")

	assert.Zero(t, logs.Len())
}
