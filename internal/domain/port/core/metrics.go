package core

// Operation results reported to the metrics recorder
const (
	ResultSuccess   = "success"
	ResultRejected  = "rejected"
	ResultRetryable = "retryable"
	ResultError     = "error"
)

// Directions of money movement through the ledger
const (
	DirectionCredit = "credit"
	DirectionDebit  = "debit"
)

// MetricsRecorder collects ledger business metrics
type MetricsRecorder interface {
	// ObserveOperation counts one ledger operation with its outcome
	ObserveOperation(operation, result string)
	// AddAmount accumulates minor units moved in the given direction
	AddAmount(direction string, amount int64)
}
