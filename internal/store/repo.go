package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a single event lookup matches nothing.
var ErrNotFound = errors.New("event not found")

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit   int    // max results (0 = unlimited)
	After   int64  // sequence > After
	Before  int64  // sequence < Before
	Purpose string // exact purpose match, LLM events only
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestRecord is a stored LLM request event.
type LLMRequestRecord struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// LLMUsage aggregates token usage for one purpose and model.
type LLMUsage struct {
	Purpose      string
	Model        string
	Calls        int
	Failures     int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// ModelUsage aggregates token usage for one model across purposes.
type ModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// TurnEventData captures one processed dialogue turn.
type TurnEventData struct {
	SessionID    string
	Lang         string
	Input        string
	Intent       string
	Topic        string
	Confidence   float64
	Mode         string
	Reply        string
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// TurnRecord is a stored turn event.
type TurnRecord struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	TurnEventData
}

// EventRepo provides append and query access to the event log.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// AppendTurn records a processed dialogue turn.
	AppendTurn(ctx context.Context, data TurnEventData) error

	// QueryLLMEvents returns LLM request events, newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestRecord, error)

	// GetLLMEvent returns a single LLM request event by ID.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestRecord, error)

	// LLMUsageByPurpose aggregates LLM events grouped by purpose and model.
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error)

	// LLMUsageByModel aggregates LLM events grouped by model.
	LLMUsageByModel(ctx context.Context) ([]ModelUsage, error)

	// TurnsBySession returns the turns of one session, oldest first.
	TurnsBySession(ctx context.Context, sessionID string, opts QueryOpts) ([]TurnRecord, error)
}
