package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/abhisek/viva/internal/store"
)

// LoggingProvider records each request in the event log and writes one log
// line per call: debug on success, warn on failure.
type LoggingProvider struct {
	inner    Provider
	provider string
	events   store.EventRepo
	log      logrus.FieldLogger
}

// WithLogging wraps p. events may be nil; log defaults to the standard logger.
func WithLogging(p Provider, provider string, events store.EventRepo, log logrus.FieldLogger) Provider {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &LoggingProvider{inner: p, provider: provider, events: events, log: log}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)
	elapsed := time.Since(start)

	ev := store.LLMRequestEventData{
		Provider:    l.provider,
		Model:       l.inner.ModelID(),
		Purpose:     PurposeFrom(ctx),
		LatencyMs:   elapsed.Milliseconds(),
		Success:     err == nil,
		RequestBody: transcript(req),
	}
	fields := logrus.Fields{
		"provider":   l.provider,
		"purpose":    ev.Purpose,
		"latency_ms": ev.LatencyMs,
	}
	if resp != nil {
		ev.Model = resp.Model
		ev.InputTokens = resp.Usage.InputTokens
		ev.OutputTokens = resp.Usage.OutputTokens
		ev.ResponseBody = string(resp.Content)
		fields["input_tokens"] = ev.InputTokens
		fields["output_tokens"] = ev.OutputTokens
		fields["stop_reason"] = resp.StopReason
	}
	fields["model"] = ev.Model

	if err != nil {
		ev.ErrorMessage = err.Error()
		fields["error_kind"] = KindOf(err)
		l.log.WithFields(fields).WithError(err).Warn("llm request failed")
	} else {
		l.log.WithFields(fields).Debug("llm request")
	}

	if l.events != nil {
		if appendErr := l.events.AppendLLMRequest(ctx, ev); appendErr != nil {
			l.log.WithError(appendErr).Warn("failed to record LLM request event")
		}
	}
	return resp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}

// transcript renders a request as the "[role]" blocks shown by `viva llm view`.
func transcript(req Request) string {
	var b strings.Builder
	block := func(label, body string) {
		fmt.Fprintf(&b, "[%s]\n%s\n\n", label, body)
	}
	if req.System != "" {
		block("system", req.System)
	}
	for _, m := range req.Messages {
		block(string(m.Role), m.Content)
	}
	if req.Schema != nil {
		if def, err := json.Marshal(req.Schema.Definition); err == nil {
			block("schema: "+req.Schema.Name, string(def))
		}
	}
	return strings.TrimSuffix(b.String(), "\n")
}
