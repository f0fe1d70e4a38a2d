package store

import (
	"context"
	"fmt"
	"time"
)

func (r *eventRepo) AppendTurn(ctx context.Context, data TurnEventData) error {
	seqNum, err := nextSequence(ctx, r.db)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `INSERT INTO turn_events
		(sequence, timestamp, session_id, lang, input, intent, topic, confidence,
		 mode, reply, latency_ms, success, error_message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		seqNum, time.Now().UnixMilli(), data.SessionID, data.Lang, data.Input,
		data.Intent, data.Topic, data.Confidence, data.Mode, data.Reply,
		data.LatencyMs, data.Success, data.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("save turn event: %w", err)
	}
	return nil
}

func (r *eventRepo) TurnsBySession(ctx context.Context, sessionID string, opts QueryOpts) ([]TurnRecord, error) {
	query := `SELECT id, sequence, timestamp, session_id, lang, input, intent, topic,
		confidence, mode, reply, latency_ms, success, error_message
		FROM turn_events WHERE session_id = ? AND sequence > ?`
	args := []any{sessionID, opts.After}
	if opts.Before > 0 {
		query += " AND sequence < ?"
		args = append(args, opts.Before)
	}
	query += " ORDER BY sequence ASC"
	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query turn events: %w", err)
	}
	defer rows.Close()

	var records []TurnRecord
	for rows.Next() {
		var (
			rec TurnRecord
			ts  int64
		)
		if err := rows.Scan(&rec.ID, &rec.Sequence, &ts, &rec.SessionID, &rec.Lang,
			&rec.Input, &rec.Intent, &rec.Topic, &rec.Confidence, &rec.Mode,
			&rec.Reply, &rec.LatencyMs, &rec.Success, &rec.ErrorMessage); err != nil {
			return nil, fmt.Errorf("scan turn event: %w", err)
		}
		rec.Timestamp = time.UnixMilli(ts)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate turn events: %w", err)
	}
	return records, nil
}
