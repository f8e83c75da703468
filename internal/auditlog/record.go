package auditlog

import (
	"context"
	"strconv"
	"time"
)

const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// AuditEntry represents a persisted audit event.
type AuditEntry struct {
	ID           int64     `json:"id"`
	Timestamp    time.Time `json:"timestamp"`
	Action       string    `json:"action"`
	Actor        string    `json:"actor,omitempty"`
	Args         string    `json:"args,omitempty"`
	ResourceType string    `json:"resource_type,omitempty"`
	ResourceID   string    `json:"resource_id,omitempty"`
	ResourceName string    `json:"resource_name,omitempty"`
	Outcome      string    `json:"outcome"`
	Detail       string    `json:"detail,omitempty"`
	DurationMs   int64     `json:"duration_ms"`
}

// Recorder is the write side of the audit log.
type Recorder interface {
	Save(ctx context.Context, entry *AuditEntry) error
}

// Event is one audited operation before it is persisted.
type Event struct {
	Action       string
	ResourceType string
	ResourceID   int64
	ResourceName string
	Start        time.Time
	Err          error
}

// Record builds an entry from ev and the context metadata and saves it.
// A nil recorder is a no-op.
func Record(ctx context.Context, rec Recorder, ev Event, now time.Time) error {
	if rec == nil {
		return nil
	}
	meta := MetadataFromContext(ctx)
	entry := &AuditEntry{
		Timestamp:    now.UTC(),
		Action:       ev.Action,
		Actor:        meta.Actor,
		Args:         meta.Args,
		ResourceType: ev.ResourceType,
		ResourceName: ev.ResourceName,
		Outcome:      OutcomeSuccess,
	}
	if ev.ResourceID != 0 {
		entry.ResourceID = strconv.FormatInt(ev.ResourceID, 10)
	}
	if !ev.Start.IsZero() {
		entry.DurationMs = now.Sub(ev.Start).Milliseconds()
	}
	if ev.Err != nil {
		entry.Outcome = OutcomeError
		entry.Detail = ev.Err.Error()
	}
	return rec.Save(ctx, entry)
}
