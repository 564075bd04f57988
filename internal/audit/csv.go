// Package audit exports the transition log as CSV for external archiving.
package audit

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alexanderramin/rkam/internal/domain"
)

// Header is the CSV header of an export.
const Header = "occurred_at,proposal_id,payment_id,actor_id,actor_role,transition,from_status,to_status,note,event_id"

const (
	numFields     = 10
	colOccurredAt = 0
	colProposalID = 1
	colPaymentID  = 2
	colActorID    = 3
	colActorRole  = 4
	colTransition = 5
	colFrom       = 6
	colTo         = 7
	colNote       = 8
	colEventID    = 9
)

// MarshalEvent converts an event to a CSV row.
func MarshalEvent(e *domain.AuditEvent) []string {
	row := make([]string, numFields)
	row[colOccurredAt] = e.OccurredAt.UTC().Format(time.RFC3339Nano)
	row[colProposalID] = e.ProposalID
	row[colPaymentID] = e.PaymentID
	row[colActorID] = e.ActorID
	row[colActorRole] = string(e.ActorRole)
	row[colTransition] = string(e.Transition)
	row[colFrom] = string(e.FromStatus)
	row[colTo] = string(e.ToStatus)
	row[colNote] = e.Note
	row[colEventID] = e.ID
	return row
}

// UnmarshalEvent converts a CSV row back to an event.
func UnmarshalEvent(record []string) (*domain.AuditEvent, error) {
	if len(record) != numFields {
		return nil, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}
	ts, err := time.Parse(time.RFC3339Nano, record[colOccurredAt])
	if err != nil {
		return nil, fmt.Errorf("parsing occurred_at %q: %w", record[colOccurredAt], err)
	}
	return &domain.AuditEvent{
		ID:         record[colEventID],
		ProposalID: record[colProposalID],
		PaymentID:  record[colPaymentID],
		ActorID:    record[colActorID],
		ActorRole:  domain.Role(record[colActorRole]),
		Transition: domain.Transition(record[colTransition]),
		FromStatus: domain.ProposalStatus(record[colFrom]),
		ToStatus:   domain.ProposalStatus(record[colTo]),
		Note:       record[colNote],
		OccurredAt: ts,
	}, nil
}

// Write emits the header and one row per event.
func Write(w io.Writer, events []*domain.AuditEvent) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, e := range events {
		if err := cw.Write(MarshalEvent(e)); err != nil {
			return fmt.Errorf("writing event %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// AppendFile appends events to path, writing the header only when the file
// is new.
func AppendFile(path string, events []*domain.AuditEvent) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating export dir: %w", err)
	}
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening audit export: %w", err)
	}
	defer f.Close()

	if needsHeader {
		return Write(f, events)
	}
	cw := csv.NewWriter(f)
	for i, e := range events {
		if err := cw.Write(MarshalEvent(e)); err != nil {
			return fmt.Errorf("writing event %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Read parses an export produced by Write or AppendFile.
func Read(r io.Reader) ([]*domain.AuditEvent, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading audit CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	events := make([]*domain.AuditEvent, 0, len(records)-1)
	for i, rec := range records[1:] {
		e, err := UnmarshalEvent(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		events = append(events, e)
	}
	return events, nil
}
