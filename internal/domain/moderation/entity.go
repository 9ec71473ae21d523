package moderation

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// ReportStatus values for spam reports.
type ReportStatus string

const (
	ReportStatusPending  ReportStatus = "pending"
	ReportStatusReviewed ReportStatus = "reviewed"
)

// Report is a spam report, created when a character blocks another
// with the report_spam flag set.
type Report struct {
	ID         uuid.UUID      `db:"id"`
	ReporterID uuid.UUID      `db:"reporter_id"` // reporting character
	ReportedID uuid.UUID      `db:"reported_id"` // reported character
	Reason     sql.NullString `db:"reason"`
	Status     ReportStatus   `db:"status"`
	AdminNotes sql.NullString `db:"admin_notes"`
	CreatedAt  time.Time      `db:"created_at"`
	ReviewedAt sql.NullTime   `db:"reviewed_at"`
}
