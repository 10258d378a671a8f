package models

import "time"

// Audit actions recorded on every mutation
const (
	AuditActionCreate = "create"
	AuditActionUpdate = "update"
	AuditActionDelete = "delete"
)

// AuditEntry is one row of the audit trail
type AuditEntry struct {
	ID        int64     `json:"id"`
	TableName string    `json:"table_name"`
	RecordID  string    `json:"record_id"`
	Action    string    `json:"action"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// AuditFilter narrows an audit-log listing
type AuditFilter struct {
	TableName string
	Action    string
	StartDate *time.Time
	EndDate   *time.Time
	Limit     int
	Offset    int
}
