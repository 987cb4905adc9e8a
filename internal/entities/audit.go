package entities

import "time"

type AuditEventType string

const (
	AuditEventAuth        AuditEventType = "auth"
	AuditEventTransaction AuditEventType = "transaction"
	AuditEventCategory    AuditEventType = "category"
	AuditEventAIReport    AuditEventType = "ai_report"
)

type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusFailed  AuditStatus = "failed"
)

// AuditEvent records one state-changing action taken through the UI.
// UserID is zero when the actor was not known, e.g. a failed login.
type AuditEvent struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	UserID     uint           `gorm:"index" json:"user_id"`
	EventType  AuditEventType `gorm:"index;size:50" json:"event_type"`
	Action     string         `gorm:"size:100" json:"action"` // e.g. "login", "transaction_delete"
	EntityID   *uint          `gorm:"index" json:"entity_id,omitempty"`
	Path       string         `gorm:"size:255" json:"path"`
	StatusCode int            `json:"status_code"`
	IPAddress  string         `gorm:"size:45" json:"ip_address,omitempty"`
	UserAgent  string         `gorm:"size:500" json:"user_agent,omitempty"`
	Status     AuditStatus    `gorm:"size:20" json:"status"`
	CreatedAt  time.Time      `gorm:"index" json:"created_at"`
}

func (AuditEvent) TableName() string {
	return "audit_events"
}
