package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LogStatus classifies the outcome recorded by an activity log entry.
type LogStatus string

const (
	LogSuccess LogStatus = "success"
	LogFailure LogStatus = "failure"
	LogInfo    LogStatus = "info"
)

// Activity actions recorded by the services.
const (
	ActionSignup         = "signup"
	ActionLogin          = "login"
	ActionUpdateProfile  = "update_profile"
	ActionChangePassword = "change_password"
	ActionResetPassword  = "reset_password"
	ActionDeleteUser     = "delete_user"
	ActionRestoreUser    = "restore_user"
	ActionCreatePost     = "create_post"
	ActionUpdatePost     = "update_post"
	ActionDeletePost     = "delete_post"
	ActionRestorePost    = "restore_post"
	ActionViewUserPosts  = "view_user_posts"
)

// ActivityLog is an audit entry recorded for user and post actions.
type ActivityLog struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"userId"`
	Action    string         `gorm:"not null;index" json:"action"`
	PostID    *uuid.UUID     `gorm:"type:uuid" json:"blogId,omitempty"`
	UserAgent string         `json:"userAgent"`
	IP        string         `json:"ip"`
	Referrer  string         `json:"referrer,omitempty"`
	Method    string         `json:"method,omitempty"`
	Status    LogStatus      `gorm:"type:varchar(16);not null;default:info" json:"status"`
	Message   string         `gorm:"not null" json:"message"`
	Details   map[string]any `gorm:"serializer:json" json:"details,omitempty"`
	CreatedAt time.Time      `gorm:"index" json:"createdAt"`
}

// TableName overrides the table name
func (ActivityLog) TableName() string {
	return "activity_logs"
}

// BeforeCreate hook to generate UUID before creating a new entry
func (l *ActivityLog) BeforeCreate(tx *gorm.DB) error {
	l.EnsureDefaults(time.Now())
	return nil
}

// EnsureDefaults fills the identifier, status and timestamp when unset.
func (l *ActivityLog) EnsureDefaults(now time.Time) {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	if l.Status == "" {
		l.Status = LogInfo
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = now.UTC()
	}
}
