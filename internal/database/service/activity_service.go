package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/blogify-press/backend-go/internal/database/models"
	"github.com/blogify-press/backend-go/internal/database/repository"
)

const (
	DefaultLogPageSize = 50
	MaxLogPageSize     = 100

	activityWriteTimeout = 5 * time.Second
)

// RequestMeta is the client information attached to activity entries.
type RequestMeta struct {
	IP        string
	UserAgent string
	Referrer  string
	Method    string
}

type requestMetaKey struct{}

// WithRequestMeta returns a context carrying meta for activity recording.
func WithRequestMeta(ctx context.Context, meta RequestMeta) context.Context {
	return context.WithValue(ctx, requestMetaKey{}, meta)
}

// RequestMetaFrom returns the meta stored by WithRequestMeta, if any.
func RequestMetaFrom(ctx context.Context) RequestMeta {
	meta, _ := ctx.Value(requestMetaKey{}).(RequestMeta)
	return meta
}

// ActivityEntry is what services report; request metadata is added from
// the context.
type ActivityEntry struct {
	UserID  uuid.UUID
	Action  string
	PostID  *uuid.UUID
	Status  models.LogStatus
	Message string
	Details map[string]any
}

// LogPage is one page of the admin activity listing.
type LogPage struct {
	Logs        []models.ActivityLog `json:"logs"`
	CurrentPage int                  `json:"currentPage"`
	TotalPages  int                  `json:"totalPages"`
	TotalLogs   int64                `json:"totalLogs"`
}

// TaskSubmitter runs work in the background. *worker.Pool implements it.
type TaskSubmitter interface {
	SubmitWithTimeout(timeout time.Duration, task func(ctx context.Context)) bool
}

// ActivityService records and lists audit entries.
type ActivityService interface {
	// Record stores entry asynchronously. Failures are logged and never
	// reach the caller.
	Record(ctx context.Context, entry ActivityEntry)
	List(ctx context.Context, page, limit int) (*LogPage, error)
}

type activityService struct {
	repo   repository.ActivityLogRepository
	tasks  TaskSubmitter
	logger *slog.Logger
}

// NewActivityService creates a new activity service instance
func NewActivityService(repo repository.ActivityLogRepository, tasks TaskSubmitter, logger *slog.Logger) ActivityService {
	return &activityService{
		repo:   repo,
		tasks:  tasks,
		logger: logger,
	}
}

func (s *activityService) Record(ctx context.Context, entry ActivityEntry) {
	meta := RequestMetaFrom(ctx)
	log := &models.ActivityLog{
		UserID:    entry.UserID,
		Action:    entry.Action,
		PostID:    entry.PostID,
		UserAgent: meta.UserAgent,
		IP:        meta.IP,
		Referrer:  meta.Referrer,
		Method:    meta.Method,
		Status:    entry.Status,
		Message:   entry.Message,
		Details:   entry.Details,
		CreatedAt: time.Now().UTC(),
	}

	s.tasks.SubmitWithTimeout(activityWriteTimeout, func(taskCtx context.Context) {
		if err := s.repo.Create(taskCtx, log); err != nil {
			s.logger.Error("❌ [ActivityService] Failed to record activity",
				"action", log.Action,
				"user_id", log.UserID,
				"error", err,
			)
			return
		}
		s.logger.Debug("📝 [ActivityService] Activity recorded", "action", log.Action, "user_id", log.UserID)
	})
}

func (s *activityService) List(ctx context.Context, page, limit int) (*LogPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultLogPageSize
	}
	if limit > MaxLogPageSize {
		limit = MaxLogPageSize
	}

	logs, total, err := s.repo.List(ctx, (page-1)*limit, limit)
	if err != nil {
		s.logger.Error("❌ [ActivityService] Failed to list activity", "error", err)
		return nil, upstreamError("list activity logs", err)
	}
	if logs == nil {
		logs = []models.ActivityLog{}
	}

	return &LogPage{
		Logs:        logs,
		CurrentPage: page,
		TotalPages:  int((total + int64(limit) - 1) / int64(limit)),
		TotalLogs:   total,
	}, nil
}

func success(userID uuid.UUID, action, message string) ActivityEntry {
	return ActivityEntry{UserID: userID, Action: action, Status: models.LogSuccess, Message: message}
}
