package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"gorm.io/gorm"

	"github.com/blogify-press/backend-go/internal/database/models"
)

// ActivityLogRepository persists audit entries. Implementations exist for
// Postgres and MongoDB; both list newest first.
type ActivityLogRepository interface {
	Create(ctx context.Context, entry *models.ActivityLog) error
	List(ctx context.Context, offset, limit int) ([]models.ActivityLog, int64, error)
}

type activityLogRepository struct {
	db *gorm.DB
}

// NewActivityLogRepository creates the Postgres-backed log store
func NewActivityLogRepository(db *gorm.DB) ActivityLogRepository {
	return &activityLogRepository{db: db}
}

func (r *activityLogRepository) Create(ctx context.Context, entry *models.ActivityLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *activityLogRepository) List(ctx context.Context, offset, limit int) ([]models.ActivityLog, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.ActivityLog{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []models.ActivityLog
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// MongoLogCollection is the collection holding activity logs.
const MongoLogCollection = "logs"

type mongoActivityLogRepository struct {
	coll *mongo.Collection
}

// NewMongoActivityLogRepository creates the MongoDB-backed log store
func NewMongoActivityLogRepository(db *mongo.Database) ActivityLogRepository {
	return &mongoActivityLogRepository{coll: db.Collection(MongoLogCollection)}
}

// logDocument is the write shape; identifiers are kept as UUID strings.
type logDocument struct {
	ID        string         `bson:"_id"`
	UserID    string         `bson:"userId"`
	Action    string         `bson:"action"`
	PostID    string         `bson:"blogId,omitempty"`
	UserAgent string         `bson:"userAgent"`
	IP        string         `bson:"ip"`
	Referrer  string         `bson:"referrer,omitempty"`
	Method    string         `bson:"method,omitempty"`
	Status    string         `bson:"status"`
	Message   string         `bson:"message"`
	Details   map[string]any `bson:"details,omitempty"`
	CreatedAt time.Time      `bson:"createdAt"`
}

func (r *mongoActivityLogRepository) Create(ctx context.Context, entry *models.ActivityLog) error {
	entry.EnsureDefaults(time.Now())
	if _, err := r.coll.InsertOne(ctx, toLogDocument(entry)); err != nil {
		return fmt.Errorf("insert activity log: %w", err)
	}
	return nil
}

func (r *mongoActivityLogRepository) List(ctx context.Context, offset, limit int) ([]models.ActivityLog, int64, error) {
	total, err := r.coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		return nil, 0, fmt.Errorf("count activity logs: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := r.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find activity logs: %w", err)
	}

	var docs []storedLogDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("decode activity logs: %w", err)
	}

	entries := make([]models.ActivityLog, 0, len(docs))
	for _, doc := range docs {
		entries = append(entries, doc.toModel())
	}
	return entries, total, nil
}

func toLogDocument(e *models.ActivityLog) logDocument {
	doc := logDocument{
		ID:        e.ID.String(),
		UserID:    e.UserID.String(),
		Action:    e.Action,
		UserAgent: e.UserAgent,
		IP:        e.IP,
		Referrer:  e.Referrer,
		Method:    e.Method,
		Status:    string(e.Status),
		Message:   e.Message,
		Details:   e.Details,
		CreatedAt: e.CreatedAt,
	}
	if e.PostID != nil {
		doc.PostID = e.PostID.String()
	}
	return doc
}

// storedLogDocument is the read shape. Identifiers may be UUID strings or
// ObjectIds when the collection is shared with other writers.
type storedLogDocument struct {
	ID        bson.RawValue  `bson:"_id"`
	UserID    bson.RawValue  `bson:"userId"`
	Action    string         `bson:"action"`
	PostID    bson.RawValue  `bson:"blogId"`
	UserAgent string         `bson:"userAgent"`
	IP        string         `bson:"ip"`
	Referrer  string         `bson:"referrer"`
	Method    string         `bson:"method"`
	Status    string         `bson:"status"`
	Message   string         `bson:"message"`
	Details   map[string]any `bson:"details"`
	CreatedAt time.Time      `bson:"createdAt"`
}

func (d storedLogDocument) toModel() models.ActivityLog {
	entry := models.ActivityLog{
		Action:    d.Action,
		UserAgent: d.UserAgent,
		IP:        d.IP,
		Referrer:  d.Referrer,
		Method:    d.Method,
		Status:    models.LogStatus(d.Status),
		Message:   d.Message,
		Details:   d.Details,
		CreatedAt: d.CreatedAt,
	}
	// Non-UUID identifiers map to uuid.Nil.
	if id, err := uuid.Parse(rawID(d.ID)); err == nil {
		entry.ID = id
	}
	if id, err := uuid.Parse(rawID(d.UserID)); err == nil {
		entry.UserID = id
	}
	if id, err := uuid.Parse(rawID(d.PostID)); err == nil {
		entry.PostID = &id
	}
	return entry
}

func rawID(v bson.RawValue) string {
	if oid, ok := v.ObjectIDOK(); ok {
		return oid.Hex()
	}
	if s, ok := v.StringValueOK(); ok {
		return s
	}
	return ""
}
