package databases

// go generate: mockery --name ContentDatabase

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/trailtales/trailtales-api/models"
)

// ContentDatabase contains the methods to use with one content collection.
// Blog posts, map points and reviews share the same document shape.
type ContentDatabase interface {
	Kind() string
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.ContentItem, error)
	FindCandidates(ctx context.Context, viewerID string, limit int64) ([]models.ContentItem, error)
	FindFlagged(ctx context.Context, page, limit int) ([]models.ContentItem, int64, error)
	AdjustReports(ctx context.Context, id primitive.ObjectID, count int64, score float64) (*models.ContentItem, error)
	EscalateFlag(ctx context.Context, id primitive.ObjectID, severity models.Severity, reason string, at time.Time) (bool, error)
	ClearFlag(ctx context.Context, id primitive.ObjectID) (*models.ContentItem, error)
	Hide(ctx context.Context, id primitive.ObjectID, userID string) error
	MarkRemoved(ctx context.Context, id primitive.ObjectID) (*models.ContentItem, error)
	CountFlaggedSince(ctx context.Context, since time.Time) (int64, error)
	EnsureIndexes(ctx context.Context) error
}

type contentDatabase struct {
	db   DatabaseHelper
	kind string
}

// NewContentDatabase initializes the database for one content kind; the kind is the collection name
func NewContentDatabase(db DatabaseHelper, kind string) ContentDatabase {
	return &contentDatabase{
		db:   db,
		kind: kind,
	}
}

// NewContentDatabases builds one ContentDatabase per known content kind
func NewContentDatabases(db DatabaseHelper) map[string]ContentDatabase {
	out := make(map[string]ContentDatabase, len(models.ContentKinds))
	for _, kind := range models.ContentKinds {
		out[kind] = NewContentDatabase(db, kind)
	}
	return out
}

func (c *contentDatabase) Kind() string {
	return c.kind
}

func (c *contentDatabase) collection() CollectionHelper {
	return c.db.Collection(c.kind)
}

func (c *contentDatabase) decodeOne(sr SingleResultHelper) (*models.ContentItem, error) {
	item := &models.ContentItem{}
	if err := sr.Decode(item); err != nil {
		return nil, translate(err)
	}
	item.Kind = c.kind
	return item, nil
}

func (c *contentDatabase) decodeMany(cursor CursorHelper) ([]models.ContentItem, error) {
	var items []models.ContentItem
	if err := cursor.Decode(&items); err != nil {
		return nil, err
	}
	for i := range items {
		items[i].Kind = c.kind
	}
	return items, nil
}

func (c *contentDatabase) FindByID(ctx context.Context, id primitive.ObjectID) (*models.ContentItem, error) {
	return c.decodeOne(c.collection().FindOne(ctx, bson.M{"_id": id}))
}

// FindCandidates returns published items newest first. A non-empty viewerID
// drops the viewer's own items and the ones they hid.
func (c *contentDatabase) FindCandidates(ctx context.Context, viewerID string, limit int64) ([]models.ContentItem, error) {
	filter := bson.M{"status": models.ContentStatusPublished}
	if viewerID != "" {
		filter["authorId"] = bson.M{"$ne": viewerID}
		filter["hiddenBy"] = bson.M{"$ne": viewerID}
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(limit)

	cursor, err := c.collection().Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	return c.decodeMany(cursor)
}

func (c *contentDatabase) FindFlagged(ctx context.Context, page, limit int) ([]models.ContentItem, int64, error) {
	filter := bson.M{"moderation.isFlagged": true}
	total, err := c.collection().CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := newMongoPaginate(limit, page).getPaginatedOpts()
	opts.SetSort(bson.D{{Key: "moderation.flaggedAt", Value: -1}})
	cursor, err := c.collection().Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	items, err := c.decodeMany(cursor)
	return items, total, err
}

// AdjustReports increments the report counters in one atomic update and
// returns the document as it is after the change.
func (c *contentDatabase) AdjustReports(ctx context.Context, id primitive.ObjectID, count int64, score float64) (*models.ContentItem, error) {
	update := bson.M{"$inc": bson.M{
		"moderation.reportCount":      count,
		"moderation.totalReportScore": score,
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	return c.decodeOne(c.collection().FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts))
}

// EscalateFlag sets the flag only while the stored severity is lower than
// severity. It reports false when another writer already got there.
func (c *contentDatabase) EscalateFlag(ctx context.Context, id primitive.ObjectID, severity models.Severity, reason string, at time.Time) (bool, error) {
	filter := bson.M{
		"_id":                     id,
		"moderation.flagSeverity": bson.M{"$in": severity.Below()},
	}
	update := bson.M{"$set": bson.M{
		"moderation.isFlagged":    true,
		"moderation.flagSeverity": severity,
		"moderation.flagReason":   reason,
		"moderation.flaggedAt":    at,
	}}
	res, err := c.collection().UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}

func (c *contentDatabase) ClearFlag(ctx context.Context, id primitive.ObjectID) (*models.ContentItem, error) {
	update := bson.M{
		"$set": bson.M{
			"moderation.isFlagged":    false,
			"moderation.flagSeverity": models.SeverityNone,
		},
		"$unset": bson.M{
			"moderation.flagReason": "",
			"moderation.flaggedAt":  "",
		},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	return c.decodeOne(c.collection().FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts))
}

func (c *contentDatabase) Hide(ctx context.Context, id primitive.ObjectID, userID string) error {
	res, err := c.collection().UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$addToSet": bson.M{"hiddenBy": userID}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (c *contentDatabase) MarkRemoved(ctx context.Context, id primitive.ObjectID) (*models.ContentItem, error) {
	update := bson.M{"$set": bson.M{
		"status":    models.ContentStatusRemoved,
		"updatedAt": time.Now(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	return c.decodeOne(c.collection().FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts))
}

func (c *contentDatabase) CountFlaggedSince(ctx context.Context, since time.Time) (int64, error) {
	return c.collection().CountDocuments(ctx, bson.M{
		"moderation.isFlagged": true,
		"moderation.flaggedAt": bson.M{"$gte": since},
	})
}

func (c *contentDatabase) EnsureIndexes(ctx context.Context) error {
	return c.collection().CreateIndexes(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "moderation.isFlagged", Value: 1}, {Key: "moderation.flaggedAt", Value: -1}}},
	})
}
