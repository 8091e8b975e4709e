package databases

// go generate: mockery --name ReportDatabase

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/trailtales/trailtales-api/models"
)

const reportName = "reports"

// ReportDatabase contains the methods to use with the report database
type ReportDatabase interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Report, error)
	Exists(ctx context.Context, contentID primitive.ObjectID, reporterID string) (bool, error)
	Insert(ctx context.Context, report models.Report) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	FindActiveSince(ctx context.Context, contentID primitive.ObjectID, since time.Time) ([]models.Report, error)
	FindByStatus(ctx context.Context, status string, page, limit int) ([]models.Report, int64, error)
	UpdateReview(ctx context.Context, id primitive.ObjectID, status, reviewer, note string, at time.Time) (*models.Report, error)
	CountByStatus(ctx context.Context, status string) (int64, error)
	EnsureIndexes(ctx context.Context) error
}

type reportDatabase struct {
	db DatabaseHelper
}

// NewReportDatabase initializes a new instance of report database with the provided db connection
func NewReportDatabase(db DatabaseHelper) ReportDatabase {
	return &reportDatabase{
		db: db,
	}
}

func (r *reportDatabase) collection() CollectionHelper {
	return r.db.Collection(reportName)
}

func (r *reportDatabase) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Report, error) {
	report := &models.Report{}
	if err := r.collection().FindOne(ctx, bson.M{"_id": id}).Decode(report); err != nil {
		return nil, translate(err)
	}
	return report, nil
}

func (r *reportDatabase) Exists(ctx context.Context, contentID primitive.ObjectID, reporterID string) (bool, error) {
	count, err := r.collection().CountDocuments(ctx,
		bson.M{"contentId": contentID, "reporterId": reporterID},
		options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Insert fails with ErrDuplicateKey when the reporter already reported the content
func (r *reportDatabase) Insert(ctx context.Context, report models.Report) error {
	_, err := r.collection().InsertOne(ctx, report)
	return translate(err)
}

func (r *reportDatabase) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *reportDatabase) FindActiveSince(ctx context.Context, contentID primitive.ObjectID, since time.Time) ([]models.Report, error) {
	filter := bson.M{
		"contentId": contentID,
		"status":    bson.M{"$in": models.ActiveReportStatuses},
		"createdAt": bson.M{"$gte": since},
	}
	cursor, err := r.collection().Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	var reports []models.Report
	if err := cursor.Decode(&reports); err != nil {
		return nil, err
	}
	return reports, nil
}

// FindByStatus pages through reports oldest first; an empty status matches every report
func (r *reportDatabase) FindByStatus(ctx context.Context, status string, page, limit int) ([]models.Report, int64, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	total, err := r.collection().CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := newMongoPaginate(limit, page).getPaginatedOpts()
	opts.SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.collection().Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	var reports []models.Report
	if err := cursor.Decode(&reports); err != nil {
		return nil, 0, err
	}
	return reports, total, nil
}

// UpdateReview resolves a report that is still open. A report that was
// already closed is reported as ErrNotFound.
func (r *reportDatabase) UpdateReview(ctx context.Context, id primitive.ObjectID, status, reviewer, note string, at time.Time) (*models.Report, error) {
	filter := bson.M{
		"_id":    id,
		"status": bson.M{"$in": models.ActiveReportStatuses},
	}
	update := bson.M{"$set": bson.M{
		"status":     status,
		"reviewedBy": reviewer,
		"reviewedAt": at,
		"reviewNote": note,
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	report := &models.Report{}
	if err := r.collection().FindOneAndUpdate(ctx, filter, update, opts).Decode(report); err != nil {
		return nil, translate(err)
	}
	return report, nil
}

func (r *reportDatabase) CountByStatus(ctx context.Context, status string) (int64, error) {
	return r.collection().CountDocuments(ctx, bson.M{"status": status})
}

// EnsureIndexes creates the unique (content, reporter) index that blocks
// duplicate reports, plus the history lookup index.
func (r *reportDatabase) EnsureIndexes(ctx context.Context) error {
	return r.collection().CreateIndexes(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "contentId", Value: 1}, {Key: "reporterId", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("content_reporter_unique"),
		},
		{Keys: bson.D{{Key: "contentId", Value: 1}, {Key: "status", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: 1}}},
	})
}
