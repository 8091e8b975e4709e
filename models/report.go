package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Report lifecycle statuses
const (
	ReportStatusPending     = "pending"
	ReportStatusReviewed    = "reviewed"
	ReportStatusDismissed   = "dismissed"
	ReportStatusActionTaken = "action_taken"
)

// ActiveReportStatuses are the statuses that still count towards escalation
var ActiveReportStatuses = []string{ReportStatusPending, ReportStatusReviewed}

// Report represents an abuse report against a content item.
// Reporter fields are a snapshot taken at submission time.
type Report struct {
	ID                primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ContentID         primitive.ObjectID `json:"contentId" bson:"contentId"`
	ContentKind       string             `json:"contentKind" bson:"contentKind"`
	ReporterID        string             `json:"reporterId" bson:"reporterId"`
	ReporterUsername  string             `json:"reporterUsername" bson:"reporterUsername"`
	ReporterCreatedAt time.Time          `json:"reporterCreatedAt" bson:"reporterCreatedAt"`
	ReporterVerified  bool               `json:"reporterVerified" bson:"reporterVerified"`
	Reason            string             `json:"reason" bson:"reason"`
	Description       string             `json:"description,omitempty" bson:"description,omitempty"`
	ReasonWeight      float64            `json:"reasonWeight" bson:"reasonWeight"`
	CredibilityWeight float64            `json:"credibilityWeight" bson:"credibilityWeight"`
	WeightedScore     float64            `json:"weightedScore" bson:"weightedScore"`
	Status            string             `json:"status" bson:"status"`
	ReviewedBy        string             `json:"reviewedBy,omitempty" bson:"reviewedBy,omitempty"`
	ReviewedAt        *time.Time         `json:"reviewedAt,omitempty" bson:"reviewedAt,omitempty"`
	ReviewNote        string             `json:"reviewNote,omitempty" bson:"reviewNote,omitempty"`
	CreatedAt         time.Time          `json:"createdAt" bson:"createdAt"`
}

// CreateReportRequest is the body accepted when reporting a content item
type CreateReportRequest struct {
	Reason      string `json:"reason" validate:"required,max=64"`
	Description string `json:"description" validate:"max=5000"`
}

// ReviewReportRequest is the body a moderator sends to resolve a report
type ReviewReportRequest struct {
	Status        string `json:"status" validate:"required,oneof=reviewed dismissed action_taken"`
	Note          string `json:"note" validate:"max=1000"`
	RemoveContent bool   `json:"removeContent"`
}

// ReportReason describes a reason code for clients
type ReportReason struct {
	Code   string  `json:"code"`
	Label  string  `json:"label"`
	Weight float64 `json:"weight"`
}
