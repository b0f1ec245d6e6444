package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jobboard/job-board-api/internal/core/domain"
	"github.com/jobboard/job-board-api/internal/core/ports"
)

type ApplicantRepository struct {
	col *mongo.Collection
}

func NewApplicantRepository(db *mongo.Database) *ApplicantRepository {
	return &ApplicantRepository{col: db.Collection(collectionApplicants)}
}

type applicantDoc struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	UserID     primitive.ObjectID `bson:"userId"`
	JobID      primitive.ObjectID `bson:"jobId"`
	ProviderID primitive.ObjectID `bson:"providerId"`
	Resume     string             `bson:"resume"`
	Status     string             `bson:"status"`
	CreatedAt  time.Time          `bson:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt"`
}

func (d *applicantDoc) toDomain() *domain.Applicant {
	return &domain.Applicant{
		ID:         d.ID.Hex(),
		UserID:     d.UserID.Hex(),
		JobID:      d.JobID.Hex(),
		ProviderID: d.ProviderID.Hex(),
		Resume:     d.Resume,
		Status:     d.Status,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}

func applicantFilter(f ports.ApplicantFilter) bson.M {
	filter := bson.M{}
	if f.UserID != "" {
		id, _ := objectID(f.UserID)
		filter["userId"] = id
	}
	if f.ProviderID != "" {
		id, _ := objectID(f.ProviderID)
		filter["providerId"] = id
	}
	switch {
	case f.JobID != "" && f.JobIDs != nil:
		id, _ := objectID(f.JobID)
		filter["jobId"] = bson.M{"$eq": id, "$in": objectIDs(f.JobIDs)}
	case f.JobID != "":
		id, _ := objectID(f.JobID)
		filter["jobId"] = id
	case f.JobIDs != nil:
		filter["jobId"] = in(objectIDs(f.JobIDs))
	}
	switch f.Stage {
	case ports.StageApplied:
		filter["status"] = bson.M{"$regex": "^Applied"}
	case ports.StageShortlisted:
		filter["status"] = domain.StatusShortlisted
	}
	return filter
}

func (r *ApplicantRepository) Create(ctx context.Context, a *domain.Applicant) (*domain.Applicant, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	uid, _ := objectID(a.UserID)
	jid, _ := objectID(a.JobID)
	pid, _ := objectID(a.ProviderID)
	doc := applicantDoc{
		ID:         primitive.NewObjectID(),
		UserID:     uid,
		JobID:      jid,
		ProviderID: pid,
		Resume:     a.Resume,
		Status:     a.Status,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateApplication
		}
		return nil, fmt.Errorf("insert applicant: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *ApplicantRepository) FindByID(ctx context.Context, id string) (*domain.Applicant, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrApplicantNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *ApplicantRepository) FindByUserAndJob(ctx context.Context, userID, jobID string) (*domain.Applicant, error) {
	uid, ok := objectID(userID)
	if !ok {
		return nil, domain.ErrApplicantNotFound
	}
	jid, ok := objectID(jobID)
	if !ok {
		return nil, domain.ErrApplicantNotFound
	}
	return r.findOne(ctx, bson.M{"userId": uid, "jobId": jid})
}

func (r *ApplicantRepository) findOne(ctx context.Context, filter bson.M) (*domain.Applicant, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc applicantDoc
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrApplicantNotFound
		}
		return nil, fmt.Errorf("find applicant: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *ApplicantRepository) List(ctx context.Context, f ports.ApplicantFilter) ([]*domain.Applicant, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := r.col.Find(ctx, applicantFilter(f), opts)
	if err != nil {
		return nil, fmt.Errorf("find applicants: %w", err)
	}
	var docs []applicantDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode applicants: %w", err)
	}

	out := make([]*domain.Applicant, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

func (r *ApplicantRepository) Count(ctx context.Context, f ports.ApplicantFilter) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, applicantFilter(f))
	if err != nil {
		return 0, fmt.Errorf("count applicants: %w", err)
	}
	return n, nil
}

// shortlistFilter matches the applicant only while it is not shortlisted.
func shortlistFilter(oid primitive.ObjectID) bson.M {
	return bson.M{"_id": oid, "status": bson.M{"$ne": domain.StatusShortlisted}}
}

func (r *ApplicantRepository) MarkShortlisted(ctx context.Context, id string) error {
	oid, ok := objectID(id)
	if !ok {
		return domain.ErrApplicantNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx,
		shortlistFilter(oid),
		bson.M{"$set": bson.M{"status": domain.StatusShortlisted, "updatedAt": time.Now().UTC()}},
	)
	if err != nil {
		return fmt.Errorf("shortlist applicant: %w", err)
	}
	if res.MatchedCount > 0 {
		return nil
	}

	n, err := r.col.CountDocuments(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("shortlist applicant: %w", err)
	}
	if n == 0 {
		return domain.ErrApplicantNotFound
	}
	return domain.ErrAlreadyShortlisted
}

func (r *ApplicantRepository) Delete(ctx context.Context, id string) error {
	_, err := r.DeleteMany(ctx, []string{id})
	return err
}

func (r *ApplicantRepository) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	oids := objectIDs(ids)
	if len(oids) == 0 {
		return 0, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteMany(ctx, bson.M{"_id": in(oids)})
	if err != nil {
		return 0, fmt.Errorf("delete applicants: %w", err)
	}
	return res.DeletedCount, nil
}

var _ ports.ApplicantRepository = (*ApplicantRepository)(nil)
