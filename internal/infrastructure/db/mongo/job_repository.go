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

type JobRepository struct {
	col *mongo.Collection
}

func NewJobRepository(db *mongo.Database) *JobRepository {
	return &JobRepository{col: db.Collection(collectionJobs)}
}

type jobDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	Category    string             `bson:"category"`
	Location    string             `bson:"location"`
	Salary      string             `bson:"salary,omitempty"`
	Skills      []string           `bson:"skills"`
	Vacancies   int                `bson:"vacancies"`
	ProviderID  primitive.ObjectID `bson:"providerId"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

func (d *jobDoc) toDomain() *domain.Job {
	skills := d.Skills
	if skills == nil {
		skills = []string{}
	}
	return &domain.Job{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Description: d.Description,
		Category:    d.Category,
		Location:    d.Location,
		Salary:      d.Salary,
		Skills:      skills,
		Vacancies:   d.Vacancies,
		ProviderID:  d.ProviderID.Hex(),
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func jobFilter(f ports.JobFilter) bson.M {
	filter := bson.M{}
	if f.ProviderID != "" {
		id, _ := objectID(f.ProviderID)
		filter["providerId"] = id
	}
	idClause := bson.M{}
	if f.IDs != nil {
		idClause = in(objectIDs(f.IDs))
	}
	if len(f.ExcludeIDs) > 0 {
		idClause["$nin"] = objectIDs(f.ExcludeIDs)
	}
	if len(idClause) > 0 {
		filter["_id"] = idClause
	}
	return filter
}

// scoped returns the filter for a single job, restricted to providerID when set.
func scoped(oid primitive.ObjectID, providerID string) bson.M {
	filter := bson.M{"_id": oid}
	if providerID != "" {
		pid, _ := objectID(providerID)
		filter["providerId"] = pid
	}
	return filter
}

func (r *JobRepository) Create(ctx context.Context, job *domain.Job) (*domain.Job, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pid, _ := objectID(job.ProviderID)
	doc := jobDoc{
		ID:          primitive.NewObjectID(),
		Title:       job.Title,
		Description: job.Description,
		Category:    job.Category,
		Location:    job.Location,
		Salary:      job.Salary,
		Skills:      job.Skills,
		Vacancies:   job.Vacancies,
		ProviderID:  pid,
		CreatedAt:   job.CreatedAt,
		UpdatedAt:   job.UpdatedAt,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert job: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *JobRepository) FindByID(ctx context.Context, id, providerID string) (*domain.Job, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrJobNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc jobDoc
	if err := r.col.FindOne(ctx, scoped(oid, providerID)).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrJobNotFound
		}
		return nil, fmt.Errorf("find job: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *JobRepository) List(ctx context.Context, f ports.JobFilter) ([]*domain.Job, error) {
	return r.find(ctx, jobFilter(f), options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
}

func (r *JobRepository) Recent(ctx context.Context, f ports.JobFilter, limit int) ([]*domain.Job, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit))
	return r.find(ctx, jobFilter(f), opts)
}

func (r *JobRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*domain.Job, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find jobs: %w", err)
	}
	var docs []jobDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode jobs: %w", err)
	}

	jobs := make([]*domain.Job, 0, len(docs))
	for i := range docs {
		jobs = append(jobs, docs[i].toDomain())
	}
	return jobs, nil
}

func (r *JobRepository) Count(ctx context.Context, f ports.JobFilter) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, jobFilter(f))
	if err != nil {
		return 0, fmt.Errorf("count jobs: %w", err)
	}
	return n, nil
}

func (r *JobRepository) Update(ctx context.Context, id, providerID string, upd ports.JobUpdate) error {
	oid, ok := objectID(id)
	if !ok {
		return domain.ErrJobNotFound
	}

	set := bson.M{"updatedAt": time.Now().UTC()}
	if upd.Title != nil {
		set["title"] = *upd.Title
	}
	if upd.Description != nil {
		set["description"] = *upd.Description
	}
	if upd.Category != nil {
		set["category"] = *upd.Category
	}
	if upd.Location != nil {
		set["location"] = *upd.Location
	}
	if upd.Salary != nil {
		set["salary"] = *upd.Salary
	}
	if upd.Skills != nil {
		set["skills"] = *upd.Skills
	}
	if upd.Vacancies != nil {
		set["vacancies"] = *upd.Vacancies
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, scoped(oid, providerID), bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update job: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrJobNotFound
	}
	return nil
}

func (r *JobRepository) Delete(ctx context.Context, id string) error {
	_, err := r.DeleteMany(ctx, []string{id})
	return err
}

func (r *JobRepository) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	oids := objectIDs(ids)
	if len(oids) == 0 {
		return 0, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteMany(ctx, bson.M{"_id": in(oids)})
	if err != nil {
		return 0, fmt.Errorf("delete jobs: %w", err)
	}
	return res.DeletedCount, nil
}

var _ ports.JobRepository = (*JobRepository)(nil)
