package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"anamnesis/internal/model"
)

// IntakeFilter narrows intake listings
type IntakeFilter struct {
	FormID string
	Status model.IntakeStatus
}

// IntakeRepo handles MongoDB operations for submitted intakes
type IntakeRepo interface {
	Create(ctx context.Context, intake *model.Intake) (string, error)
	GetByID(ctx context.Context, id string) (*model.Intake, error)
	List(ctx context.Context, filter IntakeFilter) ([]*model.Intake, error)
	UpdateStatus(ctx context.Context, id string, status model.IntakeStatus) error
	AddNote(ctx context.Context, id string, note model.ReviewNote) error
	SetSummary(ctx context.Context, id string, summary string, status model.SummaryStatus) error
}

type intakeRepo struct {
	collection *mongo.Collection
}

// NewIntakeRepo creates a new intake repository
func NewIntakeRepo(db *mongo.Database) IntakeRepo {
	return &intakeRepo{
		collection: db.Collection("intakes"),
	}
}

func (r *intakeRepo) Create(ctx context.Context, intake *model.Intake) (string, error) {
	if intake.SubmittedAt.IsZero() {
		intake.SubmittedAt = time.Now()
	}
	intake.UpdatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, intake)
	if err != nil {
		return "", err
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		intake.ID = oid.Hex()
	}
	return intake.ID, nil
}

func (r *intakeRepo) GetByID(ctx context.Context, id string) (*model.Intake, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	var intake model.Intake
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&intake)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	intake.ID = id
	return &intake, nil
}

func (r *intakeRepo) List(ctx context.Context, filter IntakeFilter) ([]*model.Intake, error) {
	query := bson.M{}
	if filter.FormID != "" {
		query["formId"] = filter.FormID
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}

	opts := options.Find().SetSort(bson.D{{Key: "submittedAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var intakes []*model.Intake
	if err := cursor.All(ctx, &intakes); err != nil {
		return nil, err
	}
	return intakes, nil
}

func (r *intakeRepo) UpdateStatus(ctx context.Context, id string, status model.IntakeStatus) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	update := bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now()}}
	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": oid}, update)
	return err
}

func (r *intakeRepo) AddNote(ctx context.Context, id string, note model.ReviewNote) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	update := bson.M{
		"$push": bson.M{"notes": note},
		"$set":  bson.M{"updatedAt": time.Now()},
	}
	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": oid}, update)
	return err
}

func (r *intakeRepo) SetSummary(ctx context.Context, id string, summary string, status model.SummaryStatus) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	update := bson.M{"$set": bson.M{
		"summary":       summary,
		"summaryStatus": status,
		"updatedAt":     time.Now(),
	}}
	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": oid}, update)
	return err
}
