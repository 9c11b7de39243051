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

// FormRepo handles MongoDB operations for form templates
type FormRepo interface {
	Create(ctx context.Context, form *model.FormTemplate) (string, error)
	GetByID(ctx context.Context, id string) (*model.FormTemplate, error)
	List(ctx context.Context) ([]*model.FormTemplate, error)
	Update(ctx context.Context, form *model.FormTemplate) error
	Delete(ctx context.Context, id string) error
}

type formRepo struct {
	collection *mongo.Collection
}

// NewFormRepo creates a new form template repository
func NewFormRepo(db *mongo.Database) FormRepo {
	return &formRepo{
		collection: db.Collection("forms"),
	}
}

func (r *formRepo) Create(ctx context.Context, form *model.FormTemplate) (string, error) {
	form.CreatedAt = time.Now()
	form.UpdatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, form)
	if err != nil {
		return "", err
	}

	oid, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", nil
	}
	return oid.Hex(), nil
}

func (r *formRepo) GetByID(ctx context.Context, id string) (*model.FormTemplate, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	var form model.FormTemplate
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&form)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	form.ID = id
	return &form, nil
}

func (r *formRepo) List(ctx context.Context) ([]*model.FormTemplate, error) {
	opts := options.Find().SetSort(bson.D{{Key: "updatedAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var forms []*model.FormTemplate
	if err := cursor.All(ctx, &forms); err != nil {
		return nil, err
	}
	return forms, nil
}

func (r *formRepo) Update(ctx context.Context, form *model.FormTemplate) error {
	oid, err := primitive.ObjectIDFromHex(form.ID)
	if err != nil {
		return err
	}

	form.UpdatedAt = time.Now()
	id := form.ID
	form.ID = "" // keep the stored ObjectID untouched
	_, err = r.collection.ReplaceOne(ctx, bson.M{"_id": oid}, form)
	form.ID = id
	return err
}

func (r *formRepo) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	_, err = r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	return err
}
