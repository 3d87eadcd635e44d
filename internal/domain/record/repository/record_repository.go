package repository

import (
	"context"

	"healthcare_booking/internal/domain/record/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	cycleCollection    = "cycle_records"
	templateCollection = "test_templates"
)

type RecordRepository interface {
	InsertCycle(ctx context.Context, record *model.CycleRecord) error
	FindCyclesByUser(ctx context.Context, userID string) ([]model.CycleRecord, error)

	InsertTemplate(ctx context.Context, template *model.TestTemplate) error
	FindTemplates(ctx context.Context, serviceID string) ([]model.TestTemplate, error)
}

type recordRepository struct {
	db *mongo.Database
}

func NewRecordRepository(db *mongo.Database) RecordRepository {
	return &recordRepository{db: db}
}

func (r *recordRepository) InsertCycle(ctx context.Context, record *model.CycleRecord) error {
	result, err := r.db.Collection(cycleCollection).InsertOne(ctx, record)
	if err != nil {
		return err
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		record.ID = oid
	}
	return nil
}

func (r *recordRepository) FindCyclesByUser(ctx context.Context, userID string) ([]model.CycleRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.db.Collection(cycleCollection).Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []model.CycleRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (r *recordRepository) InsertTemplate(ctx context.Context, template *model.TestTemplate) error {
	result, err := r.db.Collection(templateCollection).InsertOne(ctx, template)
	if err != nil {
		return err
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		template.ID = oid
	}
	return nil
}

func (r *recordRepository) FindTemplates(ctx context.Context, serviceID string) ([]model.TestTemplate, error) {
	filter := bson.M{}
	if serviceID != "" {
		filter["service_id"] = serviceID
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.db.Collection(templateCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var templates []model.TestTemplate
	if err := cursor.All(ctx, &templates); err != nil {
		return nil, err
	}
	return templates, nil
}
