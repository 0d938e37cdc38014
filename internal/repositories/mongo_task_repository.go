package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"taskmind.com/taskmind/pkg/constants"
	"taskmind.com/taskmind/pkg/exceptions"
	model "taskmind.com/taskmind/pkg/models"
)

const (
	tasksCollection = "tasks"
	usersCollection = "users"
)

type MongoTaskRepository struct {
	collection *mongo.Collection
}

func NewMongoTaskRepository(db *mongo.Database) *MongoTaskRepository {
	return &MongoTaskRepository{collection: db.Collection(tasksCollection)}
}

func (r *MongoTaskRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "assigned_to", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("create task indexes: %w", err)
	}
	return nil
}

func (r *MongoTaskRepository) Create(ctx context.Context, task *model.Task) error {
	now := time.Now().UTC()
	if task.ID == "" {
		task.ID = newID()
	}
	task.Version = 1
	task.CreatedAt = now
	task.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, task); err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

func (r *MongoTaskRepository) FindByID(ctx context.Context, id string) (*model.Task, error) {
	var task model.Task
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&task)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, exceptions.ErrTaskNotFound
		}
		return nil, fmt.Errorf("find task %s: %w", id, err)
	}
	return &task, nil
}

func taskFilterDocument(filter TaskFilter) bson.M {
	doc := bson.M{}
	if filter.AssignedTo != "" {
		doc["assigned_to"] = filter.AssignedTo
	}
	if filter.Status != "" {
		doc["status"] = filter.Status
	}
	return doc
}

func taskSortDocument(order TaskOrder) bson.D {
	dir := -1
	if order == OldestFirst {
		dir = 1
	}
	return bson.D{{Key: "created_at", Value: dir}, {Key: "_id", Value: dir}}
}

func (r *MongoTaskRepository) List(ctx context.Context, filter TaskFilter) ([]model.Task, error) {
	opts := options.Find().SetSort(taskSortDocument(filter.Order))

	cursor, err := r.collection.Find(ctx, taskFilterDocument(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer cursor.Close(ctx)

	tasks := []model.Task{}
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, fmt.Errorf("decode tasks: %w", err)
	}
	return tasks, nil
}

func (r *MongoTaskRepository) Update(ctx context.Context, task *model.Task) error {
	current := task.Version
	task.Version = current + 1
	task.UpdatedAt = time.Now().UTC()

	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": task.ID, "version": current}, task)
	if err != nil {
		task.Version = current
		return fmt.Errorf("update task %s: %w", task.ID, err)
	}
	if res.MatchedCount == 0 {
		task.Version = current
		return exceptions.ErrOptimisticLock
	}
	return nil
}

func (r *MongoTaskRepository) Delete(ctx context.Context, id string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete task %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return exceptions.ErrTaskNotFound
	}
	return nil
}

func (r *MongoTaskRepository) UnassignAll(ctx context.Context, userID string) (int64, error) {
	res, err := r.collection.UpdateMany(ctx,
		bson.M{"assigned_to": userID},
		bson.M{
			"$set": bson.M{"assigned_to": nil, "updated_at": time.Now().UTC()},
			"$inc": bson.M{"version": 1},
		},
	)
	if err != nil {
		return 0, fmt.Errorf("unassign tasks of %s: %w", userID, err)
	}
	return res.ModifiedCount, nil
}

func (r *MongoTaskRepository) StatusCountsByAssignee(ctx context.Context) ([]AssigneeStatusCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"assigned_to": bson.M{"$ne": nil}}}},
		{{Key: "$group", Value: bson.M{
			"_id":   bson.M{"assigned_to": "$assigned_to", "status": "$status"},
			"count": bson.M{"$sum": 1},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("count tasks by assignee: %w", err)
	}
	defer cursor.Close(ctx)

	var raw []struct {
		ID struct {
			AssignedTo string               `bson:"assigned_to"`
			Status     constants.TaskStatus `bson:"status"`
		} `bson:"_id"`
		Count int64 `bson:"count"`
	}
	if err := cursor.All(ctx, &raw); err != nil {
		return nil, fmt.Errorf("decode task counts: %w", err)
	}

	rows := make([]AssigneeStatusCount, 0, len(raw))
	for _, item := range raw {
		rows = append(rows, AssigneeStatusCount{AssignedTo: item.ID.AssignedTo, Status: item.ID.Status, Count: item.Count})
	}
	return rows, nil
}
