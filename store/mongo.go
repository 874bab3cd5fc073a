package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Mongo implements Store on top of a mongo database.
type Mongo struct {
	db *mongo.Database
}

func NewMongo(db *mongo.Database) *Mongo {
	return &Mongo{db: db}
}

// toDoc normalizes an arbitrary document into a bson.M with the given id.
// Nested documents are converted from bson.D to bson.M so dotted-path
// operations see maps all the way down.
func toDoc(doc any, id string) (bson.M, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document: %w", err)
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("failed to normalize document: %w", err)
	}
	for k, v := range m {
		m[k] = normalizeValue(v)
	}
	if id != "" {
		m["_id"] = id
	}
	return m, nil
}

func normalizeValue(v any) any {
	switch val := v.(type) {
	case bson.D:
		m := bson.M{}
		for _, e := range val {
			m[e.Key] = normalizeValue(e.Value)
		}
		return m
	case bson.M:
		for k, inner := range val {
			val[k] = normalizeValue(inner)
		}
		return val
	case bson.A:
		out := make(bson.A, len(val))
		for i, inner := range val {
			out[i] = normalizeValue(inner)
		}
		return out
	default:
		return v
	}
}

func (s *Mongo) Get(ctx context.Context, collection, id string, out any) error {
	err := s.db.Collection(collection).FindOne(ctx, bson.M{"_id": id}).Decode(out)
	if err == mongo.ErrNoDocuments {
		return ErrNotFound
	}
	return err
}

func (s *Mongo) Insert(ctx context.Context, collection, id string, doc any) error {
	m, err := toDoc(doc, id)
	if err != nil {
		return err
	}
	_, err = s.db.Collection(collection).InsertOne(ctx, m)
	if mongo.IsDuplicateKeyError(err) {
		return ErrExists
	}
	return err
}

func (s *Mongo) Put(ctx context.Context, collection, id string, doc any) error {
	m, err := toDoc(doc, id)
	if err != nil {
		return err
	}
	opts := options.Replace().SetUpsert(true)
	_, err = s.db.Collection(collection).ReplaceOne(ctx, bson.M{"_id": id}, m, opts)
	return err
}

func (s *Mongo) Create(ctx context.Context, collection string, doc any) (string, error) {
	id := primitive.NewObjectID().Hex()
	m, err := toDoc(doc, id)
	if err != nil {
		return "", err
	}
	if _, err := s.db.Collection(collection).InsertOne(ctx, m); err != nil {
		return "", err
	}
	return id, nil
}

// buildUpdate translates an Update into either a classic update document or,
// when zero-clamped increments are present, an aggregation-pipeline update
// ($max cannot be expressed as a plain $inc).
func buildUpdate(upd Update) any {
	if len(upd.IncFloor) == 0 {
		u := bson.M{}
		if len(upd.Set) > 0 {
			u["$set"] = bson.M(upd.Set)
		}
		if len(upd.Inc) > 0 {
			inc := bson.M{}
			for k, v := range upd.Inc {
				inc[k] = v
			}
			u["$inc"] = inc
		}
		return u
	}

	fields := bson.M{}
	for k, v := range upd.Set {
		fields[k] = bson.M{"$literal": v}
	}
	for k, v := range upd.Inc {
		fields[k] = bson.M{"$add": bson.A{bson.M{"$ifNull": bson.A{"$" + k, 0}}, v}}
	}
	for k, v := range upd.IncFloor {
		fields[k] = bson.M{"$max": bson.A{
			bson.M{"$add": bson.A{bson.M{"$ifNull": bson.A{"$" + k, 0}}, v}},
			0,
		}}
	}
	return mongo.Pipeline{bson.D{{Key: "$set", Value: fields}}}
}

func (s *Mongo) Update(ctx context.Context, collection, id string, upd Update) error {
	if upd.empty() {
		return nil
	}
	res, err := s.db.Collection(collection).UpdateOne(ctx, bson.M{"_id": id}, buildUpdate(upd))
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Mongo) UpdateMany(ctx context.Context, collection string, filters []Filter, upd Update) (int64, error) {
	if upd.empty() {
		return 0, nil
	}
	res, err := s.db.Collection(collection).UpdateMany(ctx, filterDoc(filters), buildUpdate(upd))
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (s *Mongo) Delete(ctx context.Context, collection, id string) error {
	res, err := s.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Mongo) DeleteMany(ctx context.Context, collection string, filters []Filter) (int64, error) {
	res, err := s.db.Collection(collection).DeleteMany(ctx, filterDoc(filters))
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (s *Mongo) Query(ctx context.Context, collection string, q Query, out any) error {
	opts := options.Find()
	if q.OrderBy != "" {
		dir := 1
		if q.Desc {
			dir = -1
		}
		opts.SetSort(bson.D{{Key: q.OrderBy, Value: dir}})
	}
	if q.Limit > 0 {
		opts.SetLimit(q.Limit)
	}

	cursor, err := s.db.Collection(collection).Find(ctx, filterDoc(q.Filters), opts)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	return cursor.All(ctx, out)
}

func (s *Mongo) Count(ctx context.Context, collection string, filters ...Filter) (int64, error) {
	return s.db.Collection(collection).CountDocuments(ctx, filterDoc(filters))
}

func filterDoc(filters []Filter) bson.M {
	m := bson.M{}
	for _, f := range filters {
		m[f.Field] = f.Value
	}
	return m
}
