package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"lyricsync/internal/apperr"
)

// MongoStore is the alternate FingerprintStore backend. Collection layout
// mirrors SQLiteStore's two-table schema: one document per track in
// `tracks`, one document per hash row in `hashes`.
type MongoStore struct {
	client  *mongo.Client
	tracks  *mongo.Collection
	hashes  *mongo.Collection
}

type trackDoc struct {
	TrackID string         `bson:"track_id"`
	Meta    map[string]any `bson:"meta"`
}

type hashDoc struct {
	Hash32  uint32 `bson:"hash32"`
	TrackID string `bson:"track_id"`
	TFrame  int    `bson:"t_frame"`
}

// OpenMongo connects to uri and selects database dbName. Callers still
// need to call Init before first use.
func OpenMongo(ctx context.Context, uri, dbName string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, apperr.Storage("connecting to mongo", err)
	}
	db := client.Database(dbName)
	return &MongoStore{
		client: client,
		tracks: db.Collection("tracks"),
		hashes: db.Collection("hashes"),
	}, nil
}

func (m *MongoStore) Init(ctx context.Context) error {
	_, err := m.tracks.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "track_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return apperr.Storage("creating tracks index", err)
	}

	_, err = m.hashes.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "hash32", Value: 1}},
	})
	if err != nil {
		return apperr.Storage("creating hashes index", err)
	}
	return nil
}

func (m *MongoStore) UpsertTrack(ctx context.Context, trackID string, meta map[string]any) error {
	_, err := m.tracks.UpdateOne(ctx,
		bson.M{"track_id": trackID},
		bson.M{"$set": trackDoc{TrackID: trackID, Meta: meta}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return apperr.Storage("upserting track", err)
	}
	return nil
}

// ReplaceHashes runs the delete+insert inside a session transaction, so it
// needs a deployment that supports transactions (a replica set). On a
// standalone mongod the transaction fails and the storage error is
// returned with the prior rows left in place; it never runs the
// delete+insert outside a transaction.
func (m *MongoStore) ReplaceHashes(ctx context.Context, trackID string, rows []HashRow) error {
	docs := make([]interface{}, len(rows))
	for i, r := range rows {
		docs[i] = hashDoc{Hash32: r.Hash32, TrackID: trackID, TFrame: r.TFrame}
	}

	replace := func(sessCtx mongo.SessionContext) (interface{}, error) {
		if _, err := m.hashes.DeleteMany(sessCtx, bson.M{"track_id": trackID}); err != nil {
			return nil, err
		}
		if len(docs) > 0 {
			if _, err := m.hashes.InsertMany(sessCtx, docs); err != nil {
				return nil, err
			}
		}
		return nil, nil
	}

	session, err := m.client.StartSession()
	if err != nil {
		return apperr.Storage("starting replace session", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, replace)
	if err != nil {
		return apperr.Storage("replacing hashes", err)
	}
	return nil
}

func (m *MongoStore) AllTracksMeta(ctx context.Context) (map[string]map[string]any, error) {
	cur, err := m.tracks.Find(ctx, bson.M{})
	if err != nil {
		return nil, apperr.Storage("listing tracks", err)
	}
	defer cur.Close(ctx)

	out := make(map[string]map[string]any)
	for cur.Next(ctx) {
		var doc trackDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, apperr.Storage("decoding track", err)
		}
		out[doc.TrackID] = doc.Meta
	}
	return out, cur.Err()
}

func (m *MongoStore) QueryHashes(ctx context.Context, values []uint32) ([]HashRow, error) {
	if len(values) == 0 {
		return nil, nil
	}

	cur, err := m.hashes.Find(ctx, bson.M{"hash32": bson.M{"$in": values}})
	if err != nil {
		return nil, apperr.Storage("querying hashes", err)
	}
	defer cur.Close(ctx)

	var out []HashRow
	for cur.Next(ctx) {
		var doc hashDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, apperr.Storage("decoding hash row", err)
		}
		out = append(out, HashRow{Hash32: doc.Hash32, TrackID: doc.TrackID, TFrame: doc.TFrame})
	}
	return out, cur.Err()
}

func (m *MongoStore) Close() error {
	return m.client.Disconnect(context.Background())
}
