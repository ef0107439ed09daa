package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bitmark-inc/recurrence-api/schema"
)

const (
	DefaultSymptomListLimit = 50
	MaxSymptomListLimit     = 500
)

type SymptomReport interface {
	SaveSymptomEvent(ctx context.Context, event *schema.SymptomEvent) error
	ListSymptomEvents(ctx context.Context, userID string, before time.Time, limit int64) ([]schema.SymptomEvent, error)
	SymptomEventsSince(ctx context.Context, userID string, since time.Time) ([]schema.SymptomEvent, error)
}

// SaveSymptomEvent stores a symptom event. An id and a timestamp are
// assigned when the caller leaves them empty.
func (m *mongoDB) SaveSymptomEvent(ctx context.Context, event *schema.SymptomEvent) error {
	if event == nil || strings.TrimSpace(event.UserID) == "" {
		return errors.New("empty user id")
	}
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	event.Timestamp = event.Timestamp.UTC()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	c := m.client.Database(m.database).Collection(schema.SymptomReportCollection)
	if _, err := c.InsertOne(ctx, event); err != nil {
		if isDuplicateKey(err) {
			log.WithField("prefix", mongoLogPrefix).Debugf("symptom event %s already stored", event.ID)
			return nil
		}
		log.WithField("prefix", mongoLogPrefix).WithError(err).Error("fail to insert symptom event")
		return err
	}
	return nil
}

// ListSymptomEvents returns the events of a user strictly before the given
// time, newest first.
func (m *mongoDB) ListSymptomEvents(ctx context.Context, userID string, before time.Time, limit int64) ([]schema.SymptomEvent, error) {
	if limit <= 0 {
		limit = DefaultSymptomListLimit
	}
	if limit > MaxSymptomListLimit {
		limit = MaxSymptomListLimit
	}

	filter := bson.M{
		"user_id": userID,
		"ts":      bson.M{"$lt": before.UTC()},
	}
	opts := options.Find().SetSort(bson.M{"ts": -1}).SetLimit(limit)
	return m.findSymptomEvents(ctx, filter, opts)
}

// SymptomEventsSince returns every event of a user at or after the given time,
// oldest first.
func (m *mongoDB) SymptomEventsSince(ctx context.Context, userID string, since time.Time) ([]schema.SymptomEvent, error) {
	filter := bson.M{
		"user_id": userID,
		"ts":      bson.M{"$gte": since.UTC()},
	}
	opts := options.Find().SetSort(bson.M{"ts": 1})
	return m.findSymptomEvents(ctx, filter, opts)
}

func (m *mongoDB) findSymptomEvents(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]schema.SymptomEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	c := m.client.Database(m.database).Collection(schema.SymptomReportCollection)
	cur, err := c.Find(ctx, filter, opts)
	if err != nil {
		log.WithField("prefix", mongoLogPrefix).WithError(err).Error("fail to query symptom events")
		return nil, err
	}

	events := make([]schema.SymptomEvent, 0)
	if err := cur.All(ctx, &events); err != nil {
		log.WithField("prefix", mongoLogPrefix).WithError(err).Error("fail to decode symptom events")
		return nil, err
	}
	return events, nil
}
