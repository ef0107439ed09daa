package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bitmark-inc/recurrence-api/schema"
)

type ThresholdAlert interface {
	SaveThresholdAlert(ctx context.Context, alert *schema.ThresholdAlert) error
	ListThresholdAlerts(ctx context.Context, userID string, limit int64) ([]schema.ThresholdAlert, error)
}

func (m *mongoDB) SaveThresholdAlert(ctx context.Context, alert *schema.ThresholdAlert) error {
	if alert.ID == "" {
		alert.ID = uuid.New().String()
	}
	if alert.CreatedAt.IsZero() {
		alert.CreatedAt = time.Now().UTC()
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	c := m.client.Database(m.database).Collection(schema.ThresholdAlertCollection)
	if _, err := c.InsertOne(ctx, alert); err != nil {
		if isDuplicateKey(err) {
			return nil
		}
		log.WithField("prefix", mongoLogPrefix).WithError(err).Error("fail to insert threshold alert")
		return err
	}
	return nil
}

// ListThresholdAlerts returns the latest alerts of a user, newest first.
func (m *mongoDB) ListThresholdAlerts(ctx context.Context, userID string, limit int64) ([]schema.ThresholdAlert, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.M{"created_at": -1})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	c := m.client.Database(m.database).Collection(schema.ThresholdAlertCollection)
	cur, err := c.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}

	alerts := make([]schema.ThresholdAlert, 0)
	if err := cur.All(ctx, &alerts); err != nil {
		return nil, err
	}
	return alerts, nil
}
