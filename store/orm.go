package store

import (
	"context"
	"time"

	"github.com/jinzhu/gorm"
	log "github.com/sirupsen/logrus"

	"github.com/bitmark-inc/recurrence-api/schema"
)

const ormLogPrefix = "orm"

const upsertWatermarkSQL = `INSERT INTO threshold_resets (user_id, body_part, condition, reset_at, expires_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT (user_id, body_part, condition)
DO UPDATE SET reset_at = EXCLUDED.reset_at, expires_at = EXCLUDED.expires_at, updated_at = EXCLUDED.updated_at`

// ORMWatermarkStore persists watermarks in the threshold_resets table.
type ORMWatermarkStore struct {
	ormDB *gorm.DB
}

func NewORMWatermarkStore(ormDB *gorm.DB) *ORMWatermarkStore {
	return &ORMWatermarkStore{ormDB: ormDB}
}

// Ping is to check the storage health status
func (s *ORMWatermarkStore) Ping() error {
	return s.ormDB.DB().Ping()
}

func (s *ORMWatermarkStore) GetWatermark(_ context.Context, userID, bodyPart, condition string) (*schema.ResetWatermark, error) {
	key := newWatermarkKey(userID, bodyPart, condition)

	var w schema.ResetWatermark
	err := s.ormDB.
		Where("user_id = ? AND body_part = ? AND condition = ?", key.userID, key.bodyPart, key.condition).
		Take(&w).Error
	if err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, nil
		}
		log.WithField("prefix", ormLogPrefix).WithError(err).Error("fail to query watermark")
		return nil, unavailable(err)
	}
	return &w, nil
}

func (s *ORMWatermarkStore) SetWatermark(_ context.Context, userID, bodyPart, condition string, resetAt time.Time, expiresAt *time.Time) error {
	key := newWatermarkKey(userID, bodyPart, condition)

	var expires interface{}
	if expiresAt != nil {
		expires = expiresAt.UTC()
	}

	err := s.ormDB.Exec(upsertWatermarkSQL,
		key.userID, key.bodyPart, key.condition, resetAt.UTC(), expires, time.Now().UTC()).Error
	if err != nil {
		log.WithField("prefix", ormLogPrefix).WithError(err).Error("fail to upsert watermark")
		return unavailable(err)
	}
	return nil
}
