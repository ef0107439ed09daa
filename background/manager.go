package background

import (
	"context"
	"errors"
	"time"

	"github.com/RichardKnop/machinery/v1"
	"go.uber.org/zap"

	"github.com/bitmark-inc/recurrence-api/consts"
	"github.com/bitmark-inc/recurrence-api/schema"
	"github.com/bitmark-inc/recurrence-api/store"
)

const workerConcurrency = 5

// BackgroundManager runs the machinery worker of the recurrence api
type BackgroundManager struct {
	alerts store.ThresholdAlert

	taskServer *machinery.Server

	worker *machinery.Worker

	logger *zap.Logger
}

func New(alerts store.ThresholdAlert, taskServer *machinery.Server, logger *zap.Logger) *BackgroundManager {
	return &BackgroundManager{
		alerts:     alerts,
		taskServer: taskServer,
		logger:     logger,
	}
}

// RegisterTasks registers every task handled by the worker
func (m *BackgroundManager) RegisterTasks() error {
	return m.taskServer.RegisterTasks(map[string]interface{}{
		consts.ThresholdAlertTask: m.RecordThresholdAlert,
	})
}

// RecordThresholdAlert is a background job to persist an emergency decision
// so that it can be followed up later
func (m *BackgroundManager) RecordThresholdAlert(userID, bodyPart, condition string, weekly, limit int64, createdAt string) error {
	ts, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		m.logger.Error("invalid alert time", zap.String("created_at", createdAt), zap.Error(err))
		return err
	}

	alert := schema.ThresholdAlert{
		UserID:         userID,
		BodyPart:       schema.NormalizeKey(bodyPart),
		Condition:      schema.NormalizeKey(condition),
		Weekly:         int(weekly),
		ThresholdLimit: int(limit),
		CreatedAt:      ts.UTC(),
	}

	if err := m.alerts.SaveThresholdAlert(context.Background(), &alert); err != nil {
		m.logger.Error("fail to save threshold alert", zap.String("user_id", userID), zap.Error(err))
		return err
	}

	m.logger.Info("threshold alert recorded",
		zap.String("user_id", userID),
		zap.String("body_part", alert.BodyPart),
		zap.String("condition", alert.Condition),
		zap.Int64("weekly", weekly),
		zap.Int64("limit", limit))
	return nil
}

// Run spawn workers to execute background jobs
func (m *BackgroundManager) Run() error {
	if m.worker != nil {
		return errors.New("background worker has started")
	}
	m.worker = m.taskServer.NewCustomQueueWorker("recurrence-worker", workerConcurrency, consts.BackgroundQueue)
	return m.worker.Launch()
}

// Quit stops the running worker
func (m *BackgroundManager) Quit() {
	if m.worker != nil {
		m.worker.Quit()
	}
}
