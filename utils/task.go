package utils

import (
	"time"

	"github.com/RichardKnop/machinery/v1/backends/result"
	"github.com/RichardKnop/machinery/v1/tasks"

	"github.com/bitmark-inc/recurrence-api/consts"
	"github.com/bitmark-inc/recurrence-api/schema"
)

// TaskSender is the part of machinery.Server used to enqueue background tasks.
type TaskSender interface {
	SendTask(signature *tasks.Signature) (*result.AsyncResult, error)
}

// ThresholdAlertSignature builds the task recording an emergency decision.
func ThresholdAlertSignature(alert schema.ThresholdAlert) *tasks.Signature {
	return &tasks.Signature{
		Name:       consts.ThresholdAlertTask,
		RoutingKey: consts.BackgroundQueue,
		Args: []tasks.Arg{
			{Type: "string", Value: alert.UserID},
			{Type: "string", Value: alert.BodyPart},
			{Type: "string", Value: alert.Condition},
			{Type: "int64", Value: int64(alert.Weekly)},
			{Type: "int64", Value: int64(alert.ThresholdLimit)},
			{Type: "string", Value: alert.CreatedAt.UTC().Format(time.RFC3339Nano)},
		},
	}
}

// TriggerThresholdAlert enqueues the alert task. The task is fire and forget;
// the caller only learns whether the broker accepted it.
func TriggerThresholdAlert(sender TaskSender, alert schema.ThresholdAlert) error {
	_, err := sender.SendTask(ThresholdAlertSignature(alert))
	return err
}
