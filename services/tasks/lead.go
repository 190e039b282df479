package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"chalethaven/models"

	"github.com/hibiken/asynq"
)

const TypeLeadNotify = "lead:notify"

// NewLeadNotificationTask builds the task that tells the owner about a new enquiry.
func NewLeadNotificationTask(payload models.LeadNotificationPayload) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeLeadNotify, b)
	opts := []asynq.Option{
		asynq.MaxRetry(3),
		asynq.Timeout(30 * time.Second),
		asynq.TaskID("lead:" + payload.LeadID),
	}
	return task, opts, nil
}

// ParseLeadNotification decodes a task built by NewLeadNotificationTask.
func ParseLeadNotification(t *asynq.Task) (models.LeadNotificationPayload, error) {
	var p models.LeadNotificationPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return p, fmt.Errorf("invalid lead payload: %w", err)
	}
	return p, nil
}

// Enqueuer is the part of *asynq.Client the notifier uses.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// QueueNotifier hands new leads to the background worker.
type QueueNotifier struct {
	client Enqueuer
}

func NewQueueNotifier(client Enqueuer) *QueueNotifier {
	return &QueueNotifier{client: client}
}

func (n *QueueNotifier) NotifyLead(ctx context.Context, lead models.Lead) error {
	task, opts, err := NewLeadNotificationTask(models.LeadNotificationPayload{
		LeadID:  lead.ID,
		Name:    lead.Name,
		Email:   lead.Email,
		Phone:   lead.Phone,
		Subject: lead.Subject,
		Message: lead.Message,
		Chalet:  lead.Chalet,
	})
	if err != nil {
		return err
	}
	if _, err := n.client.EnqueueContext(ctx, task, opts...); err != nil {
		return fmt.Errorf("failed to enqueue lead notification: %w", err)
	}
	return nil
}
