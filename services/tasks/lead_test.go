package tasks

import (
	"context"
	"testing"

	"chalethaven/models"

	"github.com/hibiken/asynq"
)

type recordingEnqueuer struct {
	tasks []*asynq.Task
}

func (r *recordingEnqueuer) EnqueueContext(_ context.Context, t *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	r.tasks = append(r.tasks, t)
	return &asynq.TaskInfo{ID: "1", Type: t.Type()}, nil
}

func TestQueueNotifierEnqueuesLead(t *testing.T) {
	q := &recordingEnqueuer{}
	lead := models.Lead{ID: "lead-1", Name: "Ada", Email: "ada@example.com", Message: "Is February free?", Chalet: "chalet-edelweiss"}

	if err := NewQueueNotifier(q).NotifyLead(context.Background(), lead); err != nil {
		t.Fatal(err)
	}
	if len(q.tasks) != 1 || q.tasks[0].Type() != TypeLeadNotify {
		t.Fatalf("tasks = %v", q.tasks)
	}
	p, err := ParseLeadNotification(q.tasks[0])
	if err != nil {
		t.Fatal(err)
	}
	if p.LeadID != "lead-1" || p.Chalet != "chalet-edelweiss" || p.Message != "Is February free?" {
		t.Fatalf("payload = %+v", p)
	}
}

func TestParseLeadNotificationRejectsGarbage(t *testing.T) {
	if _, err := ParseLeadNotification(asynq.NewTask(TypeLeadNotify, []byte("{"))); err == nil {
		t.Fatal("expected an error")
	}
}
