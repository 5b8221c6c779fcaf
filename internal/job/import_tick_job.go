package job

import (
	"context"

	"github.com/xxxsen/msgvault/internal/queue"
)

// ImportTickJob re-drives the import queue on a schedule. The async dispatch
// after an upload handles the common case; the tick picks up batches left
// behind after a crash or an expired lease.
type ImportTickJob struct {
	worker *queue.Worker
}

func NewImportTickJob(worker *queue.Worker) *ImportTickJob {
	return &ImportTickJob{worker: worker}
}

func (j *ImportTickJob) Name() string {
	return "import_tick"
}

func (j *ImportTickJob) Run(ctx context.Context) error {
	if j.worker == nil {
		return nil
	}
	pending, err := j.worker.Pending(ctx)
	if err != nil {
		return err
	}
	if pending == 0 {
		return nil
	}
	return j.worker.Drain(ctx)
}
