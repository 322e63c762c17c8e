package notify

import (
	"context"

	"github.com/rs/zerolog"

	"ehsas/internal/queue"
)

// Worker delivers queued mail jobs. Failed deliveries are logged and dropped;
// the registry never waits on mail.
type Worker struct {
	q      queue.Queue
	mailer Mailer
	log    zerolog.Logger
}

func NewWorker(q queue.Queue, mailer Mailer, log zerolog.Logger) *Worker {
	return &Worker{q: q, mailer: mailer, log: log}
}

// Run consumes until ctx ends and returns the number of delivered messages.
func (w *Worker) Run(ctx context.Context) (int, error) {
	jobs, err := w.q.Consume(ctx)
	if err != nil {
		return 0, err
	}
	delivered := 0
	for job := range jobs {
		msg, err := DecodeJob(job)
		if err != nil {
			w.log.Warn().Err(err).Str("type", job.Type).Msg("dropping undecodable job")
			continue
		}
		if err := w.mailer.Send(ctx, msg); err != nil {
			w.log.Error().Err(err).Strs("to", msg.To).Str("subject", msg.Subject).Msg("mail delivery failed")
			continue
		}
		delivered++
		w.log.Debug().Strs("to", msg.To).Str("subject", msg.Subject).Msg("mail delivered")
	}
	return delivered, nil
}
