package recording

import (
	"context"

	"inkpick/internal/logging"
)

// flushBatch caps how many journaled selections are retried per delivery.
const flushBatch = 32

// Tee journals every selection locally and forwards it to a remote
// recorder on a best-effort basis. When the remote is reachable, earlier
// undelivered selections are flushed opportunistically.
type Tee struct {
	journal *Journal
	remote  Recorder
	log     *logging.Logger
}

var _ Recorder = (*Tee)(nil)

// NewTee combines a journal with an optional remote recorder.
func NewTee(journal *Journal, remote Recorder, log *logging.Logger) *Tee {
	if log == nil {
		log = logging.Default()
	}
	return &Tee{
		journal: journal,
		remote:  remote,
		log:     log.WithComponent("recording"),
	}
}

// Record implements Recorder. The journal write happens first; remote
// delivery failures are logged and leave the selection journaled for a
// later flush.
func (t *Tee) Record(ctx context.Context, sel Selection) error {
	if err := t.journal.Record(ctx, sel); err != nil {
		t.log.Warn("journal write failed", "selection", sel.ID, "error", err)
	}
	if t.remote == nil {
		return nil
	}
	if err := t.remote.Record(ctx, sel); err != nil {
		t.log.Debug("collector unreachable, selection journaled",
			"selection", sel.ID, "error", err)
		return nil
	}
	if err := t.journal.MarkDelivered(ctx, sel.ID); err != nil {
		t.log.Warn("mark delivered failed", "selection", sel.ID, "error", err)
	}
	t.flush(ctx)
	return nil
}

// flush retries earlier undelivered selections while the remote is up.
func (t *Tee) flush(ctx context.Context) {
	pending, err := t.journal.Undelivered(ctx, flushBatch)
	if err != nil {
		t.log.Warn("journal read failed", "error", err)
		return
	}
	for _, sel := range pending {
		if err := t.remote.Record(ctx, sel); err != nil {
			return
		}
		if err := t.journal.MarkDelivered(ctx, sel.ID); err != nil {
			t.log.Warn("mark delivered failed", "selection", sel.ID, "error", err)
			return
		}
	}
}

// Close implements Recorder.
func (t *Tee) Close() error {
	var err error
	if t.remote != nil {
		err = t.remote.Close()
	}
	if jerr := t.journal.Close(); err == nil {
		err = jerr
	}
	return err
}
