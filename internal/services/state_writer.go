package services

import (
	"sync"

	"insurance-service/internal/engine"
)

// StateWriter serializes an engine mutation together with its persistence.
// Holding one lock across the engine call and the database commit keeps
// snapshot rows (treasury, id counters) committing in the same order the
// engine applied them, so the last committed row is always the newest. When
// persistence fails the engine is rolled back to the pre-call snapshot, so
// memory never carries a record the database rejected.
type StateWriter struct {
	mu  sync.Mutex
	eng *engine.Engine
}

func NewStateWriter(eng *engine.Engine) *StateWriter {
	return &StateWriter{eng: eng}
}

// Commit runs apply and then persist under the writer lock. An apply error
// is returned as-is (the engine mutated nothing); a persist error restores
// the engine to the state captured before apply ran.
func (w *StateWriter) Commit(apply func() error, persist func() error) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	prev := w.eng.Export()
	if err := apply(); err != nil {
		return err
	}
	if err := persist(); err != nil {
		w.eng.Restore(prev)
		return err
	}
	return nil
}
