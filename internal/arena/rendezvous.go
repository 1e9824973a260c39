package arena

import "github.com/ericogr/duelgrid/internal/combat"

// ackWait is one client-completion rendezvous: the set of connections that
// still owe an acknowledgment for the given phase and round generation.
// The wait set is snapshotted when the phase begins; clients connecting
// afterwards are not waited on, and a disconnect removes the connection
// from the set rather than marking it complete. Guarded by the
// orchestrator mutex; done is closed exactly once when the set empties.
type ackWait struct {
	phase   combat.AckPhase
	gen     uint64
	pending map[string]struct{}
	done    chan struct{}
	closed  bool
}

func newAckWait(phase combat.AckPhase, gen uint64, clientIDs []string) *ackWait {
	w := &ackWait{
		phase:   phase,
		gen:     gen,
		pending: make(map[string]struct{}, len(clientIDs)),
		done:    make(chan struct{}),
	}
	for _, id := range clientIDs {
		w.pending[id] = struct{}{}
	}
	if len(w.pending) == 0 {
		w.close()
	}
	return w
}

func (w *ackWait) close() {
	if !w.closed {
		w.closed = true
		close(w.done)
	}
}

// acknowledge marks one connection complete. It reports whether the
// connection was actually part of the wait set.
func (w *ackWait) acknowledge(connID string) bool {
	if _, ok := w.pending[connID]; !ok {
		return false
	}
	delete(w.pending, connID)
	if len(w.pending) == 0 {
		w.close()
	}
	return true
}

// drop excludes a disconnected client so it cannot deadlock the round.
func (w *ackWait) drop(connID string) {
	delete(w.pending, connID)
	if len(w.pending) == 0 {
		w.close()
	}
}

func (w *ackWait) outstanding() int { return len(w.pending) }
