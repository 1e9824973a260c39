package arena

import (
	"testing"

	"github.com/ericogr/duelgrid/internal/combat"
)

func isDone(w *ackWait) bool {
	select {
	case <-w.done:
		return true
	default:
		return false
	}
}

func TestAckWaitCompletesWhenSetEmpties(t *testing.T) {
	w := newAckWait(combat.AckCardExecution, 1, []string{"a", "b"})
	if isDone(w) {
		t.Fatalf("wait must not complete with pending connections")
	}
	if !w.acknowledge("a") {
		t.Fatalf("expected member acknowledgment to be accepted")
	}
	if w.acknowledge("a") {
		t.Fatalf("repeat acknowledgment must be rejected")
	}
	if w.acknowledge("outsider") {
		t.Fatalf("acknowledgment from outside the snapshot must be rejected")
	}
	if isDone(w) {
		t.Fatalf("one outstanding connection must keep the wait open")
	}
	if !w.acknowledge("b") {
		t.Fatalf("expected member acknowledgment to be accepted")
	}
	if !isDone(w) {
		t.Fatalf("wait must complete once the set empties")
	}
	if w.outstanding() != 0 {
		t.Fatalf("expected empty set, %d outstanding", w.outstanding())
	}
}

func TestAckWaitEmptySnapshotCompletesImmediately(t *testing.T) {
	w := newAckWait(combat.AckHandDiscard, 1, nil)
	if !isDone(w) {
		t.Fatalf("empty snapshot must complete immediately")
	}
}

func TestAckWaitDropUnblocks(t *testing.T) {
	w := newAckWait(combat.AckCardExecution, 1, []string{"a", "b"})
	if !w.acknowledge("a") {
		t.Fatalf("expected member acknowledgment to be accepted")
	}
	w.drop("b")
	if !isDone(w) {
		t.Fatalf("dropping the last pending connection must complete the wait")
	}
	// Dropping again must not re-close the channel.
	w.drop("b")
}
