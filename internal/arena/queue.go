package arena

import (
	"sort"

	"github.com/ericogr/duelgrid/internal/combat"
)

// playQueue is the single global card-play queue covering every active
// fight. Plays accumulate during planning and are drained in one ordered
// pass when the readiness barrier trips. Not self-locking: the orchestrator
// mutex guards it.
type playQueue struct {
	plays   []combat.QueuedPlay
	nextSeq uint64
}

func newPlayQueue() *playQueue {
	return &playQueue{}
}

func (q *playQueue) add(play combat.QueuedPlay) combat.QueuedPlay {
	q.nextSeq++
	play.Seq = q.nextSeq
	q.plays = append(q.plays, play)
	return play
}

// drainSorted removes and returns every queued play in global initiative
// order: speed descending, then submission order, then actor ID as a stable
// tiebreak. "Fastest acts first" holds across fights, not merely within one.
func (q *playQueue) drainSorted() []combat.QueuedPlay {
	out := q.plays
	q.plays = nil
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Speed != out[j].Speed {
			return out[i].Speed > out[j].Speed
		}
		if out[i].Seq != out[j].Seq {
			return out[i].Seq < out[j].Seq
		}
		return out[i].ActorID < out[j].ActorID
	})
	return out
}

// discardForFight drops queued-but-unexecuted plays belonging to a retired
// fight so they are never executed against an invalid target.
func (q *playQueue) discardForFight(fightID uint) int {
	kept := q.plays[:0]
	dropped := 0
	for _, p := range q.plays {
		if p.FightID == fightID {
			dropped++
			continue
		}
		kept = append(kept, p)
	}
	q.plays = kept
	return dropped
}

func (q *playQueue) size() int { return len(q.plays) }
