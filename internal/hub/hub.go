package hub

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/ericogr/duelgrid/internal/combat"
	"github.com/ericogr/duelgrid/internal/constants"
	"github.com/ericogr/duelgrid/internal/logging"
)

const writeWait = 10 * time.Second

// CommandSink receives the parsed inbound operations. The orchestrator
// implements it; tests substitute a recorder.
type CommandSink interface {
	RequestEndTurn(combatantID uint) error
	QueuePlay(actorID, targetID uint, cardName string) error
	AcknowledgePhase(connID string, phase combat.AckPhase, gen uint64) error
	SceneReady()
	ClientDisconnected(connID string)
}

// client is one connected remote client. Writes are serialized by the
// client's own mutex so broadcasts from the round pipeline never interleave
// with each other mid-frame.
type client struct {
	id   string
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Hub fans authoritative notifications out to every connected client of one
// combat session and routes their inbound messages to the command sink.
// It implements both arena.Notifier and arena.ClientRoster.
type Hub struct {
	mu      sync.Mutex
	sink    CommandSink
	clients map[string]*client
}

func New() *Hub {
	return &Hub{clients: make(map[string]*client)}
}

// Bind attaches the command sink. Done after construction because the hub
// and the orchestrator reference each other.
func (h *Hub) Bind(sink CommandSink) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sink = sink
}

// HandleConnection registers a websocket connection and pumps its inbound
// messages until it closes. It blocks for the connection's lifetime.
func (h *Hub) HandleConnection(conn *websocket.Conn) {
	c := &client{id: uuid.NewString(), conn: conn}
	h.mu.Lock()
	h.clients[c.id] = c
	sink := h.sink
	h.mu.Unlock()
	logging.Info("client connected", logging.Fields{constants.LogFieldConnID: c.id})

	defer func() {
		h.mu.Lock()
		delete(h.clients, c.id)
		h.mu.Unlock()
		if sink != nil {
			sink.ClientDisconnected(c.id)
		}
		_ = conn.Close()
		logging.Info("client disconnected", logging.Fields{constants.LogFieldConnID: c.id})
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		h.dispatch(c.id, data, sink)
	}
}

func (h *Hub) dispatch(connID string, data []byte, sink CommandSink) {
	if sink == nil {
		return
	}
	var msg inboundMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		logging.Warn("unparseable client message", logging.Fields{constants.LogFieldConnID: connID})
		return
	}
	var err error
	switch msg.Type {
	case constants.MsgEndTurn:
		err = sink.RequestEndTurn(msg.CombatantID)
	case constants.MsgQueuePlay:
		err = sink.QueuePlay(msg.ActorID, msg.TargetID, msg.Card)
	case constants.MsgAckPhase:
		err = sink.AcknowledgePhase(connID, combat.AckPhase(msg.Phase), msg.Generation)
	case constants.MsgSceneReady:
		sink.SceneReady()
	default:
		logging.Warn("unknown client message type", logging.Fields{
			constants.LogFieldConnID: connID,
			"type":                   msg.Type,
		})
		return
	}
	if err != nil {
		// Protocol violations are rejected and logged, never fatal.
		logging.Warn("client request rejected", logging.Fields{
			constants.LogFieldConnID: connID,
			"type":                   msg.Type,
			"reason":                 err.Error(),
		})
	}
}

// ActiveClientIDs snapshots the currently connected client identities for
// the rendezvous wait sets.
func (h *Hub) ActiveClientIDs() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	ids := make([]string, 0, len(h.clients))
	for id := range h.clients {
		ids = append(ids, id)
	}
	return ids
}

func (h *Hub) broadcast(msgType string, payload interface{}) {
	data, err := json.Marshal(outboundMessage{Type: msgType, Payload: payload})
	if err != nil {
		logging.Error("failed to encode broadcast", err, logging.Fields{"type": msgType})
		return
	}
	h.mu.Lock()
	targets := make([]*client, 0, len(h.clients))
	for _, c := range h.clients {
		targets = append(targets, c)
	}
	h.mu.Unlock()
	for _, c := range targets {
		if err := c.write(data); err != nil {
			logging.Warn("broadcast write failed", logging.Fields{
				constants.LogFieldConnID: c.id,
				"type":                   msgType,
			})
		}
	}
}

func (h *Hub) NotifyRoundStarted(fightID, leftID, rightID uint, round int) {
	h.broadcast(constants.MsgRoundStarted, roundStartedPayload{
		FightID: fightID, LeftID: leftID, RightID: rightID, Round: round,
	})
}

func (h *Hub) NotifyWaitingState(combatantID uint, waiting bool) {
	h.broadcast(constants.MsgWaitingState, waitingStatePayload{
		CombatantID: combatantID, Waiting: waiting,
	})
}

func (h *Hub) NotifyPhaseTransition(phase combat.TransitionPhase, gen uint64) {
	h.broadcast(constants.MsgPhaseTransition, phaseTransitionPayload{Phase: phase, Generation: gen})
}

func (h *Hub) NotifyFightEnded(fightID, winnerID uint) {
	h.broadcast(constants.MsgFightEnded, fightEndedPayload{FightID: fightID, WinnerID: winnerID})
}

func (h *Hub) NotifyCombatConcluded(summary combat.CombatSummary) {
	h.broadcast(constants.MsgCombatConcluded, combatConcludedPayload{Summary: summary})
}
