package constants

// Centralized constants for env keys, headers, routes and wire message types.
const (
	// Environment variable keys
	EnvConfig        = "DUELGRID_CONFIG"
	EnvDB            = "DUELGRID_DB"
	EnvSessionSecret = "SESSION_SECRET"

	// HTTP headers and content types
	HeaderAuthorization = "Authorization"
	HeaderContentType   = "Content-Type"

	ContentTypeJSON = "application/json"

	// Authorization prefix
	BearerPrefix = "Bearer "
)

// Routes used by the backend router
const (
	RouteAPIPrefix     = "/api"
	RouteCards         = "/cards"
	RouteSessions      = "/sessions"
	RouteSessionByCode = "/sessions/:sessionCode"
	RouteSessionJoin   = "/sessions/:sessionCode/join"
	RouteSessionStart  = "/sessions/:sessionCode/start"
	RouteSessionSocket = "/ws/:sessionCode"
	RouteLeaderboard   = "/leaderboard"
	RouteVersion       = "/version"
)

// WebSocket message types (client -> server)
const (
	MsgEndTurn    = "end_turn"
	MsgQueuePlay  = "queue_play"
	MsgAckPhase   = "ack_phase"
	MsgSceneReady = "scene_ready"
)

// WebSocket message types (server -> client)
const (
	MsgRoundStarted    = "round_started"
	MsgWaitingState    = "waiting_state"
	MsgPhaseTransition = "phase_transition"
	MsgFightEnded      = "fight_ended"
	MsgCombatConcluded = "combat_concluded"
)

// JSON keys shared by handlers
const (
	JSONKeyError = "error"
)

// Common log field names
const (
	LogFieldSessionCode = "session_code"
	LogFieldFightID     = "fight_id"
	LogFieldCombatantID = "combatant_id"
	LogFieldConnID      = "conn_id"
	LogFieldRound       = "round"
	LogFieldPhase       = "phase"
	LogFieldAddr        = "addr"
)

// Error message strings returned by the API
const (
	ErrInvalidSessionCode = "invalid session code"
	ErrSessionNotFound    = "session not found"
	ErrSessionNotJoinable = "session is not accepting players"
	ErrSessionNotInCombat = "session is not in combat"
	ErrInvalidRequest     = "invalid request payload"
	ErrAuthRequired       = "authentication required"
	ErrNotAParticipant    = "caller is not a session participant"
)
