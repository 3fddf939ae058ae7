package protocol

// HELLO (client -> server)
type HelloMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	SessionID       string `json:"session_id"`
	Username        string `json:"username"`
}

// WELCOME (server -> client): login succeeded.
type WelcomeMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	PlayerID        string `json:"player_id"`
	TickRateHz      int    `json:"tick_rate_hz,omitempty"`
}

// CHUNK (server -> client): a cuboid of block data. Blocks are item type
// ids in x-major, then z, then y order; len(Blocks) == Size.X*Size.Y*Size.Z.
type ChunkMsg struct {
	Type   string `json:"type"`
	Origin [3]int `json:"origin"`
	Size   [3]int `json:"size"`
	Blocks []int  `json:"blocks"`
}

// POSITION (server -> client): authoritative player state correction.
type PositionMsg struct {
	Type     string  `json:"type"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Z        float64 `json:"z"`
	DX       float64 `json:"dx"`
	DY       float64 `json:"dy"`
	DZ       float64 `json:"dz"`
	Yaw      float64 `json:"yaw"`
	Pitch    float64 `json:"pitch"`
	OnGround bool    `json:"on_ground"`
}

// CHAT (both directions). Username is empty on outbound frames; the server
// fills in the sender before relaying.
type ChatMsg struct {
	Type     string `json:"type"`
	Username string `json:"username,omitempty"`
	Message  string `json:"message"`
}

// HEALTH (server -> client)
type HealthMsg struct {
	Type   string `json:"type"`
	Health int    `json:"health"`
}

// DEATH (server -> client)
type DeathMsg struct {
	Type string `json:"type"`
}

// DISCONNECT (server -> client): the server is closing the session.
type DisconnectMsg struct {
	Type   string `json:"type"`
	Reason string `json:"reason,omitempty"`
}

// CONTROL (client -> server): a control input changed state.
type ControlMsg struct {
	Type    string `json:"type"`
	Control int    `json:"control"`
	Active  bool   `json:"active"`
}

// MOVE (client -> server): position report from the client's physics step.
type MoveMsg struct {
	Type     string  `json:"type"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Z        float64 `json:"z"`
	DX       float64 `json:"dx"`
	DY       float64 `json:"dy"`
	DZ       float64 `json:"dz"`
	Yaw      float64 `json:"yaw"`
	Pitch    float64 `json:"pitch"`
	OnGround bool    `json:"on_ground"`
}
