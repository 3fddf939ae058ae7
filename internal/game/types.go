// Package game implements the bot's view of the game engine: shared
// coordinate/entity types, the control and item enumerations exposed to
// scripts, and a websocket client speaking the server protocol.
package game

// Int3D is an integer block coordinate.
type Int3D struct {
	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z"`
}

// EntityPosition is the player's full kinematic state.
type EntityPosition struct {
	X, Y, Z    float64
	DX, DY, DZ float64
	Yaw        float64
	Pitch      float64
	OnGround   bool
}

// Block is the bot's knowledge of a single world cell.
type Block struct {
	Type ItemType
}

// ItemType identifies a block or inventory item.
type ItemType int

// NoItem marks coordinates the client has no chunk data for.
const NoItem ItemType = -1

// Control is one of the player's movement/action inputs.
type Control int

const (
	ControlForward Control = iota
	ControlBack
	ControlLeft
	ControlRight
	ControlJump
	ControlCrouch
	ControlDiscardItem
	ControlAction1
	ControlAction2

	controlCount
)

// ValidControl reports whether c names a real control input.
func ValidControl(c Control) bool {
	return c >= 0 && c < controlCount
}

// LoginStatus is the connection state reported by the server link.
type LoginStatus int

const (
	LoginDisconnected LoginStatus = iota
	LoginConnecting
	LoginSuccess
	LoginSocketError
)

// Listener receives the engine's asynchronous notifications. Callbacks are
// invoked from the client's own goroutines; receivers are responsible for
// marshaling onto their own execution context.
type Listener interface {
	ChunkUpdated(origin, size Int3D)
	PositionUpdated()
	LoginStatusUpdated(status LoginStatus)
	ChatReceived(username, message string)
	PlayerDied()
	HealthUpdated()
}
