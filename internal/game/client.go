package game

import (
	"encoding/json"
	"fmt"
	"log"
	"math"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/voxbot/voxbot/internal/protocol"
)

const (
	walkSpeed    = 4.3  // blocks per second
	jumpSpeed    = 8.4  // initial vertical velocity
	gravity      = 32.0 // blocks per second squared
	terminalFall = 78.4
)

// Client is the websocket game-engine client. Asynchronous notifications
// are delivered through the Listener; synchronous queries read the client's
// cached world and player state.
type Client struct {
	serverURL string
	username  string
	sessionID string
	logger    *log.Logger

	conn    *websocket.Conn
	writeMu sync.Mutex

	mu       sync.Mutex
	world    *world
	pos      EntityPosition
	health   int
	controls [controlCount]bool
	listener Listener

	done      chan struct{}
	closeOnce sync.Once
}

// NewClient creates a client for the given server. The connection is not
// opened until Start.
func NewClient(serverURL, username string, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.Default()
	}
	return &Client{
		serverURL: serverURL,
		username:  username,
		sessionID: uuid.NewString(),
		logger:    logger,
		world:     newWorld(),
		health:    20,
		done:      make(chan struct{}),
	}
}

// SetListener installs the notification receiver. Must be called before
// Start.
func (c *Client) SetListener(l Listener) {
	c.mu.Lock()
	c.listener = l
	c.mu.Unlock()
}

// Username returns the connection identity's user name.
func (c *Client) Username() string {
	return c.username
}

// Start dials the server, performs the hello handshake, and begins the
// read loop.
func (c *Client) Start() error {
	conn, _, err := websocket.DefaultDialer.Dial(c.serverURL, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", c.serverURL, err)
	}
	c.conn = conn

	hello := protocol.HelloMsg{
		Type:            protocol.TypeHello,
		ProtocolVersion: protocol.Version,
		SessionID:       c.sessionID,
		Username:        c.username,
	}
	if err := c.writeJSON(hello); err != nil {
		_ = conn.Close()
		return fmt.Errorf("send hello: %w", err)
	}

	c.notify(func(l Listener) { l.LoginStatusUpdated(LoginConnecting) })
	go c.readLoop()
	return nil
}

// Shutdown closes the connection. Idempotent.
func (c *Client) Shutdown(code int) {
	c.closeOnce.Do(func() {
		close(c.done)
		if c.conn != nil {
			_ = c.conn.Close()
		}
		c.logger.Printf("shutdown (code %d)", code)
	})
}

// Done is closed once the client has shut down.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// SendChat sends an outbound chat message.
func (c *Client) SendChat(message string) {
	_ = c.writeJSON(protocol.ChatMsg{Type: protocol.TypeChat, Message: message})
}

// BlockAt returns the cached block at an integer coordinate.
func (c *Client) BlockAt(p Int3D) Block {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.world.blockAt(p)
}

// PlayerPosition returns the player's current kinematic state.
func (c *Client) PlayerPosition() EntityPosition {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pos
}

// PlayerHealth returns the last health value reported by the server.
func (c *Client) PlayerHealth() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.health
}

// SetControlActivated changes one control input and reports it upstream.
func (c *Client) SetControlActivated(control Control, active bool) {
	if !ValidControl(control) {
		return
	}
	c.mu.Lock()
	c.controls[control] = active
	c.mu.Unlock()
	_ = c.writeJSON(protocol.ControlMsg{Type: protocol.TypeControl, Control: int(control), Active: active})
}

// ItemStackHeight returns the maximum stack size for an item type.
func (c *Client) ItemStackHeight(item ItemType) int {
	return StackHeight(item)
}

// DoPhysics advances the player simulation by elapsed seconds: applies the
// active controls and gravity, integrates, resolves ground collision, and
// reports the resulting position.
func (c *Client) DoPhysics(elapsed float64) {
	if elapsed <= 0 {
		return
	}

	c.mu.Lock()
	pos := &c.pos

	// Horizontal velocity comes straight from the active controls,
	// rotated into world space by yaw.
	var fwd, strafe float64
	if c.controls[ControlForward] {
		fwd++
	}
	if c.controls[ControlBack] {
		fwd--
	}
	if c.controls[ControlLeft] {
		strafe++
	}
	if c.controls[ControlRight] {
		strafe--
	}
	sin, cos := math.Sin(pos.Yaw), math.Cos(pos.Yaw)
	pos.DX = (fwd*cos - strafe*sin) * walkSpeed
	pos.DZ = (fwd*sin + strafe*cos) * walkSpeed

	if c.controls[ControlJump] && pos.OnGround {
		pos.DY = jumpSpeed
		pos.OnGround = false
	}
	pos.DY -= gravity * elapsed
	if pos.DY < -terminalFall {
		pos.DY = -terminalFall
	}

	pos.X += pos.DX * elapsed
	pos.Y += pos.DY * elapsed
	pos.Z += pos.DZ * elapsed

	// Ground resolution: falling into a solid cell snaps the player onto
	// its top face.
	if pos.DY <= 0 {
		feet := Int3D{
			X: int(math.Floor(pos.X)),
			Y: int(math.Floor(pos.Y)),
			Z: int(math.Floor(pos.Z)),
		}
		if c.world.solid(feet) {
			pos.Y = float64(feet.Y + 1)
			pos.DY = 0
			pos.OnGround = true
		} else {
			pos.OnGround = false
		}
	}

	move := protocol.MoveMsg{
		Type: protocol.TypeMove,
		X:    pos.X, Y: pos.Y, Z: pos.Z,
		DX: pos.DX, DY: pos.DY, DZ: pos.DZ,
		Yaw: pos.Yaw, Pitch: pos.Pitch,
		OnGround: pos.OnGround,
	}
	c.mu.Unlock()

	_ = c.writeJSON(move)
	c.notify(func(l Listener) { l.PositionUpdated() })
}

func (c *Client) writeJSON(v interface{}) error {
	if c.conn == nil {
		return nil
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := c.conn.WriteJSON(v); err != nil {
		c.logger.Printf("write: %v", err)
		return err
	}
	return nil
}

// notify invokes fn with the listener, if one is installed.
func (c *Client) notify(fn func(Listener)) {
	c.mu.Lock()
	l := c.listener
	c.mu.Unlock()
	if l != nil {
		fn(l)
	}
}

func (c *Client) readLoop() {
	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			select {
			case <-c.done:
				// deliberate close
				c.notify(func(l Listener) { l.LoginStatusUpdated(LoginDisconnected) })
			default:
				c.logger.Printf("read: %v", err)
				c.notify(func(l Listener) { l.LoginStatusUpdated(LoginSocketError) })
			}
			return
		}
		c.handleFrame(raw)
	}
}

func (c *Client) handleFrame(raw []byte) {
	base, err := protocol.DecodeBase(raw)
	if err != nil {
		c.logger.Printf("drop frame: %v", err)
		return
	}

	switch base.Type {
	case protocol.TypeWelcome:
		var msg protocol.WelcomeMsg
		if !c.decode(raw, &msg) {
			return
		}
		c.logger.Printf("welcome player_id=%s", msg.PlayerID)
		c.notify(func(l Listener) { l.LoginStatusUpdated(LoginSuccess) })

	case protocol.TypeChunk:
		var msg protocol.ChunkMsg
		if !c.decode(raw, &msg) {
			return
		}
		origin := Int3D{msg.Origin[0], msg.Origin[1], msg.Origin[2]}
		size := Int3D{msg.Size[0], msg.Size[1], msg.Size[2]}
		c.mu.Lock()
		ok := c.world.applyChunk(origin, size, msg.Blocks)
		c.mu.Unlock()
		if !ok {
			c.logger.Printf("drop chunk: bad dimensions %v", msg.Size)
			return
		}
		c.notify(func(l Listener) { l.ChunkUpdated(origin, size) })

	case protocol.TypePosition:
		var msg protocol.PositionMsg
		if !c.decode(raw, &msg) {
			return
		}
		c.mu.Lock()
		c.pos = EntityPosition{
			X: msg.X, Y: msg.Y, Z: msg.Z,
			DX: msg.DX, DY: msg.DY, DZ: msg.DZ,
			Yaw: msg.Yaw, Pitch: msg.Pitch,
			OnGround: msg.OnGround,
		}
		c.mu.Unlock()
		c.notify(func(l Listener) { l.PositionUpdated() })

	case protocol.TypeChat:
		var msg protocol.ChatMsg
		if !c.decode(raw, &msg) {
			return
		}
		c.notify(func(l Listener) { l.ChatReceived(msg.Username, msg.Message) })

	case protocol.TypeHealth:
		var msg protocol.HealthMsg
		if !c.decode(raw, &msg) {
			return
		}
		c.mu.Lock()
		c.health = msg.Health
		c.mu.Unlock()
		c.notify(func(l Listener) { l.HealthUpdated() })

	case protocol.TypeDeath:
		c.notify(func(l Listener) { l.PlayerDied() })

	case protocol.TypeDisconnect:
		var msg protocol.DisconnectMsg
		if c.decode(raw, &msg) && msg.Reason != "" {
			c.logger.Printf("server disconnect: %s", msg.Reason)
		}
		c.notify(func(l Listener) { l.LoginStatusUpdated(LoginDisconnected) })

	default:
		c.logger.Printf("drop frame: unknown type %q", base.Type)
	}
}

func (c *Client) decode(raw []byte, v interface{}) bool {
	if err := json.Unmarshal(raw, v); err != nil {
		c.logger.Printf("drop frame: %v", err)
		return false
	}
	return true
}
