package main

import "encoding/json"

// Client -> Server message types
const (
	MsgJoin     = "join"
	MsgLeave    = "leave"
	MsgInput    = "input"
	MsgCreate   = "create" // create arena session
	MsgList     = "list"   // list sessions
	MsgReady    = "ready"
	MsgRematch  = "rematch"
	MsgRegister = "register"
	MsgLogin    = "login"
	MsgAuth     = "auth" // token re-auth
	MsgProfile  = "profile"
)

// Server -> Client message types
const (
	MsgState       = "state"
	MsgWelcome     = "welcome"
	MsgDeath       = "death"
	MsgKill        = "kill"
	MsgSessions    = "sessions"
	MsgJoined      = "joined"
	MsgCreated     = "created"
	MsgError       = "error"
	MsgMatchOver   = "match_over"
	MsgAuthOK      = "auth_ok"
	MsgProfileData = "profile_data"
	MsgUnlock      = "unlock" // achievement unlocked
)

// Envelope wraps all outgoing control messages with a type field
type Envelope struct {
	T    string      `json:"t"`
	Data interface{} `json:"d,omitempty"`
}

// InEnvelope is used for incoming messages — json.RawMessage avoids double-unmarshal
type InEnvelope struct {
	T string          `json:"t"`
	D json.RawMessage `json:"d,omitempty"`
}

// ClientInput is the per-tick input snapshot sent by the client
type ClientInput struct {
	Throttle float64 `json:"th"` // -1..1
	Turn     float64 `json:"tr"` // -1..1
	Brake    bool    `json:"br"`
	Fire     bool    `json:"f"`
}

// JoinMsg is sent when a player wants to join a session
type JoinMsg struct {
	Name      string `json:"name"`
	SessionID string `json:"sid"`
}

// CreateMsg is sent when a player wants to create a session
type CreateMsg struct {
	Name        string `json:"name"`
	SessionName string `json:"sname"`
}

// RegisterMsg creates an account
type RegisterMsg struct {
	Username string `json:"u"`
	Password string `json:"p"`
}

// LoginMsg authenticates with credentials
type LoginMsg struct {
	Username string `json:"u"`
	Password string `json:"p"`
}

// AuthMsg authenticates with a stored token
type AuthMsg struct {
	Token string `json:"tok"`
}

// AuthOKMsg confirms authentication
type AuthOKMsg struct {
	Token    string `json:"tok"`
	Username string `json:"u"`
	PlayerID int64  `json:"pid"`
}

// ProfileDataMsg returns persistent account stats
type ProfileDataMsg struct {
	Username string  `json:"u"`
	Kills    int     `json:"k"`
	Deaths   int     `json:"d"`
	Wins     int     `json:"w"`
	Losses   int     `json:"l"`
	Playtime float64 `json:"pt"`
}

// VehicleState is broadcast per vehicle each state tick. HUD fields (health,
// armor, heat, cooldown progress) ride along for the presentation layer.
type VehicleState struct {
	ID        string  `json:"id" msgpack:"id"`
	Name      string  `json:"n" msgpack:"n"`
	X         float64 `json:"x" msgpack:"x"`
	Y         float64 `json:"y" msgpack:"y"`
	Z         float64 `json:"z" msgpack:"z"`
	Yaw       float64 `json:"yw" msgpack:"yw"`
	VX        float64 `json:"vx" msgpack:"vx"`
	VZ        float64 `json:"vz" msgpack:"vz"`
	HP        int     `json:"hp" msgpack:"hp"`
	MaxHP     int     `json:"mhp" msgpack:"mhp"`
	Armor     int     `json:"ar" msgpack:"ar"`
	Heat      float64 `json:"ht" msgpack:"ht"`
	Cooldown  float64 `json:"cd" msgpack:"cd"`
	Bullet    int     `json:"bt" msgpack:"bt"`
	Score     int     `json:"sc" msgpack:"sc"`
	Alive     bool    `json:"a" msgpack:"a"`
	Exploding bool    `json:"ex,omitempty" msgpack:"ex"`
	Drone     bool    `json:"dr,omitempty" msgpack:"dr"`
}

// ProjectileState is broadcast per projectile
type ProjectileState struct {
	ID    string  `json:"id" msgpack:"id"`
	X     float64 `json:"x" msgpack:"x"`
	Y     float64 `json:"y" msgpack:"y"`
	Z     float64 `json:"z" msgpack:"z"`
	Type  int     `json:"t" msgpack:"t"`
	Owner string  `json:"o" msgpack:"o"`
}

// PowerUpState is broadcast per active power-up
type PowerUpState struct {
	ID   string  `json:"id" msgpack:"id"`
	X    float64 `json:"x" msgpack:"x"`
	Y    float64 `json:"y" msgpack:"y"`
	Z    float64 `json:"z" msgpack:"z"`
	Type int     `json:"t" msgpack:"t"`
	Spin float64 `json:"sp" msgpack:"sp"`
}

// GameState is the full per-broadcast snapshot, msgpack-encoded on the wire
type GameState struct {
	Vehicles    []VehicleState    `json:"v" msgpack:"v"`
	Projectiles []ProjectileState `json:"pr" msgpack:"pr"`
	PowerUps    []PowerUpState    `json:"pu" msgpack:"pu"`
	Tick        uint64            `json:"tick" msgpack:"tick"`
	Phase       int               `json:"ph" msgpack:"ph"`
	TimeLeft    float64           `json:"tl" msgpack:"tl"`
}

// WelcomeMsg is sent to a player when they join
type WelcomeMsg struct {
	ID string `json:"id"`
}

// DeathMsg notifies a player they were destroyed
type DeathMsg struct {
	KillerID   string `json:"kid"`
	KillerName string `json:"kn"`
}

// KillMsg is broadcast to all players in a session
type KillMsg struct {
	KillerID   string `json:"kid"`
	KillerName string `json:"kn"`
	VictimID   string `json:"vid"`
	VictimName string `json:"vn"`
}

// MatchOverMsg announces the result phase
type MatchOverMsg struct {
	WinnerID   string `json:"wid"`
	WinnerName string `json:"wn"`
	Score      int    `json:"sc"`
}

// UnlockMsg announces a newly earned achievement
type UnlockMsg struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SessionInfo is used in the session list
type SessionInfo struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Players int    `json:"players"`
}

// ErrorMsg sends an error to the client
type ErrorMsg struct {
	Msg string `json:"msg"`
}
