package types

import (
	"encoding/json"
	"errors"
)

// Inbound message types.
const (
	TypeClientMouseMoving   = "clientMouseMoving"
	TypeClientObjectMoving  = "clientObjectMoving"
	TypeClientPieceMoving   = "clientPieceMoving"
	TypeClientPlay          = "clientPlay"
	TypeClientContinueRound = "clientContinueRound"
	TypeClientRematch       = "clientRematch"
)

// Outbound message types.
const (
	TypeServerData = "serverData"
	TypeCountdown  = "countdown"
)

var ErrMissingField = errors.New("missing required field")

// ClientMessage is the envelope every inbound message shares. Value carries
// the type-specific object for pointer and object updates; plays use the
// top-level Column and PieceID.
type ClientMessage struct {
	Type    string          `json:"type"`
	Value   json.RawMessage `json:"value,omitempty"`
	Column  *int            `json:"column,omitempty"`
	PieceID string          `json:"pieceId,omitempty"`
}

type PointerValue struct {
	MouseX *int `json:"mouseX"`
	MouseY *int `json:"mouseY"`
	Row    *int `json:"row,omitempty"`
	Col    *int `json:"col,omitempty"`
}

func (p PointerValue) Validate() error {
	if p.MouseX == nil || p.MouseY == nil {
		return ErrMissingField
	}
	return nil
}

type ObjectValue struct {
	ID   string `json:"id"`
	X    *int   `json:"x"`
	Y    *int   `json:"y"`
	Cols int    `json:"cols,omitempty"`
	Rows int    `json:"rows,omitempty"`
}

func (o ObjectValue) Validate() error {
	if o.ID == "" || o.X == nil || o.Y == nil {
		return ErrMissingField
	}
	return nil
}

type ClientEntry struct {
	Name   string `json:"name"`
	Color  string `json:"color"`
	Role   string `json:"role,omitempty"`
	MouseX int    `json:"mouseX"`
	MouseY int    `json:"mouseY"`
	Row    *int   `json:"row,omitempty"`
	Col    *int   `json:"col,omitempty"`
}

type ObjectEntry struct {
	ID   string `json:"id"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
	Cols int    `json:"cols"`
	Rows int    `json:"rows"`
	Role string `json:"role,omitempty"`
}

// ServerData is the full match snapshot. ClientName is left empty when the
// payload is encoded once for fan-out; StampClientName fills it per recipient.
type ServerData struct {
	Type        string        `json:"type"`
	ClientName  string        `json:"clientName,omitempty"`
	ClientsList []ClientEntry `json:"clientsList"`
	ObjectsList []ObjectEntry `json:"objectsList"`
	CurrentTurn string        `json:"currentTurn"`
	ScoreR      int           `json:"scoreR"`
	ScoreY      int           `json:"scoreY"`
	RoundWinner string        `json:"roundWinner,omitempty"`
	GameWinner  string        `json:"gameWinner,omitempty"`
}

type Countdown struct {
	Type  string `json:"type"`
	Value int    `json:"value"`
}

func NewCountdown(value int) Countdown {
	return Countdown{Type: TypeCountdown, Value: value}
}

// StampClientName prepends a clientName field to an encoded JSON object.
// body must be a non-empty object encoded without a clientName key.
func StampClientName(body []byte, name string) ([]byte, error) {
	if len(body) < 2 || body[0] != '{' {
		return nil, errors.New("snapshot body is not a JSON object")
	}
	quoted, err := json.Marshal(name)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, len(body)+len(quoted)+16)
	out = append(out, `{"clientName":`...)
	out = append(out, quoted...)
	if len(body) > 2 {
		out = append(out, ',')
	}
	out = append(out, body[1:]...)
	return out, nil
}
