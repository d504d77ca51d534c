package engine

import (
	"encoding/json"
	"fmt"
)

// EventKind is the discriminator of a match event.
type EventKind string

const (
	KindGoal                EventKind = "goal"
	KindSubstitution        EventKind = "substitution"
	KindPowerUpUsed         EventKind = "power_up_used"
	KindYellowCard          EventKind = "yellow_card"
	KindScientificDiscovery EventKind = "scientific_discovery"
	KindGoalkeeperSave      EventKind = "goalkeeper_save"
	KindHighlight           EventKind = "highlight"
)

// EventKinds lists every kind in declaration order.
var EventKinds = []EventKind{
	KindGoal, KindSubstitution, KindPowerUpUsed, KindYellowCard,
	KindScientificDiscovery, KindGoalkeeperSave, KindHighlight,
}

// Valid reports whether k names a known event kind.
func (k EventKind) Valid() bool {
	for _, known := range EventKinds {
		if k == known {
			return true
		}
	}
	return false
}

// Event is one immutable entry of the match log. The set of implementations
// is closed: Goal, Substitution, PowerUpUsed, YellowCard,
// ScientificDiscovery, GoalkeeperSave and Highlight.
//
// Consumers switch on the concrete type:
//
//	switch ev := ev.(type) {
//	case engine.Goal:
//	    ...
//	}
type Event interface {
	// When returns the match minute the event happened in.
	When() int
	Kind() EventKind
	isEvent()
}

// At carries the minute shared by every event.
type At struct {
	Minute int `json:"minute"`
}

// When implements Event.
func (a At) When() int { return a.Minute }

func (At) isEvent() {}

// Goal records a scored goal. AssistID is zero when nobody assisted.
type Goal struct {
	At
	ScorerID    int    `json:"scorer_id"`
	TeamID      int    `json:"team_id"`
	AssistID    int    `json:"assist_id,omitempty"`
	Description string `json:"description"`
}

// HasAssist reports whether an assist was credited.
func (g Goal) HasAssist() bool { return g.AssistID != 0 }

type Substitution struct {
	At
	TeamID int `json:"team_id"`
	OutID  int `json:"out_id"`
	InID   int `json:"in_id"`
}

type PowerUpUsed struct {
	At
	PlayerID int         `json:"player_id"`
	PowerUp  PowerUpKind `json:"power_up"`
}

type YellowCard struct {
	At
	PlayerID int    `json:"player_id"`
	Reason   string `json:"reason"`
}

// ScientificDiscovery records a form boost applied to every on-field player
// of a team.
type ScientificDiscovery struct {
	At
	TeamID      int     `json:"team_id"`
	Description string  `json:"description"`
	Bonus       float64 `json:"bonus"`
}

type GoalkeeperSave struct {
	At
	GoalkeeperID int `json:"goalkeeper_id"`
}

type Highlight struct {
	At
	PlayerID    int    `json:"player_id"`
	Description string `json:"description"`
}

func (Goal) Kind() EventKind                { return KindGoal }
func (Substitution) Kind() EventKind        { return KindSubstitution }
func (PowerUpUsed) Kind() EventKind         { return KindPowerUpUsed }
func (YellowCard) Kind() EventKind          { return KindYellowCard }
func (ScientificDiscovery) Kind() EventKind { return KindScientificDiscovery }
func (GoalkeeperSave) Kind() EventKind      { return KindGoalkeeperSave }
func (Highlight) Kind() EventKind           { return KindHighlight }

// DecodeEvent rebuilds an event from its kind and JSON payload, as written
// by json.Marshal on the concrete type.
func DecodeEvent(kind EventKind, payload []byte) (Event, error) {
	switch kind {
	case KindGoal:
		return decodeAs[Goal](payload)
	case KindSubstitution:
		return decodeAs[Substitution](payload)
	case KindPowerUpUsed:
		return decodeAs[PowerUpUsed](payload)
	case KindYellowCard:
		return decodeAs[YellowCard](payload)
	case KindScientificDiscovery:
		return decodeAs[ScientificDiscovery](payload)
	case KindGoalkeeperSave:
		return decodeAs[GoalkeeperSave](payload)
	case KindHighlight:
		return decodeAs[Highlight](payload)
	default:
		return nil, fmt.Errorf("unknown event kind %q", kind)
	}
}

func decodeAs[T Event](payload []byte) (Event, error) {
	var ev T
	if err := json.Unmarshal(payload, &ev); err != nil {
		var zero T
		return nil, fmt.Errorf("decode %s event: %w", zero.Kind(), err)
	}
	return ev, nil
}

// Record is the self-describing JSON form of an event:
// {"kind":"goal","event":{...}}.
type Record struct {
	Kind  EventKind `json:"kind"`
	Event Event     `json:"event"`
}

// NewRecord wraps ev with its kind.
func NewRecord(ev Event) Record {
	return Record{Kind: ev.Kind(), Event: ev}
}

// UnmarshalJSON decodes the payload into the concrete type named by kind.
func (r *Record) UnmarshalJSON(data []byte) error {
	var raw struct {
		Kind  EventKind       `json:"kind"`
		Event json.RawMessage `json:"event"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	ev, err := DecodeEvent(raw.Kind, raw.Event)
	if err != nil {
		return err
	}
	r.Kind = raw.Kind
	r.Event = ev
	return nil
}
