// Package league loads league definitions written in CUE.
//
// A league file declares a top-level `league` struct with a name and a list
// of teams. The file is unified with an embedded schema (schema.cue) that
// constrains domains, positions and attribute ranges and supplies defaults,
// then decoded into roster types.
//
//	league: {
//		name: "Faculty Cup"
//		teams: [{
//			id:   1
//			name: "Quarks"
//			players: [{
//				id: 11, name: "Henry", domain: "computer_science"
//				position: "goalkeeper", starter: true
//				attributes: {speed: 60, strength: 70, ...}
//			}, ...]
//		}]
//	}
//
// When a team omits chemistry it is derived from its starters with
// roster.Team.RecomputeChemistry.
package league

import (
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/Ge-LAG/Scientific-Football-Manager-5v5/internal/roster"
)

//go:embed schema.cue
var schemaSource []byte

// Error codes for LoadError.
const (
	ErrCodeNotFound = "NOT_FOUND"
	ErrCodeSyntax   = "CUE_SYNTAX"
	ErrCodeSchema   = "SCHEMA_VIOLATION"
	ErrCodeInvalid  = "INVALID_LEAGUE"
)

// LoadError reports why a league file was rejected.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// League is a named set of teams with unique team and player ids.
type League struct {
	Name  string
	Teams []roster.Team
}

// Team returns a deep copy of the team with the given id.
func (l *League) Team(id int) (roster.Team, bool) {
	for i := range l.Teams {
		if l.Teams[i].ID == id {
			return l.Teams[i].Clone(), true
		}
	}
	return roster.Team{}, false
}

// Fixture returns copies of the home and away teams after checking both can
// field a lineup.
func (l *League) Fixture(homeID, awayID int) (home, away roster.Team, err error) {
	if homeID == awayID {
		return home, away, fmt.Errorf("team %d cannot play itself", homeID)
	}
	var ok bool
	if home, ok = l.Team(homeID); !ok {
		return home, away, fmt.Errorf("home team %d not in league %q", homeID, l.Name)
	}
	if away, ok = l.Team(awayID); !ok {
		return home, away, fmt.Errorf("away team %d not in league %q", awayID, l.Name)
	}
	if err := roster.ValidateLineup(&home); err != nil {
		return home, away, err
	}
	if err := roster.ValidateLineup(&away); err != nil {
		return home, away, err
	}
	return home, away, nil
}

type fileDef struct {
	League leagueDef `json:"league"`
}

type leagueDef struct {
	Name  string    `json:"name"`
	Teams []teamDef `json:"teams"`
}

type teamDef struct {
	ID           int                 `json:"id"`
	Name         string              `json:"name"`
	Formation    string              `json:"formation"`
	Chemistry    *float64            `json:"chemistry,omitempty"`
	Instructions roster.Instructions `json:"instructions"`
	Players      []playerDef         `json:"players"`
}

type playerDef struct {
	ID         int               `json:"id"`
	Name       string            `json:"name"`
	Domain     string            `json:"domain"`
	Position   string            `json:"position"`
	Starter    bool              `json:"starter"`
	Injured    bool              `json:"injured"`
	Suspended  bool              `json:"suspended"`
	Attributes roster.Attributes `json:"attributes"`
	Traits     []roster.Trait    `json:"traits"`
}

// Load reads and validates a league file.
func Load(path string) (*League, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("league file not found: %s", path)}
	}
	if err != nil {
		return nil, fmt.Errorf("read league file: %w", err)
	}
	return Parse(data, path)
}

// Parse validates league source against the schema and converts it.
// filename is only used in error positions.
func Parse(data []byte, filename string) (*League, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileBytes(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("embedded schema: %w", err)
	}

	src := ctx.CompileBytes(data, cue.Filename(filename))
	if err := src.Err(); err != nil {
		return nil, cueError(ErrCodeSyntax, err)
	}
	if !src.LookupPath(cue.ParsePath("league")).Exists() {
		return nil, &LoadError{Code: ErrCodeSchema, Message: "missing top-level league struct"}
	}

	v := schema.Unify(src)
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, cueError(ErrCodeSchema, err)
	}

	var def fileDef
	if err := v.Decode(&def); err != nil {
		return nil, cueError(ErrCodeSchema, err)
	}
	return build(def.League)
}

func build(def leagueDef) (*League, error) {
	l := &League{Name: def.Name, Teams: make([]roster.Team, 0, len(def.Teams))}
	teamIDs := make(map[int]bool)
	playerTeams := make(map[int]int)

	for _, td := range def.Teams {
		if teamIDs[td.ID] {
			return nil, invalid("duplicate team id %d", td.ID)
		}
		teamIDs[td.ID] = true

		team := roster.NewTeam(td.ID, td.Name)
		team.Formation = roster.Formation(td.Formation)
		team.Instructions = td.Instructions

		for _, pd := range td.Players {
			if other, dup := playerTeams[pd.ID]; dup {
				return nil, invalid("player id %d used by teams %d and %d", pd.ID, other, td.ID)
			}
			playerTeams[pd.ID] = td.ID

			domain, err := roster.ParseDomain(pd.Domain)
			if err != nil {
				return nil, invalid("player %d: %v", pd.ID, err)
			}
			p := roster.NewPlayer(pd.ID, pd.Name, domain, roster.Position(pd.Position), pd.Attributes)
			p.OnField = pd.Starter
			p.Injured = pd.Injured
			p.Suspended = pd.Suspended
			if len(pd.Traits) > 0 {
				p.Traits = pd.Traits
			}
			team.Players = append(team.Players, p)
		}

		if td.Chemistry != nil {
			team.Chemistry = *td.Chemistry
		} else {
			team.RecomputeChemistry()
		}
		if err := team.Validate(); err != nil {
			return nil, invalid("%v", err)
		}
		l.Teams = append(l.Teams, team)
	}
	return l, nil
}

func invalid(format string, args ...any) *LoadError {
	return &LoadError{Code: ErrCodeInvalid, Message: fmt.Sprintf(format, args...)}
}

// cueError keeps the first CUE error together with its position.
func cueError(code string, err error) error {
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return &LoadError{Code: code, Message: err.Error()}
	}
	first := errs[0]
	le := &LoadError{Code: code, Message: first.Error()}
	if positions := errors.Positions(first); len(positions) > 0 {
		le.Pos = positions[0]
	}
	return le
}
