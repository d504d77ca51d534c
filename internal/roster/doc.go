// Package roster provides the player and team data contracts consumed by the
// match engine.
//
// The package owns everything a match needs to know about a squad:
//   - Attribute blocks and the scientific-domain bonuses applied to them
//   - Player condition (stamina, form, morale) and career counters
//   - Team aggregates: on-field enumeration, rating, chemistry
//   - Substitution validation and season record reconciliation
//
// roster imports nothing internal. The engine deep-copies Team values at
// construction (see Team.Clone) so that a lobby team and an in-match team
// never share player storage.
package roster
