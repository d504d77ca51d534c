// Package harness runs match scenarios written in YAML.
//
// A scenario names a league file and a fixture, fixes the randomness (a PCG
// seed or an explicit script of draws), plays a list of steps against a
// fresh engine and then checks assertions on the final state:
//
//	name: early_home_goal
//	description: Home side scores in the first tick and wins 1-0
//	league: ../../leagues/faculty_cup.cue
//	home: 1
//	away: 2
//	script:
//	  floats: [0.5, 0.5, 0, 0, 0, 0.99, 0.5, 0.5, 0.5]
//	  ints: [0, 0]
//	  quiet: 0.5
//	steps:
//	  - action: start
//	  - action: update
//	    delta: 1
//	  - action: run_to_completion
//	    delta: 5
//	assertions:
//	  - type: score
//	    home: 1
//	    away: 0
//
// Paths are resolved relative to the scenario file. Every run produces a
// Result whose trace (the engine's event log) can be compared against a
// golden file with RunWithGolden.
package harness
