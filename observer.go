// Tournament observers
//
// Copyright (c) 2026  The go-ipd Authors
//
// This file is part of go-ipd.
//
// go-ipd is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License,
// version 3, as published by the Free Software Foundation.
//
// go-ipd is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the GNU
// Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public
// License, version 3, along with go-ipd. If not, see
// <http://www.gnu.org/licenses/>

package ipd

import "time"

// Info describes a tournament that is about to start
type Info struct {
	ID      string    `json:"id"`
	Roster  []Player  `json:"roster"`
	Policy  string    `json:"policy"`
	Rounds  uint      `json:"rounds"`
	Payoff  Matrix    `json:"payoff"`
	Started time.Time `json:"started"`
}

// Summary describes a stored tournament
type Summary struct {
	ID       string
	Policy   string
	Rounds   uint
	Players  uint
	Fixtures uint
	Started  time.Time
	Finished time.Time // zero if the tournament did not finish
}

// Snapshot is emitted after every scored iteration
type Snapshot struct {
	Round     uint           `json:"round"`
	Fixture   uint           `json:"fixture"`
	Iteration uint           `json:"iteration"`
	Players   [2]Player      `json:"players"`
	Moves     [2]Move        `json:"moves"`
	Award     [2]int         `json:"award"`
	Scores    map[Player]int `json:"scores"`
}

// Observers are notified by the engine as the tournament progresses.
// They are called synchronously from the simulation loop and only
// ever receive copies of engine state, so anything slow has to be
// moved into the background by the observer itself.
type Observer interface {
	TournamentStarted(Info)
	Observe(Snapshot)
	FixtureDone(Record)
	RoundDone(round uint, scores []Standing, records []Record)
	TournamentDone(*Result)
}

// NopObserver can be embedded to only implement some notifications
type NopObserver struct{}

func (NopObserver) TournamentStarted(Info)               {}
func (NopObserver) Observe(Snapshot)                     {}
func (NopObserver) FixtureDone(Record)                   {}
func (NopObserver) RoundDone(uint, []Standing, []Record) {}
func (NopObserver) TournamentDone(*Result)               {}

// Result is handed back to whoever started a tournament
type Result struct {
	ID         string
	Payoff     Matrix
	Fixtures   []Fixture
	Iterations []uint       // iterations played per round
	Rounds     [][]Standing // scoreboard at the end of every round
	History    *History
}

// Final returns the scoreboard of the last round
func (r *Result) Final() []Standing {
	if len(r.Rounds) == 0 {
		return nil
	}
	return r.Rounds[len(r.Rounds)-1]
}
