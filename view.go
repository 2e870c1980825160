// Agent View
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

// Match is the engine-owned state of the fixture that is currently
// being played.
type Match struct {
	Round     uint
	Iteration uint
	Fixture   Fixture
	Payoff    Matrix
	History   []Iteration // moves made so far in this fixture
	Global    *History
	Board     *Scoreboard
}

// View returns what SELF is allowed to see of the match
func (m *Match) View(self Player) View {
	if !m.Fixture.Has(self) {
		panic("Player is not part of the fixture")
	}
	return View{m: m, self: self}
}

// View is a read-only window onto a match, from the perspective of
// one player.
type View struct {
	m    *Match
	self Player
}

func (v View) Self() Player       { return v.self }
func (v View) Opponent() Player   { return v.m.Fixture.Opponent(v.self) }
func (v View) Round() uint        { return v.m.Round }
func (v View) Fixture() uint      { return v.m.Fixture.ID }
func (v View) Iteration() uint    { return v.m.Iteration }
func (v View) Payoff() Matrix     { return v.m.Payoff }
func (v View) Len() int           { return len(v.m.History) }
func (v View) At(i int) Iteration { return v.m.History[i] }

// Last returns the previous iteration of the fixture, if any.
func (v View) Last() (Iteration, bool) {
	if len(v.m.History) == 0 {
		return Iteration{}, false
	}
	return v.m.History[len(v.m.History)-1], true
}

func (v View) History() []Iteration {
	return append([]Iteration(nil), v.m.History...)
}

// Moves lists all moves P has made in this fixture
func (v View) Moves(p Player) []Move {
	ms := make([]Move, 0, len(v.m.History))
	for _, it := range v.m.History {
		ms = append(ms, it.Move(p))
	}
	return ms
}

func (v View) Global() []Record {
	if v.m.Global == nil {
		return nil
	}
	return v.m.Global.Records()
}

func (v View) Score(p Player) int {
	if v.m.Board == nil {
		return 0
	}
	return v.m.Board.Score(p)
}

func (v View) Scores() map[Player]int {
	if v.m.Board == nil {
		return nil
	}
	return v.m.Board.Copy()
}
