// Scoreboard
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

import "sort"

// Standing is the score of a single player
type Standing struct {
	Player Player `json:"player"`
	Score  int    `json:"score"`
}

// Scoreboard accumulates points per player.  It is owned by the
// engine, agents only ever see copies.
type Scoreboard struct {
	roster []Player
	score  map[Player]int
}

func NewScoreboard(roster []Player) *Scoreboard {
	s := &Scoreboard{
		roster: append([]Player(nil), roster...),
		score:  make(map[Player]int, len(roster)),
	}
	s.Reset()
	return s
}

// Set every roster member back to zero
func (s *Scoreboard) Reset() {
	for _, p := range s.roster {
		s.score[p] = 0
	}
}

func (s *Scoreboard) Add(p Player, n int) {
	if _, ok := s.score[p]; !ok {
		panic("Unknown player " + string(p))
	}
	s.score[p] += n
}

func (s *Scoreboard) Score(p Player) int {
	return s.score[p]
}

// Total is the sum of all points on the board
func (s *Scoreboard) Total() (n int) {
	for _, v := range s.score {
		n += v
	}
	return
}

func (s *Scoreboard) Players() []Player {
	return append([]Player(nil), s.roster...)
}

func (s *Scoreboard) Copy() map[Player]int {
	c := make(map[Player]int, len(s.score))
	for p, v := range s.score {
		c[p] = v
	}
	return c
}

// Ranking orders all players by their score, and then by name.
func (s *Scoreboard) Ranking() []Standing {
	r := make([]Standing, 0, len(s.roster))
	for _, p := range s.roster {
		r = append(r, Standing{Player: p, Score: s.score[p]})
	}
	sort.SliceStable(r, func(i, j int) bool {
		if r[i].Score == r[j].Score {
			return r[i].Player < r[j].Player
		}
		return r[i].Score > r[j].Score
	})
	return r
}
