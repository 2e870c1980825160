// Built-in Strategies
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

package bot

import (
	"math/rand"

	"go-ipd"
)

func init() {
	Register("jesus", func(Setup) ipd.Agent { return always(ipd.Cooperate) })
	Register("template", func(Setup) ipd.Agent { return always(ipd.Cooperate) })
	Register("judas", func(Setup) ipd.Agent { return judas{} })
	Register("tit_for_tat", func(Setup) ipd.Agent { return titForTat{} })
	Register("appeaser", func(Setup) ipd.Agent { return appeaser{} })
	Register("grudger", func(Setup) ipd.Agent {
		return &grudger{grudges: make(map[ipd.Player]bool)}
	})
	Register("joker", func(s Setup) ipd.Agent { return joker{s.Rand} })
	Register("better_and_better", func(s Setup) ipd.Agent {
		return &drift{rng: s.Rand, toward: ipd.Cooperate}
	})
	Register("worse_and_worse", func(s Setup) ipd.Agent {
		return &drift{rng: s.Rand, toward: ipd.Defect}
	})
}

// Always makes the same move
type always ipd.Move

func (a always) Decide(ipd.View) ipd.Move { return ipd.Move(a) }

// Judas cooperates as long as it is not behind its opponent
type judas struct{}

func (judas) Decide(v ipd.View) ipd.Move {
	if v.Score(v.Self()) >= v.Score(v.Opponent()) {
		return ipd.Cooperate
	}
	return ipd.Defect
}

// Tit for Tat starts friendly and then mirrors the opponent
type titForTat struct{}

func (titForTat) Decide(v ipd.View) ipd.Move {
	last, ok := v.Last()
	if !ok {
		return ipd.Cooperate
	}
	return last.Move(v.Opponent())
}

// Appeaser switches its move whenever the opponent defects
type appeaser struct{}

func (appeaser) Decide(v ipd.View) ipd.Move {
	last, ok := v.Last()
	if !ok || last.Move(v.Opponent()) != ipd.Defect {
		return ipd.Cooperate
	}
	if last.Move(v.Self()) == ipd.Cooperate {
		return ipd.Defect
	}
	return ipd.Cooperate
}

// Grudger never forgives a defection.  The grudge is held against a
// specific opponent, and outlives a fixture if the agent does.
type grudger struct {
	grudges map[ipd.Player]bool
}

func (g *grudger) Decide(v ipd.View) ipd.Move {
	opp := v.Opponent()
	if last, ok := v.Last(); ok && last.Move(opp) == ipd.Defect {
		g.grudges[opp] = true
	}
	if g.grudges[opp] {
		return ipd.Defect
	}
	return ipd.Cooperate
}

// Joker flips a coin
type joker struct{ rng *rand.Rand }

func (j joker) Decide(ipd.View) ipd.Move {
	if j.rng.Intn(2) == 0 {
		return ipd.Defect
	}
	return ipd.Cooperate
}

// The more iterations have passed, the more likely drift is to make
// the move it is drifting toward.  After n iterations it makes that
// move with probability (n+1)/1000, so better_and_better starts out
// defecting and only slowly learns to cooperate.  This is the
// inverse of a rule cooperating with probability 1-n/1000.
type drift struct {
	rng    *rand.Rand
	toward ipd.Move
}

const driftSpan = 1000

func (d *drift) Decide(v ipd.View) ipd.Move {
	p := float64(v.Len()+1) / driftSpan
	if d.rng.Float64() < p {
		return d.toward
	}
	if d.toward == ipd.Cooperate {
		return ipd.Defect
	}
	return ipd.Cooperate
}
