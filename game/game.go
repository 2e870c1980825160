// Tournament Engine
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

package game

import (
	"context"
	"log"
	"math/rand"
	"os"
	"time"

	"go-ipd"
	"go-ipd/bot"
	"go-ipd/cmd"
	"go-ipd/sched"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Tournament runs all rounds of a configured tournament.  A
// tournament is strictly sequential, and owns the scoreboard and the
// history while it is running.
type Tournament struct {
	ID   string
	conf *cmd.Conf
	obs  []ipd.Observer

	rng      *rand.Rand
	roster   *bot.Roster
	fixtures []ipd.Fixture
	board    *ipd.Scoreboard
	global   *ipd.History
	match    ipd.Match

	// Agents kept across fixtures, by (self, opponent)
	memory map[[2]ipd.Player]ipd.Agent
}

// Prepare validates the configuration and resolves all agents, so
// that no error of this kind can occur once the first round started.
func Prepare(conf *cmd.Conf, obs ...ipd.Observer) (*Tournament, error) {
	err := conf.Validate()
	if err != nil {
		return nil, err
	}

	roster, err := bot.Load(conf.Tournament.Roster)
	if err != nil {
		return nil, err
	}

	seed := conf.Tournament.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	ipd.Debug.Printf("Using seed %d", seed)

	t := &Tournament{
		ID:     uuid.NewString(),
		conf:   conf,
		obs:    obs,
		rng:    rand.New(rand.NewSource(seed)),
		roster: roster,
		board:  ipd.NewScoreboard(conf.Tournament.Roster),
		global: &ipd.History{},
		memory: make(map[[2]ipd.Player]ipd.Agent),
	}
	t.fixtures = sched.Generate(conf.Tournament.Roster,
		conf.Tournament.Policy,
		conf.Tournament.Shuffle,
		t.rng)
	return t, nil
}

// Fixtures returns the fixtures that are played every round
func (t *Tournament) Fixtures() []ipd.Fixture {
	return append([]ipd.Fixture(nil), t.fixtures...)
}

// Draw the number of iterations from [min, max)
func (t *Tournament) draw() uint {
	lo, hi := t.conf.Tournament.MinIterations, t.conf.Tournament.MaxIterations
	return lo + uint(t.rng.Int63n(int64(hi-lo)))
}

// Return the agent SELF uses against OPP
func (t *Tournament) agent(self, opp ipd.Player) ipd.Agent {
	setup := bot.Setup{Self: self, Opponent: opp, Rand: t.rng}
	if t.conf.Tournament.Memory != cmd.MemoryOpponent {
		return t.roster.Make(setup)
	}

	key := [2]ipd.Player{self, opp}
	a, ok := t.memory[key]
	if !ok {
		a = t.roster.Make(setup)
		t.memory[key] = a
	}
	return a
}

// Run all rounds.  The returned result holds the scoreboard of every
// round and the complete history.
func (t *Tournament) Run(ctx context.Context) (*ipd.Result, error) {
	tc := &t.conf.Tournament
	res := &ipd.Result{
		ID:       t.ID,
		Payoff:   t.conf.Payoff,
		Fixtures: t.Fixtures(),
		History:  t.global,
	}

	info := ipd.Info{
		ID:      t.ID,
		Roster:  append([]ipd.Player(nil), tc.Roster...),
		Policy:  tc.Policy.String(),
		Rounds:  tc.Rounds,
		Payoff:  t.conf.Payoff,
		Started: time.Now(),
	}
	for _, o := range t.obs {
		o.TournamentStarted(info)
	}
	log.Printf("Starting tournament %s with %d players and %d fixtures per round",
		t.ID, len(tc.Roster), len(t.fixtures))

	iterations := t.draw()
	for round := uint(0); round < tc.Rounds; round++ {
		if round > 0 && tc.Redraw {
			iterations = t.draw()
		}
		res.Iterations = append(res.Iterations, iterations)
		ipd.Debug.Printf("Round %d: %d iterations per fixture", round, iterations)

		for i, f := range t.fixtures {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			a, b, err := t.play(round, f, iterations)
			if err != nil {
				return nil, err
			}
			log.Printf("Round %d: %d/%d (%s vs. %s) -> %d:%d",
				round, i+1, len(t.fixtures), f.A, f.B, a, b)
		}

		standings := t.board.Ranking()
		res.Rounds = append(res.Rounds, standings)
		for _, o := range t.obs {
			o.RoundDone(round, standings, t.global.Round(round))
		}

		t.board.Reset()
	}

	err := t.persist()
	for _, o := range t.obs {
		o.TournamentDone(res)
	}
	return res, err
}

// Play one fixture and return the points each player was awarded
func (t *Tournament) play(round uint, f ipd.Fixture, n uint) (int, int, error) {
	var (
		m      = &t.match
		sa, sb int
	)

	// Reset the fixture history
	*m = ipd.Match{
		Round:   round,
		Fixture: f,
		Payoff:  t.conf.Payoff,
		History: make([]ipd.Iteration, 0, n),
		Global:  t.global,
		Board:   t.board,
	}
	a, b := t.agent(f.A, f.B), t.agent(f.B, f.A)

	for i := uint(0); i < n; i++ {
		m.Iteration = i

		ma := a.Decide(m.View(f.A))
		if !ma.Valid() {
			return 0, 0, &ipd.IllegalMoveError{
				Round: round, Fixture: f.ID, Iteration: i,
				Player: f.A, Move: ma, Err: cause(a),
			}
		}
		mb := b.Decide(m.View(f.B))
		if !mb.Valid() {
			return 0, 0, &ipd.IllegalMoveError{
				Round: round, Fixture: f.ID, Iteration: i,
				Player: f.B, Move: mb, Err: cause(b),
			}
		}

		pa, pb, err := m.Payoff.Resolve(ma, mb)
		if err != nil {
			// Both moves are valid, so this must be a bug
			panic(err)
		}
		t.board.Add(f.A, pa)
		t.board.Add(f.B, pb)
		sa, sb = sa+pa, sb+pb

		it := ipd.Iteration{
			Players: [2]ipd.Player{f.A, f.B},
			Moves:   [2]ipd.Move{ma, mb},
		}
		m.History = append(m.History, it)

		if len(t.obs) > 0 {
			snap := ipd.Snapshot{
				Round:     round,
				Fixture:   f.ID,
				Iteration: i,
				Players:   it.Players,
				Moves:     it.Moves,
				Award:     [2]int{pa, pb},
				Scores:    t.board.Copy(),
			}
			for _, o := range t.obs {
				o.Observe(snap)
			}
		}
	}

	rec := ipd.Record{
		Round:   round,
		Fixture: f.ID,
		Player1: f.A,
		Player2: f.B,
		Moves:   m.History,
	}
	t.global.Append(rec)
	for _, o := range t.obs {
		o.FixtureDone(rec)
	}

	// Flush the fixture history
	m.History = nil
	return sa, sb, nil
}

// Write the global history to the configured file
func (t *Tournament) persist() error {
	name := t.conf.History.File
	if name == "" {
		return nil
	}

	file, err := os.Create(name)
	if err != nil {
		return errors.Wrap(err, "persisting history")
	}
	err = t.global.WriteJSON(file)
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		log.Printf("Wrote %d records to %s", t.global.Len(), name)
	}
	return errors.Wrapf(err, "persisting history to %s", name)
}

// Close releases all agents
func (t *Tournament) Close() error {
	t.memory = nil
	return t.roster.Close()
}

func cause(a ipd.Agent) error {
	if f, ok := a.(ipd.Failer); ok {
		return f.Err()
	}
	return nil
}
