// Tournament Engine Tests
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
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"go-ipd"
	"go-ipd/bot"
	"go-ipd/cmd"

	"github.com/pkg/errors"
)

type fn func(ipd.View) ipd.Move

func (f fn) Decide(v ipd.View) ipd.Move { return f(v) }

var errLost = errors.New("connection lost")

// Fails to decide and knows why
type lost struct{}

func (lost) Decide(ipd.View) ipd.Move { return 0 }
func (lost) Err() error               { return errLost }

func init() {
	bot.Register("test_defect", func(bot.Setup) ipd.Agent {
		return fn(func(ipd.View) ipd.Move { return ipd.Defect })
	})
	bot.Register("test_illegal", func(bot.Setup) ipd.Agent {
		return fn(func(v ipd.View) ipd.Move {
			if v.Iteration() == 1 {
				return 0
			}
			return ipd.Cooperate
		})
	})
	bot.Register("test_lost", func(bot.Setup) ipd.Agent { return lost{} })
	bot.Register("test_once", func(bot.Setup) ipd.Agent {
		return fn(func(v ipd.View) ipd.Move {
			if v.Round() == 0 && v.Iteration() == 0 {
				return ipd.Defect
			}
			return ipd.Cooperate
		})
	})
}

func conf(t *testing.T, rounds, min uint, roster ...ipd.Player) *cmd.Conf {
	c := cmd.Default()
	c.Tournament.Roster = roster
	c.Tournament.Shuffle = false
	c.Tournament.Rounds = rounds
	c.Tournament.MinIterations = min
	c.Tournament.MaxIterations = min + 1
	c.Tournament.Seed = 1337
	c.History.File = filepath.Join(t.TempDir(), "history.json")
	return c
}

func run(t *testing.T, c *cmd.Conf, obs ...ipd.Observer) *ipd.Result {
	t.Helper()

	tr, err := Prepare(c, obs...)
	if err != nil {
		t.Fatal(err)
	}
	defer tr.Close()

	res, err := tr.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	return res
}

func TestScenarios(t *testing.T) {
	for i, test := range []struct {
		a, b   ipd.Player
		n      uint
		sa, sb int
	}{
		{"jesus", "template", 3, 6, 6},
		{"test_defect", "jesus", 2, 6, 0},
		{"judas", "test_defect", 2, 1, 4},
		{"tit_for_tat", "test_defect", 3, 2, 5},
	} {
		res := run(t, conf(t, 1, test.n, test.a, test.b))

		if len(res.Iterations) != 1 || res.Iterations[0] != test.n {
			t.Errorf("(%d) Expected %d iterations, got %v", i, test.n, res.Iterations)
		}
		final := res.Final()
		got := make(map[ipd.Player]int)
		for _, s := range final {
			got[s.Player] = s.Score
		}
		if got[test.a] != test.sa || got[test.b] != test.sb {
			t.Errorf("(%d) Expected %d:%d, got %v", i, test.sa, test.sb, final)
		}
	}
}

type counter struct {
	ipd.NopObserver
	t        *testing.T
	last     int
	snaps    int
	fixtures int
	rounds   []uint
	done     bool
}

func (c *counter) Observe(s ipd.Snapshot) {
	total := 0
	for _, n := range s.Scores {
		total += n
	}
	if total != c.last+s.Award[0]+s.Award[1] {
		c.t.Errorf("Scores are not conserved: %d -> %d (%v)",
			c.last, total, s.Award)
	}
	c.last = total
	c.snaps++
}

func (c *counter) FixtureDone(ipd.Record) { c.fixtures++ }

func (c *counter) RoundDone(r uint, _ []ipd.Standing, _ []ipd.Record) {
	c.rounds = append(c.rounds, r)
	c.last = 0
}

func (c *counter) TournamentDone(*ipd.Result) { c.done = true }

func TestConservation(t *testing.T) {
	c := conf(t, 2, 5, "jesus", "judas", "joker", "grudger")
	obs := &counter{t: t}
	res := run(t, c, obs)

	if obs.snaps != 2*6*5 {
		t.Errorf("Expected %d snapshots, got %d", 2*6*5, obs.snaps)
	}
	if obs.fixtures != 12 {
		t.Errorf("Expected 12 fixtures, got %d", obs.fixtures)
	}
	if len(obs.rounds) != 2 || obs.rounds[0] != 0 || obs.rounds[1] != 1 {
		t.Errorf("Unexpected rounds %v", obs.rounds)
	}
	if !obs.done {
		t.Error("Tournament was not reported as done")
	}

	for r, standings := range res.Rounds {
		total := 0
		for _, s := range standings {
			total += s.Score
		}
		want := 0
		for _, rec := range res.History.Round(uint(r)) {
			a, b, err := rec.Score(c.Payoff)
			if err != nil {
				t.Fatal(err)
			}
			want += a + b
		}
		if total != want {
			t.Errorf("Round %d: scoreboard %d, history %d", r, total, want)
		}
	}
}

func TestRoundIsolation(t *testing.T) {
	res := run(t, conf(t, 3, 3, "jesus", "template"))

	if len(res.Rounds) != 3 {
		t.Fatalf("Expected 3 rounds, got %d", len(res.Rounds))
	}
	for r, standings := range res.Rounds {
		for _, s := range standings {
			if s.Score != 6 {
				t.Errorf("Round %d: %s has %d, expected 6", r, s.Player, s.Score)
			}
		}
	}
}

func TestGlobalHistory(t *testing.T) {
	c := conf(t, 2, 4, "jesus", "judas", "tit_for_tat", "joker")
	c.Tournament.MaxIterations = 9
	c.Tournament.Redraw = true
	res := run(t, c)

	if n := res.History.Len(); n != 2*6 {
		t.Fatalf("Expected %d records, got %d", 2*6, n)
	}
	for _, rec := range res.History.Records() {
		if uint(len(rec.Moves)) != res.Iterations[rec.Round] {
			t.Errorf("Record %d/%d has %d moves, expected %d",
				rec.Round, rec.Fixture, len(rec.Moves), res.Iterations[rec.Round])
		}
		for _, it := range rec.Moves {
			if !it.Move(rec.Player1).Valid() || !it.Move(rec.Player2).Valid() {
				t.Errorf("Invalid iteration %v", it)
			}
		}
	}

	file, err := os.Open(c.History.File)
	if err != nil {
		t.Fatal(err)
	}
	defer file.Close()
	h, err := ipd.ReadHistory(file)
	if err != nil {
		t.Fatal(err)
	}
	if h.Len() != res.History.Len() {
		t.Errorf("Persisted %d records, expected %d", h.Len(), res.History.Len())
	}
}

func TestDeterminism(t *testing.T) {
	var out [2]bytes.Buffer
	for i := range out {
		c := conf(t, 2, 5, "joker", "better_and_better", "worse_and_worse", "grudger")
		c.Tournament.Shuffle = true
		c.Tournament.MaxIterations = 30
		c.Tournament.Seed = 42
		res := run(t, c)
		if err := res.History.WriteJSON(&out[i]); err != nil {
			t.Fatal(err)
		}
	}
	if !bytes.Equal(out[0].Bytes(), out[1].Bytes()) {
		t.Error("Tournaments with the same seed differ")
	}
}

func TestIllegalMove(t *testing.T) {
	c := conf(t, 1, 3, "jesus", "test_illegal")
	tr, err := Prepare(c)
	if err != nil {
		t.Fatal(err)
	}
	_, err = tr.Run(context.Background())

	var ime *ipd.IllegalMoveError
	if !errors.As(err, &ime) {
		t.Fatalf("Expected an illegal move error, got %v", err)
	}
	if ime.Player != "test_illegal" || ime.Iteration != 1 || ime.Round != 0 {
		t.Errorf("Unexpected error context %+v", ime)
	}
	if s := tr.board.Score("jesus"); s != 2 {
		t.Errorf("Illegal iteration was scored (%d)", s)
	}
	if tr.global.Len() != 0 {
		t.Error("Aborted fixture was recorded")
	}
}

func TestIllegalMoveCause(t *testing.T) {
	tr, err := Prepare(conf(t, 1, 3, "jesus", "test_lost"))
	if err != nil {
		t.Fatal(err)
	}
	_, err = tr.Run(context.Background())

	var ime *ipd.IllegalMoveError
	if !errors.As(err, &ime) {
		t.Fatalf("Expected an illegal move error, got %v", err)
	}
	if ime.Player != "test_lost" || ime.Err != errLost {
		t.Errorf("Unexpected error context %+v", ime)
	}
	if !errors.Is(err, errLost) {
		t.Error("Cause is not reachable through the error chain")
	}

	// Agents without a cause leave it empty
	tr, err = Prepare(conf(t, 1, 3, "jesus", "test_illegal"))
	if err != nil {
		t.Fatal(err)
	}
	_, err = tr.Run(context.Background())
	if !errors.As(err, &ime) || ime.Err != nil {
		t.Errorf("Unexpected cause in %v", err)
	}
}

func TestPrepareErrors(t *testing.T) {
	c := conf(t, 0, 3, "jesus", "judas")
	_, err := Prepare(c)
	var ce *ipd.ConfigError
	if !errors.As(err, &ce) || ce.Field != "tournament.rounds" {
		t.Errorf("Expected configuration error, got %v", err)
	}

	c = conf(t, 1, 3, "jesus", "no_such_agent")
	_, err = Prepare(c)
	var ale *ipd.AgentLoadError
	if !errors.As(err, &ale) || ale.Name != "no_such_agent" {
		t.Errorf("Expected agent load error, got %v", err)
	}
}

func TestCancel(t *testing.T) {
	tr, err := Prepare(conf(t, 1, 3, "jesus", "judas"))
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err = tr.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected cancellation, got %v", err)
	}
}

func TestMemoryScope(t *testing.T) {
	for _, test := range []struct {
		memory cmd.Memory
		first  ipd.Move
	}{
		{cmd.MemoryFixture, ipd.Cooperate},
		{cmd.MemoryOpponent, ipd.Defect},
	} {
		c := conf(t, 2, 2, "grudger", "test_once")
		c.Tournament.Memory = test.memory
		res := run(t, c)

		rs := res.History.Round(1)
		if len(rs) != 1 {
			t.Fatalf("Expected one record, got %d", len(rs))
		}
		if m := rs[0].Moves[0].Move("grudger"); m != test.first {
			t.Errorf("%s: grudger opened round 1 with %s, expected %s",
				test.memory, m, test.first)
		}
	}
}
