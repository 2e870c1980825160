// Database Tests
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

package db

import (
	"context"
	"path/filepath"
	"testing"

	"go-ipd"
	"go-ipd/cmd"
	"go-ipd/game"
)

func open(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "ipd.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func play(t *testing.T, db *DB) *ipd.Result {
	t.Helper()

	c := cmd.Default()
	c.Tournament.Roster = []ipd.Player{"jesus", "judas", "tit_for_tat"}
	c.Tournament.Rounds = 2
	c.Tournament.MinIterations = 3
	c.Tournament.MaxIterations = 6
	c.Tournament.Seed = 7
	c.History.File = ""

	tr, err := game.Prepare(c, db)
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

func TestSummary(t *testing.T) {
	db := open(t)
	res := play(t, db)
	ctx := context.Background()

	s, err := db.QueryTournament(ctx, res.ID)
	if err != nil {
		t.Fatal(err)
	}
	if s.ID != res.ID || s.Rounds != 2 || s.Players != 3 || s.Fixtures != 3 {
		t.Errorf("Unexpected summary %+v", s)
	}
	if s.Policy != "single" {
		t.Errorf("Expected policy single, got %q", s.Policy)
	}
	if s.Finished.IsZero() || s.Finished.Before(s.Started) {
		t.Errorf("Invalid time span %v - %v", s.Started, s.Finished)
	}

	m, err := db.QueryPayoff(ctx, res.ID)
	if err != nil {
		t.Fatal(err)
	}
	if m != ipd.Canonical {
		t.Errorf("Expected canonical payoff, got %+v", m)
	}

	c := make(chan *ipd.Summary)
	go db.QueryTournaments(ctx, c, 0)
	n := 0
	for s := range c {
		if s.ID != res.ID {
			t.Errorf("Unknown tournament %s", s.ID)
		}
		n++
	}
	if n != 1 {
		t.Errorf("Expected one tournament, got %d", n)
	}
}

func TestScores(t *testing.T) {
	db := open(t)
	res := play(t, db)

	rounds, err := db.QueryScores(context.Background(), res.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(rounds) != len(res.Rounds) {
		t.Fatalf("Expected %d rounds, got %d", len(res.Rounds), len(rounds))
	}
	for r := range rounds {
		if len(rounds[r]) != len(res.Rounds[r]) {
			t.Errorf("Round %d: expected %d standings, got %d",
				r, len(res.Rounds[r]), len(rounds[r]))
			continue
		}
		for i := range rounds[r] {
			if rounds[r][i] != res.Rounds[r][i] {
				t.Errorf("Round %d: expected %v, got %v",
					r, res.Rounds[r][i], rounds[r][i])
			}
		}
	}
}

func TestHistory(t *testing.T) {
	db := open(t)
	res := play(t, db)

	h, err := db.QueryHistory(context.Background(), res.ID)
	if err != nil {
		t.Fatal(err)
	}
	want := res.History.Records()
	got := h.Records()
	if len(got) != len(want) {
		t.Fatalf("Expected %d records, got %d", len(want), len(got))
	}
	for i := range got {
		if got[i].Round != want[i].Round || got[i].Fixture != want[i].Fixture ||
			got[i].Player1 != want[i].Player1 || got[i].Player2 != want[i].Player2 {
			t.Errorf("Record %d: expected %+v, got %+v", i, want[i], got[i])
			continue
		}
		if len(got[i].Moves) != len(want[i].Moves) {
			t.Errorf("Record %d: expected %d moves, got %d",
				i, len(want[i].Moves), len(got[i].Moves))
			continue
		}
		for j := range got[i].Moves {
			if got[i].Moves[j] != want[i].Moves[j] {
				t.Errorf("Record %d/%d: expected %v, got %v",
					i, j, want[i].Moves[j], got[i].Moves[j])
			}
		}
	}
}

func TestForget(t *testing.T) {
	db := open(t)
	res := play(t, db)
	ctx := context.Background()

	if err := db.Forget(ctx, res.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := db.QueryTournament(ctx, res.ID); err == nil {
		t.Error("Tournament was not forgotten")
	}
	h, err := db.QueryHistory(ctx, res.ID)
	if err != nil {
		t.Fatal(err)
	}
	if h.Len() != 0 {
		t.Errorf("History of forgotten tournament has %d records", h.Len())
	}
	if err := db.Forget(ctx, res.ID); err == nil {
		t.Error("Forgot a tournament twice")
	}
}
