// Scoreboard Tests
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

import "testing"

func TestScoreboard(t *testing.T) {
	b := NewScoreboard([]Player{"a", "b", "c"})
	if b.Total() != 0 {
		t.Fatal("New scoreboard is not empty")
	}

	b.Add("a", 3)
	b.Add("b", 0)
	b.Add("c", 2)
	b.Add("a", 1)
	if b.Score("a") != 4 || b.Score("c") != 2 {
		t.Errorf("Unexpected scores %v", b.Copy())
	}
	if b.Total() != 6 {
		t.Errorf("Expected a total of 6, got %d", b.Total())
	}

	rank := b.Ranking()
	if rank[0].Player != "a" || rank[1].Player != "c" || rank[2].Player != "b" {
		t.Errorf("Unexpected ranking %v", rank)
	}

	c := b.Copy()
	c["a"] = 100
	if b.Score("a") != 4 {
		t.Error("Modifying a copy changed the scoreboard")
	}

	b.Reset()
	for _, p := range b.Players() {
		if b.Score(p) != 0 {
			t.Errorf("%s was not reset", p)
		}
	}
}

func TestScoreboardTies(t *testing.T) {
	b := NewScoreboard([]Player{"z", "y", "x"})
	b.Add("z", 1)
	b.Add("x", 1)

	rank := b.Ranking()
	for i, p := range []Player{"x", "z", "y"} {
		if rank[i].Player != p {
			t.Errorf("Expected %s at %d, got %s", p, i, rank[i].Player)
		}
	}
}

func TestScoreboardUnknown(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Adding points to an unknown player did not panic")
		}
	}()
	NewScoreboard([]Player{"a", "b"}).Add("c", 1)
}
