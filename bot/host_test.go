// Remote agent host tests
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
	"net/http/httptest"
	"strings"
	"testing"

	"go-ipd"
)

func TestHost(t *testing.T) {
	f, err := Lookup("grudger")
	if err != nil {
		t.Fatal(err)
	}
	srv := httptest.NewServer(Serve(f))
	defer srv.Close()
	url := ipd.Player("ws" + strings.TrimPrefix(srv.URL, "http"))

	r, err := Load([]ipd.Player{url})
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	C, D := ipd.Cooperate, ipd.Defect
	for i, test := range []struct {
		fixture uint
		opp     []ipd.Move
		want    []ipd.Move
	}{
		{0, []ipd.Move{C, D, C}, []ipd.Move{C, C, D, D}},
		// A new fixture gets a new agent
		{1, []ipd.Move{C, C}, []ipd.Move{C, C, C}},
	} {
		a := r.Make(Setup{Self: url, Opponent: "opp"})
		m := &ipd.Match{
			Fixture: ipd.Fixture{ID: test.fixture, A: "opp", B: url},
			Payoff:  ipd.Canonical,
			Board:   ipd.NewScoreboard([]ipd.Player{url, "opp"}),
		}

		for j, want := range test.want {
			m.Iteration = uint(j)
			got := a.Decide(m.View(url))
			if got != want {
				t.Errorf("(%d/%d) Expected %s, got %s", i, j, want, got)
			}
			if j < len(test.opp) {
				m.History = append(m.History, ipd.Iteration{
					Players: [2]ipd.Player{"opp", url},
					Moves:   [2]ipd.Move{test.opp[j], got},
				})
			}
		}
	}
}

func TestHostIllegal(t *testing.T) {
	srv := httptest.NewServer(Serve(func(Setup) ipd.Agent {
		return always(0)
	}))
	defer srv.Close()
	url := ipd.Player("ws" + strings.TrimPrefix(srv.URL, "http"))

	r, err := Load([]ipd.Player{url})
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	a := r.Make(Setup{Self: url, Opponent: "opp"})
	m := &ipd.Match{
		Fixture: ipd.Fixture{A: url, B: "opp"},
		Payoff:  ipd.Canonical,
	}
	if got := a.Decide(m.View(url)); got.Valid() {
		t.Errorf("Expected an illegal move, got %s", got)
	}
}
