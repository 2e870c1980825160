// Configuration tests
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

package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pkg/errors"

	"go-ipd"
	"go-ipd/sched"
)

const sample = `
[tournament]
roster = ["jesus", "judas", "grudger"]
policy = "double"
shuffle = false
rounds = 5
min_iterations = 3
max_iterations = 7
seed = 99
memory = "opponent"

[payoff]
reward = 3
sucker = 0
temptation = 5
punishment = 1

[database]
file = "ipd.db"
`

func TestParse(t *testing.T) {
	c, err := Parse(strings.NewReader(sample))
	if err != nil {
		t.Fatal(err)
	}

	tc := c.Tournament
	if len(tc.Roster) != 3 || tc.Roster[2] != "grudger" {
		t.Errorf("Unexpected roster %v", tc.Roster)
	}
	if tc.Policy != sched.Double || tc.Shuffle || tc.Rounds != 5 {
		t.Errorf("Unexpected tournament %+v", tc)
	}
	if tc.MinIterations != 3 || tc.MaxIterations != 7 || tc.Seed != 99 {
		t.Errorf("Unexpected iterations %+v", tc)
	}
	if tc.Memory != MemoryOpponent {
		t.Errorf("Expected opponent memory, got %s", tc.Memory)
	}
	if (c.Payoff != ipd.Matrix{Reward: 3, Sucker: 0, Temptation: 5, Punishment: 1}) {
		t.Errorf("Unexpected payoff %+v", c.Payoff)
	}
	if c.Database.File != "ipd.db" {
		t.Errorf("Unexpected database %q", c.Database.File)
	}
	// Sections that were not mentioned keep their defaults
	if c.History.File != "history.json" || c.Web.Port != 8080 {
		t.Errorf("Defaults were not kept: %+v %+v", c.History, c.Web)
	}
}

func TestParseErrors(t *testing.T) {
	for i, test := range []struct {
		conf  string
		field string
	}{
		{`[tournament]
rounds = 1
min_iterations = 1
max_iterations = 2`, "tournament.roster"},
		{`[tournament]
roster = ["a", "b"]
min_iterations = 1
max_iterations = 2`, "tournament.rounds"},
		{`[tournament]
roster = ["a"]
rounds = 1
min_iterations = 1
max_iterations = 2`, "tournament.roster"},
		{`[tournament]
roster = ["a", "a"]
rounds = 1
min_iterations = 1
max_iterations = 2`, "tournament.roster"},
		{`[tournament]
roster = ["a", "b"]
rounds = 0
min_iterations = 1
max_iterations = 2`, "tournament.rounds"},
		{`[tournament]
roster = ["a", "b"]
rounds = 1
min_iterations = 5
max_iterations = 5`, "tournament.min_iterations"},
		{`[tournament]
roster = ["a", "b"]
rounds = 1
min_iterations = 1
max_iterations = 2
[web]
enabled = true
port = 0`, "web.port"},
		{`[tournament]
roster = ["a", "b"]
rounds = 1
min_iterations = 1
max_iterations = 2
[payoff]
sucker = -1`, "payoff.sucker"},
	} {
		_, err := Parse(strings.NewReader(test.conf))
		var ce *ipd.ConfigError
		if !errors.As(err, &ce) {
			t.Errorf("(%d) Expected a configuration error, got %v", i, err)
			continue
		}
		if ce.Field != test.field {
			t.Errorf("(%d) Expected field %s, got %s (%s)", i, test.field, ce.Field, ce)
		}
	}

	for i, conf := range []string{
		`[tournament]
policy = "swiss"`,
		`[tournament]
memory = "forever"`,
		`this is not toml`,
	} {
		if _, err := Parse(strings.NewReader(conf)); err == nil {
			t.Errorf("(%d) Invalid configuration was accepted", i)
		}
	}
}

func TestDump(t *testing.T) {
	var buf bytes.Buffer
	c := Default()
	c.Tournament.Memory = MemoryOpponent
	c.Tournament.Policy = sched.Double
	if err := c.Dump(&buf); err != nil {
		t.Fatal(err)
	}

	d, err := Parse(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if d.Tournament.Memory != MemoryOpponent || d.Tournament.Policy != sched.Double {
		t.Errorf("Dump lost the tournament settings: %+v", d.Tournament)
	}
	if len(d.Tournament.Roster) != len(c.Tournament.Roster) || d.Payoff != c.Payoff {
		t.Errorf("Dump differs from the original: %+v", d)
	}
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Error(err)
	}
	// Default returns independent copies
	a, b := Default(), Default()
	a.Tournament.Roster[0] = "changed"
	if b.Tournament.Roster[0] == "changed" {
		t.Error("Default configurations share the roster")
	}
}
