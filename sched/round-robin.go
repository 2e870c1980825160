// Round Robin Fixtures
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

package sched

import (
	"math/rand"
	"strings"

	"go-ipd"

	"github.com/pkg/errors"
)

// Policy decides how players are paired up
type Policy uint8

const (
	// Every unordered pair meets once
	Single Policy = iota
	// Every ordered pair meets once, i.e. (A, B) and (B, A)
	Double
)

func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "single", "singleroundrobin", "roundrobin":
		return Single, nil
	case "double", "doubleroundrobin":
		return Double, nil
	}
	return 0, errors.Errorf("unknown pairing policy %q", s)
}

func (p Policy) String() string {
	switch p {
	case Single:
		return "single"
	case Double:
		return "double"
	default:
		return "unknown"
	}
}

func (p Policy) MarshalText() ([]byte, error) {
	if p != Single && p != Double {
		return nil, errors.Errorf("unknown pairing policy %d", uint8(p))
	}
	return []byte(p.String()), nil
}

func (p *Policy) UnmarshalText(text []byte) (err error) {
	*p, err = ParsePolicy(string(text))
	return
}

// Count returns the number of fixtures N distinct players yield
func (p Policy) Count(n int) int {
	if n < 2 {
		return 0
	}
	if p == Double {
		return n * (n - 1)
	}
	return n * (n - 1) / 2
}

// Generate the fixtures for one round.  The roster order determines
// the fixture order, unless SHUFFLE is set, in which case the
// matchups are permuted using RNG before they are numbered.
// Repeated identities in the roster are ignored.
func Generate(roster []ipd.Player, policy Policy, shuffle bool, rng *rand.Rand) []ipd.Fixture {
	var (
		matchups   [][2]ipd.Player
		registered = make(map[ipd.Player]struct{})
		players    []ipd.Player
	)

	for _, p := range roster {
		if _, ok := registered[p]; ok {
			continue
		}
		registered[p] = struct{}{}
		players = append(players, p)
	}

	for i, a := range players {
		for j, b := range players {
			switch {
			case i == j:
				continue
			case policy == Single && j < i:
				// Already scheduled when B was the first member
				continue
			}
			matchups = append(matchups, [2]ipd.Player{a, b})
		}
	}

	if shuffle {
		if rng == nil {
			panic("Shuffling fixtures requires a source of randomness")
		}
		rng.Shuffle(len(matchups), func(i, j int) {
			matchups[i], matchups[j] = matchups[j], matchups[i]
		})
	}

	fixtures := make([]ipd.Fixture, 0, len(matchups))
	for id, m := range matchups {
		fixtures = append(fixtures, ipd.Fixture{
			ID: uint(id),
			A:  m[0],
			B:  m[1],
		})
	}
	return fixtures
}
