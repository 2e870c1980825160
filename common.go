// Common Interfaces and constants
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

import (
	"fmt"

	"github.com/pkg/errors"
)

type (
	// Player names a strategy taking part in a tournament.
	Player string
	Move   uint8
)

const (
	// Possible moves.  The zero value is not a move, so that an
	// agent that forgets to decide is caught by the engine.
	Cooperate Move = iota + 1
	Defect
)

func (m Move) Valid() bool {
	return m == Cooperate || m == Defect
}

func (m Move) String() string {
	switch m {
	case Cooperate:
		return "cooperate"
	case Defect:
		return "defect"
	default:
		return fmt.Sprintf("Move(%d)", uint8(m))
	}
}

func (m Move) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, errors.Errorf("illegal move %d", uint8(m))
	}
	return []byte(m.String()), nil
}

func (m *Move) UnmarshalText(text []byte) error {
	move, err := ParseMove(string(text))
	if err != nil {
		return err
	}
	*m = move
	return nil
}

func ParseMove(s string) (Move, error) {
	switch s {
	case "cooperate":
		return Cooperate, nil
	case "defect":
		return Defect, nil
	}
	return 0, errors.Errorf("illegal move %q", s)
}

// An Agent decides on a move every time it is polled by the engine.
// The view is only valid for the duration of the call, and an agent
// cannot modify the state it is derived from.
type Agent interface {
	Decide(View) Move
}

// A Failer is an agent that can explain why its last decision was
// not a move.
type Failer interface {
	Err() error
}

// A Fixture is a scheduled match between two distinct players.  A
// is always polled first.
type Fixture struct {
	ID uint   `json:"id"`
	A  Player `json:"a"`
	B  Player `json:"b"`
}

func (f Fixture) String() string {
	return fmt.Sprintf("#%d (%s vs. %s)", f.ID, f.A, f.B)
}

func (f Fixture) Has(p Player) bool {
	return f.A == p || f.B == p
}

// Return the player P is matched against
func (f Fixture) Opponent(p Player) Player {
	switch p {
	case f.A:
		return f.B
	case f.B:
		return f.A
	default:
		panic(fmt.Sprintf("%s does not take part in %s", p, f))
	}
}
