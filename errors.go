// Error taxonomy
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

import "fmt"

// ConfigError reports an invalid or missing configuration field.  It
// is detected before the first round starts.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration %s: %s", e.Field, e.Reason)
}

// IllegalMoveError halts a tournament when an agent returned
// something that is not a move.
type IllegalMoveError struct {
	Round     uint
	Fixture   uint
	Iteration uint
	Player    Player
	Move      Move
	Err       error // why the agent could not decide, if known
}

func (e *IllegalMoveError) Error() string {
	msg := fmt.Sprintf("%s made illegal move %s (round %d, fixture %d, iteration %d)",
		e.Player, e.Move, e.Round, e.Fixture, e.Iteration)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *IllegalMoveError) Unwrap() error { return e.Err }

// AgentLoadError reports an agent that could not be resolved
type AgentLoadError struct {
	Name string
	Err  error
}

func (e *AgentLoadError) Error() string {
	return fmt.Sprintf("cannot load agent %q: %v", e.Name, e.Err)
}

func (e *AgentLoadError) Unwrap() error { return e.Err }
