// Payoff Matrix
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

import "github.com/pkg/errors"

// Matrix converts a pair of moves into points.  It is described by
// the four classical values, which makes it symmetric under swapping
// the two players.
type Matrix struct {
	Reward     int `toml:"reward" json:"reward"`         // both cooperate
	Sucker     int `toml:"sucker" json:"sucker"`         // cooperate against defect
	Temptation int `toml:"temptation" json:"temptation"` // defect against cooperate
	Punishment int `toml:"punishment" json:"punishment"` // both defect
}

// Canonical is the payoff table used unless configured otherwise
var Canonical = Matrix{
	Reward:     2,
	Sucker:     0,
	Temptation: 3,
	Punishment: 1,
}

// Resolve awards points for the moves A and B.  Anything outside of
// the move enumeration is rejected and must not be scored.
func (m Matrix) Resolve(a, b Move) (int, int, error) {
	switch {
	case a == Cooperate && b == Cooperate:
		return m.Reward, m.Reward, nil
	case a == Cooperate && b == Defect:
		return m.Sucker, m.Temptation, nil
	case a == Defect && b == Cooperate:
		return m.Temptation, m.Sucker, nil
	case a == Defect && b == Defect:
		return m.Punishment, m.Punishment, nil
	}
	return 0, 0, errors.Errorf("no payoff for (%s, %s)", a, b)
}
