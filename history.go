// Match History
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
	"encoding/json"
	"io"

	"github.com/pkg/errors"
)

// Iteration records what both players of a fixture did at one
// decision point.  Players[0] is always the first member of the
// fixture.
type Iteration struct {
	Players [2]Player
	Moves   [2]Move
}

// Move returns the move P made, or zero if P did not take part.
func (it Iteration) Move(p Player) Move {
	for i := range it.Players {
		if it.Players[i] == p {
			return it.Moves[i]
		}
	}
	return 0
}

// Iterations are serialised as an object mapping each player to
// their move.
func (it Iteration) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[Player]Move{
		it.Players[0]: it.Moves[0],
		it.Players[1]: it.Moves[1],
	})
}

// The order of the players is lost in the serialised form, it is
// restored by the surrounding record.
func (it *Iteration) UnmarshalJSON(data []byte) error {
	var m map[Player]Move
	err := json.Unmarshal(data, &m)
	if err != nil {
		return err
	}
	if len(m) != 2 {
		return errors.Errorf("iteration with %d players", len(m))
	}

	i := 0
	for p, mv := range m {
		it.Players[i], it.Moves[i] = p, mv
		i++
	}
	return nil
}

// Record summarises a fixture once it has been played
type Record struct {
	Round   uint        `json:"round_id"`
	Fixture uint        `json:"fixture_id"`
	Player1 Player      `json:"player1"`
	Player2 Player      `json:"player2"`
	Moves   []Iteration `json:"moves_data"`
}

func (r *Record) UnmarshalJSON(data []byte) error {
	type record Record
	var raw record
	err := json.Unmarshal(data, &raw)
	if err != nil {
		return err
	}

	for i, it := range raw.Moves {
		switch {
		case it.Players[0] == raw.Player1 && it.Players[1] == raw.Player2:
		case it.Players[1] == raw.Player1 && it.Players[0] == raw.Player2:
			it.Players[0], it.Players[1] = it.Players[1], it.Players[0]
			it.Moves[0], it.Moves[1] = it.Moves[1], it.Moves[0]
			raw.Moves[i] = it
		default:
			return errors.Errorf("iteration %d of fixture %d does not belong to %s and %s",
				i, raw.Fixture, raw.Player1, raw.Player2)
		}
	}

	*r = Record(raw)
	return nil
}

// Score sums up the points each player was awarded in the fixture
func (r Record) Score(m Matrix) (int, int, error) {
	var a, b int
	for _, it := range r.Moves {
		da, db, err := m.Resolve(it.Moves[0], it.Moves[1])
		if err != nil {
			return 0, 0, err
		}
		a, b = a+da, b+db
	}
	return a, b, nil
}

func (r Record) copy() Record {
	r.Moves = append([]Iteration(nil), r.Moves...)
	return r
}

// History is the append-only log of all fixtures played in a
// tournament.
type History struct {
	records []Record
}

// Append a copy of R to the history
func (h *History) Append(r Record) {
	h.records = append(h.records, r.copy())
}

func (h *History) Len() int { return len(h.records) }

// Records returns a copy of the entire history
func (h *History) Records() []Record {
	rs := make([]Record, len(h.records))
	for i, r := range h.records {
		rs[i] = r.copy()
	}
	return rs
}

// Round returns a copy of all records from round R
func (h *History) Round(round uint) (rs []Record) {
	for _, r := range h.records {
		if r.Round == round {
			rs = append(rs, r.copy())
		}
	}
	return
}

func (h *History) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	records := h.records
	if records == nil {
		records = []Record{}
	}
	return errors.Wrap(enc.Encode(records), "encoding history")
}

func ReadHistory(r io.Reader) (*History, error) {
	var h History
	err := json.NewDecoder(r).Decode(&h.records)
	if err != nil {
		return nil, errors.Wrap(err, "decoding history")
	}
	return &h, nil
}
