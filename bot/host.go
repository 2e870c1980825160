// Remote agent host
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
	"log"
	"math/rand"
	"net/http"
	"sort"
	"time"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"go-ipd"
)

// Largest request a host accepts
const readLimit = 1 << 22

// Reconstruct the state of the fixture described by a request
func (req *request) match() *ipd.Match {
	players := make([]ipd.Player, 0, len(req.Scores))
	for p := range req.Scores {
		players = append(players, p)
	}
	sort.Slice(players, func(i, j int) bool { return players[i] < players[j] })
	board := ipd.NewScoreboard(players)
	for p, n := range req.Scores {
		board.Add(p, n)
	}

	return &ipd.Match{
		Round:     req.Round,
		Iteration: req.Iteration,
		Fixture: ipd.Fixture{
			ID: req.Fixture,
			A:  req.Self,
			B:  req.Opponent,
		},
		Payoff:  req.Payoff,
		History: req.History,
		Board:   board,
	}
}

// Serve plays the agent created by F for every websocket connection.
// A fresh agent is created whenever a request belongs to a different
// fixture than the previous one.
func Serve(f Factory) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			ipd.Debug.Printf("Unable to accept connection: %s", err)
			return
		}
		defer conn.Close(websocket.StatusInternalError, "")
		conn.SetReadLimit(readLimit)
		log.Printf("New connection from %s", r.RemoteAddr)

		type fixture struct {
			round, id uint
			opponent  ipd.Player
		}
		var (
			ctx     = r.Context()
			rng     = rand.New(rand.NewSource(time.Now().UnixNano()))
			agent   ipd.Agent
			current fixture
		)
		for {
			var req request
			err := wsjson.Read(ctx, conn, &req)
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				ipd.Debug.Printf("%s disconnected", r.RemoteAddr)
				return
			}
			if err != nil {
				log.Print(err)
				return
			}

			next := fixture{req.Round, req.Fixture, req.Opponent}
			if agent == nil || next != current {
				agent = f(Setup{
					Self:     req.Self,
					Opponent: req.Opponent,
					Rand:     rng,
				})
				current = next
			}

			m := req.match()
			move := agent.Decide(m.View(req.Self))
			if !move.Valid() {
				log.Printf("%s made an illegal move", req.Self)
				conn.Close(websocket.StatusInternalError, "illegal move")
				return
			}
			err = wsjson.Write(ctx, conn, response{Move: move})
			if err != nil {
				log.Print(err)
				return
			}
		}
	})
}
