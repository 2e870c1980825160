// Remote Agents
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
	"sync"
	"time"

	"go-ipd"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
)

// Time a remote agent has to respond to a request
var Timeout = 5 * time.Second

// A remote agent is asked for every decision over a websocket
// connection.  Each request carries everything the agent is allowed
// to see, and has to be answered with a single move.
type remote struct {
	url  string
	conn *websocket.Conn
	lock sync.Mutex
}

type request struct {
	Self      ipd.Player         `json:"self"`
	Opponent  ipd.Player         `json:"opponent"`
	Round     uint               `json:"round"`
	Fixture   uint               `json:"fixture"`
	Iteration uint               `json:"iteration"`
	Payoff    ipd.Matrix         `json:"payoff"`
	History   []ipd.Iteration    `json:"history"`
	Scores    map[ipd.Player]int `json:"scores"`
}

type response struct {
	Move ipd.Move `json:"move"`
}

func dial(url string) (*remote, error) {
	dialer := websocket.Dialer{HandshakeTimeout: Timeout}
	conn, _, err := dialer.Dial(url, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "connecting to %s", url)
	}
	ipd.Debug.Printf("Connected to remote agent %s", url)
	return &remote{url: url, conn: conn}, nil
}

func (r *remote) factory(s Setup) ipd.Agent {
	return &remoteAgent{remote: r}
}

func (r *remote) request(req *request) (ipd.Move, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	deadline := time.Now().Add(Timeout)
	err := r.conn.SetWriteDeadline(deadline)
	if err != nil {
		return 0, err
	}
	err = r.conn.WriteJSON(req)
	if err != nil {
		return 0, errors.Wrap(err, "sending request")
	}

	var resp response
	err = r.conn.SetReadDeadline(deadline)
	if err != nil {
		return 0, err
	}
	err = r.conn.ReadJSON(&resp)
	if err != nil {
		return 0, errors.Wrap(err, "reading response")
	}
	return resp.Move, nil
}

func (r *remote) Close() error {
	r.lock.Lock()
	defer r.lock.Unlock()

	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	err := r.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	if err != nil {
		ipd.Debug.Println(err)
	}
	return r.conn.Close()
}

type remoteAgent struct {
	*remote
	err error
}

// Err returns the reason the last decision failed
func (a *remoteAgent) Err() error { return a.err }

// Decide forwards the view to the remote end.  Communication errors
// yield the zero move, which the engine reports as an illegal move.
func (a *remoteAgent) Decide(v ipd.View) ipd.Move {
	req := &request{
		Self:      v.Self(),
		Opponent:  v.Opponent(),
		Round:     v.Round(),
		Fixture:   v.Fixture(),
		Iteration: v.Iteration(),
		Payoff:    v.Payoff(),
		History:   v.History(),
		Scores:    v.Scores(),
	}
	if req.History == nil {
		req.History = []ipd.Iteration{}
	}

	m, err := a.request(req)
	if err != nil {
		log.Printf("Remote agent %s: %v", a.url, err)
	}
	a.err = err
	return m
}
