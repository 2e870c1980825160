// Live tournament feed
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

package web

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"go-ipd"
)

// Number of messages buffered for every subscriber
const backlog = 64

const writeWait = 10 * time.Second

// message is sent to every websocket subscriber
type message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// hub fans tournament events out to websocket subscribers.  Events
// for subscribers that cannot keep up are dropped, so the tournament
// is never slowed down by a client.
type hub struct {
	lock   sync.Mutex
	subs   map[chan message]struct{}
	closed bool
}

func newHub() *hub {
	return &hub{subs: make(map[chan message]struct{})}
}

func (h *hub) subscribe() chan message {
	h.lock.Lock()
	defer h.lock.Unlock()

	c := make(chan message, backlog)
	if h.closed {
		close(c)
		return c
	}
	h.subs[c] = struct{}{}
	return c
}

func (h *hub) unsubscribe(c chan message) {
	h.lock.Lock()
	defer h.lock.Unlock()

	if _, ok := h.subs[c]; ok {
		delete(h.subs, c)
		close(c)
	}
}

func (h *hub) broadcast(m message) {
	h.lock.Lock()
	defer h.lock.Unlock()

	for c := range h.subs {
		select {
		case c <- m:
		default:
			ipd.Debug.Printf("Dropping %s message for slow subscriber", m.Type)
		}
	}
}

// Disconnect all subscribers
func (h *hub) close() {
	h.lock.Lock()
	defer h.lock.Unlock()

	for c := range h.subs {
		close(c)
	}
	h.subs = nil
	h.closed = true
}

func (h *hub) TournamentStarted(info ipd.Info) {
	h.broadcast(message{"started", info})
}

func (h *hub) Observe(s ipd.Snapshot) {
	h.broadcast(message{"iteration", s})
}

func (h *hub) FixtureDone(r ipd.Record) {
	h.broadcast(message{"fixture", r})
}

func (h *hub) RoundDone(round uint, scores []ipd.Standing, _ []ipd.Record) {
	h.broadcast(message{"round", struct {
		Round     uint           `json:"round"`
		Standings []ipd.Standing `json:"standings"`
	}{round, scores}})
}

func (h *hub) TournamentDone(res *ipd.Result) {
	h.broadcast(message{"done", struct {
		ID    string         `json:"id"`
		Final []ipd.Standing `json:"final"`
	}{res.ID, res.Final()}})
}

// Upgrade a HTTP connection to a WebSocket and subscribe it to the
// tournament feed
func (h *hub) upgrader() http.HandlerFunc {
	up := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}
	return func(w http.ResponseWriter, r *http.Request) {
		// upgrade to websocket or bail out
		conn, err := up.Upgrade(w, r, nil)
		if err != nil {
			ipd.Debug.Printf("Unable to upgrade connection: %s", err)
			return
		}
		ipd.Debug.Printf("New subscriber %s", conn.RemoteAddr())

		c := h.subscribe()
		go func() {
			// Subscribers are not expected to send anything,
			// but reading is necessary to notice a close.
			for {
				if _, _, err := conn.NextReader(); err != nil {
					h.unsubscribe(c)
					return
				}
			}
		}()

		defer conn.Close()
		for m := range c {
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(m); err != nil {
				ipd.Debug.Print(err)
				h.unsubscribe(c)
				break
			}
		}
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		err = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
		if err != nil && err != websocket.ErrCloseSent {
			ipd.Debug.Print(err)
		}
	}
}
