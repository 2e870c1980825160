// Agent Registry
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
	"fmt"
	"io"
	"math/rand"
	"sort"
	"strings"
	"sync"

	"go-ipd"

	"github.com/pkg/errors"
)

// Setup is passed to a factory whenever the engine needs a new agent
type Setup struct {
	Self     ipd.Player
	Opponent ipd.Player
	Rand     *rand.Rand // shared by the entire tournament
}

// Factory creates an agent for a fixture
type Factory func(Setup) ipd.Agent

var (
	lock     sync.RWMutex
	registry = make(map[string]Factory)
)

// Register makes a factory available under NAME.  Registering the
// same name twice is a programming error.
func Register(name string, f Factory) {
	lock.Lock()
	defer lock.Unlock()

	if f == nil {
		panic("Register factory is nil")
	}
	if _, dup := registry[name]; dup {
		panic("Register called twice for agent " + name)
	}
	registry[name] = f
}

// Names lists all registered agents
func Names() (names []string) {
	lock.RLock()
	defer lock.RUnlock()

	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return
}

// Lookup resolves a single agent name
func Lookup(name string) (Factory, error) {
	lock.RLock()
	defer lock.RUnlock()

	f, ok := registry[name]
	if !ok {
		return nil, &ipd.AgentLoadError{
			Name: name,
			Err:  errors.New("no such agent"),
		}
	}
	return f, nil
}

// Roster holds the factories for every player of a tournament
type Roster struct {
	factories map[ipd.Player]Factory
	closers   []io.Closer
}

// Load resolves all players, before any fixture is played.  Players
// named by a websocket URL are connected to immediately.
func Load(players []ipd.Player) (*Roster, error) {
	r := &Roster{factories: make(map[ipd.Player]Factory, len(players))}

	for _, p := range players {
		name := string(p)

		var (
			f   Factory
			err error
		)
		if strings.HasPrefix(name, "ws://") || strings.HasPrefix(name, "wss://") {
			var rem *remote
			rem, err = dial(name)
			if err == nil {
				f = rem.factory
				r.closers = append(r.closers, rem)
			} else {
				err = &ipd.AgentLoadError{Name: name, Err: err}
			}
		} else {
			f, err = Lookup(name)
		}
		if err != nil {
			r.Close()
			return nil, err
		}

		ipd.Debug.Printf("Loaded agent %s", p)
		r.factories[p] = f
	}

	return r, nil
}

// Make creates a new agent for S.Self
func (r *Roster) Make(s Setup) ipd.Agent {
	f, ok := r.factories[s.Self]
	if !ok {
		panic(fmt.Sprintf("Agent %s was not loaded", s.Self))
	}
	return f(s)
}

// Close releases all connections held by remote agents
func (r *Roster) Close() (err error) {
	for _, c := range r.closers {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	r.closers = nil
	return
}
