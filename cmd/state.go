// Shared State
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
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"

	"go-ipd"
)

type Manager interface {
	fmt.Stringer
	Start(*State, *Conf)
	Shutdown()
}

type Database interface {
	Manager
	ipd.Observer

	// Access interface
	QueryTournaments(context.Context, chan<- *ipd.Summary, int)
	QueryTournament(context.Context, string) (*ipd.Summary, error)
	QueryScores(context.Context, string) ([][]ipd.Standing, error)
	QueryPayoff(context.Context, string) (ipd.Matrix, error)
	QueryHistory(context.Context, string) (*ipd.History, error)
	Forget(context.Context, string) error
}

type State struct {
	Context context.Context
	Kill    context.CancelFunc
	Running bool

	Database  Database
	Observers []ipd.Observer
	Managers  []Manager
}

func MakeState() *State {
	ctx, kill := context.WithCancel(context.Background())
	return &State{
		Context: ctx,
		Kill:    kill,
	}
}

// Register a manager.  Managers that observe tournaments are
// notified in the order they were registered.
func (st *State) Register(m Manager) {
	if st.Running {
		panic(fmt.Sprintf("Late register: %#v", m))
	}

	if db, ok := m.(Database); ok {
		st.Database = db
	}
	if o, ok := m.(ipd.Observer); ok {
		st.Observers = append(st.Observers, o)
	}

	st.Managers = append(st.Managers, m)
}

// Start all managers and block until either an interrupt has been
// caught or a manager requested a shutdown.
func (st *State) Start(c *Conf) {
	for _, m := range st.Managers {
		ipd.Debug.Printf("Starting %s", m)
		go m.Start(st, c)
	}
	st.Running = true

	// Catch an interrupt request...
	intr := make(chan os.Signal, 1)
	signal.Notify(intr, os.Interrupt)
	defer signal.Stop(intr)
	select {
	case <-intr:
		log.Println("Caught interrupt")
		st.Kill()
	case <-st.Context.Done():
		ipd.Debug.Println("Requested shutdown")
	}

	done := make(chan struct{})
	go func() {
		// ...and request all managers to shut down.
		ipd.Debug.Println("Waiting for managers to shutdown...")
		for i := len(st.Managers) - 1; i >= 0; i-- {
			m := st.Managers[i]
			ipd.Debug.Printf("Shutting %s down", m)
			m.Shutdown()
		}
		close(done)
	}()

	select {
	case <-intr:
		log.Println("Forced shutdown")
	case <-done:
		ipd.Debug.Println("Shutting down regularly")
	}
}
