// Tournament Manager
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

package game

import (
	"log"
	"sync"

	"go-ipd"
	"go-ipd/cmd"
)

// Runner is the manager running a single tournament
type Runner struct {
	Result *ipd.Result
	Err    error

	done chan struct{}
	once sync.Once
}

func (*Runner) String() string { return "Tournament Runner" }

func (r *Runner) Start(st *cmd.State, conf *cmd.Conf) {
	defer r.once.Do(func() { close(r.done) })

	t, err := Prepare(conf, st.Observers...)
	if err != nil {
		r.Err = err
		st.Kill()
		return
	}
	defer func() {
		if err := t.Close(); err != nil {
			log.Print(err)
		}
	}()

	r.Result, r.Err = t.Run(st.Context)
	if r.Err != nil {
		log.Print(r.Err)
	}

	// Keep serving the results if requested
	if !conf.Web.Enabled || r.Err != nil {
		st.Kill()
	}
}

// Shutdown blocks until the tournament has stopped
func (r *Runner) Shutdown() {
	<-r.done
}

// Register a tournament runner with the state
func Register(st *cmd.State) *Runner {
	r := &Runner{done: make(chan struct{})}
	st.Register(r)
	return r
}
