// Web interface manager
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
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"golang.org/x/sync/singleflight"

	"go-ipd/cmd"
)

type web struct {
	*hub

	conf  *cmd.Conf
	db    cmd.Database
	srv   *http.Server
	graph bool

	// Deduplicates graph rendering by tournament ID
	render singleflight.Group
}

func (s *web) Start(st *cmd.State, conf *cmd.Conf) {
	s.db = st.Database
	s.srv.Handler = s.handler()

	log.Printf("Listening via HTTP on %s", s.srv.Addr)
	err := s.srv.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		log.Print(err)
		st.Kill()
	}
}

func (s *web) Shutdown() {
	s.hub.close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.srv.Shutdown(ctx); err != nil {
		log.Print(err)
	}
}

func (*web) String() string { return "Web Server" }

func newWeb(conf *cmd.Conf) *web {
	return &web{
		hub:  newHub(),
		conf: conf,
		srv:  &http.Server{Addr: fmt.Sprintf(":%d", conf.Web.Port)},
	}
}

// Register the web interface if it was enabled
func Register(st *cmd.State, conf *cmd.Conf) {
	if !conf.Web.Enabled {
		return
	}
	st.Register(newWeb(conf))
}
