// Web interface routes
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
	"log"
	"net/http"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"go-ipd"
	"go-ipd/export"
)

const dbTimeout = 20 * time.Second // arbitrary choice

// Generate the index page
func (s *web) index(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if s.db == nil {
		http.Redirect(w, r, "/live", http.StatusSeeOther)
		return
	}

	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}

	ctx, cancel := context.WithTimeout(r.Context(), dbTimeout)
	defer cancel()

	var (
		c  = make(chan *ipd.Summary)
		ts []*ipd.Summary
	)
	go s.db.QueryTournaments(ctx, c, page-1)
	for t := range c {
		ts = append(ts, t)
	}

	w.Header().Add("Content-Type", "text/html")
	w.Header().Add("Cache-Control", "max-age=60")
	err = tmpl.ExecuteTemplate(w, "index.tmpl", struct {
		Tournaments []*ipd.Summary
		Page        int
	}{ts, page})
	if err != nil {
		log.Print(err)
	}
}

// Split "/tournament/ID/rest" into ID and rest
func tournamentPath(p string) (id, rest string) {
	p = strings.TrimPrefix(p, "/tournament/")
	id, rest, _ = strings.Cut(p, "/")
	return
}

// Generate a website to display a tournament
func (s *web) showTournament(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		http.Error(w, "No database configured", http.StatusNotFound)
		return
	}

	id, rest := tournamentPath(r.URL.Path)
	ctx, cancel := context.WithTimeout(r.Context(), dbTimeout)
	defer cancel()

	sum, err := s.db.QueryTournament(ctx, id)
	if err != nil {
		ipd.Debug.Print(err)
		http.Error(w, "No such tournament", http.StatusNotFound)
		return
	}
	hist, err := s.db.QueryHistory(ctx, id)
	if err != nil {
		log.Print(err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	switch rest {
	case "":
	case "history.json":
		w.Header().Add("Content-Type", "application/json")
		if err := hist.WriteJSON(w); err != nil {
			log.Print(err)
		}
		return
	default:
		http.NotFound(w, r)
		return
	}

	scores, err := s.db.QueryScores(ctx, id)
	if err != nil {
		log.Print(err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	payoff, err := s.db.QueryPayoff(ctx, id)
	if err != nil {
		log.Print(err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Add("Content-Type", "text/html")
	err = tmpl.ExecuteTemplate(w, "show-tournament.tmpl", struct {
		Summary  *ipd.Summary
		Payoff   ipd.Matrix
		Scores   [][]ipd.Standing
		Records  []ipd.Record
		HasGraph bool
	}{sum, payoff, scores, hist.Records(), s.graph})
	if err != nil {
		log.Print(err)
	}
}

// Render the dominance graph of the last round of a tournament
func (s *web) showGraph(w http.ResponseWriter, r *http.Request) {
	if s.db == nil || !s.graph {
		http.NotFound(w, r)
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/graph/")
	ctx, cancel := context.WithTimeout(r.Context(), dbTimeout)
	defer cancel()

	sum, err := s.db.QueryTournament(ctx, id)
	if err != nil {
		http.Error(w, "No such tournament", http.StatusNotFound)
		return
	}
	hist, err := s.db.QueryHistory(ctx, id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	payoff, err := s.db.QueryPayoff(ctx, id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	var last uint
	if sum.Rounds > 0 {
		last = sum.Rounds - 1
	}
	// Concurrent requests for the same graph share one dot(1) process
	v, err, _ := s.render.Do(id, func() (interface{}, error) {
		return export.Render(hist.Round(last), payoff, "-Tsvg")
	})
	if err != nil {
		log.Print(err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Add("Content-Type", "image/svg+xml")
	w.Header().Add("Cache-Control", "max-age=60")
	w.Write(v.([]byte))
}

// Generate the live feed page
func (s *web) live(w http.ResponseWriter, r *http.Request) {
	w.Header().Add("Content-Type", "text/html")
	err := tmpl.ExecuteTemplate(w, "live.tmpl", struct {
		WebSocket bool
	}{s.conf.Web.WebSocket})
	if err != nil {
		log.Print(err)
	}
}

// Prepare the HTTP multiplexer
func (s *web) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/tournament/", s.showTournament)
	mux.HandleFunc("/live", s.live)
	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("User-agent: *\nDisallow: /"))
	})

	if _, err := exec.LookPath("dot"); err == nil {
		ipd.Debug.Print("Enabling graph generation")
		s.graph = true
		mux.HandleFunc("/graph/", s.showGraph)
	}

	// Install the WebSocket handler
	if s.conf.Web.WebSocket {
		ipd.Debug.Print("Accepting websocket connections on /socket")
		mux.HandleFunc("/socket", s.hub.upgrader())
	}

	mux.HandleFunc("/", s.index)
	return mux
}
