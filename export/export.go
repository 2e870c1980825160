// Round exporter
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

package export

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"go-ipd"
	"go-ipd/cmd"
)

// Exporter writes a chart and the records of every round into a
// directory once the round is over.  Exports run in the background
// and never delay the tournament.
type Exporter struct {
	ipd.NopObserver

	dir   string
	graph bool

	id     string
	payoff ipd.Matrix
	group  errgroup.Group
}

// New returns an exporter writing into DIR
func New(dir string, graph bool) *Exporter {
	return &Exporter{dir: dir, graph: graph}
}

func (e *Exporter) String() string { return "Round Exporter" }

func (e *Exporter) path(format string, args ...interface{}) string {
	return filepath.Join(e.dir, e.id+"-"+fmt.Sprintf(format, args...))
}

// Create NAME and pass it to WRITE
func create(name string, write func(w *bufio.Writer) error) (err error) {
	file, err := os.Create(name)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
	}()

	w := bufio.NewWriter(file)
	if err = write(w); err != nil {
		return errors.Wrap(err, name)
	}
	return w.Flush()
}

// Write the chart and records of a round
func (e *Exporter) round(round uint, standings []ipd.Standing, records []ipd.Record) error {
	err := create(e.path("round-%d.svg", round), func(w *bufio.Writer) error {
		return Chart(w, round, standings)
	})
	if err != nil {
		return err
	}

	err = create(e.path("round-%d.json", round), func(w *bufio.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Round     uint           `json:"round_id"`
			Standings []ipd.Standing `json:"standings"`
			Records   []ipd.Record   `json:"records"`
		}{round, standings, records})
	})
	if err != nil {
		return err
	}

	if !e.graph {
		return nil
	}
	err = create(e.path("round-%d.dot", round), func(w *bufio.Writer) error {
		return Graph(w, records, e.payoff)
	})
	if err != nil {
		return err
	}
	if _, err := exec.LookPath("dot"); err != nil {
		ipd.Debug.Print("dot(1) not found, not rendering graph")
		return nil
	}
	svg, err := Render(records, e.payoff, "-Tsvg")
	if err != nil {
		return err
	}
	return os.WriteFile(e.path("round-%d-graph.svg", round), svg, 0644)
}

func (e *Exporter) TournamentStarted(info ipd.Info) {
	e.id = info.ID
	e.payoff = info.Payoff
}

func (e *Exporter) RoundDone(round uint, standings []ipd.Standing, records []ipd.Record) {
	// The engine passes copies, so these can be used concurrently
	e.group.Go(func() error {
		err := e.round(round, standings, records)
		if err != nil {
			log.Printf("Failed to export round %d: %s", round, err)
		} else {
			ipd.Debug.Printf("Exported round %d", round)
		}
		return err
	})
}

// Wait until all rounds have been exported
func (e *Exporter) Wait() error {
	return e.group.Wait()
}

func (e *Exporter) Start(*cmd.State, *cmd.Conf) {}

func (e *Exporter) Shutdown() {
	// Errors have already been logged
	_ = e.Wait()
}

// Register an exporter if an export directory was configured
func Register(st *cmd.State, conf *cmd.Conf) {
	if conf.Export.Dir == "" {
		return
	}
	err := os.MkdirAll(conf.Export.Dir, 0755)
	if err != nil {
		log.Fatal(err)
	}
	st.Register(New(conf.Export.Dir, conf.Export.Graph))
}
