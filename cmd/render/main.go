// Entry point
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

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"

	"go-ipd"
	"go-ipd/cmd"
	"go-ipd/db"
	"go-ipd/export"
)

var (
	dir    = flag.String("out", ".", "Directory to render into")
	only   = flag.String("id", "", "Only render the tournament with this ID")
	forget = flag.String("forget", "", "Remove the tournament with this ID from the database")
)

// Reconstruct the result of a stored tournament
func load(ctx context.Context, d cmd.Database, id string) (*ipd.Result, error) {
	res := &ipd.Result{ID: id}

	var err error
	res.Payoff, err = d.QueryPayoff(ctx, id)
	if err != nil {
		return nil, err
	}
	res.Rounds, err = d.QueryScores(ctx, id)
	if err != nil {
		return nil, err
	}
	res.History, err = d.QueryHistory(ctx, id)
	if err != nil {
		return nil, err
	}

	for _, rec := range res.History.Records() {
		if rec.Round == 0 {
			res.Fixtures = append(res.Fixtures, ipd.Fixture{
				ID: rec.Fixture,
				A:  rec.Player1,
				B:  rec.Player2,
			})
		}
		if rec.Round == uint(len(res.Iterations)) {
			res.Iterations = append(res.Iterations, uint(len(rec.Moves)))
		}
	}
	return res, nil
}

// Write the report, the history and all round charts of a tournament
func render(ctx context.Context, d cmd.Database, id string, graph bool) error {
	res, err := load(ctx, d, id)
	if err != nil {
		return err
	}

	write := func(name string, gen func(*os.File) error) error {
		file, err := os.Create(filepath.Join(*dir, id+"-"+name))
		if err != nil {
			return err
		}
		err = gen(file)
		if cerr := file.Close(); err == nil {
			err = cerr
		}
		return err
	}

	err = write("report.ms", func(f *os.File) error {
		return cmd.PrintResults(f, res)
	})
	if err != nil {
		return err
	}
	err = write("history.json", func(f *os.File) error {
		return res.History.WriteJSON(f)
	})
	if err != nil {
		return err
	}
	for r, standings := range res.Rounds {
		err = write(fmt.Sprintf("round-%d.svg", r), func(f *os.File) error {
			return export.Chart(f, uint(r), standings)
		})
		if err != nil {
			return err
		}
		if !graph {
			continue
		}
		err = write(fmt.Sprintf("round-%d.dot", r), func(f *os.File) error {
			return export.Graph(f, res.History.Round(uint(r)), res.Payoff)
		})
		if err != nil {
			return err
		}
	}

	log.Println("Rendered", id)
	return nil
}

type renderer struct{}

func (*renderer) String() string { return "Render" }
func (*renderer) Shutdown()      {} // noop

func (*renderer) Start(st *cmd.State, conf *cmd.Conf) {
	defer st.Kill()
	ctx := st.Context

	if *forget != "" {
		if err := st.Database.Forget(ctx, *forget); err != nil {
			log.Print(err)
		}
		return
	}

	var ids []string
	if *only != "" {
		ids = append(ids, *only)
	} else {
		// Render every stored tournament
		c := make(chan *ipd.Summary)
		for page := 0; ; page++ {
			n := 0
			go st.Database.QueryTournaments(ctx, c, page)
			for s := range c {
				ids = append(ids, s.ID)
				n++
			}
			if n == 0 {
				break
			}
			c = make(chan *ipd.Summary)
		}
	}

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for _, id := range ids {
		id := id
		g.Go(func() error {
			return render(ctx, st.Database, id, conf.Export.Graph)
		})
	}
	if err := g.Wait(); err != nil {
		log.Print(err)
	}
}

func main() {
	flag.Parse()
	if flag.NArg() != 0 {
		fmt.Fprintf(flag.CommandLine.Output(),
			"Too many arguments passed to %s.\nUsage:\n",
			os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}

	// Create a state and load configuration
	st := cmd.MakeState()
	conf := cmd.LoadConf()
	if conf.Database.File == "" {
		log.Fatal("No database configured (use -db)")
	}
	if err := os.MkdirAll(*dir, 0755); err != nil {
		log.Fatal(err)
	}

	// Load database then the renderer
	db.Register(st, conf)
	st.Register(&renderer{})

	st.Start(conf)
}
