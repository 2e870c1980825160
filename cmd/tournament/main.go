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
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"path"

	"go-ipd"
	"go-ipd/bot"
	"go-ipd/cmd"
	"go-ipd/db"
	"go-ipd/export"
	"go-ipd/game"
	"go-ipd/web"
)

func main() {
	result := flag.String("result", "", "File to write a report to (.pdf, .ps, .html or .txt use groff)")
	list := flag.Bool("list", false, "List all built-in agents and exit")

	flag.Parse()
	if flag.NArg() != 0 {
		fmt.Fprintf(flag.CommandLine.Output(),
			"Too many arguments passed to %s.\nUsage:\n",
			os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}
	if *list {
		for _, name := range bot.Names() {
			fmt.Println(name)
		}
		return
	}

	// Create a state and load configuration
	st := cmd.MakeState()
	conf := cmd.LoadConf()

	// Load components, observers first
	if conf.Database.File != "" {
		db.Register(st, conf)
	}
	export.Register(st, conf)
	web.Register(st, conf)
	runner := game.Register(st)

	// Prepare the report
	var (
		groff *exec.Cmd
		out   io.Writer = os.Stdout
	)
	if res := *result; res != "" {
		ipd.Debug.Println("Writing results to", res)
		file, err := os.Create(res)
		if err != nil {
			log.Fatal(err)
		}
		defer file.Close()
		out = file

		var dev string
		switch path.Ext(res) {
		case ".pdf":
			dev = "-Tpdf"
		case ".ps":
			dev = "-Tps"
		case ".html":
			dev = "-Txhtml"
		case ".txt":
			dev = "-Tutf8"
		default:
			goto skip
		}
		ipd.Debug.Println("Preparing groff with", dev)
		groff = exec.Command("groff", dev, "-ms", "-t")

		groff.Stdout = file
		out, err = groff.StdinPipe()
		if err != nil {
			log.Fatal(err)
		}
	}
skip:

	// Run the tournament
	st.Start(conf)
	if runner.Err != nil {
		log.Fatal(runner.Err)
	}
	if runner.Result == nil {
		log.Fatal("Tournament did not finish")
	}

	// Print results
	if *result == "" {
		err := cmd.PrintRanking(out, runner.Result)
		if err != nil {
			log.Fatal(err)
		}
		return
	}
	if groff != nil {
		if err := groff.Start(); err != nil {
			log.Fatal(err)
		}
	}
	err := cmd.PrintResults(out, runner.Result)
	if err != nil {
		log.Print(err)
	}
	if groff != nil {
		out.(io.Closer).Close()
		if err := groff.Wait(); err != nil {
			log.Print(err)
		}
	}
}
