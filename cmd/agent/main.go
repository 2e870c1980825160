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
	"log"
	"net/http"
	"os"

	"go-ipd/bot"
)

func main() {
	addr := flag.String("addr", ":2671", "Address to listen on")
	flag.Parse()

	names := flag.Args()
	if len(names) == 0 {
		names = bot.Names()
	}

	// Every agent is served under its own name, so that a roster
	// can refer to it as ws://host:port/name.
	mux := http.NewServeMux()
	for _, name := range names {
		f, err := bot.Lookup(name)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		mux.Handle("/"+name, bot.Serve(f))
		log.Printf("Serving %s on ws://%s/%s", name, *addr, name)
	}

	log.Fatal(http.ListenAndServe(*addr, mux))
}
