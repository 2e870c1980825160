// Dominance graphs
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
	"bytes"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/pkg/errors"

	"go-ipd"
)

// Graph writes a DOT graph with an edge from the winner to the loser
// of every fixture in RECORDS.  Drawn fixtures are omitted.
func Graph(w io.Writer, records []ipd.Record, m ipd.Matrix) error {
	var (
		seen = make(map[ipd.Player]string)
		err  error
	)
	node := func(p ipd.Player) (string, error) {
		if node, ok := seen[p]; ok {
			return node, nil
		}
		node := fmt.Sprintf("n%d", len(seen))
		seen[p] = node

		name := strings.ReplaceAll(string(p), `"`, `\"`)
		_, err := fmt.Fprintf(w, `%s [label="%s"];`, node, name)
		if err != nil {
			return "", err
		}
		return node, nil
	}

	_, err = fmt.Fprintf(w, `strict digraph dominance { ratio = compress ;`)
	if err != nil {
		return err
	}

	for _, rec := range records {
		a, b, err := rec.Score(m)
		if err != nil {
			return err
		}

		var win, loss ipd.Player
		switch {
		case a > b:
			win, loss = rec.Player1, rec.Player2
		case b > a:
			win, loss = rec.Player2, rec.Player1
		default:
			continue
		}

		t, err := node(loss)
		if err != nil {
			return err
		}
		f, err := node(win)
		if err != nil {
			return err
		}

		_, err = fmt.Fprint(w, f, "->", t, ";")
		if err != nil {
			return err
		}
	}

	_, err = fmt.Fprint(w, `}`)
	return err
}

// Render a dominance graph using dot(1), passing it OPTS
func Render(records []ipd.Record, m ipd.Matrix, opts ...string) ([]byte, error) {
	var stderr bytes.Buffer
	cmd := exec.Command(`dot`, opts...)
	cmd.Stderr = &stderr
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	err = cmd.Start()
	if err != nil {
		return nil, err
	}

	gerr := make(chan error, 1)
	go func() {
		err := Graph(stdin, records, m)
		if cerr := stdin.Close(); err == nil {
			err = cerr
		}
		gerr <- err
	}()

	out, err := io.ReadAll(stdout)
	if err != nil {
		return nil, err
	}
	if err := cmd.Wait(); err != nil {
		return nil, errors.Wrap(err, strings.TrimSpace(stderr.String()))
	}
	return out, <-gerr
}
