// Result reports
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
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/acarl005/stripansi"
	"github.com/fatih/color"

	"go-ipd"
)

// Tally counts the wins, losses and draws of every player in RECORDS
func Tally(records []ipd.Record, m ipd.Matrix) (map[ipd.Player][3]uint, error) {
	t := make(map[ipd.Player][3]uint)
	for _, rec := range records {
		a, b, err := rec.Score(m)
		if err != nil {
			return nil, err
		}

		ra, rb := t[rec.Player1], t[rec.Player2]
		switch {
		case a > b:
			ra[0]++
			rb[1]++
		case a < b:
			ra[1]++
			rb[0]++
		default:
			ra[2]++
			rb[2]++
		}
		t[rec.Player1], t[rec.Player2] = ra, rb
	}
	return t, nil
}

// PrintResults writes a report of a tournament in groff(7) format,
// using the ms(7) macros and tbl(1) tables.
func PrintResults(W io.Writer, res *ipd.Result) error {
	fmt.Fprintln(W, `.NH 1`)
	fmt.Fprintf(W, "Tournament %s\n", res.ID)
	final := res.Final()
	if len(final) == 0 {
		fmt.Fprintln(W, `.LP`)
		fmt.Fprintln(W, `No rounds took place.`)
		return nil
	}

	iterations := make([]string, len(res.Iterations))
	for i, n := range res.Iterations {
		iterations[i] = fmt.Sprint(n)
	}
	fmt.Fprintln(W, `.LP`)
	fmt.Fprintf(W, "%d players met in %d fixtures over %d rounds ",
		len(final), len(res.Fixtures), len(res.Rounds))
	fmt.Fprintf(W, "(%s iterations per fixture).\n", strings.Join(iterations, ", "))
	fmt.Fprintf(W, "Payoff: R=%d, S=%d, T=%d, P=%d.\n",
		res.Payoff.Reward, res.Payoff.Sucker,
		res.Payoff.Temptation, res.Payoff.Punishment)

	last := uint(len(res.Rounds) - 1)
	records := res.History.Round(last)
	tally, err := Tally(records, res.Payoff)
	if err != nil {
		return err
	}

	fmt.Fprintln(W, `.NH 2`)
	fmt.Fprintln(W, "Scores")

	fmt.Fprintln(W, `.TS`)
	fmt.Fprintln(W, `box center;`)
	fmt.Fprintln(W, `c | c c c | c`)
	fmt.Fprintln(W, `-----`)
	fmt.Fprintln(W, `l | n n n | n`)
	fmt.Fprintln(W, `.`)
	fmt.Fprintln(W, "Agent\tWin\tLoss\tDraw\tScore")
	for _, s := range final {
		t := tally[s.Player]
		fmt.Fprintf(W, "%s\t%d\t%d\t%d\t%d\n", cell(s.Player), t[0], t[1], t[2], s.Score)
	}
	fmt.Fprintln(W, `.TE`)

	if len(res.Rounds) > 1 {
		// Players in order of their final rank
		players := make([]ipd.Player, len(final))
		for i, s := range final {
			players[i] = s.Player
		}

		fmt.Fprintln(W, `.NH 2`)
		fmt.Fprintln(W, "Rounds")

		fmt.Fprintln(W, `.TS`)
		fmt.Fprintln(W, `box center;`)
		fmt.Fprintln(W, `c |`+strings.Repeat(" c", len(res.Rounds)))
		fmt.Fprintln(W, strings.Repeat("-", len(res.Rounds)+1))
		fmt.Fprintln(W, `l |`+strings.Repeat(" n", len(res.Rounds)))
		fmt.Fprintln(W, `.`)
		fmt.Fprint(W, "Agent")
		for r := range res.Rounds {
			fmt.Fprintf(W, "\t%d", r+1)
		}
		fmt.Fprintln(W)
		for _, p := range players {
			fmt.Fprint(W, cell(p))
			for _, round := range res.Rounds {
				score := 0
				for _, s := range round {
					if s.Player == p {
						score = s.Score
					}
				}
				fmt.Fprintf(W, "\t%d", score)
			}
			fmt.Fprintln(W)
		}
		fmt.Fprintln(W, `.TE`)
	}

	fmt.Fprintln(W, `.NH 2`)
	fmt.Fprintln(W, "Fixture Log")

	fmt.Fprintln(W, `.TS H`)
	fmt.Fprintln(W, `box center;`)
	fmt.Fprintln(W, `c | c c | c c c`)
	fmt.Fprintln(W, `------`)
	fmt.Fprintln(W, `n | l l | n n n`)
	fmt.Fprintln(W, `.`)
	fmt.Fprintln(W, `.TH`)
	fmt.Fprintln(W, "Nr.\tPlayer 1\tPlayer 2\tScore 1\tScore 2\tDiff.")
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Fixture < records[j].Fixture
	})
	for _, rec := range records {
		a, b, err := rec.Score(res.Payoff)
		if err != nil {
			return err
		}
		fmt.Fprintf(W, "%d\t%s\t%s\t%d\t%d\t%d\n", rec.Fixture+1,
			cell(rec.Player1), cell(rec.Player2), a, b, a-b)
	}
	_, err = fmt.Fprintln(W, `.TE`)
	return err
}

// Cells are separated by tabs, since player names may be URLs
var cellEscaper = strings.NewReplacer("\\", `\e`, "\t", " ", "\n", " ")

func cell(p ipd.Player) string {
	s := cellEscaper.Replace(string(p))
	if strings.HasPrefix(s, ".") || strings.HasPrefix(s, "'") {
		s = `\&` + s
	}
	return s
}

var (
	first = color.New(color.FgGreen, color.Bold)
	worst = color.New(color.FgRed)
	plain = color.New(color.Reset)
)

// PrintRanking writes the final scoreboard as a plain ranked list
func PrintRanking(W io.Writer, res *ipd.Result) error {
	final := res.Final()
	names := make([]string, len(final))
	width := 0
	for i, s := range final {
		// Names are not trusted to be free of escape sequences
		names[i] = stripansi.Strip(string(s.Player))
		if len(names[i]) > width {
			width = len(names[i])
		}
	}

	rank := 0
	for i, s := range final {
		// Tied players share a rank
		if i == 0 || final[i-1].Score != s.Score {
			rank = i + 1
		}

		c := plain
		switch {
		case s.Score == final[0].Score:
			c = first
		case s.Score == final[len(final)-1].Score:
			c = worst
		}
		_, err := c.Fprintf(W, "%3d. %-*s %6d\n", rank, width, names[i], s.Score)
		if err != nil {
			return err
		}
	}
	return nil
}
