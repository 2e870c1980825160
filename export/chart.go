// Scoreboard charts
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
	"fmt"
	"html"
	"io"

	"go-ipd"
)

// Chart writes a horizontal bar chart of a round's standings as SVG
func Chart(w io.Writer, round uint, standings []ipd.Standing) error {
	var (
		u      = 30.0  // height of a bar
		label  = 150.0 // width of the name column
		span   = 400.0 // width of the longest bar
		height = u * float64(len(standings)+1)
		width  = label + span + 2*u
		max    = 0
	)
	for _, s := range standings {
		if s.Score > max {
			max = s.Score
		}
	}

	_, err := fmt.Fprintf(w, `<svg xmlns="http://www.w3.org/2000/svg" width="%g" height="%g">`,
		width, height)
	if err != nil {
		return err
	}
	// https://developer.mozilla.org/en-US/docs/Web/SVG/Element/rect
	fmt.Fprintf(w, `<rect x="0" y="0" width="%g" height="%g" fill="white" />`,
		width, height)
	// https://developer.mozilla.org/en-US/docs/Web/SVG/Element/text
	fmt.Fprintf(w, `<text x="%g" y="%g" font-weight="bold">Round %d</text>`,
		u/3, u*0.7, round+1)

	for i, s := range standings {
		y := u * float64(i+1)
		bar := 0.0
		if max > 0 && s.Score > 0 {
			bar = span * float64(s.Score) / float64(max)
		}

		color := "steelblue"
		if i == 0 {
			color = "seagreen"
		}
		fmt.Fprintf(w, `<text x="%g" y="%g">%s</text>`,
			u/3, y+u*0.7, html.EscapeString(string(s.Player)))
		fmt.Fprintf(w, `<rect x="%g" y="%g" width="%g" height="%g" fill="%s" />`,
			label, y+u*0.1, bar, u*0.8, color)
		fmt.Fprintf(w, `<text x="%g" y="%g">%d</text>`,
			label+bar+u/6, y+u*0.7, s.Score)
	}

	_, err = fmt.Fprint(w, `</svg>`)
	return err
}
