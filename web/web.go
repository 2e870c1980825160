// Web interface generator
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
	"embed"
	"fmt"
	"html/template"
	"time"

	"go-ipd"
)

const perPage = 50

//go:embed *.tmpl
var html embed.FS

var (
	// Template manager
	tmpl = template.Must(template.New("").Funcs(funcs).ParseFS(html, "*.tmpl"))

	// Custom template functions
	funcs = template.FuncMap{
		"inc": func(i int) int {
			return i + 1
		},
		"uinc": func(i uint) uint {
			return i + 1
		},
		"dec": func(i int) int {
			return i - 1
		},
		"timefmt": func(t time.Time) string {
			if t.IsZero() {
				return "-"
			}
			s := time.Since(t).Round(time.Second)
			switch {
			case s < time.Second*5:
				return "now"
			case s < time.Minute:
				return fmt.Sprintf("%.0fs ago", s.Seconds())
			case s < 10*time.Minute:
				return fmt.Sprintf("%.0fm ago", s.Minutes())
			default:
				return t.Format(time.Stamp)
			}
		},
		"duration": func(s *ipd.Summary) string {
			if s.Finished.IsZero() {
				return "Ongoing"
			}
			return s.Finished.Sub(s.Started).Round(time.Millisecond).String()
		},
		"now": func() string {
			return time.Now().Format(time.RFC3339)
		},
		"hasMore": func(i int) bool {
			return i > 0 && i%perPage == 0
		},
		"move": func(m ipd.Move) template.HTML {
			switch m {
			case ipd.Cooperate:
				return `<span class="coop">C</span>`
			case ipd.Defect:
				return `<span class="defect">D</span>`
			default:
				return `<span>?</span>`
			}
		},
		"score": func(r ipd.Record, m ipd.Matrix) string {
			a, b, err := r.Score(m)
			if err != nil {
				return "-"
			}
			return fmt.Sprintf("%d:%d", a, b)
		},
	}
)
