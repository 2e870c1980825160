// Configuration
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
	"flag"
	"io"
	"log"
	"os"
	"strings"

	"go-ipd"
	"go-ipd/sched"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

const defconf = "go-ipd.toml"

// Memory decides how long an agent instance lives
type Memory uint8

const (
	// A fresh agent is created for every fixture
	MemoryFixture Memory = iota
	// One agent is kept per opponent for the entire tournament
	MemoryOpponent
)

func ParseMemory(s string) (Memory, error) {
	switch s {
	case "fixture":
		return MemoryFixture, nil
	case "opponent":
		return MemoryOpponent, nil
	}
	return 0, errors.Errorf("unknown memory scope %q", s)
}

func (m Memory) String() string {
	switch m {
	case MemoryFixture:
		return "fixture"
	case MemoryOpponent:
		return "opponent"
	default:
		return "unknown"
	}
}

func (m Memory) MarshalText() ([]byte, error) {
	if m > MemoryOpponent {
		return nil, errors.Errorf("unknown memory scope %d", uint8(m))
	}
	return []byte(m.String()), nil
}

func (m *Memory) UnmarshalText(text []byte) (err error) {
	*m, err = ParseMemory(string(text))
	return
}

type TournamentConf struct {
	Roster        []ipd.Player `toml:"roster"`
	Policy        sched.Policy `toml:"policy"`
	Shuffle       bool         `toml:"shuffle"`
	Rounds        uint         `toml:"rounds"`
	MinIterations uint         `toml:"min_iterations"`
	MaxIterations uint         `toml:"max_iterations"`
	Redraw        bool         `toml:"redraw"` // draw the iteration count every round
	Seed          int64        `toml:"seed"`   // zero seeds from the clock
	Memory        Memory       `toml:"memory"`
}

type HistoryConf struct {
	File string `toml:"file"`
}

type DatabaseConf struct {
	File string `toml:"file"`
}

type ExportConf struct {
	Dir   string `toml:"dir"`
	Graph bool   `toml:"graph"`
}

type WebConf struct {
	Enabled   bool `toml:"enabled"`
	Port      uint `toml:"port"`
	WebSocket bool `toml:"websocket"`
}

// Internal representation
type Conf struct {
	Tournament TournamentConf `toml:"tournament"`
	Payoff     ipd.Matrix     `toml:"payoff"`
	History    HistoryConf    `toml:"history"`
	Database   DatabaseConf   `toml:"database"`
	Export     ExportConf     `toml:"export"`
	Web        WebConf        `toml:"web"`
}

// Configuration object used by default
var defaultConfig = Conf{
	Tournament: TournamentConf{
		Roster: []ipd.Player{
			"jesus",
			"judas",
			"tit_for_tat",
			"grudger",
			"joker",
		},
		Policy:        sched.Single,
		Shuffle:       true,
		Rounds:        3,
		MinIterations: 10,
		MaxIterations: 20,
		Memory:        MemoryFixture,
	},
	Payoff: ipd.Canonical,
	History: HistoryConf{
		File: "history.json",
	},
	Export: ExportConf{
		Graph: true,
	},
	Web: WebConf{
		Port:      8080,
		WebSocket: true,
	},
}

// Keys a configuration file must set
var required = [][]string{
	{"tournament", "roster"},
	{"tournament", "rounds"},
	{"tournament", "min_iterations"},
	{"tournament", "max_iterations"},
}

var (
	debug  = false
	silent = false
	dump   = false
	cfile  = defconf

	// Flags that take precedence over the configuration file
	overrides = make(map[string]func(*Conf))
)

func override(name string, apply func(*Conf)) {
	overrides[name] = apply
}

func init() {
	var (
		seed    int64
		rounds  uint
		db      string
		export  string
		history string
		web     bool
		port    uint
	)

	flag.Int64Var(&seed, "seed", 0, "Seed for shuffling and iteration counts")
	override("seed", func(c *Conf) { c.Tournament.Seed = seed })
	flag.UintVar(&rounds, "rounds", 0, "Number of rounds to play")
	override("rounds", func(c *Conf) { c.Tournament.Rounds = rounds })
	flag.StringVar(&db, "db", "", "File to use for the database")
	override("db", func(c *Conf) { c.Database.File = db })
	flag.StringVar(&export, "export", "", "Directory to export round charts to")
	override("export", func(c *Conf) { c.Export.Dir = export })
	flag.StringVar(&history, "history", "", "File to write the global history to")
	override("history", func(c *Conf) { c.History.File = history })
	flag.BoolVar(&web, "web", false, "Enable the web interface")
	override("web", func(c *Conf) { c.Web.Enabled = web })
	flag.UintVar(&port, "wwwport", 0, "Port to use for the HTTP server")
	override("wwwport", func(c *Conf) { c.Web.Port = port })

	flag.BoolVar(&debug, "debug", debug, "Enable debug output")
	flag.BoolVar(&silent, "silent", silent, "Disable regular log output")
	flag.BoolVar(&dump, "dump-config", dump, "Dump configuration to standard output")
	flag.StringVar(&cfile, "conf", cfile, "Path to configuration file")
}

// Default returns a copy of the default configuration
func Default() *Conf {
	c := defaultConfig
	c.Tournament.Roster = append([]ipd.Player(nil), c.Tournament.Roster...)
	return &c
}

// Parse a configuration from R on top of the default configuration
func Parse(r io.Reader) (*Conf, error) {
	c := Default()

	md, err := toml.NewDecoder(r).Decode(c)
	if err != nil {
		return nil, errors.Wrap(err, "parsing configuration")
	}
	for _, key := range required {
		if !md.IsDefined(key...) {
			return nil, &ipd.ConfigError{
				Field:  strings.Join(key, "."),
				Reason: "missing",
			}
		}
	}
	for _, key := range md.Undecoded() {
		log.Printf("Ignoring unknown configuration key %s", key)
	}

	return c, c.Validate()
}

// Open a configuration file and return it
func Open(name string) (*Conf, error) {
	file, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	c, err := Parse(file)
	return c, errors.Wrapf(err, "loading %s", name)
}

// Validate reports the first field that would prevent a tournament
// from starting.
func (c *Conf) Validate() error {
	t := &c.Tournament

	if len(t.Roster) < 2 {
		return &ipd.ConfigError{
			Field:  "tournament.roster",
			Reason: "at least two players are required",
		}
	}
	seen := make(map[ipd.Player]struct{}, len(t.Roster))
	for _, p := range t.Roster {
		if strings.TrimSpace(string(p)) == "" {
			return &ipd.ConfigError{
				Field:  "tournament.roster",
				Reason: "empty player name",
			}
		}
		if _, ok := seen[p]; ok {
			return &ipd.ConfigError{
				Field:  "tournament.roster",
				Reason: "duplicate player " + string(p),
			}
		}
		seen[p] = struct{}{}
	}

	if t.Policy != sched.Single && t.Policy != sched.Double {
		return &ipd.ConfigError{
			Field:  "tournament.policy",
			Reason: "unknown pairing policy",
		}
	}
	if t.Rounds == 0 {
		return &ipd.ConfigError{
			Field:  "tournament.rounds",
			Reason: "at least one round is required",
		}
	}
	if t.MinIterations >= t.MaxIterations {
		return &ipd.ConfigError{
			Field:  "tournament.min_iterations",
			Reason: "must be less than tournament.max_iterations",
		}
	}
	for _, v := range []struct {
		field string
		value int
	}{
		{"payoff.reward", c.Payoff.Reward},
		{"payoff.sucker", c.Payoff.Sucker},
		{"payoff.temptation", c.Payoff.Temptation},
		{"payoff.punishment", c.Payoff.Punishment},
	} {
		if v.value < 0 {
			return &ipd.ConfigError{
				Field:  v.field,
				Reason: "payoffs may not be negative",
			}
		}
	}
	if t.Memory > MemoryOpponent {
		return &ipd.ConfigError{
			Field:  "tournament.memory",
			Reason: "unknown memory scope",
		}
	}
	if c.Web.Enabled && (c.Web.Port == 0 || c.Web.Port > 65535) {
		return &ipd.ConfigError{
			Field:  "web.port",
			Reason: "invalid port number",
		}
	}

	return nil
}

// Load the configuration requested on the command line
func LoadConf() *Conf {
	c, err := Open(cfile)
	if err != nil {
		if !os.IsNotExist(errors.Cause(err)) || cfile != defconf {
			log.Fatal(err)
		}
		c = Default()
	}

	flag.Visit(func(f *flag.Flag) {
		if apply, ok := overrides[f.Name]; ok {
			apply(c)
		}
	})

	switch {
	case debug:
		ipd.Debug.SetOutput(os.Stderr)
		log.Default().SetFlags(log.LstdFlags | log.Lshortfile)
		ipd.Debug.Println("Debug logging has been enabled")
	case silent:
		log.Default().SetOutput(io.Discard)
	}

	// Dump the configuration onto the disk if requested
	if dump {
		err = c.Dump(os.Stdout)
		if err != nil {
			log.Fatalln("Failed to dump default configuration:", err)
		}
		os.Exit(0)
	}

	if err = c.Validate(); err != nil {
		log.Fatal(err)
	}
	return c
}

// Serialise the configuration into a writer
func (c *Conf) Dump(wr io.Writer) error {
	return toml.NewEncoder(wr).Encode(c)
}
