// Database management
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

package db

import (
	"context"
	"database/sql"
	"embed"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"path"
	"strings"
	"syscall"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"go-ipd"
	"go-ipd/cmd"
)

//go:embed *.sql
var sqlDir embed.FS

// DB stores tournaments as they are played
type DB struct {
	// The database connections
	read  *sql.DB
	write *sql.DB

	// The SQL queries are embedded from the *.sql files in this
	// directory.  QUERIES are prepared on READ, and COMMANDS on
	// WRITE.
	queries  map[string]*sql.Stmt
	commands map[string]*sql.Stmt

	// Context for observer callbacks
	ctx context.Context

	// ID of the tournament currently being observed
	current string
}

func (db *DB) TournamentStarted(info ipd.Info) {
	tx, err := db.write.BeginTx(db.ctx, nil)
	if err != nil {
		log.Print(err)
		return
	}

	_, err = tx.Stmt(db.commands["insert-tournament"]).ExecContext(db.ctx,
		info.ID, info.Policy, info.Rounds,
		info.Payoff.Reward, info.Payoff.Sucker,
		info.Payoff.Temptation, info.Payoff.Punishment,
		info.Started)
	if err != nil {
		goto fail
	}
	for _, p := range info.Roster {
		_, err = tx.Stmt(db.commands["insert-player"]).ExecContext(db.ctx,
			info.ID, string(p))
		if err != nil {
			goto fail
		}
	}

	err = tx.Commit()
	if err != nil {
		log.Print(err)
		return
	}
	db.current = info.ID
	ipd.Debug.Printf("Saved tournament %s", info.ID)
	return

fail:
	log.Print(err)
	if err = tx.Rollback(); err != nil {
		log.Print(err)
	}
}

// Moves are saved along with their fixture
func (*DB) Observe(ipd.Snapshot) {}

func (db *DB) FixtureDone(rec ipd.Record) {
	if db.current == "" {
		return
	}

	tx, err := db.write.BeginTx(db.ctx, nil)
	if err != nil {
		log.Print(err)
		return
	}

	_, err = tx.Stmt(db.commands["insert-fixture"]).ExecContext(db.ctx,
		db.current, rec.Round, rec.Fixture,
		string(rec.Player1), string(rec.Player2))
	if err != nil {
		goto fail
	}
	for i, it := range rec.Moves {
		_, err = tx.Stmt(db.commands["insert-move"]).ExecContext(db.ctx,
			db.current, rec.Round, rec.Fixture, i,
			it.Move(rec.Player1).String(),
			it.Move(rec.Player2).String())
		if err != nil {
			goto fail
		}
	}

	err = tx.Commit()
	if err != nil {
		log.Print(err)
	}
	return

fail:
	log.Print(err)
	if err = tx.Rollback(); err != nil {
		log.Print(err)
	}
}

func (db *DB) RoundDone(round uint, scores []ipd.Standing, _ []ipd.Record) {
	if db.current == "" {
		return
	}

	for _, s := range scores {
		_, err := db.commands["insert-score"].ExecContext(db.ctx,
			db.current, round, string(s.Player), s.Score)
		if err != nil {
			log.Print(err)
			return
		}
	}
}

func (db *DB) TournamentDone(res *ipd.Result) {
	_, err := db.commands["finish-tournament"].ExecContext(db.ctx,
		time.Now(), res.ID)
	if err != nil {
		log.Print(err)
	}
	db.current = ""
}

func scanSummary(scan func(dest ...interface{}) error) (*ipd.Summary, error) {
	var (
		s        ipd.Summary
		finished sql.NullTime
	)
	err := scan(
		&s.ID,
		&s.Policy,
		&s.Rounds,
		&s.Players,
		&s.Fixtures,
		&s.Started,
		&finished)
	if finished.Valid {
		s.Finished = finished.Time
	}
	return &s, err
}

func (db *DB) QueryTournaments(ctx context.Context, c chan<- *ipd.Summary, page int) {
	defer close(c)
	rows, err := db.queries["select-tournaments"].QueryContext(ctx, page)
	if err != nil {
		log.Print(err)
		return
	}
	defer rows.Close()

	for rows.Next() {
		s, err := scanSummary(rows.Scan)
		if err != nil {
			log.Print(err)
			return
		}
		select {
		case c <- s:
		case <-ctx.Done():
			return
		}
	}
	if err = rows.Err(); err != nil {
		log.Print(err)
	}
}

func (db *DB) QueryTournament(ctx context.Context, id string) (*ipd.Summary, error) {
	row := db.queries["select-tournament"].QueryRowContext(ctx, id)
	s, err := scanSummary(row.Scan)
	if err != nil {
		return nil, errors.Wrapf(err, "querying tournament %s", id)
	}
	return s, nil
}

func (db *DB) QueryPayoff(ctx context.Context, id string) (m ipd.Matrix, err error) {
	err = db.queries["select-payoff"].QueryRowContext(ctx, id).Scan(
		&m.Reward,
		&m.Sucker,
		&m.Temptation,
		&m.Punishment)
	return m, errors.Wrapf(err, "querying payoff of %s", id)
}

func (db *DB) QueryScores(ctx context.Context, id string) ([][]ipd.Standing, error) {
	rows, err := db.queries["select-scores"].QueryContext(ctx, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rounds [][]ipd.Standing
	for rows.Next() {
		var (
			round uint
			s     ipd.Standing
		)
		err = rows.Scan(&round, &s.Player, &s.Score)
		if err != nil {
			return nil, err
		}
		for uint(len(rounds)) <= round {
			rounds = append(rounds, nil)
		}
		rounds[round] = append(rounds[round], s)
	}
	return rounds, rows.Err()
}

func (db *DB) QueryHistory(ctx context.Context, id string) (*ipd.History, error) {
	type key struct{ round, fixture uint }
	var (
		records []ipd.Record
		index   = make(map[key]int)
	)

	rows, err := db.queries["select-fixtures"].QueryContext(ctx, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var r ipd.Record
		err = rows.Scan(&r.Round, &r.Fixture, &r.Player1, &r.Player2)
		if err != nil {
			return nil, err
		}
		index[key{r.Round, r.Fixture}] = len(records)
		records = append(records, r)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	moves, err := db.queries["select-moves"].QueryContext(ctx, id)
	if err != nil {
		return nil, err
	}
	defer moves.Close()
	for moves.Next() {
		var (
			k      key
			m1, m2 string
		)
		err = moves.Scan(&k.round, &k.fixture, &m1, &m2)
		if err != nil {
			return nil, err
		}
		i, ok := index[k]
		if !ok {
			return nil, errors.Errorf("move of unknown fixture %d/%d",
				k.round, k.fixture)
		}

		it := ipd.Iteration{
			Players: [2]ipd.Player{records[i].Player1, records[i].Player2},
		}
		if it.Moves[0], err = ipd.ParseMove(m1); err != nil {
			return nil, err
		}
		if it.Moves[1], err = ipd.ParseMove(m2); err != nil {
			return nil, err
		}
		records[i].Moves = append(records[i].Moves, it)
	}
	if err = moves.Err(); err != nil {
		return nil, err
	}

	h := &ipd.History{}
	for _, r := range records {
		h.Append(r)
	}
	return h, nil
}

// Forget removes a tournament and everything recorded for it
func (db *DB) Forget(ctx context.Context, id string) error {
	res, err := db.commands["delete-tournament"].ExecContext(ctx, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errors.Errorf("no tournament %s", id)
	}
	return nil
}

func (db *DB) Start(st *cmd.State, conf *cmd.Conf) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGUSR1)
	defer signal.Stop(c)
	tick := time.NewTicker(24 * time.Hour)
	defer tick.Stop()

	for {
		var err error
		select {
		case <-c:
			// https://www.sqlite.org/lang_vacuum.html
			_, err = db.write.Exec("VACUUM;")
		case <-tick.C:
			// https://www.sqlite.org/pragma.html#pragma_optimize
			_, err = db.write.Exec("PRAGMA optimize;")
		case <-st.Context.Done():
			return
		}
		if err != nil {
			log.Print(err)
		}
	}
}

func (db *DB) Shutdown() {
	if err := db.Close(); err != nil {
		log.Print(err)
	}
}

// Close both database connections
func (db *DB) Close() error {
	// https://www.sqlite.org/pragma.html#pragma_optimize
	_, err := db.write.Exec("PRAGMA optimize;")
	if err != nil {
		log.Print(err)
	}

	err = db.write.Close()
	if rerr := db.read.Close(); err == nil {
		err = rerr
	}
	return err
}

func (*DB) String() string { return "Database Manager" }

// Open the database in FILE and prepare all queries
func Open(file string) (*DB, error) {
	read, err := sql.Open("sqlite3", file)
	if err != nil {
		return nil, errors.Wrap(err, file)
	}
	read.SetConnMaxLifetime(0)
	read.SetMaxIdleConns(1)

	write, err := sql.Open("sqlite3", file)
	if err != nil {
		return nil, errors.Wrap(err, file)
	}
	write.SetConnMaxLifetime(0)
	write.SetMaxIdleConns(1)
	write.SetMaxOpenConns(1)

	db := &DB{
		queries:  make(map[string]*sql.Stmt),
		commands: make(map[string]*sql.Stmt),
		write:    write,
		read:     read,
		ctx:      context.Background(),
	}

	for _, pragma := range []string{
		// https://www.sqlite.org/pragma.html#pragma_journal_mode
		"journal_mode = WAL",
		// https://www.sqlite.org/pragma.html#pragma_synchronous
		"synchronous = normal",
		// https://www.sqlite.org/pragma.html#pragma_temp_store
		"temp_store = memory",
		// https://www.sqlite.org/pragma.html#pragma_foreign_keys
		"foreign_keys = on",
	} {
		ipd.Debug.Printf("Run PRAGMA %v", pragma)
		_, err = db.write.Exec("PRAGMA " + pragma + ";")
		if err != nil {
			return nil, errors.Wrap(err, pragma)
		}
	}

	entries, err := sqlDir.ReadDir(".")
	if err != nil {
		return nil, err
	}
	// Tables have to exist before statements can be prepared
	for _, create := range []bool{true, false} {
		for _, entry := range entries {
			if !entry.Type().IsRegular() || strings.HasPrefix(entry.Name(), ".") {
				continue
			}
			base := path.Base(entry.Name())
			if strings.HasPrefix(base, "create-") != create {
				continue
			}

			data, err := fs.ReadFile(sqlDir, entry.Name())
			if err != nil {
				return nil, err
			}

			query := strings.TrimSuffix(base, ".sql")
			switch {
			case create:
				_, err = db.write.Exec(string(data))
				ipd.Debug.Printf("Executed query %v", base)
			case strings.HasPrefix(query, "select-"):
				db.queries[query], err = db.read.Prepare(string(data))
				ipd.Debug.Printf("Registered query %v", query)
			default:
				db.commands[query], err = db.write.Prepare(string(data))
				ipd.Debug.Printf("Registered command %v", query)
			}
			if err != nil {
				return nil, errors.Wrap(err, entry.Name())
			}
		}
	}

	return db, nil
}

// Initialise the database and register the database manager
func Register(st *cmd.State, conf *cmd.Conf) {
	db, err := Open(conf.Database.File)
	if err != nil {
		log.Fatal(err)
	}
	st.Register(cmd.Database(db))
}
