package db

import (
	"context"
	"sort"
	"time"

	"emperror.dev/errors"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/georgysavva/scany/pgxscan"
	"github.com/Masterminds/squirrel"
)

// RecordKind is the table a punishment record lives in.
type RecordKind string

const (
	RecordWarn RecordKind = "W"
	RecordBan  RecordKind = "B"
)

func (k RecordKind) table() string {
	if k == RecordBan {
		return "bans"
	}
	return "warns"
}

// Record is a single warn or ban record. Records are immutable once
// inserted, except for the cleared flag.
type Record struct {
	ID        int64
	UserID    discord.UserID `db:"user_id"`
	StaffID   discord.UserID `db:"staff_id"`
	Reason    string
	Timestamp time.Time
	Cleared   bool

	Kind RecordKind `db:"-"`
}

// insertRecord inserts a record, returning its assigned ID. The insert is
// committed before this returns.
func (db *DB) insertRecord(kind RecordKind, rec Record) (id int64, err error) {
	ts := rec.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	sql, args, err := sq.Insert(kind.table()).
		Columns("user_id", "staff_id", "reason", "timestamp").
		Values(rec.UserID, rec.StaffID, rec.Reason, ts).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, errors.Wrap(err, "building sql")
	}

	err = db.QueryRow(context.Background(), sql, args...).Scan(&id)
	if err != nil {
		return 0, errors.Wrap(err, "executing query")
	}
	return id, nil
}

// InsertWarn inserts a warn record and returns its assigned ID.
func (db *DB) InsertWarn(rec Record) (int64, error) {
	return db.insertRecord(RecordWarn, rec)
}

// InsertBan inserts a ban record and returns its assigned ID.
func (db *DB) InsertBan(rec Record) (int64, error) {
	return db.insertRecord(RecordBan, rec)
}

func (db *DB) records(kind RecordKind, userID discord.UserID) (recs []Record, err error) {
	sql, args, err := sq.Select("id", "user_id", "staff_id", "reason", "timestamp", "cleared").
		From(kind.table()).
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building sql")
	}

	err = pgxscan.Select(context.Background(), db, &recs, sql, args...)
	if err != nil {
		return nil, errors.Wrap(err, "getting from database")
	}

	for i := range recs {
		recs[i].Kind = kind
	}
	return recs, nil
}

// Warns returns the user's warn records in insertion order.
func (db *DB) Warns(userID discord.UserID) ([]Record, error) {
	return db.records(RecordWarn, userID)
}

// Bans returns the user's ban records in insertion order.
func (db *DB) Bans(userID discord.UserID) ([]Record, error) {
	return db.records(RecordBan, userID)
}

// Records returns all of the user's punishment records ordered by timestamp.
func (db *DB) Records(userID discord.UserID) ([]Record, error) {
	warns, err := db.Warns(userID)
	if err != nil {
		return nil, err
	}
	bans, err := db.Bans(userID)
	if err != nil {
		return nil, err
	}

	recs := append(warns, bans...)
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Timestamp.Before(recs[j].Timestamp)
	})
	return recs, nil
}
