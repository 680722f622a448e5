package store

import (
	"context"
	"database/sql"

	_ "modernc.org/sqlite"

	"github.com/tysonmwilliams-source/lineageweaver-sub002/pkg/kin"
)

// SQLiteBackend persists the dataset in an embedded SQLite database with
// normalized people, houses and records tables. Saves replace the whole
// dataset inside one transaction.
type SQLiteBackend struct {
	db *sql.DB
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS people (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL DEFAULT '',
	gender     TEXT NOT NULL DEFAULT '',
	birth      TEXT NOT NULL DEFAULT '',
	death      TEXT NOT NULL DEFAULT '',
	legitimacy TEXT NOT NULL DEFAULT '',
	house_id   TEXT NOT NULL DEFAULT '',
	pos        INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS houses (
	id              TEXT PRIMARY KEY,
	name            TEXT NOT NULL DEFAULT '',
	parent_house_id TEXT NOT NULL DEFAULT '',
	founder_id      TEXT NOT NULL DEFAULT '',
	pos             INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS records (
	id            TEXT PRIMARY KEY,
	type          TEXT NOT NULL,
	person1_id    TEXT NOT NULL,
	person2_id    TEXT NOT NULL,
	biological    INTEGER NOT NULL DEFAULT 0,
	status        TEXT NOT NULL DEFAULT '',
	marriage_date TEXT NOT NULL DEFAULT '',
	divorce_date  TEXT NOT NULL DEFAULT '',
	pos           INTEGER NOT NULL
);
`

// NewSQLiteBackend opens (creating if needed) the database at path.
func NewSQLiteBackend(path string) (*SQLiteBackend, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, backendErr("sqlite", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, backendErr("sqlite", err)
	}
	return &SQLiteBackend{db: db}, nil
}

func (s *SQLiteBackend) Load(ctx context.Context) (*kin.Dataset, error) {
	ds := &kin.Dataset{}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, gender, birth, death, legitimacy, house_id FROM people ORDER BY pos`)
	if err != nil {
		return nil, backendErr("sqlite", err)
	}
	defer rows.Close()
	for rows.Next() {
		var p kin.Person
		var birth, death string
		if err := rows.Scan(&p.ID, &p.Name, &p.Gender, &birth, &death, &p.Legitimacy, &p.HouseID); err != nil {
			return nil, backendErr("sqlite", err)
		}
		if err := p.Birth.UnmarshalText([]byte(birth)); err != nil {
			return nil, backendErr("sqlite", err)
		}
		if err := p.Death.UnmarshalText([]byte(death)); err != nil {
			return nil, backendErr("sqlite", err)
		}
		ds.People = append(ds.People, p)
	}
	if err := rows.Err(); err != nil {
		return nil, backendErr("sqlite", err)
	}

	hrows, err := s.db.QueryContext(ctx,
		`SELECT id, name, parent_house_id, founder_id FROM houses ORDER BY pos`)
	if err != nil {
		return nil, backendErr("sqlite", err)
	}
	defer hrows.Close()
	for hrows.Next() {
		var h kin.House
		if err := hrows.Scan(&h.ID, &h.Name, &h.ParentHouseID, &h.FounderID); err != nil {
			return nil, backendErr("sqlite", err)
		}
		ds.Houses = append(ds.Houses, h)
	}
	if err := hrows.Err(); err != nil {
		return nil, backendErr("sqlite", err)
	}

	rrows, err := s.db.QueryContext(ctx,
		`SELECT id, type, person1_id, person2_id, biological, status, marriage_date, divorce_date FROM records ORDER BY pos`)
	if err != nil {
		return nil, backendErr("sqlite", err)
	}
	defer rrows.Close()
	for rrows.Next() {
		var r kin.Record
		var married, divorced string
		if err := rrows.Scan(&r.ID, &r.Type, &r.Person1ID, &r.Person2ID, &r.Biological, &r.Status, &married, &divorced); err != nil {
			return nil, backendErr("sqlite", err)
		}
		if err := r.MarriageDate.UnmarshalText([]byte(married)); err != nil {
			return nil, backendErr("sqlite", err)
		}
		if err := r.DivorceDate.UnmarshalText([]byte(divorced)); err != nil {
			return nil, backendErr("sqlite", err)
		}
		ds.Records = append(ds.Records, r)
	}
	if err := rrows.Err(); err != nil {
		return nil, backendErr("sqlite", err)
	}

	if len(ds.People) == 0 && len(ds.Houses) == 0 && len(ds.Records) == 0 {
		return nil, ErrNotFound
	}
	return ds, nil
}

func (s *SQLiteBackend) Save(ctx context.Context, ds *kin.Dataset) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return backendErr("sqlite", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"people", "houses", "records"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return backendErr("sqlite", err)
		}
	}
	for i, p := range ds.People {
		birth, _ := p.Birth.MarshalText()
		death, _ := p.Death.MarshalText()
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO people (id, name, gender, birth, death, legitimacy, house_id, pos) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			p.ID, p.Name, string(p.Gender), string(birth), string(death), string(p.Legitimacy), p.HouseID, i); err != nil {
			return backendErr("sqlite", err)
		}
	}
	for i, h := range ds.Houses {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO houses (id, name, parent_house_id, founder_id, pos) VALUES (?, ?, ?, ?, ?)`,
			h.ID, h.Name, h.ParentHouseID, h.FounderID, i); err != nil {
			return backendErr("sqlite", err)
		}
	}
	for i, r := range ds.Records {
		married, _ := r.MarriageDate.MarshalText()
		divorced, _ := r.DivorceDate.MarshalText()
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO records (id, type, person1_id, person2_id, biological, status, marriage_date, divorce_date, pos) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			r.ID, string(r.Type), r.Person1ID, r.Person2ID, r.Biological, string(r.Status), string(married), string(divorced), i); err != nil {
			return backendErr("sqlite", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return backendErr("sqlite", err)
	}
	return nil
}

func (s *SQLiteBackend) Close() error { return s.db.Close() }

func (s *SQLiteBackend) Name() string { return "sqlite" }
