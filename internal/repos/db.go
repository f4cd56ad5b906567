package repos

import (
	"encoding/json"
	"log/slog"
	"os"
	"time"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// single-writer sqlite; one conn also keeps :memory: databases stable
	db.SetMaxOpenConns(1)
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	// Demo accounts and offers (idempotent; safe to run every start)
	if err := seedUsers(db); err != nil {
		return nil, err
	}
	if err := seedOffers(db); err != nil {
		return nil, err
	}

	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Accounts
CREATE TABLE IF NOT EXISTS users(
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL CHECK (role IN ('BUYER','SELLER')),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(LOWER(email));

-- Buyer/seller profiles, one JSON document per user
CREATE TABLE IF NOT EXISTS profiles(
  user_id TEXT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
  role TEXT NOT NULL CHECK (role IN ('BUYER','SELLER')),
  doc TEXT NOT NULL,
  updated_at TEXT
);

-- Zip-scoped store offers, read-only through the API
CREATE TABLE IF NOT EXISTS offers(
  id TEXT PRIMARY KEY,
  zip TEXT NOT NULL,
  title TEXT NOT NULL,
  category TEXT NOT NULL DEFAULT '',
  discount_bps INTEGER NOT NULL DEFAULT 0 CHECK (discount_bps >= 0),
  starts_at TEXT NOT NULL,
  ends_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_offers_zip ON offers(zip);
`
	_, err := db.Exec(schema)
	return err
}

// seedUsers ensures one demo buyer and one demo seller exist.
func seedUsers(db *sqlx.DB) error {
	type u struct {
		ID, Email, Name, Role, Hash string
	}
	mk := func(id, email, name, role, raw string) u {
		h, _ := bcrypt.GenerateFromPassword([]byte(raw), 12)
		return u{ID: id, Email: email, Name: name, Role: role, Hash: string(h)}
	}

	users := []u{
		mk("u-dana", "dana@shelfaware.test", "Dana", "BUYER", "Passw0rd!"),
		mk("u-marco", "marco@shelfaware.test", "Marco's Market", "SELLER", "Passw0rd!"),
	}

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	for _, x := range users {
		if _, err := tx.Exec(`
			INSERT INTO users(id,email,name,password_hash,role)
			VALUES(?,?,?,?,?)
			ON CONFLICT(email) DO NOTHING
		`, x.ID, x.Email, x.Name, x.Hash, x.Role); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func seedOffers(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM offers`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	slog.Info("seeding demo offers")

	now := time.Now().UTC()
	week := now.Add(7 * 24 * time.Hour)
	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	rows := [][]any{
		{"off-greens", "20742", "2-for-1 leafy greens", "produce", 5000},
		{"off-dairy", "20742", "15% off dairy", "dairy", 1500},
		{"off-bread", "10001", "Day-old bakery 30% off", "bakery", 3000},
	}
	for _, r := range rows {
		if _, err := tx.Exec(`
			INSERT INTO offers(id,zip,title,category,discount_bps,starts_at,ends_at)
			VALUES(?,?,?,?,?,?,?)
		`, r[0], r[1], r[2], r[3], r[4], now.Format(time.RFC3339), week.Format(time.RFC3339)); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// ImportOffersFile loads zip-scoped offers from a flat JSON file and
// upserts them, so an ops-managed offers.json can override the demo set.
func ImportOffersFile(db *sqlx.DB, path string) (int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	var in []struct {
		ID          string    `json:"id"`
		Zip         string    `json:"zip"`
		Title       string    `json:"title"`
		Category    string    `json:"category"`
		DiscountBps int       `json:"discountBps"`
		StartsAt    time.Time `json:"startsAt"`
		EndsAt      time.Time `json:"endsAt"`
	}
	if err := json.Unmarshal(raw, &in); err != nil {
		return 0, err
	}

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	n := 0
	for _, o := range in {
		if o.ID == "" || o.Zip == "" || o.Title == "" {
			continue
		}
		// A window-less offer can never be live, so treat it as invalid too.
		if o.StartsAt.IsZero() || o.EndsAt.IsZero() {
			continue
		}
		if _, err := tx.Exec(`
			INSERT INTO offers(id,zip,title,category,discount_bps,starts_at,ends_at)
			VALUES(?,?,?,?,?,?,?)
			ON CONFLICT(id) DO UPDATE SET
			  zip=excluded.zip, title=excluded.title, category=excluded.category,
			  discount_bps=excluded.discount_bps, starts_at=excluded.starts_at, ends_at=excluded.ends_at
		`, o.ID, o.Zip, o.Title, o.Category, o.DiscountBps,
			o.StartsAt.UTC().Format(time.RFC3339), o.EndsAt.UTC().Format(time.RFC3339)); err != nil {
			return 0, err
		}
		n++
	}

	return n, tx.Commit()
}
