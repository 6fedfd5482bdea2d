package phonetic

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
	"unicode/utf8"

	_ "github.com/mattn/go-sqlite3"
)

// MemoryDSN opens a private in-memory dictionary.
const MemoryDSN = ":memory:"

// learnBoost is added to a phrase's frequency each time it is chosen.
const learnBoost = 15

// ErrInvalidPhrase is returned when a phrase is not a single character or
// the reading is empty.
var ErrInvalidPhrase = errors.New("phonetic: phrase must be one character with a reading")

// Dictionary maps Zhuyin readings to characters ranked by frequency. It is
// safe for concurrent use.
type Dictionary struct {
	db *sql.DB
}

// OpenDictionary opens or creates the dictionary at path, applies pending
// migrations and seeds an empty table.
func OpenDictionary(path string) (*Dictionary, error) {
	dsn := path
	if path != MemoryDSN {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("create dictionary directory: %w", err)
		}
		dsn = path + "?_journal_mode=WAL&_busy_timeout=5000"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open dictionary: %w", err)
	}
	if path == MemoryDSN {
		// Every connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	d := &Dictionary{db: db}
	if err := d.seedIfEmpty(); err != nil {
		db.Close()
		return nil, err
	}
	return d, nil
}

// Close closes the database connection.
func (d *Dictionary) Close() error {
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}

func (d *Dictionary) seedIfEmpty() error {
	n, err := d.Count()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("begin seed: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare("INSERT OR IGNORE INTO phrases (syllable, phrase, freq) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare seed: %w", err)
	}
	defer stmt.Close()

	for _, entry := range seed {
		chars := []rune(entry.chars)
		for i, r := range chars {
			if _, err := stmt.Exec(entry.reading, string(r), (len(chars)-i)*seedFreqStep); err != nil {
				return fmt.Errorf("seed %s: %w", entry.reading, err)
			}
		}
	}
	return tx.Commit()
}

// Count returns the number of phrases.
func (d *Dictionary) Count() (int, error) {
	var n int
	if err := d.db.QueryRow("SELECT COUNT(*) FROM phrases").Scan(&n); err != nil {
		return 0, fmt.Errorf("count phrases: %w", err)
	}
	return n, nil
}

// Lookup returns the phrases for a reading, most frequent first. An unknown
// reading yields an empty result.
func (d *Dictionary) Lookup(reading string) ([]string, error) {
	rows, err := d.db.Query(
		"SELECT phrase FROM phrases WHERE syllable = ? ORDER BY freq DESC, last_used DESC, phrase",
		reading,
	)
	if err != nil {
		return nil, fmt.Errorf("lookup %q: %w", reading, err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("scan phrase: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Add inserts a phrase or raises the frequency of an existing one by freq.
func (d *Dictionary) Add(reading, phrase string, freq int) error {
	if reading == "" || utf8.RuneCountInString(phrase) != 1 {
		return fmt.Errorf("%w: %q %q", ErrInvalidPhrase, reading, phrase)
	}
	_, err := d.db.Exec(`
		INSERT INTO phrases (syllable, phrase, freq) VALUES (?, ?, ?)
		ON CONFLICT(syllable, phrase) DO UPDATE SET freq = freq + excluded.freq`,
		reading, phrase, freq,
	)
	if err != nil {
		return fmt.Errorf("add phrase %q: %w", phrase, err)
	}
	return nil
}

// Learn records that phrase was chosen for reading.
func (d *Dictionary) Learn(reading, phrase string) error {
	if err := d.Add(reading, phrase, learnBoost); err != nil {
		return err
	}
	_, err := d.db.Exec("UPDATE phrases SET last_used = ? WHERE syllable = ? AND phrase = ?",
		time.Now().UnixNano(), reading, phrase)
	if err != nil {
		return fmt.Errorf("mark phrase used: %w", err)
	}
	return nil
}

// SchemaVersion returns the applied migration version.
func (d *Dictionary) SchemaVersion() (int, error) {
	return schemaVersion(d.db)
}
