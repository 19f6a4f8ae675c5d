package vulnlib

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kvesta/hostvuln/pkg/finding"

	"github.com/mitchellh/go-homedir"
	_ "github.com/mattn/go-sqlite3"
)

const cacheSchema = `
CREATE TABLE IF NOT EXISTS queries (
	"CPE" TEXT NOT NULL PRIMARY KEY,
	"FetchedAt" INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS cves (
	"ID" INTEGER NOT NULL PRIMARY KEY AUTOINCREMENT,
	"CPE" TEXT NOT NULL,
	"Position" INTEGER NOT NULL,
	"CVEID" TEXT,
	"Score" REAL,
	"Level" TEXT,
	"Vector" TEXT,
	"Description" TEXT,
	"PublishDate" TEXT,
	"ModifyDate" TEXT
);
CREATE INDEX IF NOT EXISTS cves_cpe ON cves ("CPE");`

// DefaultCachePath is ~/.hostvuln/cache.db.
func DefaultCachePath() (string, error) {
	dir, err := homedir.Dir()
	if err != nil {
		return "", err
	}

	return filepath.Join(dir, ".hostvuln", "cache.db"), nil
}

// OpenCache opens, creating when needed, the sqlite response cache.
func OpenCache(path string) (*sql.DB, error) {
	if err := mkFolder(filepath.Dir(path)); err != nil {
		return nil, fmt.Errorf("failed to create cache folder: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err = db.Exec(cacheSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init cache schema: %w", err)
	}

	return db, nil
}

// ResetCache removes the cache database.
func ResetCache(path string) error {
	if !exists(path) {
		return nil
	}
	return os.Remove(path)
}

func (c *Client) cached(cpeName string) ([]VulnRecord, bool, error) {
	var fetchedAt int64
	err := c.DB.QueryRow(`SELECT "FetchedAt" FROM queries WHERE "CPE" = ?`, cpeName).Scan(&fetchedAt)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	if c.now().Sub(time.Unix(fetchedAt, 0)) > c.opts.CacheTTL {
		return nil, false, nil
	}

	rows, err := c.DB.Query(`SELECT "CVEID", "Score", "Level", "Vector", "Description", "PublishDate", "ModifyDate"
		FROM cves WHERE "CPE" = ? ORDER BY "Position"`, cpeName)
	if err != nil {
		return nil, false, err
	}
	defer rows.Close()

	records := []VulnRecord{}
	for rows.Next() {
		r := VulnRecord{}
		var level string
		err = rows.Scan(&r.ID, &r.Score, &level, &r.Vector,
			&r.Description, &r.Published, &r.Modified)
		if err != nil {
			return nil, false, err
		}

		r.Severity = finding.ParseSeverity(level)
		records = append(records, r)
	}

	if err = rows.Err(); err != nil {
		return nil, false, err
	}

	return records, true, nil
}

func (c *Client) store(cpeName string, records []VulnRecord) error {
	tx, err := c.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err = tx.Exec(`DELETE FROM cves WHERE "CPE" = ?`, cpeName); err != nil {
		return err
	}

	sqlRow := `INSERT INTO cves
				  ("CPE", "Position", "CVEID", "Score", "Level", "Vector", "Description", "PublishDate", "ModifyDate")
				  VALUES
				  (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	for i, r := range records {
		_, err = tx.Exec(sqlRow, cpeName, i, r.ID, r.Score, string(r.Severity),
			r.Vector, r.Description, r.Published, r.Modified)
		if err != nil {
			return err
		}
	}

	_, err = tx.Exec(`INSERT OR REPLACE INTO queries ("CPE", "FetchedAt") VALUES (?, ?)`,
		cpeName, c.now().Unix())
	if err != nil {
		return err
	}

	return tx.Commit()
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func mkFolder(path string) error {
	if !exists(path) {
		err := os.MkdirAll(path, os.FileMode(0755))
		if err != nil {
			return err
		}
	}
	return nil
}
