// Package storage persists flattened stores to an ephemeral SQLite index and
// writes them in export formats.
package storage

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	sq "github.com/Masterminds/squirrel"
	"github.com/muse-loyalty/muse-stores/internal/catalog"
	"github.com/muse-loyalty/muse-stores/internal/directory"
	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection.
type DB struct {
	db *sql.DB
}

// Record is a single row returned by an ad-hoc query.
type Record map[string]any

// Meta keys stored in the _meta table.
const (
	MetaSourcePath = "source_path"
	MetaSourceHash = "source_hash"
	MetaBuiltAt    = "built_at"
)

// selectStoreFields contains the standard field list for SELECT queries.
const selectStoreFields = `id, name, region, pos_key,
	city, address, timezone, email,
	vertical, org_name, sponsor_name, bu_name,
	district_name, store_category, company_name, mall`

// OpenDB opens or creates a SQLite database at the given path.
func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// createSchema creates the database schema if it doesn't exist.
func createSchema(db *sql.DB) error {
	schema := `
		-- Flattened stores, seq preserves source order
		CREATE TABLE IF NOT EXISTS stores (
			seq INTEGER NOT NULL,
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			region TEXT NOT NULL,
			pos_key TEXT NOT NULL,
			city TEXT,
			address TEXT,
			timezone TEXT,
			email TEXT,
			vertical TEXT,
			org_name TEXT,
			sponsor_name TEXT,
			bu_name TEXT,
			district_name TEXT,
			store_category TEXT,
			company_name TEXT,
			mall TEXT
		);

		CREATE INDEX IF NOT EXISTS idx_stores_pos_key ON stores(pos_key);
		CREATE INDEX IF NOT EXISTS idx_stores_region ON stores(region);
		CREATE INDEX IF NOT EXISTS idx_stores_category ON stores(store_category);

		-- Full-text search over the searchable fields
		CREATE VIRTUAL TABLE IF NOT EXISTS stores_fts USING fts5(
			id,
			name,
			region,
			city,
			sponsor_name,
			company_name,
			mall
		);

		CREATE TABLE IF NOT EXISTS _meta (
			key TEXT PRIMARY KEY,
			value TEXT
		);
	`

	_, err := db.Exec(schema)
	return err
}

// RebuildFromStores clears the index and inserts stores in order. Stores
// whose id is already present are skipped. sourcePath is recorded with its
// content hash so staleness can be detected later. Returns the number of rows
// stored.
func (d *DB) RebuildFromStores(stores []catalog.Store, sourcePath string) (int, error) {
	hash, err := ComputeFileHash(sourcePath)
	if err != nil {
		return 0, err
	}

	tx, err := d.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"stores", "stores_fts", "_meta"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return 0, fmt.Errorf("clearing %s table: %w", table, err)
		}
	}

	storesStmt, err := tx.Prepare(`
		INSERT OR IGNORE INTO stores (
			seq, ` + selectStoreFields + `
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing stores insert: %w", err)
	}
	defer storesStmt.Close()

	ftsStmt, err := tx.Prepare(`
		INSERT INTO stores_fts (id, name, region, city, sponsor_name, company_name, mall)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing fts insert: %w", err)
	}
	defer ftsStmt.Close()

	count := 0
	for i, s := range stores {
		args := []any{i}
		for _, v := range s.Fields() {
			args = append(args, v)
		}

		res, err := storesStmt.Exec(args...)
		if err != nil {
			return 0, fmt.Errorf("inserting store %s: %w", s.ID, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			continue // Duplicate id
		}

		_, err = ftsStmt.Exec(s.ID, s.Name, s.Region, s.City, s.SponsorName, s.CompanyName, s.Mall)
		if err != nil {
			return 0, fmt.Errorf("inserting fts for %s: %w", s.ID, err)
		}
		count++
	}

	meta := map[string]string{
		MetaSourcePath: sourcePath,
		MetaSourceHash: hash,
		MetaBuiltAt:    time.Now().UTC().Format(time.RFC3339),
	}
	for k, v := range meta {
		if _, err := tx.Exec(`INSERT OR REPLACE INTO _meta (key, value) VALUES (?, ?)`, k, v); err != nil {
			return 0, fmt.Errorf("writing meta %s: %w", k, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing: %w", err)
	}
	return count, nil
}

// Count returns the number of indexed stores.
func (d *DB) Count() (int, error) {
	var count int
	err := d.db.QueryRow("SELECT COUNT(*) FROM stores").Scan(&count)
	return count, err
}

// GetByID retrieves the first store, in source order, whose id or POS key
// equals id. Returns nil if none matches.
func (d *DB) GetByID(id string) (*catalog.Store, error) {
	row := d.db.QueryRow(`SELECT `+selectStoreFields+` FROM stores
		WHERE id = ? OR pos_key = ? ORDER BY seq LIMIT 1`, id, id)
	return scanStore(row)
}

// builder returns a statement builder using SQLite placeholders.
func builder() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(sq.Question)
}

// List returns the stores matching c in source order, optionally limited.
// Region, brand, vertical and city match as substrings, region after alias
// resolution. Category matches exactly. All comparisons ignore ASCII case.
func (d *DB) List(c directory.Criteria, limit int) ([]catalog.Store, error) {
	query := builder().Select(selectStoreFields).From("stores").OrderBy("seq")

	if c.Region != "" {
		query = query.Where(containsLike("region", directory.ResolveRegion(c.Region)))
	}
	if c.Brand != "" {
		query = query.Where(containsLike("sponsor_name", c.Brand))
	}
	if c.Category != "" {
		query = query.Where(sq.Expr("store_category = ? COLLATE NOCASE", c.Category))
	}
	if c.Vertical != "" {
		query = query.Where(containsLike("vertical", c.Vertical))
	}
	if c.City != "" {
		query = query.Where(containsLike("city", c.City))
	}
	if limit > 0 {
		query = query.Limit(uint64(limit))
	}

	rows, err := query.RunWith(d.db).Query()
	if err != nil {
		return nil, fmt.Errorf("listing stores: %w", err)
	}
	defer rows.Close()

	return scanStores(rows)
}

// ListAll returns all stores in source order, optionally limited.
func (d *DB) ListAll(limit int) ([]catalog.Store, error) {
	return d.List(directory.Criteria{}, limit)
}

// containsLike matches rows whose column contains value. LIKE wildcards in
// value are matched literally.
func containsLike(column, value string) sq.Sqlizer {
	escaped := strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(value)
	return sq.Expr(column+` LIKE ? ESCAPE '\'`, "%"+escaped+"%")
}

// Search performs a full-text search and returns matching stores in source
// order.
func (d *DB) Search(query string, limit int) ([]catalog.Store, error) {
	ftsQuery := prepareFTSQuery(query)
	if ftsQuery == "" {
		return d.ListAll(limit)
	}

	q := `SELECT ` + selectStoreFields + `
		FROM stores
		WHERE id IN (SELECT id FROM stores_fts WHERE stores_fts MATCH ?)
		ORDER BY seq`
	args := []any{ftsQuery}
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := d.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("searching: %w", err)
	}
	defer rows.Close()

	return scanStores(rows)
}

// Query executes arbitrary SQL and returns the rows as records.
func (d *DB) Query(sqlText string) ([]Record, error) {
	rows, err := d.db.Query(sqlText)
	if err != nil {
		return nil, fmt.Errorf("executing query: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// Meta returns the value stored under key in _meta, or "" if absent.
func (d *DB) Meta(key string) (string, error) {
	var value sql.NullString
	err := d.db.QueryRow("SELECT value FROM _meta WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return value.String, nil
}

// BuiltAt returns when the index was last rebuilt, or the zero time if never.
func (d *DB) BuiltAt() (time.Time, error) {
	s, err := d.Meta(MetaBuiltAt)
	if err != nil || s == "" {
		return time.Time{}, err
	}
	return time.Parse(time.RFC3339, s)
}

// NeedsRebuild reports whether the index was built from something other than
// the current contents of sourcePath.
func (d *DB) NeedsRebuild(sourcePath string) (bool, error) {
	current, err := ComputeFileHash(sourcePath)
	if err != nil {
		return true, err
	}

	stored, err := d.Meta(MetaSourceHash)
	if err != nil {
		return true, err
	}

	return current != stored, nil
}

// ComputeFileHash returns the hex SHA-256 of the file at path.
func ComputeFileHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("reading file: %w", err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// scanner interface for sql.Row and sql.Rows
type scanner interface {
	Scan(dest ...any) error
}

func scanStore(s scanner) (*catalog.Store, error) {
	var st catalog.Store
	var city, address, timezone, email sql.NullString
	var vertical, orgName, sponsorName, buName sql.NullString
	var districtName, storeCategory, companyName, mall sql.NullString

	err := s.Scan(
		&st.ID, &st.Name, &st.Region, &st.POSKey,
		&city, &address, &timezone, &email,
		&vertical, &orgName, &sponsorName, &buName,
		&districtName, &storeCategory, &companyName, &mall,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	st.City = city.String
	st.Address = address.String
	st.Timezone = timezone.String
	st.Email = email.String
	st.Vertical = vertical.String
	st.OrgName = orgName.String
	st.SponsorName = sponsorName.String
	st.BUName = buName.String
	st.DistrictName = districtName.String
	st.StoreCategory = storeCategory.String
	st.CompanyName = companyName.String
	st.Mall = mall.String

	return &st, nil
}

func scanStores(rows *sql.Rows) ([]catalog.Store, error) {
	stores := []catalog.Store{}
	for rows.Next() {
		st, err := scanStore(rows)
		if err != nil {
			return nil, err
		}
		if st != nil {
			stores = append(stores, *st)
		}
	}
	return stores, rows.Err()
}

// scanRecords converts SQL rows to records.
func scanRecords(rows *sql.Rows) ([]Record, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	records := []Record{}
	for rows.Next() {
		values := make([]any, len(cols))
		valuePtrs := make([]any, len(cols))
		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, err
		}

		record := make(Record)
		for i, col := range cols {
			if b, ok := values[i].([]byte); ok {
				record[col] = string(b)
			} else {
				record[col] = values[i]
			}
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

// prepareFTSQuery turns user input into an FTS5 query. Terms are ANDed.
// Terms that are not FTS5 barewords are quoted. A trailing * keeps its
// prefix meaning.
func prepareFTSQuery(query string) string {
	var terms []string
	for _, field := range strings.Fields(query) {
		core := strings.TrimRight(field, "*")
		if core == "" {
			continue
		}
		if !isFTSBareword(core) {
			core = "\"" + strings.ReplaceAll(core, "\"", "\"\"") + "\""
		}
		if len(core) < len(field) {
			core += "*"
		}
		terms = append(terms, core)
	}
	return strings.Join(terms, " ")
}

// isFTSBareword reports whether term can appear unquoted in an FTS5 query.
// Operators such as AND and NEAR count as barewords here.
func isFTSBareword(term string) bool {
	for _, r := range term {
		if r == '_' || r >= utf8.RuneSelf || unicode.IsLetter(r) || unicode.IsDigit(r) {
			continue
		}
		return false
	}
	return true
}
