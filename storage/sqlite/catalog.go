package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/poiesic/hazmatrag/core"
	"github.com/poiesic/hazmatrag/storage"
	"github.com/poiesic/hazmatrag/storage/sqlite/migrations"
)

// DefaultFileName is the database file created inside the data directory.
const DefaultFileName = "catalog.db"

const selectColumns = `id, 联合国编号, 名称和说明, 英文名称和说明, 类别或项别, 次要危险性, 包装类别,
	特殊规定, 有限数量, 例外数量, 包装和中型散装容器包装指南, 包装和中型散装容器特殊包装规定,
	可移动罐柜和散装容器指南, 可移动罐柜和散装容器特殊规定`

const insertStatement = `INSERT INTO hazardous_chemicals_catalog (
	联合国编号, 名称和说明, 英文名称和说明, 类别或项别, 次要危险性, 包装类别,
	特殊规定, 有限数量, 例外数量, 包装和中型散装容器包装指南, 包装和中型散装容器特殊包装规定,
	可移动罐柜和散装容器指南, 可移动罐柜和散装容器特殊规定
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// ChemicalRepository implements storage.ChemicalRepository on SQLite.
type ChemicalRepository struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

var _ storage.ChemicalRepository = (*ChemicalRepository)(nil)

// NewChemicalRepository opens (or creates) the catalog database in dataDir
// and applies pending migrations.
func NewChemicalRepository(dataDir string, logger *slog.Logger) (*ChemicalRepository, error) {
	if dataDir == "" {
		return nil, fmt.Errorf("%w: data directory is required", storage.ErrInvalidQuery)
	}
	if logger == nil {
		logger = slog.Default()
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	dbPath := filepath.Join(dataDir, DefaultFileName)

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	r := &ChemicalRepository{
		db:     db,
		path:   dbPath,
		logger: logger.With("component", "sqlite-catalog"),
	}

	if err := r.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return r, nil
}

// Close closes the database connection.
func (r *ChemicalRepository) Close() error {
	return r.db.Close()
}

// Path returns the database file path.
func (r *ChemicalRepository) Path() string {
	return r.path
}

// AddChemicals inserts records in one transaction and assigns their row IDs.
func (r *ChemicalRepository) AddChemicals(ctx context.Context, records ...*core.ChemicalRecord) ([]*core.ChemicalRecord, error) {
	for _, record := range records {
		if err := core.ValidateChemicalRecord(record); err != nil {
			return nil, err
		}
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, insertStatement)
	if err != nil {
		return nil, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, record := range records {
		res, err := stmt.ExecContext(ctx,
			record.UNNumber,
			nullString(record.ChineseName),
			nullString(record.EnglishName),
			nullString(record.Category),
			nullString(record.SecondaryHazard),
			nullString(record.PackagingGroup),
			nullString(record.SpecialProvisions),
			nullString(record.LimitedQuantity),
			nullString(record.ExceptedQuantity),
			nullString(record.PackagingInstruction),
			nullString(record.PackagingSpecialProvision),
			nullString(record.PortableTankInstruction),
			nullString(record.PortableTankSpecialProvision),
		)
		if err != nil {
			return nil, fmt.Errorf("inserting UN%d: %w", record.UNNumber, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("reading row id: %w", err)
		}
		record.Id = core.ID(id)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing insert: %w", err)
	}
	return records, nil
}

// GetByUNNumber returns every variant with the UN number.
func (r *ChemicalRepository) GetByUNNumber(ctx context.Context, unNumber int) ([]*core.ChemicalRecord, error) {
	return r.query(ctx,
		"SELECT "+selectColumns+" FROM hazardous_chemicals_catalog WHERE 联合国编号 = ? ORDER BY id",
		unNumber)
}

// SearchByName matches the Chinese name with instr so that ASCII
// letters compare case-sensitively, unlike LIKE.
func (r *ChemicalRepository) SearchByName(ctx context.Context, substr string, limit int) ([]*core.ChemicalRecord, error) {
	if limit <= 0 {
		return []*core.ChemicalRecord{}, nil
	}
	return r.query(ctx,
		"SELECT "+selectColumns+" FROM hazardous_chemicals_catalog WHERE instr(COALESCE(名称和说明, ''), ?) > 0 ORDER BY id LIMIT ?",
		substr, limit)
}

// GetAll returns records in row order, at most limit when limit > 0.
func (r *ChemicalRepository) GetAll(ctx context.Context, limit int) ([]*core.ChemicalRecord, error) {
	if limit <= 0 {
		limit = -1 // SQLite treats a negative LIMIT as unbounded
	}
	return r.query(ctx,
		"SELECT "+selectColumns+" FROM hazardous_chemicals_catalog ORDER BY id LIMIT ?",
		limit)
}

// Count returns the number of rows.
func (r *ChemicalRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM hazardous_chemicals_catalog").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting chemicals: %w", err)
	}
	return count, nil
}

// Statistics groups rows by category and packaging group.
// Missing values are reported under "None".
func (r *ChemicalRepository) Statistics(ctx context.Context) (*core.CatalogStats, error) {
	total, err := r.Count(ctx)
	if err != nil {
		return nil, err
	}

	categories, err := r.distribution(ctx, "类别或项别")
	if err != nil {
		return nil, err
	}
	groups, err := r.distribution(ctx, "包装类别")
	if err != nil {
		return nil, err
	}

	return &core.CatalogStats{
		TotalChemicals:             total,
		CategoryDistribution:       categories,
		PackagingGroupDistribution: groups,
	}, nil
}

// Reset deletes every row. Row IDs keep increasing afterwards.
func (r *ChemicalRepository) Reset(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM hazardous_chemicals_catalog"); err != nil {
		return fmt.Errorf("failed to reset chemical catalog: %w", err)
	}
	r.logger.Warn("chemical catalog cleared")
	return nil
}

func (r *ChemicalRepository) distribution(ctx context.Context, column string) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx, fmt.Sprintf(
		"SELECT COALESCE(NULLIF(TRIM(%[1]s), ''), 'None'), COUNT(*) FROM hazardous_chemicals_catalog GROUP BY 1",
		column))
	if err != nil {
		return nil, fmt.Errorf("grouping by %s: %w", column, err)
	}
	defer rows.Close()

	result := make(map[string]int)
	for rows.Next() {
		var (
			key   string
			count int
		)
		if err := rows.Scan(&key, &count); err != nil {
			return nil, err
		}
		result[key] = count
	}
	return result, rows.Err()
}

func (r *ChemicalRepository) query(ctx context.Context, query string, args ...any) ([]*core.ChemicalRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying chemicals: %w", err)
	}
	defer rows.Close()

	results := []*core.ChemicalRecord{}
	for rows.Next() {
		record, err := scanChemical(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chemicals: %w", err)
	}
	return results, nil
}

// migrate runs all pending migrations.
func (r *ChemicalRepository) migrate(fsys embed.FS) error {
	_, err := r.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := r.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := r.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := r.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
		r.logger.Debug("applied migration", "name", name)
	}

	return nil
}

func scanChemical(rows *sql.Rows) (*core.ChemicalRecord, error) {
	var (
		id     int64
		record core.ChemicalRecord
		fields [12]sql.NullString
	)
	dest := []any{&id, &record.UNNumber}
	for i := range fields {
		dest = append(dest, &fields[i])
	}
	if err := rows.Scan(dest...); err != nil {
		return nil, fmt.Errorf("scanning chemical: %w", err)
	}

	record.Id = core.ID(id)
	record.ChineseName = fields[0].String
	record.EnglishName = fields[1].String
	record.Category = fields[2].String
	record.SecondaryHazard = fields[3].String
	record.PackagingGroup = fields[4].String
	record.SpecialProvisions = fields[5].String
	record.LimitedQuantity = fields[6].String
	record.ExceptedQuantity = fields[7].String
	record.PackagingInstruction = fields[8].String
	record.PackagingSpecialProvision = fields[9].String
	record.PortableTankInstruction = fields[10].String
	record.PortableTankSpecialProvision = fields[11].String
	return &record, nil
}

func nullString(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}
