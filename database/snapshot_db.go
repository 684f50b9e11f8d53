package database

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"btklist/models"
)

// SnapshotDB хранит последний снимок списка и историю запусков
type SnapshotDB struct {
	conn *sql.DB
}

// NewSnapshotDB создает новое подключение к БД снимка
func NewSnapshotDB(path string) (*SnapshotDB, error) {
	db, err := CreateSnapshotDatabase(path)
	if err != nil {
		return nil, err
	}
	return &SnapshotDB{conn: db}, nil
}

// Close закрывает подключение
func (db *SnapshotDB) Close() error {
	return db.conn.Close()
}

// RunInfo сведения о запуске выгрузки
type RunInfo struct {
	RunID         string    `json:"run_id"`
	StartedAt     time.Time `json:"started_at"`
	FinishedAt    time.Time `json:"finished_at"`
	UpstreamTotal int       `json:"upstream_total"`
	Pages         int       `json:"pages"`
	Fetched       int       `json:"fetched"`
	Rejected      int       `json:"rejected"`
	Duplicates    int       `json:"duplicates"`
	Kept          int       `json:"kept"`
}

// ReplaceSnapshot заменяет содержимое снимка записями текущего запуска
// и добавляет запись о запуске. Все в одной транзакции.
func (db *SnapshotDB) ReplaceSnapshot(records []*models.CompanyRecord, run RunInfo) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM companies`); err != nil {
		return fmt.Errorf("failed to clear snapshot: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO companies (position, id, company, address, type, phone, fax, web, approve_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, rec := range records {
		_, err := stmt.Exec(i, rec.ID,
			nullString(rec.Company),
			nullString(rec.Address),
			nullString(rec.Type),
			nullString(rec.Phone),
			nullString(rec.Fax),
			nullString(rec.Web),
			nullString(rec.ApproveDate),
		)
		if err != nil {
			return fmt.Errorf("failed to insert company %d: %w", rec.ID, err)
		}
	}

	_, err = tx.Exec(`
		INSERT INTO runs (run_id, started_at, finished_at, upstream_total, pages, fetched, rejected, duplicates, kept)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.RunID, run.StartedAt.UTC(), run.FinishedAt.UTC(), run.UpstreamTotal, run.Pages, run.Fetched, run.Rejected, run.Duplicates, run.Kept)
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return nil
}

// CompanyFilter параметры выборки записей снимка
type CompanyFilter struct {
	Query  string // подстрока в названии или адресе
	Type   string
	Limit  int
	Offset int
}

// ListCompanies возвращает записи снимка в порядке отчета
func (db *SnapshotDB) ListCompanies(filter CompanyFilter) ([]*models.CompanyRecord, int, error) {
	where := []string{"1=1"}
	args := []interface{}{}

	if q := strings.TrimSpace(filter.Query); q != "" {
		where = append(where, "(company LIKE ? OR address LIKE ?)")
		pattern := "%" + q + "%"
		args = append(args, pattern, pattern)
	}
	if filter.Type != "" {
		where = append(where, "type = ?")
		args = append(args, filter.Type)
	}
	whereSQL := strings.Join(where, " AND ")

	var total int
	if err := db.conn.QueryRow("SELECT COUNT(*) FROM companies WHERE "+whereSQL, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count companies: %w", err)
	}

	query := `SELECT id, company, address, type, phone, fax, web, approve_date FROM companies WHERE ` +
		whereSQL + ` ORDER BY position`
	if filter.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query companies: %w", err)
	}
	defer rows.Close()

	records := []*models.CompanyRecord{}
	for rows.Next() {
		rec, err := scanCompany(rows)
		if err != nil {
			return nil, 0, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate companies: %w", err)
	}

	return records, total, nil
}

// GetCompanies возвращает все записи снимка с данным id
func (db *SnapshotDB) GetCompanies(id int64) ([]*models.CompanyRecord, error) {
	rows, err := db.conn.Query(`
		SELECT id, company, address, type, phone, fax, web, approve_date
		FROM companies WHERE id = ? ORDER BY position
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query company %d: %w", id, err)
	}
	defer rows.Close()

	records := []*models.CompanyRecord{}
	for rows.Next() {
		rec, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// LastRun возвращает сведения о последнем запуске или nil, если запусков не было
func (db *SnapshotDB) LastRun() (*RunInfo, error) {
	var run RunInfo
	err := db.conn.QueryRow(`
		SELECT run_id, started_at, finished_at, upstream_total, pages, fetched, rejected, duplicates, kept
		FROM runs ORDER BY finished_at DESC LIMIT 1
	`).Scan(&run.RunID, &run.StartedAt, &run.FinishedAt, &run.UpstreamTotal, &run.Pages,
		&run.Fetched, &run.Rejected, &run.Duplicates, &run.Kept)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get last run: %w", err)
	}
	return &run, nil
}

func scanCompany(rows *sql.Rows) (*models.CompanyRecord, error) {
	var (
		rec                                                 models.CompanyRecord
		company, address, typ, phone, fax, web, approveDate sql.NullString
	)
	if err := rows.Scan(&rec.ID, &company, &address, &typ, &phone, &fax, &web, &approveDate); err != nil {
		return nil, fmt.Errorf("failed to scan company: %w", err)
	}
	rec.Company = stringPtr(company)
	rec.Address = stringPtr(address)
	rec.Type = stringPtr(typ)
	rec.Phone = stringPtr(phone)
	rec.Fax = stringPtr(fax)
	rec.Web = stringPtr(web)
	rec.ApproveDate = stringPtr(approveDate)
	return &rec, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return models.Ptr(s.String)
}
