package directory

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"edms/internal/config"
)

// MySQLDirectory reads the employee portal's MySQL database. The tables are
// owned by the HR system; this client only ever issues SELECTs.
type MySQLDirectory struct {
	db *sql.DB
}

// NewMySQL opens a connection to the employee portal database and verifies
// connectivity. The handle is constructed once at startup and injected; there
// is no lazy global pool.
func NewMySQL(cfg config.DirectoryConfig) (*MySQLDirectory, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("employee directory DSN is required")
	}

	db, err := sql.Open("mysql", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open employee db: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("employee db ping: %w", err)
	}

	return &MySQLDirectory{db: db}, nil
}

// NewMySQLFromDB wraps an existing handle; used by tests.
func NewMySQLFromDB(db *sql.DB) *MySQLDirectory {
	return &MySQLDirectory{db: db}
}

// Close releases the underlying connection pool.
func (d *MySQLDirectory) Close() error {
	return d.db.Close()
}

var _ Directory = (*MySQLDirectory)(nil)

// DepartmentByEmail returns the department affiliation for an employee email,
// or ErrEmployeeNotFound when no employee row matches. An employee without a
// department assignment is still returned, with empty department fields.
func (d *MySQLDirectory) DepartmentByEmail(ctx context.Context, email string) (*Department, error) {
	const q = `
		SELECT e.id,
		       e.email,
		       e.departmentId,
		       d.name   AS deptName,
		       d.code   AS deptCode,
		       d.nameEn AS deptNameEn
		FROM employees e
		LEFT JOIN departments d ON d.id = e.departmentId
		WHERE e.email = ?
		LIMIT 1
	`
	var (
		dep    Department
		deptID sql.NullInt64
		name   sql.NullString
		code   sql.NullString
		nameEN sql.NullString
	)
	err := d.db.QueryRowContext(ctx, q, email).Scan(
		&dep.EmployeeID, &dep.Email, &deptID, &name, &code, &nameEN)
	if err == sql.ErrNoRows {
		return nil, ErrEmployeeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("employee lookup: %w", err)
	}

	if deptID.Valid {
		id := int(deptID.Int64)
		dep.ID = &id
	}
	dep.Name = name.String
	dep.Code = code.String
	dep.NameEN = nameEN.String
	return &dep, nil
}
