package database

import (
	"context"
	"database/sql"
	"strings"

	"github.com/go-sql-driver/mysql"

	"hdss-monitor/internal/survey"
)

// insertBatch keeps multi-row inserts well under the placeholder limit.
const insertBatch = 500

type MySQLDriver struct {
	db *sql.DB
}

// Connect forces parseTime so submissiondate scans into time.Time.
func (md *MySQLDriver) Connect(dsn string) error {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return err
	}
	cfg.ParseTime = true

	db, err := sql.Open("mysql", cfg.FormatDSN())
	if err != nil {
		return err
	}
	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		return err
	}
	md.db = db
	return nil
}

func (md *MySQLDriver) Close() error {
	return md.db.Close()
}

func (md *MySQLDriver) Setup(ctx context.Context) error {
	return md.ExecuteTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, dialect(GetHouseholdsSchema(), "`key`")); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, dialect(GetIndividualsSchema(), "`key`"))
		return err
	})
}

func (md *MySQLDriver) Reset(ctx context.Context) error {
	_, err := md.db.ExecContext(ctx, "DROP TABLE IF EXISTS individuals, households")
	return err
}

func (md *MySQLDriver) ExecuteTx(ctx context.Context, txFunc func(*sql.Tx) error) error {
	tx, err := md.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if err := txFunc(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}

func (md *MySQLDriver) Load(ctx context.Context) (*survey.Snapshot, error) {
	snap := &survey.Snapshot{}
	err := md.ExecuteTx(ctx, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, dialect(GetHouseholdsQuery(), "`key`"))
		if err != nil {
			return err
		}
		for rows.Next() {
			h, err := scanHousehold(rows)
			if err != nil {
				rows.Close()
				return err
			}
			snap.Households = append(snap.Households, h)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}

		rows, err = tx.QueryContext(ctx, dialect(GetIndividualsQuery(), "`key`"))
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			ind, err := scanIndividual(rows)
			if err != nil {
				return err
			}
			snap.Individuals = append(snap.Individuals, ind)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

func (md *MySQLDriver) Seed(ctx context.Context, snap *survey.Snapshot) error {
	return md.ExecuteTx(ctx, func(tx *sql.Tx) error {
		households := make([][]interface{}, len(snap.Households))
		for i := range snap.Households {
			households[i] = householdValues(&snap.Households[i])
		}
		if err := insertRows(ctx, tx, "households", householdColumns, households); err != nil {
			return err
		}

		individuals := make([][]interface{}, len(snap.Individuals))
		for i := range snap.Individuals {
			individuals[i] = individualValues(&snap.Individuals[i])
		}
		return insertRows(ctx, tx, "individuals", individualColumns, individuals)
	})
}

func insertRows(ctx context.Context, tx *sql.Tx, table string, columns []string, rows [][]interface{}) error {
	placeholders := "(" + strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ") + ")"
	prefix := "INSERT INTO " + table + " (" + strings.Join(columnList(columns, "`key`"), ", ") + ") VALUES "

	for start := 0; start < len(rows); start += insertBatch {
		end := start + insertBatch
		if end > len(rows) {
			end = len(rows)
		}
		batch := rows[start:end]

		values := make([]string, len(batch))
		args := make([]interface{}, 0, len(batch)*len(columns))
		for i, row := range batch {
			values[i] = placeholders
			args = append(args, row...)
		}
		if _, err := tx.ExecContext(ctx, prefix+strings.Join(values, ", "), args...); err != nil {
			return err
		}
	}
	return nil
}
