package database

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"hdss-monitor/internal/survey"
)

// PostgresDriver uses a pool so concurrent passes from the server and the
// bench command do not share one connection.
type PostgresDriver struct {
	pool *pgxpool.Pool
}

func (pd *PostgresDriver) Connect(dsn string) error {
	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		return err
	}
	if err := pool.Ping(context.Background()); err != nil {
		pool.Close()
		return err
	}
	pd.pool = pool
	return nil
}

func (pd *PostgresDriver) Close() error {
	pd.pool.Close()
	return nil
}

func (pd *PostgresDriver) Setup(ctx context.Context) error {
	return pd.ExecuteTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, dialect(GetHouseholdsSchema(), `"key"`)); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, dialect(GetIndividualsSchema(), `"key"`))
		return err
	})
}

func (pd *PostgresDriver) Reset(ctx context.Context) error {
	_, err := pd.pool.Exec(ctx, "DROP TABLE IF EXISTS individuals, households CASCADE")
	return err
}

// ExecuteTx runs txFunc in a transaction, rolling back on error or panic.
func (pd *PostgresDriver) ExecuteTx(ctx context.Context, txFunc func(pgx.Tx) error) (err error) {
	tx, err := pd.pool.Begin(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback(ctx)
			panic(p) // re-panic after rollback
		} else if err != nil {
			tx.Rollback(ctx) // err is non-nil; don't change it
		} else {
			err = tx.Commit(ctx) // err is nil; if Commit returns error, update err
		}
	}()

	err = txFunc(tx)
	return err
}

// Load reads both tables inside one read-only transaction so the snapshot is consistent.
func (pd *PostgresDriver) Load(ctx context.Context) (*survey.Snapshot, error) {
	snap := &survey.Snapshot{}
	err := pd.ExecuteTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, "SET TRANSACTION READ ONLY"); err != nil {
			return err
		}

		rows, err := tx.Query(ctx, dialect(GetHouseholdsQuery(), `"key"`))
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

		rows, err = tx.Query(ctx, dialect(GetIndividualsQuery(), `"key"`))
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

// Seed bulk-loads snap with COPY.
func (pd *PostgresDriver) Seed(ctx context.Context, snap *survey.Snapshot) error {
	return pd.ExecuteTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.CopyFrom(ctx, pgx.Identifier{"households"}, columnList(householdColumns, "key"),
			pgx.CopyFromSlice(len(snap.Households), func(i int) ([]any, error) {
				return householdValues(&snap.Households[i]), nil
			}))
		if err != nil {
			return err
		}

		_, err = tx.CopyFrom(ctx, pgx.Identifier{"individuals"}, columnList(individualColumns, "key"),
			pgx.CopyFromSlice(len(snap.Individuals), func(i int) ([]any, error) {
				return individualValues(&snap.Individuals[i]), nil
			}))
		return err
	})
}
