package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema creates the tables when they are missing. The users
// table is kept for parity with the original schema even though the
// fixed-credential login path never reads it.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id SERIAL PRIMARY KEY,
			email VARCHAR(255) NOT NULL UNIQUE,
			password TEXT NOT NULL,
			role VARCHAR(20) NOT NULL DEFAULT 'user',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS feedbacks (
			id SERIAL PRIMARY KEY,
			user_email VARCHAR(255) NOT NULL,
			school_name VARCHAR(255) NOT NULL,
			food_quality_rating INTEGER NOT NULL,
			food_taste_rating INTEGER NOT NULL,
			portion_size_rating INTEGER NOT NULL,
			food_temperature_rating INTEGER NOT NULL,
			variety_rating INTEGER NOT NULL,
			presentation_rating INTEGER NOT NULL,
			hygiene_rating INTEGER NOT NULL,
			favorite_item VARCHAR(255),
			least_favorite_item VARCHAR(255),
			suggestions TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	}

	for _, stmt := range statements {
		_, err := pool.Exec(ctx, stmt)

		if err != nil {
			return err
		}
	}

	return nil
}
