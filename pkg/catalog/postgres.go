package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// PostgresSource reads parts from a table with the columns
//
//	category text, manufacturer text, model text, slug text NULL,
//	weight double precision NULL, price double precision NULL,
//	currency text NULL, image text NULL, positions jsonb NULL
//
// Rows are returned in insertion order (ORDER BY id).
type PostgresSource struct {
	DB    *sql.DB
	Table string // defaults to "parts"
}

// OpenPostgres opens a database handle through the pgx stdlib driver.
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

func (s PostgresSource) table() string {
	if s.Table == "" {
		return "parts"
	}
	return s.Table
}

// Parts queries the table.
func (s PostgresSource) Parts(ctx context.Context) ([]Part, error) {
	query := fmt.Sprintf(`
		SELECT category, manufacturer, model,
		       COALESCE(slug, ''), weight, price,
		       COALESCE(currency, ''), COALESCE(image, ''), positions
		FROM %s
		ORDER BY id ASC`, quoteIdent(s.table()))

	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query parts: %w", err)
	}
	defer rows.Close()

	parts := []Part{}
	for rows.Next() {
		var (
			p             Part
			category      string
			weight, price sql.NullFloat64
			positions     []byte
		)
		if err := rows.Scan(&category, &p.Manufacturer, &p.Model, &p.Slug,
			&weight, &price, &p.Currency, &p.Image, &positions); err != nil {
			return nil, fmt.Errorf("scan part: %w", err)
		}
		p.Category = Category(category)
		if weight.Valid {
			p.Weight = Some(weight.Float64)
		}
		if price.Valid {
			p.Price = Some(price.Float64)
		}
		if len(positions) > 0 && string(positions) != "null" {
			p.Positions = new(Positions)
			if err := json.Unmarshal(positions, p.Positions); err != nil {
				return nil, fmt.Errorf("part %s: %w", p.Name(), err)
			}
		}
		parts = append(parts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate parts: %w", err)
	}
	return parts, nil
}

// Describe implements Source.
func (s PostgresSource) Describe() string { return "postgres:" + s.table() }

func quoteIdent(name string) string {
	out := []byte{'"'}
	for i := 0; i < len(name); i++ {
		if name[i] == '"' {
			out = append(out, '"')
		}
		out = append(out, name[i])
	}
	return string(append(out, '"'))
}
