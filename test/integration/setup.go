package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container and connection pool.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		t.Fatalf("failed to parse connection string: %v", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping database: %v", err)
	}

	createSchema(t, pool)

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// createSchema creates the database schema for testing.
func createSchema(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	schema := `
		CREATE TABLE IF NOT EXISTS products (
			id VARCHAR(50) PRIMARY KEY,
			reference VARCHAR(100) NOT NULL UNIQUE,
			name VARCHAR(255) NOT NULL,
			price_ttc DECIMAL(10, 2) NOT NULL,
			price_ht DECIMAL(10, 2) NOT NULL,
			image VARCHAR(500) NOT NULL DEFAULT '',
			category VARCHAR(100) NOT NULL DEFAULT '',
			stock INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS orders (
			id UUID PRIMARY KEY,
			user_id VARCHAR(100),
			user_email VARCHAR(255),
			user_first_name VARCHAR(100),
			user_last_name VARCHAR(100),
			user_company VARCHAR(255),
			user_siret VARCHAR(20),
			user_remise DECIMAL(5, 2) NOT NULL DEFAULT 0,
			lines JSONB NOT NULL,
			amount_ht DECIMAL(10, 2) NOT NULL,
			tax DECIMAL(10, 2) NOT NULL,
			amount_ttc DECIMAL(10, 2) NOT NULL,
			currency VARCHAR(3) NOT NULL,
			payment_status VARCHAR(20) NOT NULL,
			payment_provider VARCHAR(20) NOT NULL,
			payment_id VARCHAR(100),
			shipping JSONB,
			locale VARCHAR(5) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS payments (
			id UUID PRIMARY KEY,
			order_id UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
			amount_ht DECIMAL(10, 2) NOT NULL,
			tax DECIMAL(10, 2) NOT NULL,
			amount_ttc DECIMAL(10, 2) NOT NULL,
			currency VARCHAR(3) NOT NULL,
			status VARCHAR(20) NOT NULL,
			provider VARCHAR(20) NOT NULL,
			payment_id VARCHAR(100),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS users (
			id VARCHAR(100) PRIMARY KEY,
			email VARCHAR(255),
			first_name VARCHAR(100),
			last_name VARCHAR(100),
			company VARCHAR(255),
			siret VARCHAR(20),
			remise DECIMAL(5, 2) NOT NULL DEFAULT 0,
			shipping JSONB,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS carts (
			owner VARCHAR(200) PRIMARY KEY,
			items JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS newsletter_subscriptions (
			email VARCHAR(255) PRIMARY KEY,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_payments_order_id ON payments(order_id);
		CREATE INDEX IF NOT EXISTS idx_orders_user_id ON orders(user_id);
	`

	_, err := pool.Exec(ctx, schema)
	if err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}
}

// SeedProducts inserts test catalogue data into the database.
func SeedProducts(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	products := []struct {
		id        string
		reference string
		name      string
		priceTTC  float64
		priceHT   float64
		category  string
		stock     int
	}{
		{"P001", "SAV-001", "Savon lavande", 12.00, 10.00, "savons", 50},
		{"P002", "SAV-002", "Savon miel", 14.40, 12.00, "savons", 200},
		{"P003", "SHA-001", "Shampoing solide", 18.00, 15.00, "shampoings", 120},
		{"P004", "BAU-001", "Baume karité", 24.00, 20.00, "baumes", 80},
		{"P005", "COF-001", "Coffret découverte", 48.00, 40.00, "coffrets", 30},
	}

	for _, p := range products {
		_, err := pool.Exec(ctx,
			`INSERT INTO products (id, reference, name, price_ttc, price_ht, category, stock)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			p.id, p.reference, p.name, p.priceTTC, p.priceHT, p.category, p.stock,
		)
		if err != nil {
			t.Fatalf("failed to seed product %s: %v", p.id, err)
		}
	}
}

// CleanupDB cleans all data from test tables.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	tables := []string{"payments", "orders", "carts", "users", "newsletter_subscriptions", "products"}
	for _, table := range tables {
		_, err := pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}
}
