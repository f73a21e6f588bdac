package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"vendora/internal/model"

	"github.com/google/uuid"
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
			vendor_id UUID NOT NULL,
			name VARCHAR(255) NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			price DECIMAL(10, 2) NOT NULL,
			image_url TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS orders (
			id UUID PRIMARY KEY,
			vendor_id UUID NOT NULL,
			customer_id UUID NOT NULL,
			amount DECIMAL(10, 2) NOT NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'succeeded',
			delivery_status VARCHAR(20) NOT NULL DEFAULT 'processing',
			items JSONB,
			shipping_option JSONB,
			tracking_number TEXT,
			package_image_url TEXT,
			payment_intent_id TEXT,
			refund_reason TEXT,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE INDEX IF NOT EXISTS idx_orders_vendor_id ON orders(vendor_id);
		CREATE INDEX IF NOT EXISTS idx_orders_delivery_status ON orders(delivery_status);
		CREATE INDEX IF NOT EXISTS idx_products_vendor_id ON products(vendor_id);
	`

	_, err := pool.Exec(ctx, schema)
	if err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}
}

// OrderFixture describes an order row to insert for a test.
type OrderFixture struct {
	ID             uuid.UUID
	VendorID       uuid.UUID
	CustomerID     uuid.UUID
	Amount         float64
	Status         model.PaymentStatus
	DeliveryStatus model.DeliveryStatus
	Items          []model.LineItem
	ShippingOption model.ShippingOption
	PaymentIntent  string
	CreatedAt      time.Time
}

// InsertOrder inserts an order row built from the fixture, filling sensible
// defaults for anything left zero.
func InsertOrder(t *testing.T, pool *pgxpool.Pool, f OrderFixture) uuid.UUID {
	t.Helper()

	ctx := context.Background()

	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	if f.VendorID == uuid.Nil {
		f.VendorID = uuid.New()
	}
	if f.CustomerID == uuid.Nil {
		f.CustomerID = uuid.New()
	}
	if f.Status == "" {
		f.Status = model.PaymentSucceeded
	}
	if f.DeliveryStatus == "" {
		f.DeliveryStatus = model.DeliveryProcessing
	}
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now().UTC()
	}

	items, err := json.Marshal(f.Items)
	if err != nil {
		t.Fatalf("failed to marshal items: %v", err)
	}
	shipping, err := json.Marshal(f.ShippingOption)
	if err != nil {
		t.Fatalf("failed to marshal shipping option: %v", err)
	}

	var paymentIntent *string
	if f.PaymentIntent != "" {
		paymentIntent = &f.PaymentIntent
	}

	_, err = pool.Exec(ctx, `
		INSERT INTO orders (
			id, vendor_id, customer_id, amount, status, delivery_status,
			items, shipping_option, payment_intent_id, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)`,
		f.ID, f.VendorID, f.CustomerID, f.Amount, f.Status, f.DeliveryStatus,
		items, shipping, paymentIntent, f.CreatedAt,
	)
	if err != nil {
		t.Fatalf("failed to insert order: %v", err)
	}

	return f.ID
}

// InsertProduct inserts a product row for a vendor's catalogue.
func InsertProduct(t *testing.T, pool *pgxpool.Pool, p model.Product) {
	t.Helper()

	ctx := context.Background()

	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}

	_, err := pool.Exec(ctx, `
		INSERT INTO products (id, vendor_id, name, description, price, image_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		p.ID, p.VendorID, p.Name, p.Description, p.Price, p.ImageURL, p.CreatedAt,
	)
	if err != nil {
		t.Fatalf("failed to insert product %s: %v", p.ID, err)
	}
}

// CleanupDB cleans all data from test tables.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	tables := []string{"orders", "products"}
	for _, table := range tables {
		_, err := pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}
}
