package migrations

import (
	"database/sql"
	"time"
)

// AutoMigrate creates all tables if they do not exist. The UNIQUE index on
// payments.transaction_id is what makes payment confirmation idempotent under
// concurrent replays; the application-level existence check is only a fast
// path.
func AutoMigrate(retries int, db *sql.DB) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS orders (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			email VARCHAR(255) NOT NULL,
			product_name VARCHAR(255) NOT NULL,
			product_image VARCHAR(512) NOT NULL DEFAULT '',
			quantity INT NOT NULL,
			total_price DOUBLE NOT NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'Pending',
			payment_status VARCHAR(20) NOT NULL DEFAULT 'Unpaid',
			transaction_id VARCHAR(255) NULL,
			approved_at DATETIME NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			INDEX email_idx (email),
			INDEX status_idx (status)
		);`,
		`CREATE TABLE IF NOT EXISTS order_tracking (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			order_id BIGINT NOT NULL,
			status VARCHAR(20) NOT NULL,
			location VARCHAR(255) NOT NULL DEFAULT '',
			note VARCHAR(512) NOT NULL DEFAULT '',
			event_date VARCHAR(64) NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			INDEX order_idx (order_id),
			FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE
		);`,
		`CREATE TABLE IF NOT EXISTS payments (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			order_id BIGINT NOT NULL,
			email VARCHAR(255) NOT NULL,
			transaction_id VARCHAR(255) UNIQUE NOT NULL,
			amount DOUBLE NOT NULL,
			currency VARCHAR(8) NOT NULL,
			status VARCHAR(20) NOT NULL,
			product_name VARCHAR(255) NOT NULL DEFAULT '',
			product_image VARCHAR(512) NOT NULL DEFAULT '',
			quantity INT NOT NULL DEFAULT 0,
			paid_at DATETIME NOT NULL,
			INDEX email_idx (email)
		);`,
		`CREATE TABLE IF NOT EXISTS users (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			email VARCHAR(255) UNIQUE NOT NULL,
			name VARCHAR(255) NOT NULL DEFAULT '',
			role VARCHAR(20) NOT NULL DEFAULT 'user',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS products (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			price DOUBLE NOT NULL,
			image VARCHAR(512) NOT NULL DEFAULT '',
			category VARCHAR(100) NOT NULL DEFAULT '',
			description TEXT,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);`,
	}

	for _, query := range queries {
		_, err := db.Exec(query)
		if err != nil {
			// Retry creating the table
			for i := 0; i < retries; i++ {
				time.Sleep(1 * time.Second)
				_, err = db.Exec(query)
				if err == nil {
					break
				}
			}
			if err != nil {
				return err
			}
		}
	}
	return nil
}
