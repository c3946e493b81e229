// Command migration creates the MySQL schema. It is idempotent: every
// statement uses IF NOT EXISTS, so it is safe to run on every deploy.
package main

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/swapcloset/swapcloset-golang/internal/database"
)

var statements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		role VARCHAR(32) NOT NULL DEFAULT 'member',
		email VARCHAR(255) NOT NULL,
		password_hash VARBINARY(255) NOT NULL,
		full_name VARCHAR(255) NOT NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		UNIQUE KEY uq_users_email (email)
	)`,

	// One table for both submissions and catalog listings; is_shop_item
	// picks the logical view. 'condition' is reserved in MySQL, hence
	// item_condition.
	`CREATE TABLE IF NOT EXISTS items (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		title VARCHAR(255) NOT NULL,
		description TEXT NOT NULL,
		category VARCHAR(100) NOT NULL,
		item_condition VARCHAR(100) NOT NULL DEFAULT '',
		size VARCHAR(50) NOT NULL DEFAULT '',
		images JSON NULL,
		image_url VARCHAR(512) NULL,
		owner_user_id BIGINT NOT NULL,
		is_shop_item TINYINT(1) NOT NULL DEFAULT 0,
		price DECIMAL(10,2) NULL,
		stock_quantity INT NULL,
		sku VARCHAR(64) NULL,
		status VARCHAR(32) NOT NULL DEFAULT 'inactive',
		approval_status VARCHAR(32) NULL,
		review_notes TEXT NULL,
		reviewed_by BIGINT NULL,
		reviewed_at DATETIME NULL,
		convertible_to_inventory TINYINT(1) NOT NULL DEFAULT 0,
		estimated_value DECIMAL(10,2) NULL,
		swapcoins INT NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		KEY idx_items_shop (is_shop_item, status),
		KEY idx_items_owner (owner_user_id),
		KEY idx_items_review (approval_status)
	)`,

	// Append-only; the unique reference is what makes credits idempotent.
	`CREATE TABLE IF NOT EXISTS wallet_transactions (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		user_id BIGINT NOT NULL,
		type VARCHAR(32) NOT NULL,
		amount INT NOT NULL,
		reference VARCHAR(128) NOT NULL,
		notes VARCHAR(512) NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL,
		UNIQUE KEY uq_wallet_reference (reference),
		KEY idx_wallet_user (user_id)
	)`,

	`CREATE TABLE IF NOT EXISTS notifications (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		user_id BIGINT NOT NULL,
		message VARCHAR(512) NOT NULL,
		link VARCHAR(512) NULL,
		is_read TINYINT(1) NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL,
		KEY idx_notifications_user (user_id, is_read)
	)`,
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading configuration from environment")
	}

	db, err := database.OpenDB()
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	for i, stmt := range statements {
		fmt.Printf("Running statement %d of %d...\n", i+1, len(statements))
		if _, err := db.Exec(stmt); err != nil {
			log.Fatal(err)
		}
	}

	fmt.Println("Migration Done.")
}
