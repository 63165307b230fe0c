package main

import (
	"log"
	"os"

	"swiftmart-be/internal/model"
	"swiftmart-be/pkg/database"

	"github.com/joho/godotenv"
)

func main() {
	// 1. Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	// 2. Connect to Database using existing GORM helpers
	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Starting Authoritative GORM Migration...")

	// 3. Pre-Migration: Extensions (gen_random_uuid)
	log.Println("Step 1: Setting up Extensions...")

	setupSQL := []string{
		`CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
		`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	}

	for _, sql := range setupSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute setup SQL: %v. Continuing...", err)
		}
	}

	// 4. AutoMigrate All Models
	log.Println("Step 2: Running AutoMigrate...")

	models := []interface{}{
		&model.User{},
		&model.Order{},
		&model.Refund{},
		&model.WalletTransaction{},
		&model.Notification{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	// 5. Post-Migration: Functions
	log.Println("Step 3: Creating Functions...")

	postMigrationSQL := []string{
		// Function: credit_wallet
		// Atomically appends a ledger row and returns the new balance.
		// The per-user advisory lock serializes concurrent credits; the
		// unique reference rejects replays of the same credit.
		`CREATE OR REPLACE FUNCTION credit_wallet(p_user_id uuid, p_amount numeric, p_description text, p_reference text)
		 RETURNS numeric LANGUAGE plpgsql AS $$
		 DECLARE v_balance numeric;
		 BEGIN
		   IF p_amount <= 0 THEN
		     RAISE EXCEPTION 'credit amount must be positive, got %', p_amount;
		   END IF;
		   PERFORM pg_advisory_xact_lock(hashtext(p_user_id::text));
		   SELECT COALESCE(balance_after, 0) INTO v_balance
		     FROM wallet_transactions
		     WHERE user_id = p_user_id
		     ORDER BY created_at DESC, id DESC
		     LIMIT 1;
		   v_balance := COALESCE(v_balance, 0) + p_amount;
		   INSERT INTO wallet_transactions (id, user_id, amount, balance_after, description, reference, created_at)
		   VALUES (gen_random_uuid(), p_user_id, p_amount, v_balance, p_description, p_reference, now());
		   RETURN v_balance;
		 END; $$;`,
	}

	for _, sql := range postMigrationSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute post-migration SQL: %v", err)
		}
	}

	log.Println("✅ Success: Database migration completed successfully via GORM.")
}
