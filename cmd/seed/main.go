package main

import (
	"log"
	"os"

	"swiftmart-be/internal/entity"
	"swiftmart-be/internal/model"
	"swiftmart-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

// Seeds a buyer, a vendor, an admin and a few orders in assorted states
// for local development.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	buyer := &model.User{
		Id:       uuid.New(),
		Email:    "buyer@swiftmart.test",
		FullName: "Bola Adeyemi",
		Role:     string(entity.UserRoleUser),
	}
	vendor := &model.User{
		Id:       uuid.New(),
		Email:    "vendor@swiftmart.test",
		FullName: "Chinedu Stores",
		Role:     string(entity.UserRoleVendor),
	}
	admin := &model.User{
		Id:       uuid.New(),
		Email:    "ops@swiftmart.test",
		FullName: "SwiftMart Ops",
		Role:     string(entity.UserRoleAdmin),
	}

	for _, u := range []*model.User{buyer, vendor, admin} {
		if err := db.Create(u).Error; err != nil {
			log.Fatalf("Error: Failed to seed user %s: %v", u.Email, err)
		}
	}
	log.Printf("Seeded users: buyer=%s vendor=%s admin=%s", buyer.Id, vendor.Id, admin.Id)

	orders := []*model.Order{
		{
			Id:               uuid.New(),
			UserId:           buyer.Id,
			VendorId:         vendor.Id,
			Total:            149.99,
			DeliveryAddress:  "12 Marina Road, Lagos",
			Status:           string(entity.OrderStatusPending),
			PaymentStatus:    string(entity.PaymentStatusPaid),
			PaymentReference: "PAY-SEED-0001",
			RefundStatus:     string(entity.OrderRefundStatusNone),
		},
		{
			Id:               uuid.New(),
			UserId:           buyer.Id,
			VendorId:         vendor.Id,
			Total:            32.50,
			DeliveryAddress:  "12 Marina Road, Lagos",
			Status:           string(entity.OrderStatusConfirmed),
			PaymentStatus:    string(entity.PaymentStatusUnpaid),
			RefundStatus:     string(entity.OrderRefundStatusNone),
		},
		{
			Id:               uuid.New(),
			UserId:           buyer.Id,
			VendorId:         vendor.Id,
			Total:            88.00,
			DeliveryAddress:  "12 Marina Road, Lagos",
			Status:           string(entity.OrderStatusDelivered),
			PaymentStatus:    string(entity.PaymentStatusPaid),
			PaymentReference: "PAY-SEED-0003",
			RefundStatus:     string(entity.OrderRefundStatusNone),
		},
	}

	for _, o := range orders {
		if err := db.Create(o).Error; err != nil {
			log.Fatalf("Error: Failed to seed order: %v", err)
		}
		log.Printf("Seeded order %s (%s, %s)", o.Id, o.Status, o.PaymentStatus)
	}

	log.Println("✅ Success: Seed data created.")
}
