package main

import (
	"flag"
	"time"

	"github.com/crmlite/backend/internal/domain/customer"
	"github.com/crmlite/backend/internal/infrastructure/config"
	"github.com/crmlite/backend/internal/infrastructure/logger"
	"github.com/crmlite/backend/internal/infrastructure/persistence"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func main() {
	var seed bool
	flag.BoolVar(&seed, "seed", false, "insert demo data after migrating")
	flag.Parse()

	log, err := logger.New(logger.DefaultConfig())
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := db.DB.AutoMigrate(
		&customer.Customer{},
		&customer.Address{},
		&customer.Order{},
		&customer.OrderItem{},
	); err != nil {
		log.Fatal("Migration failed", zap.Error(err))
	}
	log.Info("Migration complete")

	if seed {
		if err := seedDemoData(db); err != nil {
			log.Fatal("Seeding failed", zap.Error(err))
		}
		log.Info("Demo data seeded")
	}
}

// seedDemoData inserts a small demo dataset, skipping when customers
// already exist.
func seedDemoData(db *persistence.Database) error {
	var count int64
	if err := db.DB.Model(&customer.Customer{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	dob := time.Date(1985, 4, 12, 0, 0, 0, 0, time.UTC)
	demo := []*customer.Customer{
		{
			FirstName:   "Jane",
			LastName:    "Doe",
			Email:       "jane.doe@example.com",
			Phone:       "555-0100",
			DateOfBirth: &dob,
			Status:      customer.StatusActive,
			Addresses: []customer.Address{
				{Street: "1 Main St", City: "Springfield", State: "IL",
					ZipCode: "62701", Country: "USA",
					Type: customer.AddressTypeHome, IsPrimary: true},
			},
			Orders: []customer.Order{
				{
					OrderDate: time.Now().AddDate(0, -1, 0),
					Status:    customer.OrderStatusCompleted,
					Items: []customer.OrderItem{
						{ProductName: "Widget", Quantity: 2, UnitPrice: decimal.RequireFromString("12.50")},
						{ProductName: "Gadget", Quantity: 1, UnitPrice: decimal.RequireFromString("49.99")},
					},
				},
			},
		},
		{
			FirstName: "John",
			LastName:  "Smith",
			Email:     "john.smith@example.com",
			Status:    customer.StatusInactive,
		},
	}

	for _, c := range demo {
		for i := range c.Orders {
			c.Orders[i].TotalAmount = c.Orders[i].ItemsTotal()
		}
		if err := db.DB.Create(c).Error; err != nil {
			return err
		}
	}
	return nil
}
