package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/frahmantamala/garments-tracker/internal"
	"github.com/frahmantamala/garments-tracker/internal/auth"
	"github.com/frahmantamala/garments-tracker/internal/core/access"
	"github.com/frahmantamala/garments-tracker/internal/product"
	productPostgres "github.com/frahmantamala/garments-tracker/internal/product/postgres"
	"github.com/frahmantamala/garments-tracker/internal/user"
	userPostgres "github.com/frahmantamala/garments-tracker/internal/user/postgres"
)

var seedPassword string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with an admin, a manager, a buyer and sample products for development.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfigAndLogger()
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer db.Close()

		gormDB, err := initGorm(db.DB)
		if err != nil {
			log.Fatalf("failed to init gorm: %v", err)
		}

		if err := seed(context.Background(), gormDB, cfg, seedPassword, clearData); err != nil {
			log.Fatalf("seed failed: %v", err)
		}
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedPassword, "password", "password123", "Password for the seeded accounts")
}

type seedAccount struct {
	Email string
	Name  string
	Role  access.Role
}

var seedAccounts = []seedAccount{
	{"admin@garments.local", "Admin", access.RoleAdmin},
	{"manager@garments.local", "Production Manager", access.RoleManager},
	{"buyer@garments.local", "Demo Buyer", access.RoleBuyer},
}

var seedProducts = []product.ProductDTO{
	{Name: "Classic Cotton T-Shirt", Description: "180gsm combed cotton crew neck", Category: "t-shirt", PriceCents: 450, AvailableQuantity: 5000, MinimumOrder: 100, ShowOnHome: true},
	{Name: "Slim Fit Denim Jeans", Description: "12oz stretch denim, five pocket", Category: "denim", PriceCents: 1200, AvailableQuantity: 2000, MinimumOrder: 50, ShowOnHome: true},
	{Name: "Fleece Hoodie", Description: "Brushed back fleece with kangaroo pocket", Category: "outerwear", PriceCents: 1650, AvailableQuantity: 1500, MinimumOrder: 50, ShowOnHome: true},
	{Name: "Polo Shirt", Description: "Pique knit with two button placket", Category: "polo", PriceCents: 700, AvailableQuantity: 3000, MinimumOrder: 100},
}

func seed(ctx context.Context, gormDB *gorm.DB, cfg *internal.Config, password string, wipe bool) error {
	if wipe {
		for _, table := range []string{"order_tracking_entries", "orders", "products", "users"} {
			if err := gormDB.WithContext(ctx).Exec("DELETE FROM " + table).Error; err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}
		fmt.Println("Cleared existing data")
	}

	timeout := cfg.Database.QueryTimeout
	users := userPostgres.NewUserRepository(gormDB, timeout)
	products := productPostgres.NewProductRepository(gormDB, timeout)
	hasher := auth.NewBcryptHasher(cfg.Security.GetBCryptCost())

	hash, err := hasher.Hash(password)
	if err != nil {
		return err
	}

	var managerID string
	for _, a := range seedAccounts {
		existing, err := users.FindByEmail(ctx, a.Email)
		if err == nil {
			fmt.Println("user already exists:", a.Email)
			if a.Role == access.RoleManager {
				managerID = existing.ID
			}
			continue
		}
		if internal.KindOf(err) != internal.ErrorTypeNotFound {
			return err
		}

		now := time.Now().UTC()
		u := &user.User{
			ID:           uuid.NewString(),
			Email:        a.Email,
			Name:         a.Name,
			PasswordHash: hash,
			Role:         a.Role,
			Status:       access.StatusActive,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := users.Create(ctx, user.ToDataModel(u)); err != nil {
			return fmt.Errorf("insert %s: %w", a.Email, err)
		}
		if a.Role == access.RoleManager {
			managerID = u.ID
		}
		fmt.Printf("Seeded %s user: %s\n", a.Role, a.Email)
	}

	existing, err := products.ListAll(ctx)
	if err != nil {
		return err
	}
	known := make(map[string]bool, len(existing))
	for _, p := range existing {
		known[p.Name] = true
	}

	for _, dto := range seedProducts {
		if known[dto.Name] {
			continue
		}
		now := time.Now().UTC()
		p := &product.Product{ID: uuid.NewString(), CreatedBy: managerID, CreatedAt: now, UpdatedAt: now}
		p.Apply(dto)
		if err := products.Create(ctx, product.ToDataModel(p)); err != nil {
			return fmt.Errorf("insert product %s: %w", dto.Name, err)
		}
		fmt.Printf("Seeded product: %s\n", dto.Name)
	}

	fmt.Println("Seed completed")
	return nil
}
