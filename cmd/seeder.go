package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/auth"
	categoryDatamodel "github.com/Abdulrahman-Alsuhaymi/Stocker/internal/core/datamodel/category"
	userDatamodel "github.com/Abdulrahman-Alsuhaymi/Stocker/internal/core/datamodel/user"
	coreuser "github.com/Abdulrahman-Alsuhaymi/Stocker/internal/core/user"
	accounts "github.com/Abdulrahman-Alsuhaymi/Stocker/internal/user"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

const seedPassword = "password123"

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample data for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		deps, err := initializeDependencies()
		if err != nil {
			log.Fatalf("failed to init dependencies: %v", err)
		}
		defer deps.Close()

		if err := seed(context.Background(), deps.Gorm, deps.Config.Security.BCryptCost, clearData, os.Stdout); err != nil {
			log.Fatalf("seed failed: %v", err)
		}
	},
}

type seedAccount struct {
	Username    string
	Email       string
	Staff       bool
	Manager     bool
	Permissions []string
}

var seedPermissions = []struct {
	Name string
	Desc string
}{
	{coreuser.PermissionAdmin, "Full administrator"},
	{"add_product", "Can add product"},
	{"change_product", "Can change product"},
	{"delete_product", "Can delete product"},
	{"add_category", "Can add category"},
	{"change_category", "Can change category"},
	{"delete_category", "Can delete category"},
	{"add_supplier", "Can add supplier"},
	{"change_supplier", "Can change supplier"},
	{"delete_supplier", "Can delete supplier"},
}

var seedAccounts = []seedAccount{
	{Username: "admin", Email: "admin@stocker.local", Staff: true, Manager: true, Permissions: []string{coreuser.PermissionAdmin}},
	{Username: "clerk", Email: "clerk@stocker.local", Staff: true, Permissions: []string{"add_product", "change_product", "add_supplier", "change_supplier"}},
	{Username: "customer", Email: "customer@stocker.local"},
}

var seedCategories = []string{"Beverages", "Dairy", "Bakery", "Produce", "Household", "Electronics"}

// seed is idempotent: rows that already exist are left alone.
func seed(ctx context.Context, db *gorm.DB, bcryptCost int, clear bool, out io.Writer) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if clear {
			for _, table := range []string{"contacts", "product_suppliers", "products", "suppliers", "categories"} {
				if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
					return fmt.Errorf("clear %s: %w", table, err)
				}
			}
			fmt.Fprintln(out, "Cleared catalog data")
		}

		permIDs := make(map[string]int64, len(seedPermissions))
		for _, p := range seedPermissions {
			row := userDatamodel.Permission{Name: p.Name, Description: p.Desc}
			if err := tx.Where(userDatamodel.Permission{Name: p.Name}).FirstOrCreate(&row).Error; err != nil {
				return fmt.Errorf("insert permission %s: %w", p.Name, err)
			}
			permIDs[p.Name] = row.ID
		}

		hash, err := auth.HashPassword(seedPassword, bcryptCost)
		if err != nil {
			return err
		}

		for _, a := range seedAccounts {
			var u userDatamodel.User
			err := tx.Where("username = ?", a.Username).First(&u).Error
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				u = userDatamodel.User{
					Username:     a.Username,
					Email:        a.Email,
					PasswordHash: hash,
					IsStaff:      a.Staff,
					IsActive:     true,
				}
				if err := tx.Omit("Profile").Create(&u).Error; err != nil {
					return fmt.Errorf("insert user %s: %w", a.Username, err)
				}
				profile := userDatamodel.Profile{
					UserID:    u.ID,
					Avatar:    accounts.DefaultAvatar,
					IsManager: a.Manager,
				}
				if err := tx.Create(&profile).Error; err != nil {
					return fmt.Errorf("insert profile %s: %w", a.Username, err)
				}
				fmt.Fprintf(out, "Seeded user: %s (password %q)\n", a.Username, seedPassword)
			case err != nil:
				return fmt.Errorf("lookup user %s: %w", a.Username, err)
			default:
				fmt.Fprintf(out, "%s user already exists; will ensure permissions\n", a.Username)
			}

			for _, name := range a.Permissions {
				grant := userDatamodel.UserPermission{UserID: u.ID, PermissionID: permIDs[name]}
				if err := tx.Where(userDatamodel.UserPermission{UserID: u.ID, PermissionID: permIDs[name]}).
					FirstOrCreate(&grant).Error; err != nil {
					return fmt.Errorf("grant %s to %s: %w", name, a.Username, err)
				}
			}
		}

		for _, name := range seedCategories {
			row := categoryDatamodel.Category{Name: name}
			if err := tx.Where(categoryDatamodel.Category{Name: name}).FirstOrCreate(&row).Error; err != nil {
				return fmt.Errorf("insert category %s: %w", name, err)
			}
		}
		fmt.Fprintln(out, "Categories seeded successfully")
		return nil
	})
}
