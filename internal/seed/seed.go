// Package seed loads a demo catalog into the store.
package seed

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/simp-lee/catalog/internal/domain"
	"github.com/simp-lee/catalog/internal/pkg"
)

// Owner is a user together with the products it owns.
type Owner struct {
	Name     string
	Products []Item
}

// Item is a product to insert.
type Item struct {
	Name  string
	Price float64
}

// Result counts the rows written by a run.
type Result struct {
	Users    int
	Products int
}

// Demo returns the demo catalog: four owners and 27 products, enough to
// fill three listing pages.
func Demo() []Owner {
	return []Owner{
		{Name: "Alice Johnson", Products: []Item{
			{"Mechanical Keyboard", 129.99}, {"Wireless Mouse", 49.5}, {"USB-C Hub", 39},
			{"Monitor Arm", 89}, {"Desk Lamp", 45.25}, {"Laptop Stand", 59.9}, {"Webcam", 74},
		}},
		{Name: "Bob Smith", Products: []Item{
			{"Noise Cancelling Headphones", 299}, {"Bluetooth Speaker", 119.95}, {"Microphone", 149},
			{"Audio Interface", 189.5}, {"Studio Monitors", 1249}, {"Cable Organizer", 15},
		}},
		{Name: "Carol White", Products: []Item{
			{"Standing Desk", 549}, {"Ergonomic Chair", 1299.99}, {"Footrest", 35},
			{"Whiteboard", 79}, {"Bookshelf", 210}, {"Filing Cabinet", 160.4}, {"Plant Pot", 12.5},
		}},
		{Name: "Dave Brown", Products: []Item{
			{"External SSD", 139}, {"NAS Enclosure", 429}, {"Router", 199.99},
			{"Network Switch", 89.9}, {"UPS Battery", 249}, {"Smart Plug", 24}, {"Label Printer", 99},
		}},
	}
}

// Seeder writes owners and products to the store. Every run happens in one
// transaction and invalidates the cached collection once committed.
type Seeder struct {
	db       *gorm.DB
	products domain.ProductService
}

// New creates a Seeder. products may be nil when nothing caches the
// collection.
func New(db *gorm.DB, products domain.ProductService) *Seeder {
	return &Seeder{db: db, products: products}
}

// Run inserts owners. An existing catalog is rejected with a
// domain.CodeAlreadyExists error unless reset is set, in which case all
// products and users are deleted first.
func (s *Seeder) Run(ctx context.Context, owners []Owner, reset bool) (Result, error) {
	if s == nil || s.db == nil {
		return Result{}, fmt.Errorf("seed: database is nil")
	}

	var res Result
	err := pkg.WithTx(ctx, s.db, func(tx *gorm.DB) error {
		if reset {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&domain.Product{}).Error; err != nil {
				return fmt.Errorf("delete products: %w", err)
			}
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&domain.User{}).Error; err != nil {
				return fmt.Errorf("delete users: %w", err)
			}
		} else {
			var count int64
			if err := tx.Model(&domain.Product{}).Count(&count).Error; err != nil {
				return fmt.Errorf("count products: %w", err)
			}
			if count > 0 {
				return domain.NewAppError(domain.CodeAlreadyExists,
					fmt.Sprintf("catalog already holds %d products", count), nil)
			}
		}

		for _, o := range owners {
			user := domain.User{Name: o.Name}
			if err := tx.Create(&user).Error; err != nil {
				return fmt.Errorf("create user %q: %w", o.Name, err)
			}
			res.Users++

			if len(o.Products) == 0 {
				continue
			}
			products := make([]domain.Product, 0, len(o.Products))
			for _, it := range o.Products {
				products = append(products, domain.Product{Name: it.Name, Price: it.Price, UserID: user.ID})
			}
			if err := tx.Omit("User").Create(&products).Error; err != nil {
				return fmt.Errorf("create products of %q: %w", o.Name, err)
			}
			res.Products += len(products)
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	slog.InfoContext(ctx, "catalog seeded", "users", res.Users, "products", res.Products)

	if s.products != nil {
		if err := s.products.Invalidate(ctx); err != nil {
			return res, err
		}
	}
	return res, nil
}
