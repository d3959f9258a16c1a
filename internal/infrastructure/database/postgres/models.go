package postgres

import (
	"time"

	"github.com/your-org/fireplay-backend/internal/domain/cart"
	"github.com/your-org/fireplay-backend/internal/domain/catalog"
	"github.com/your-org/fireplay-backend/internal/domain/favorite"
	"github.com/your-org/fireplay-backend/internal/domain/order"
	"github.com/your-org/fireplay-backend/internal/domain/user"
)

// FavoriteRecord is a row of the favorites table
type FavoriteRecord struct {
	UserID          string             `gorm:"primaryKey;size:128"`
	ItemID          int                `gorm:"primaryKey;autoIncrement:false"`
	Name            string             `gorm:"size:255"`
	Slug            string             `gorm:"size:255"`
	BackgroundImage string             `gorm:"size:500"`
	Rating          float64
	Genres          []catalog.GenreRef `gorm:"serializer:json"`
	AddedAt         time.Time
}

// TableName overrides the table name
func (FavoriteRecord) TableName() string {
	return "favorites"
}

// CartEntryRecord is a row of the cart_entries table
type CartEntryRecord struct {
	UserID          string `gorm:"primaryKey;size:128"`
	ItemID          int    `gorm:"primaryKey;autoIncrement:false"`
	Name            string `gorm:"size:255"`
	Slug            string `gorm:"size:255"`
	BackgroundImage string `gorm:"size:500"`
	Price           int    `gorm:"not null"`
	AddedAt         time.Time
}

// TableName overrides the table name
func (CartEntryRecord) TableName() string {
	return "cart_entries"
}

// OrderRecord is a row of the orders table
type OrderRecord struct {
	ID     string            `gorm:"primaryKey;size:36"`
	UserID string            `gorm:"not null;index;size:128"`
	Total  int               `gorm:"not null"`
	Date   time.Time         `gorm:"column:placed_at;not null"`
	Items  []OrderItemRecord `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// TableName overrides the table name
func (OrderRecord) TableName() string {
	return "orders"
}

// OrderItemRecord is a row of the order_items table
type OrderItemRecord struct {
	ID              uint   `gorm:"primaryKey"`
	OrderID         string `gorm:"not null;index;size:36"`
	Position        int    `gorm:"not null"`
	ItemID          int    `gorm:"not null"`
	Name            string `gorm:"size:255"`
	Slug            string `gorm:"size:255"`
	BackgroundImage string `gorm:"size:500"`
	Price           int    `gorm:"not null"`
	AddedAt         time.Time
}

// TableName overrides the table name
func (OrderItemRecord) TableName() string {
	return "order_items"
}

// ProfileRecord is a row of the profiles table
type ProfileRecord struct {
	UserID      string `gorm:"primaryKey;size:128"`
	DisplayName string `gorm:"size:100"`
	Email       string `gorm:"size:255"`
	Birthday    string `gorm:"size:10"`
	Gender      string `gorm:"size:10"`
	UpdatedAt   time.Time
}

// TableName overrides the table name
func (ProfileRecord) TableName() string {
	return "profiles"
}

func favoriteRecord(userID string, e favorite.Entry) *FavoriteRecord {
	return &FavoriteRecord{
		UserID:          userID,
		ItemID:          e.ID,
		Name:            e.Name,
		Slug:            e.Slug,
		BackgroundImage: e.BackgroundImage,
		Rating:          e.Rating,
		Genres:          e.Genres,
		AddedAt:         e.AddedAt,
	}
}

func (r FavoriteRecord) toDomain() favorite.Entry {
	return favorite.Entry{
		ID:              r.ItemID,
		Name:            r.Name,
		Slug:            r.Slug,
		BackgroundImage: r.BackgroundImage,
		Rating:          r.Rating,
		Genres:          r.Genres,
		AddedAt:         r.AddedAt,
	}
}

func cartEntryRecord(userID string, e cart.Entry) *CartEntryRecord {
	return &CartEntryRecord{
		UserID:          userID,
		ItemID:          e.ID,
		Name:            e.Name,
		Slug:            e.Slug,
		BackgroundImage: e.BackgroundImage,
		Price:           e.Price,
		AddedAt:         e.AddedAt,
	}
}

func (r CartEntryRecord) toDomain() cart.Entry {
	return cart.Entry{
		ID:              r.ItemID,
		Name:            r.Name,
		Slug:            r.Slug,
		BackgroundImage: r.BackgroundImage,
		Price:           r.Price,
		AddedAt:         r.AddedAt,
	}
}

func orderRecord(o *order.Order) *OrderRecord {
	rec := &OrderRecord{
		ID:     o.ID,
		UserID: o.UserID,
		Total:  o.Total,
		Date:   o.Date,
		Items:  make([]OrderItemRecord, len(o.Items)),
	}
	for i, it := range o.Items {
		rec.Items[i] = OrderItemRecord{
			OrderID:         o.ID,
			Position:        i,
			ItemID:          it.ID,
			Name:            it.Name,
			Slug:            it.Slug,
			BackgroundImage: it.BackgroundImage,
			Price:           it.Price,
			AddedAt:         it.AddedAt,
		}
	}
	return rec
}

func (r OrderRecord) toDomain() order.Order {
	o := order.Order{
		ID:     r.ID,
		UserID: r.UserID,
		Total:  r.Total,
		Date:   r.Date,
		Items:  make([]cart.Entry, len(r.Items)),
	}
	for i, it := range r.Items {
		o.Items[i] = cart.Entry{
			ID:              it.ItemID,
			Name:            it.Name,
			Slug:            it.Slug,
			BackgroundImage: it.BackgroundImage,
			Price:           it.Price,
			AddedAt:         it.AddedAt,
		}
	}
	return o
}

func profileRecord(p *user.Profile) *ProfileRecord {
	return &ProfileRecord{
		UserID:      p.UserID,
		DisplayName: p.DisplayName,
		Email:       p.Email,
		Birthday:    p.Birthday,
		Gender:      p.Gender,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (r ProfileRecord) toDomain() *user.Profile {
	return &user.Profile{
		UserID:      r.UserID,
		DisplayName: r.DisplayName,
		Email:       r.Email,
		Birthday:    r.Birthday,
		Gender:      r.Gender,
		UpdatedAt:   r.UpdatedAt,
	}
}
