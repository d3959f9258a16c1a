package firestore

import (
	"time"

	"github.com/your-org/fireplay-backend/internal/domain/cart"
	"github.com/your-org/fireplay-backend/internal/domain/catalog"
	"github.com/your-org/fireplay-backend/internal/domain/favorite"
	"github.com/your-org/fireplay-backend/internal/domain/order"
	"github.com/your-org/fireplay-backend/internal/domain/user"
)

// Document shapes keep the field names the web client has always written.

type favoriteDoc struct {
	ID              int                `firestore:"id"`
	Name            string             `firestore:"name"`
	Slug            string             `firestore:"slug"`
	BackgroundImage string             `firestore:"background_image"`
	Rating          float64            `firestore:"rating"`
	Genres          []catalog.GenreRef `firestore:"genres"`
	AddedAt         time.Time          `firestore:"added_at"`
}

type cartDoc struct {
	ID              int       `firestore:"id"`
	Name            string    `firestore:"name"`
	Slug            string    `firestore:"slug"`
	BackgroundImage string    `firestore:"background_image"`
	Price           int       `firestore:"price"`
	AddedAt         time.Time `firestore:"added_at"`
}

type orderDoc struct {
	Items []cartDoc `firestore:"items"`
	Total int       `firestore:"total"`
	// a zero date is written as the commit time
	Date time.Time `firestore:"date,serverTimestamp"`
}

type profileDoc struct {
	DisplayName string    `firestore:"displayName"`
	Email       string    `firestore:"email"`
	Birthday    string    `firestore:"birthday"`
	Gender      string    `firestore:"gender"`
	UpdatedAt   time.Time `firestore:"updatedAt"`
}

func favoriteDocFromDomain(e favorite.Entry) favoriteDoc {
	return favoriteDoc{
		ID:              e.ID,
		Name:            e.Name,
		Slug:            e.Slug,
		BackgroundImage: e.BackgroundImage,
		Rating:          e.Rating,
		Genres:          e.Genres,
		AddedAt:         e.AddedAt,
	}
}

func (d favoriteDoc) toDomain() favorite.Entry {
	return favorite.Entry{
		ID:              d.ID,
		Name:            d.Name,
		Slug:            d.Slug,
		BackgroundImage: d.BackgroundImage,
		Rating:          d.Rating,
		Genres:          d.Genres,
		AddedAt:         d.AddedAt,
	}
}

func cartDocFromDomain(e cart.Entry) cartDoc {
	return cartDoc{
		ID:              e.ID,
		Name:            e.Name,
		Slug:            e.Slug,
		BackgroundImage: e.BackgroundImage,
		Price:           e.Price,
		AddedAt:         e.AddedAt,
	}
}

func (d cartDoc) toDomain() cart.Entry {
	return cart.Entry{
		ID:              d.ID,
		Name:            d.Name,
		Slug:            d.Slug,
		BackgroundImage: d.BackgroundImage,
		Price:           d.Price,
		AddedAt:         d.AddedAt,
	}
}

func orderDocFromDomain(o *order.Order) orderDoc {
	items := make([]cartDoc, len(o.Items))
	for i, it := range o.Items {
		items[i] = cartDocFromDomain(it)
	}
	return orderDoc{Items: items, Total: o.Total, Date: o.Date}
}

func (d orderDoc) toDomain(id, userID string) order.Order {
	items := make([]cart.Entry, len(d.Items))
	for i, it := range d.Items {
		items[i] = it.toDomain()
	}
	return order.Order{ID: id, UserID: userID, Items: items, Total: d.Total, Date: d.Date}
}

func profileDocFromDomain(p *user.Profile) profileDoc {
	return profileDoc{
		DisplayName: p.DisplayName,
		Email:       p.Email,
		Birthday:    p.Birthday,
		Gender:      p.Gender,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (d profileDoc) toDomain(userID string) *user.Profile {
	return &user.Profile{
		UserID:      userID,
		DisplayName: d.DisplayName,
		Email:       d.Email,
		Birthday:    d.Birthday,
		Gender:      d.Gender,
		UpdatedAt:   d.UpdatedAt,
	}
}
