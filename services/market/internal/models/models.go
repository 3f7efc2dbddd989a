package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/market/services/market/internal/domain"
)

type Store struct {
	ID        uuid.UUID `gorm:"primaryKey"          json:"id"`
	OwnerID   uuid.UUID `gorm:"not null;index"      json:"owner_id"`
	Name      string    `gorm:"not null"            json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type Product struct {
	ID        uuid.UUID `gorm:"primaryKey"          json:"id"`
	StoreID   uuid.UUID `gorm:"not null;index"      json:"store_id"`
	Name      string    `gorm:"not null"            json:"name"`
	Price     int64     `gorm:"not null"            json:"price"`
	Quantity  int64     `gorm:"not null;default:0"  json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Cart struct {
	ID        uuid.UUID `gorm:"primaryKey"              json:"id"`
	UserID    uuid.UUID `gorm:"uniqueIndex;not null"    json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

type CartItem struct {
	ID        uuid.UUID `gorm:"primaryKey"                                json:"id"`
	CartID    uuid.UUID `gorm:"uniqueIndex:idx_cart_product;not null"    json:"cart_id"`
	ProductID uuid.UUID `gorm:"uniqueIndex:idx_cart_product;not null"    json:"product_id"`
	Quantity  int64     `gorm:"not null;check:quantity>0"                 json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
}

type Order struct {
	ID             uuid.UUID             `gorm:"primaryKey"                         json:"id"`
	UserID         uuid.UUID             `gorm:"not null;index"                     json:"user_id"`
	IsPaid         bool                  `gorm:"not null;default:false"             json:"is_paid"`
	DeliveryStatus domain.DeliveryStatus `gorm:"size:16;not null;default:processing" json:"delivery_status"`
	CreatedAt      time.Time             `json:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at"`
}

type OrderItem struct {
	ID        uuid.UUID `gorm:"primaryKey"             json:"id"`
	OrderID   uuid.UUID `gorm:"not null;index"         json:"order_id"`
	ProductID uuid.UUID `gorm:"not null"               json:"product_id"`
	Quantity  int64     `gorm:"not null;check:quantity>0" json:"quantity"`
}

type Receipt struct {
	ID           uuid.UUID `gorm:"primaryKey"             json:"id"`
	OrderID      uuid.UUID `gorm:"uniqueIndex;not null"   json:"order_id"`
	StoreID      uuid.UUID `gorm:"not null;index"         json:"store_id"`
	TotalSum     int64     `gorm:"not null"               json:"total_sum"`
	DeliveryCost int64     `gorm:"not null"               json:"delivery_cost"`
	PurchaseDate time.Time `gorm:"not null"               json:"purchase_date"`
	DeliveryDate time.Time `gorm:"not null"               json:"delivery_date"`
}

type Favorite struct {
	ID        uuid.UUID `gorm:"primaryKey"              json:"id"`
	UserID    uuid.UUID `gorm:"uniqueIndex;not null"    json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

type FavoriteProduct struct {
	ID         uuid.UUID `gorm:"primaryKey"                              json:"id"`
	FavoriteID uuid.UUID `gorm:"uniqueIndex:idx_favorite_product;not null" json:"favorite_id"`
	ProductID  uuid.UUID `gorm:"uniqueIndex:idx_favorite_product;not null" json:"product_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// Review is a root when ParentID is nil, a reply otherwise. Replies is filled
// by the thread listing and is not a column.
type Review struct {
	ID        uuid.UUID  `gorm:"primaryKey"       json:"id"`
	UserID    uuid.UUID  `gorm:"not null;index"   json:"user_id"`
	ProductID uuid.UUID  `gorm:"not null;index"   json:"product_id"`
	ParentID  *uuid.UUID `gorm:"index"            json:"parent_id"`
	Rating    *int       `json:"rating"`
	Comment   string     `json:"comment"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	Replies   []Review   `gorm:"-"                json:"replies"`
}

func newID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

func (s *Store) BeforeCreate(tx *gorm.DB) error { newID(&s.ID); return nil }
func (p *Product) BeforeCreate(tx *gorm.DB) error { newID(&p.ID); return nil }
func (c *Cart) BeforeCreate(tx *gorm.DB) error { newID(&c.ID); return nil }
func (c *CartItem) BeforeCreate(tx *gorm.DB) error { newID(&c.ID); return nil }
func (o *OrderItem) BeforeCreate(tx *gorm.DB) error { newID(&o.ID); return nil }
func (r *Receipt) BeforeCreate(tx *gorm.DB) error { newID(&r.ID); return nil }
func (f *Favorite) BeforeCreate(tx *gorm.DB) error { newID(&f.ID); return nil }
func (f *FavoriteProduct) BeforeCreate(tx *gorm.DB) error { newID(&f.ID); return nil }
func (r *Review) BeforeCreate(tx *gorm.DB) error { newID(&r.ID); return nil }

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	newID(&o.ID)
	if o.DeliveryStatus == "" {
		o.DeliveryStatus = domain.StatusProcessing
	}
	return nil
}

func (CartItem) TableName() string {
	return "cart_items"
}

func All() []any {
	return []any{
		&Store{}, &Product{},
		&Cart{}, &CartItem{},
		&Order{}, &OrderItem{}, &Receipt{},
		&Favorite{}, &FavoriteProduct{},
		&Review{},
	}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(All()...)
}
