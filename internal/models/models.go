package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Customer struct {
	CustomerID int        `gorm:"primaryKey;autoIncrement" json:"customerId"`
	FirstName  string     `gorm:"not null"                 json:"firstName"`
	LastName   string     `json:"lastName"`
	Email      string     `gorm:"uniqueIndex;not null"     json:"email"`
	Password   string     `gorm:"not null"                 json:"-"`
	Role       string     `gorm:"not null;default:USER"    json:"role"`
	VIP        bool       `gorm:"default:false"            json:"vip"`
	DateJoined time.Time  `json:"dateJoined"`
	Address    string     `json:"address"`
	City       string     `json:"city"`
	PostCode   string     `json:"postCode"`
	Country    string     `json:"country"`
}

type Category struct {
	CategoryID    int    `gorm:"primaryKey;autoIncrement" json:"categoryId"`
	CategoryName  string `gorm:"not null"                 json:"categoryName"`
	CategoryImage string `json:"categoryImage"`
	Description   string `json:"description"`
}

type Product struct {
	ProductID            int              `gorm:"primaryKey;autoIncrement" json:"productId"`
	ProductName          string           `gorm:"not null;index"           json:"productName"`
	Description          string           `json:"description"`
	Price                decimal.Decimal  `gorm:"type:numeric(10,2)"       json:"price"`
	DiscountedPrice      *decimal.Decimal `gorm:"type:numeric(10,2)"       json:"discountedPrice"`
	FeatureImage         string           `json:"featureImage"`
	Size                 string           `json:"size"`
	Colour               string           `json:"colour"`
	Material             string           `json:"material"`
	Manufacturer         string           `json:"manufacturer"`
	SustainabilityRating *int             `json:"sustainabilityRating"`
	ReleaseDate          *time.Time       `json:"releaseDate"`
	CategoryID           *int             `gorm:"index"                    json:"categoryId"`
}

// One row per product is expected, but the schema permits duplicates.
// Readers take the first match.
type Inventory struct {
	InventoryID      int `gorm:"primaryKey;autoIncrement" json:"inventoryId"`
	ProductID        int `gorm:"index;not null"           json:"productId"`
	QuantityInStock  int `json:"quantityInStock"`
	QuantityReserved int `json:"quantityReserved"`
	ReorderPoint     int `json:"reorderPoint"`
}

// UserID is a raw integer, not a foreign key. Price is captured at
// insertion time and never re-synced with the product.
type CartItem struct {
	CartItemID int             `gorm:"primaryKey;autoIncrement" json:"cartItemId"`
	UserID     int             `gorm:"index;not null"           json:"userId"`
	ProductID  int             `gorm:"not null"                 json:"productId"`
	Quantity   int             `json:"quantity"`
	Price      decimal.Decimal `gorm:"type:numeric(10,2)"       json:"price"`
}

type Order struct {
	OrderID        int              `gorm:"primaryKey;autoIncrement" json:"orderId"`
	CustomerID     int              `gorm:"index;not null"           json:"customerId"`
	OrderDate      time.Time        `json:"orderDate"`
	OrderStatus    string           `json:"orderStatus"`
	PaymentMethod  string           `json:"paymentMethod"`
	ShippingMethod string           `json:"shippingMethod"`
	TotalAmount    *decimal.Decimal `gorm:"type:numeric(10,2)"       json:"totalAmount"`
}

type OrderItem struct {
	OrderItemID int              `gorm:"primaryKey;autoIncrement" json:"orderItemId"`
	OrderID     int              `gorm:"index;not null"           json:"orderId"`
	ProductID   *int             `json:"productId"`
	Quantity    int              `gorm:"default:1"                json:"quantity"`
	ItemPrice   *decimal.Decimal `gorm:"type:numeric(10,2)"       json:"itemPrice"`
	Subtotal    *decimal.Decimal `gorm:"type:numeric(10,2)"       json:"subtotal"`
}

type Review struct {
	ReviewID      int       `gorm:"primaryKey;autoIncrement"                      json:"reviewId"`
	ProductID     int       `gorm:"not null;uniqueIndex:idx_review_customer_product" json:"productId"`
	CustomerID    int       `gorm:"not null;uniqueIndex:idx_review_customer_product" json:"customerId"`
	Rating        *int      `json:"rating"`
	ReviewText    string    `json:"reviewText"`
	ReviewDate    time.Time `json:"reviewDate"`
	FlaggedAsSpam bool      `gorm:"default:false"                                 json:"flaggedAsSpam"`
}

type Wishlist struct {
	WishlistID   int       `gorm:"primaryKey;autoIncrement"                            json:"wishlistId"`
	CustomerID   int       `gorm:"not null;uniqueIndex:idx_wishlist_customer_product"  json:"customerId"`
	ProductID    int       `gorm:"not null;uniqueIndex:idx_wishlist_customer_product"  json:"productId"`
	AddedDate    time.Time `json:"addedDate"`
	WishlistName string    `json:"wishlistName"`
	Notes        string    `json:"notes"`
}

type Supplier struct {
	SupplierID   int    `gorm:"primaryKey;autoIncrement" json:"supplierId"`
	SupplierName string `gorm:"not null"                 json:"supplierName"`
	ContactName  string `json:"contactName"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	City         string `json:"city"`
	Country      string `json:"country"`
}
