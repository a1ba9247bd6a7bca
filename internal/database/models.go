package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// Row types for the savora schema. Mutations go through Queries; these are
// plain data carriers validated at the boundary, never trusted row shapes.

type Branch struct {
	ID         uuid.UUID
	Name       string
	Address    string
	Phone      string
	StaffCount int32
	IsActive   bool
	CreatedAt  time.Time
}

type MenuCategory struct {
	ID        uuid.UUID
	Name      string
	SortOrder int32
	IsActive  bool
	CreatedAt time.Time
}

type MenuItem struct {
	ID          uuid.UUID
	BranchID    uuid.UUID
	CategoryID  uuid.UUID
	Name        string
	Description pgtype.Text
	Price       pgtype.Numeric
	ImageURL    pgtype.Text
	IsAvailable bool
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Profile struct {
	ID             uuid.UUID
	Email          string
	HashedPassword string
	FullName       string
	Phone          pgtype.Text
	CreatedAt      time.Time
}

type StaffAssignment struct {
	UserID    uuid.UUID
	BranchID  uuid.UUID
	CreatedAt time.Time
}

type Order struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	BranchID        uuid.UUID
	OrderType       string
	Status          string
	Subtotal        pgtype.Numeric
	Tax             pgtype.Numeric
	DeliveryFee     pgtype.Numeric
	Tip             pgtype.Numeric
	Total           pgtype.Numeric
	DeliveryAddress pgtype.Text
	Notes           pgtype.Text
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// OrderedItem snapshots the menu price at order time; PriceEach never
// changes after insert even if the catalog price does.
type OrderedItem struct {
	ID         uuid.UUID
	OrderID    uuid.UUID
	MenuItemID uuid.UUID
	Quantity   int32
	PriceEach  pgtype.Numeric
	CreatedAt  time.Time
}
