package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type User struct {
	ID             uuid.UUID
	Username       string
	HashedPassword string
	Role           string
	CreatedAt      time.Time
}

type Employee struct {
	ID         uuid.UUID
	Name       string
	Age        int32
	Phone      pgtype.Text
	Address    pgtype.Text
	AadhaarNo  pgtype.Text
	Salary     pgtype.Numeric
	Role       string
	HireDate   pgtype.Date
	ResignDate pgtype.Date
	CreatedAt  time.Time
}

type Attendance struct {
	ID         uuid.UUID
	EmployeeID uuid.UUID
	Date       pgtype.Date
	Status     string
}

type Category struct {
	ID   uuid.UUID
	Name string
}

type MenuItem struct {
	ID         uuid.UUID
	CategoryID uuid.UUID
	Name       string
	Price      pgtype.Numeric
	Available  bool
}

type Order struct {
	ID           uuid.UUID
	OrderType    string
	TableNumber  pgtype.Text
	CustomerName pgtype.Text
	Status       string
	TotalAmount  pgtype.Numeric
	EditCount    int32
	IsPaid       bool
	PaidAt       pgtype.Timestamptz
	CreatedAt    time.Time
}

type OrderItem struct {
	ID             uuid.UUID
	OrderID        uuid.UUID
	MenuItemID     uuid.UUID
	Quantity       int32
	PriceAtTime    pgtype.Numeric
	AddedAfterEdit int32
}

type Bill struct {
	ID            uuid.UUID
	OrderID       uuid.UUID
	TotalItems    pgtype.Numeric
	Gst           pgtype.Numeric
	ServiceCharge pgtype.Numeric
	GrandTotal    pgtype.Numeric
	PaymentMode   string
	GeneratedAt   time.Time
}

type FinanceTransaction struct {
	ID          uuid.UUID
	Type        string
	Amount      pgtype.Numeric
	Description pgtype.Text
	BillID      pgtype.UUID
	Date        time.Time
}

type InventoryItem struct {
	ID               uuid.UUID
	Name             string
	Category         string
	QuantityWithUnit string
	Status           string
	CreatedAt        time.Time
}

type Expense struct {
	ID                    uuid.UUID
	ItemID                uuid.UUID
	AddedQuantityWithUnit string
	PaymentAmount         pgtype.Numeric
	PaymentMode           string
	Date                  time.Time
}
