package enum

import "strings"

// ── State machines ──

const (
	OrderStatusPending   = "Pending"
	OrderStatusPreparing = "Preparing"
	OrderStatusReady     = "Ready"
	OrderStatusServed    = "Served"
	OrderStatusPaid      = "Paid"

	// Orders edited after creation get "Partial <edit_count>". This is a
	// one-way overwrite of the kitchen status and is never reconciled back.
	OrderStatusPartialPrefix = "Partial "
)

const (
	AttendanceStatusPresent = "Present"
	AttendanceStatusAbsent  = "Absent"
	AttendanceStatusHalfDay = "Half Day"
)

const (
	InventoryStatusUsing  = "USING"
	InventoryStatusUnused = "UNUSED"
	InventoryStatusBroken = "BROKEN"
)

// ── Roles ──

const (
	RoleAdmin   = "Admin"
	RoleManager = "Manager"
	RoleChef    = "Chef"
	RoleWaiter  = "Waiter"
	RoleCashier = "Cashier"
)

// ── Labels ──

const (
	OrderTypeDineIn = "Dine-in"
	OrderTypeParcel = "Parcel"
)

const (
	PaymentModeCash   = "Cash"
	PaymentModeOnline = "Online"
)

const (
	TransactionInflow  = "Inflow"
	TransactionOutflow = "Outflow"
)

const (
	InventoryCategoryTools      = "TOOLS"
	InventoryCategoryUtensils   = "UTENSILS"
	InventoryCategoryAppliances = "APPLIANCES"
	InventoryCategoryFurniture  = "FURNITURE"
	InventoryCategoryGrocery    = "GROCERY"
	InventoryCategoryOther      = "OTHER"
)

// CanonicalRole maps a case-insensitive role name to its stored form.
// Returns "" for unknown roles.
func CanonicalRole(s string) string {
	for _, r := range []string{RoleAdmin, RoleManager, RoleChef, RoleWaiter, RoleCashier} {
		if strings.EqualFold(s, r) {
			return r
		}
	}
	return ""
}

// IsKitchenStatus reports whether s is one of the kitchen states a chef may
// set. Paid and Partial statuses are managed by the order service.
func IsKitchenStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusPreparing, OrderStatusReady, OrderStatusServed:
		return true
	}
	return false
}

func IsValidOrderType(s string) bool {
	return s == OrderTypeDineIn || s == OrderTypeParcel
}

func IsValidPaymentMode(s string) bool {
	return s == PaymentModeCash || s == PaymentModeOnline
}

func IsValidAttendanceStatus(s string) bool {
	switch s {
	case AttendanceStatusPresent, AttendanceStatusAbsent, AttendanceStatusHalfDay:
		return true
	}
	return false
}

func IsValidInventoryCategory(s string) bool {
	switch strings.ToUpper(s) {
	case InventoryCategoryTools, InventoryCategoryUtensils, InventoryCategoryAppliances,
		InventoryCategoryFurniture, InventoryCategoryGrocery, InventoryCategoryOther:
		return true
	}
	return false
}

func IsValidInventoryStatus(s string) bool {
	switch strings.ToUpper(s) {
	case InventoryStatusUsing, InventoryStatusUnused, InventoryStatusBroken:
		return true
	}
	return false
}
