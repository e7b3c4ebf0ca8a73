package repository

import (
	"voyago/internal/database"
)

type Repositories struct {
	Inventory *InventoryRepository
	Catalog   *CatalogRepository
	Bookings  *BookingRepository
	Payments  *PaymentRepository
	Invoices  *InvoiceRepository
	Users     *UserRepository
}

func NewRepositories(db *database.DB) *Repositories {
	return &Repositories{
		Inventory: NewInventoryRepository(db),
		Catalog:   NewCatalogRepository(db),
		Bookings:  NewBookingRepository(db),
		Payments:  NewPaymentRepository(db),
		Invoices:  NewInvoiceRepository(db),
		Users:     NewUserRepository(db),
	}
}
