package dto

import (
	"io"

	"food-ordering/internal/storefront/domain/models"
)

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	User models.User `json:"user"`
}

type CreateStoreRequest struct {
	Name              string `json:"name"`
	Slug              string `json:"slug"`
	Description       string `json:"description"`
	ImageURL          string `json:"image_url"`
	BankName          string `json:"bank_name"`
	BankAccountNumber string `json:"bank_account_number"`
	BankAccountHolder string `json:"bank_account_holder"`
	AdminUsername     string `json:"admin_username"`
	AdminPassword     string `json:"admin_password"`
}

// UpdateStoreRequest carries a partial profile update. Password changes the caller's own password.
type UpdateStoreRequest struct {
	Name              *string `json:"name,omitempty"`
	Description       *string `json:"description,omitempty"`
	ImageURL          *string `json:"image_url,omitempty"`
	BankName          *string `json:"bank_name,omitempty"`
	BankAccountNumber *string `json:"bank_account_number,omitempty"`
	BankAccountHolder *string `json:"bank_account_holder,omitempty"`
	Password          *string `json:"password,omitempty"`
}

type StoreWithAdmins struct {
	Store  models.Store  `json:"store"`
	Admins []models.User `json:"admins"`
}

type Storefront struct {
	Store models.Store  `json:"store"`
	Items []models.Item `json:"items"`
}

type CreateItemRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
}

type UpdateItemRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Price       *int64  `json:"price,omitempty"`
	IsAvailable *bool   `json:"is_available,omitempty"`
}

// Upload is an image received with an item creation request.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}
