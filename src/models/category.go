package models

import "time"

const (
	DefaultCategoryColor = "#007bff"
	DefaultCategoryIcon  = "category"
)

type Category struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"-"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Color       string    `json:"color"`
	Icon        string    `json:"icon"`
	IsDefault   bool      `json:"isDefault"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"-"`
}

type CategoryCreateRequest struct {
	Name        string `json:"name" validate:"notblank,max=100"`
	Description string `json:"description" validate:"max=255"`
	Color       string `json:"color" validate:"omitempty,hexcolor6"`
	Icon        string `json:"icon" validate:"omitempty,max=50"`
}

// DefaultCategories are created for every new user.
var DefaultCategories = []Category{
	{Name: "Salary", Description: "Wages and regular income", Color: "#28a745", Icon: "payments"},
	{Name: "Food", Description: "Groceries and dining out", Color: "#ff6384", Icon: "restaurant"},
	{Name: "Transport", Description: "Fuel, tickets and rides", Color: "#36a2eb", Icon: "directions_car"},
	{Name: "Housing", Description: "Rent, mortgage and repairs", Color: "#ffce56", Icon: "home"},
	{Name: "Utilities", Description: "Electricity, water and internet", Color: "#4bc0c0", Icon: "bolt"},
	{Name: "Health", Description: "Medical and pharmacy", Color: "#9966ff", Icon: "medical_services"},
	{Name: "Entertainment", Description: "Leisure and subscriptions", Color: "#ff9f40", Icon: "movie"},
	{Name: "Other", Description: "Everything else", Color: DefaultCategoryColor, Icon: DefaultCategoryIcon},
}
