package sales

import "time"

type SaleItemInput struct {
	ProductID int64  `json:"product_id" validate:"required,gt=0"`
	Quantity  string `json:"quantity" validate:"required"`
	UnitPrice string `json:"unit_price" validate:"required"`
}

type CreateSaleRequest struct {
	CustomerID *int64          `json:"customer_id,omitempty" validate:"omitempty,gt=0"`
	SaleDate   string          `json:"sale_date" validate:"required,datetime=2006-01-02"`
	Paid       string          `json:"paid" validate:"omitempty"`
	Note       *string         `json:"note,omitempty"`
	Items      []SaleItemInput `json:"items" validate:"required,min=1,dive"`
}

type ListSalesRequest struct {
	CustomerID *int64     `json:"customer_id,omitempty"`
	FromDate   *time.Time `json:"from_date,omitempty"`
	ToDate     *time.Time `json:"to_date,omitempty"`
	Limit      int        `json:"limit" validate:"gte=0,lte=1000"`
	Offset     int        `json:"offset" validate:"gte=0"`
}
