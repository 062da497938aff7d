package purchases

import "time"

type PurchaseItemInput struct {
	ProductID int64  `json:"product_id" validate:"required,gt=0"`
	Quantity  string `json:"quantity" validate:"required"`
	UnitCost  string `json:"unit_cost" validate:"required"`
}

type CreatePurchaseRequest struct {
	SupplierID   int64               `json:"supplier_id" validate:"required,gt=0"`
	PurchaseDate string              `json:"purchase_date" validate:"required,datetime=2006-01-02"`
	Paid         string              `json:"paid" validate:"omitempty"`
	Note         *string             `json:"note,omitempty"`
	Items        []PurchaseItemInput `json:"items" validate:"required,min=1,dive"`
}

type ListPurchasesRequest struct {
	SupplierID *int64     `json:"supplier_id,omitempty"`
	FromDate   *time.Time `json:"from_date,omitempty"`
	ToDate     *time.Time `json:"to_date,omitempty"`
	Limit      int        `json:"limit" validate:"gte=0,lte=1000"`
	Offset     int        `json:"offset" validate:"gte=0"`
}
