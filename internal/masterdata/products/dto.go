package products

type ProductForm struct {
	Code         string `json:"code" validate:"required,max=50"`
	Name         string `json:"name" validate:"required,max=200"`
	CategoryID   int64  `json:"category_id" validate:"required,gt=0"`
	Unit         string `json:"unit" validate:"required,max=20"`
	Cost         string `json:"cost" validate:"required"`
	Price        string `json:"price" validate:"required"`
	Stock        string `json:"stock" validate:"omitempty"`
	ReorderLevel string `json:"reorder_level" validate:"omitempty"`
	IsActive     bool   `json:"is_active"`
}
