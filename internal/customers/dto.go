package customers

type CreateCustomerRequest struct {
	Code        string  `json:"code" validate:"required,max=50"`
	Name        string  `json:"name" validate:"required,max=200"`
	Phone       *string `json:"phone,omitempty" validate:"omitempty,max=50"`
	Email       *string `json:"email,omitempty" validate:"omitempty,email"`
	Address     *string `json:"address,omitempty" validate:"omitempty,max=500"`
	Opening     string  `json:"opening_balance" validate:"omitempty"`
	OpeningSide string  `json:"opening_balance_type" validate:"omitempty,oneof=debit credit"`
	Notes       *string `json:"notes,omitempty"`
}

type UpdateCustomerRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,max=200"`
	Phone       *string `json:"phone,omitempty" validate:"omitempty,max=50"`
	Email       *string `json:"email,omitempty" validate:"omitempty,email"`
	Address     *string `json:"address,omitempty" validate:"omitempty,max=500"`
	Opening     *string `json:"opening_balance,omitempty"`
	OpeningSide *string `json:"opening_balance_type,omitempty" validate:"omitempty,oneof=debit credit"`
	Notes       *string `json:"notes,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

type ListCustomersRequest struct {
	IsActive *bool   `json:"is_active,omitempty"`
	Search   *string `json:"search,omitempty"`
	SortBy   string  `json:"sort_by,omitempty"`
	SortDir  string  `json:"sort_dir,omitempty"`
	Limit    int     `json:"limit" validate:"gte=0,lte=1000"`
	Offset   int     `json:"offset" validate:"gte=0"`
}
