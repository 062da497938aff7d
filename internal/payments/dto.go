package payments

import "time"

type CreatePaymentRequest struct {
	Direction   string  `json:"direction" validate:"required,oneof=in out"`
	AccountID   int64   `json:"account_id" validate:"required,gt=0"`
	PaymentDate string  `json:"payment_date" validate:"required,datetime=2006-01-02"`
	Amount      string  `json:"amount" validate:"required"`
	Method      string  `json:"method" validate:"required,oneof=cash bank_transfer card cheque mobile"`
	Note        *string `json:"note,omitempty"`
}

type ListPaymentsRequest struct {
	Direction *Direction `json:"direction,omitempty"`
	AccountID *int64     `json:"account_id,omitempty"`
	FromDate  *time.Time `json:"from_date,omitempty"`
	ToDate    *time.Time `json:"to_date,omitempty"`
	Limit     int        `json:"limit" validate:"gte=0,lte=1000"`
	Offset    int        `json:"offset" validate:"gte=0"`
}
