package api

// Transaction is a personal income or expense entry.
type Transaction struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Category  string `json:"category"`
	Amount    string `json:"amount"`
	Note      string `json:"note,omitempty"`
	Date      int64  `json:"date"`
	CreatedAt int64  `json:"createdAt"`
	UpdatedAt int64  `json:"updatedAt"`
}

type CreateTransactionRequest struct {
	Type     string `json:"type" validate:"required,oneof=income expense"`
	Category string `json:"category" validate:"required,max=60"`
	Amount   string `json:"amount" validate:"required,money"`
	Note     string `json:"note,omitempty" validate:"max=200"`
	Date     int64  `json:"date,omitempty" validate:"gte=0"`
}

type CreateTransactionResponse struct {
	Transaction Transaction `json:"transaction"`
}

type ListTransactionsRequest struct{}

type ListTransactionsResponse struct {
	Transactions []Transaction `json:"transactions"`
}

type UpdateTransactionRequest struct {
	TransactionID string `json:"transactionId" validate:"required"`
	Type          string `json:"type" validate:"required,oneof=income expense"`
	Category      string `json:"category" validate:"required,max=60"`
	Amount        string `json:"amount" validate:"required,money"`
	Note          string `json:"note,omitempty" validate:"max=200"`
	Date          int64  `json:"date,omitempty" validate:"gte=0"`
}

type UpdateTransactionResponse struct {
	Transaction Transaction `json:"transaction"`
}

type DeleteTransactionRequest struct {
	TransactionID string `json:"transactionId" validate:"required"`
}

type DeleteTransactionResponse struct{}
