package model

// TimeLayout is the layout of timestamps the service generates
const TimeLayout = "2006-01-02T15:04:05.000Z"

// StatusPending is the status given to new orders when none is supplied
const StatusPending = "pending"

// Product is one tracked order in the goods document.
// Dates are kept as the strings they were supplied or generated as.
type Product struct {
	ID            string   `json:"id"`
	TransactionID string   `json:"transactionId"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Price         float64  `json:"price"`
	Photos        []string `json:"photos"`
	Quantity      int      `json:"quantity"`
	UploadDate    string   `json:"uploadDate"`
	OrderDate     string   `json:"orderDate"`
	ArrivalDate   string   `json:"arrivalDate"`
	ShippingDate  string   `json:"shippingDate"`
	QuantitySent  int      `json:"quantitySent"`
	QuantityLeft  int      `json:"quantityLeft"`
	Status        string   `json:"status"`
	SenderName    string   `json:"senderName"`
	ReceiverName  string   `json:"receiverName"`
}

// NewProductInput holds the fields accepted when adding a product.
// Photos are already stored paths.
type NewProductInput struct {
	Name         string
	Description  string
	Price        float64
	Quantity     int
	ArrivalDate  string
	OrderDate    string
	Status       string
	SenderName   string
	ReceiverName string
	Photos       []string
}

// UpdateProductInput holds the fields of a partial update; nil means not supplied.
// A non-empty Photos replaces the whole photo list.
type UpdateProductInput struct {
	Name         *string
	Description  *string
	Price        *float64
	Quantity     *int
	QuantitySent *int
	ArrivalDate  *string
	ShippingDate *string
	OrderDate    *string
	Status       *string
	SenderName   *string
	ReceiverName *string
	Photos       []string
}
