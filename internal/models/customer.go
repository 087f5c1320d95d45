package models

// CustomerStatus enumerates customer account states.
type CustomerStatus string

const (
	CustomerStatusActive   CustomerStatus = "active"
	CustomerStatusInactive CustomerStatus = "inactive"
)

// Customer is a business customer row from the Customers sheet.
// RegistrationDate and LastOrderDate are kept as stored text; they are only displayed.
type Customer struct {
	ID               string         `json:"id"`
	CompanyName      string         `json:"companyName"`
	Email            string         `json:"email"`
	Phone            string         `json:"phone"`
	RegistrationDate string         `json:"registrationDate"`
	TotalSpent       float64        `json:"totalSpent"`
	LastOrderDate    string         `json:"lastOrderDate"`
	Status           CustomerStatus `json:"status"`
}
