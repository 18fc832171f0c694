package domain

// Table occupancy labels.
const (
	TableAvailable = "Available"
	TableOccupied  = "Occupied"
)

type Table struct {
	No         int    `json:"Table No"`
	CustomerID string `json:"Customer ID"`
	OrderID    ID     `json:"Order Id"`
}

// Occupied reports whether a customer is seated at the table.
func (t Table) Occupied() bool { return t.CustomerID != "" }

func (t Table) Status() string {
	if t.Occupied() {
		return TableOccupied
	}
	return TableAvailable
}

// Cleared returns the table with both references reset.
func (t Table) Cleared() Table { return Table{No: t.No} }

type Customer struct {
	ID      ID     `json:"Customer Id"`
	Name    string `json:"Customer Name"`
	Contact string `json:"Contact Number"`
	Email   string `json:"Email"`
}

// Chef is a staff account managed from the chef roster.
type Chef struct {
	ID       ID     `json:"Chef Id"`
	Name     string `json:"Name"`
	Email    string `json:"Email"`
	Contact  string `json:"Contact,omitempty"`
	Role     string `json:"Role,omitempty"`
	Password string `json:"Password,omitempty"`
}

// AdminProfile is the identity returned by a successful login.
type AdminProfile struct {
	ID    ID     `json:"Admin Id,omitempty"`
	Name  string `json:"Name"`
	Email string `json:"Email"`
	Role  string `json:"Role"`
}

type Feedback struct {
	ID         ID     `json:"Feedback Id"`
	Text       string `json:"Feedback"`
	OrderID    ID     `json:"Order Id"`
	CustomerID ID     `json:"Customer Id"`
	Rating     int    `json:"rating"`
	Date       string `json:"date"`
}
