package enum

// SaleStatus represents the lifecycle state of a sale
type SaleStatus string

const (
	SaleStatusCompleted SaleStatus = "completed"
	SaleStatusCancelled SaleStatus = "cancelled"
)

// Valid reports whether the status is one of the known states
func (s SaleStatus) Valid() bool {
	switch s {
	case SaleStatusCompleted, SaleStatusCancelled:
		return true
	}
	return false
}

func (s SaleStatus) String() string {
	return string(s)
}
