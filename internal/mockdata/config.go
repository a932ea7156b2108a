package mockdata

// UserPoolSize is the id space embedded user references are drawn from.
const UserPoolSize = 50

// Counts sets how many records of each entity a Dataset holds.
type Counts struct {
	Users        int
	Transactions int
	KycRequests  int
	Tickets      int
}

// DefaultCounts mirrors the sizes the admin dashboard was built against.
func DefaultCounts() Counts {
	return Counts{
		Users:        UserPoolSize,
		Transactions: 100,
		KycRequests:  40,
		Tickets:      40,
	}
}
