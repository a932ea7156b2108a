package mockdata

type fragments struct {
	first        []string
	last         []string
	domains      []string
	countries    []string
	cities       []string
	streetNames  []string
	streetSuffix []string
	banks        []string
	cardBrands   []string
	networks     []string
	categories   []string
	subjects     map[string][]string
	rejections   []string
	kycRejects   []string
	admins       []string
}

func defaultFragments() fragments {
	return fragments{
		first:        []string{"Alice", "John", "Alex", "Priya", "Liu", "Maria", "Omar", "Sofia", "Noah", "Emma", "Lucas", "Mia", "Ava", "Ethan", "Zara", "Kwame", "Ines"},
		last:         []string{"Smith", "Doe", "Chen", "Patel", "Garcia", "Khan", "Kim", "Ivanov", "Nguyen", "Silva", "Brown", "Lee", "Mensah"},
		domains:      []string{"example.com", "mail.com", "inbox.io", "brokermail.net"},
		countries:    []string{"US", "GB", "DE", "FR", "NG", "IN", "BR", "CA", "AU", "SG"},
		cities:       []string{"New York", "London", "Berlin", "Paris", "Lagos", "Mumbai", "Sao Paulo", "Toronto", "Sydney", "Singapore"},
		streetNames:  []string{"Market", "Mission", "Broadway", "High", "Park", "Cedar", "Oak", "King", "Station"},
		streetSuffix: []string{"St", "Ave", "Rd", "Ln", "Way"},
		banks:        []string{"First National", "Metro Bank", "Union Trust", "Harbor Savings", "Capital One"},
		cardBrands:   []string{"visa", "mastercard", "amex"},
		networks:     []string{"bitcoin", "ethereum", "tron"},
		categories:   []string{"account", "deposit", "withdrawal", "trading", "technical", "verification"},
		subjects: map[string][]string{
			"account":      {"Cannot update my phone number", "Close my account", "Change account tier"},
			"deposit":      {"Deposit not credited", "Card deposit declined", "Wrong deposit amount"},
			"withdrawal":   {"Withdrawal pending for days", "Withdrawal limit question", "Bank rejected withdrawal"},
			"trading":      {"Order executed at wrong price", "Cannot open position", "Margin call question"},
			"technical":    {"App crashes on login", "Two-factor code not arriving", "Charts not loading"},
			"verification": {"Documents rejected", "How long does KYC take", "Upload keeps failing"},
		},
		rejections: []string{"Insufficient funds", "Suspicious activity", "Payment provider declined", "Limit exceeded", "Account under review"},
		kycRejects: []string{"Document expired", "Image is blurry", "Name does not match account", "Proof of address older than 3 months"},
		admins:     []string{"admin-1", "admin-2", "admin-3"},
	}
}
