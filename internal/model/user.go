package model

// User represents a customer account persisted under the users store key.
// Email is the unique identifier.  PasswordHash holds a bcrypt digest;
// plain-text passwords are never stored.
//
// AccountType distinguishes accounts the customer created themselves
// ("member") from accounts auto-provisioned during checkout for a guest
// email ("auto-created").
type User struct {
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Email        string `json:"email"`
	Phone        string `json:"phone,omitempty"`
	Dietary      string `json:"dietary,omitempty"`
	Experience   string `json:"experience,omitempty"` // beginner/intermediate/advanced
	PasswordHash string `json:"passwordHash"`
	AccountType  string `json:"accountType"` // "member" or "auto-created"
	IsAdmin      bool   `json:"isAdmin,omitempty"`
	CreatedAt    string `json:"createdAt"` // RFC3339
}

// Session is the logged-in user snapshot persisted under the
// currentSession key.  LoginTime drives the session expiry check.
type Session struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	IsAdmin   bool   `json:"isAdmin,omitempty"`
	LoginTime string `json:"loginTime"` // RFC3339
}
