package models

// User represents a ledger user
type User struct {
	ID           int64  `json:"id"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Birthday     string `json:"birthday"`
	Phone        string `json:"phone"`
	PasswordHash string `json:"-"` // Not serialized
}

// NewUser carries the attributes of a user to be registered
type NewUser struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Birthday  string `json:"birthday"`
	Phone     string `json:"phone"`
	Password  string `json:"password"`
}

// UserPatch lists the user fields that may be changed after registration.
// A nil field is left untouched.
type UserPatch struct {
	ID        int64   `json:"id"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Birthday  *string `json:"birthday"`
	Phone     *string `json:"phone"`
	Password  *string `json:"password"`
}
