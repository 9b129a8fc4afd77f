package models

// User roles
const (
	RoleCustomer  = "customer"
	RoleVendor    = "vendor"
	RoleAdmin     = "admin"
	RoleSales     = "sales"
	RoleInstaller = "installer"
)

type User struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Role      string `json:"role"`
}

// DisplayName returns the name used in email greetings: the first name when
// present, otherwise the local part of the email address.
func (u User) DisplayName() string {
	if u.FirstName != "" {
		return u.FirstName
	}
	for i := 0; i < len(u.Email); i++ {
		if u.Email[i] == '@' {
			return u.Email[:i]
		}
	}
	return u.Email
}
