package models

import "time"

// User is the stored user record. Password is only populated inside gateways
// and never leaves the service.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Password  string    `json:"password,omitempty"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// Public returns a copy of the user with the password stripped.
func (u *User) Public() *User {
	if u == nil {
		return nil
	}
	cp := *u
	cp.Password = ""
	return &cp
}

// LoginRequest carries login credentials.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest carries the registration payload.
type RegisterRequest struct {
	Username  string `json:"username" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Phone     string `json:"phone,omitempty"`
}

// ProfilePatch is a partial profile update. Nil fields are not changed.
type ProfilePatch struct {
	Username  *string `json:"username,omitempty"`
	Email     *string `json:"email,omitempty"`
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Address   *string `json:"address,omitempty"`
	Password  *string `json:"password,omitempty"`
}

// Fields returns the set fields keyed by their JSON names.
func (p ProfilePatch) Fields() map[string]interface{} {
	out := map[string]interface{}{}
	if p.Username != nil {
		out["username"] = *p.Username
	}
	if p.Email != nil {
		out["email"] = *p.Email
	}
	if p.FirstName != nil {
		out["firstName"] = *p.FirstName
	}
	if p.LastName != nil {
		out["lastName"] = *p.LastName
	}
	if p.Phone != nil {
		out["phone"] = *p.Phone
	}
	if p.Address != nil {
		out["address"] = *p.Address
	}
	if p.Password != nil {
		out["password"] = *p.Password
	}
	return out
}

// Apply copies the set fields onto u.
func (p ProfilePatch) Apply(u *User) {
	if p.Username != nil {
		u.Username = *p.Username
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.FirstName != nil {
		u.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		u.LastName = *p.LastName
	}
	if p.Phone != nil {
		u.Phone = *p.Phone
	}
	if p.Address != nil {
		u.Address = *p.Address
	}
	if p.Password != nil {
		u.Password = *p.Password
	}
}
