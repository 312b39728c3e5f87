package auth

// RegisterRequest contains the payload required to create a local account.
type RegisterRequest struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Age       int    `json:"age" validate:"gte=0,lte=150"`
	Password  string `json:"password" validate:"required"`
}

// LoginRequest captures the user credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Profile is the subset of an OAuth provider's user profile used to resolve an identity.
type Profile struct {
	Email string
	Name  string
	Login string
}
