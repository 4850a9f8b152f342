package apiclient

// Role decides what a signed-in user may see and change.
type Role string

const (
	RoleManager Role = "MANAGER"
	RoleClerk   Role = "CLERK"
)

// User is the authenticated account as reported by the backend.
type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Role     Role   `json:"role"`
	BranchID string `json:"branchId,omitempty"`
}

// Branch is a physical print-shop location.
type Branch struct {
	ID        string `json:"id"`
	Name      string `json:"name" validate:"required,max=120"`
	Address   string `json:"address" validate:"required"`
	Phone     string `json:"phone,omitempty" validate:"omitempty,max=32"`
	Email     string `json:"email,omitempty" validate:"omitempty,email"`
	ManagerID string `json:"managerId,omitempty"`
	IsActive  bool   `json:"isActive"`
}

// LoginResult is what the backend issues on a successful sign-in.
type LoginResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
