package domain

// MemberStatus tracks a team member's access state.
type MemberStatus string

const (
	MemberActive    MemberStatus = "Active"
	MemberInvited   MemberStatus = "Invited"
	MemberSuspended MemberStatus = "Suspended"
)

// TeamMember is a staff record for the team & access screen.
type TeamMember struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Email        string       `json:"email"`
	Phone        string       `json:"phone"`
	Role         string       `json:"role"`
	Location     string       `json:"location"`
	Status       MemberStatus `json:"status"`
	AuthProvider string       `json:"authProvider"`
	LastLogin    string       `json:"lastLogin"`
}

// UserProfile is the signed-in operator. Nil in storage means logged out.
type UserProfile struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}
