package flows

// UserRecord is the flow-local user model shared by login, refresh, and
// authorize flows.
type UserRecord struct {
	UserID      int64
	Name        string
	Birthday    string
	LastLoginAt int64
}

// LoginRecord is the flow-local credential row looked up during login.
type LoginRecord struct {
	UserID       int64
	Name         string
	Salt         []byte
	PasswordHash string
}
