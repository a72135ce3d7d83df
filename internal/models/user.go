package models

// User represents an internal user model for the application/database.
type User struct {
	ID       string `bson:"_id,omitempty" mapstructure:"id" db:"id"`
	Username string `bson:"username" mapstructure:"username" db:"username"`
	Password string `bson:"password" mapstructure:"password" db:"password"` // bcrypt hash, never plaintext
}

// NewUser creates a new User instance with the given username and hashed password.
// Note: No validation is performed here.
func NewUser(username string, hashedPassword string) *User {
	return &User{
		Username: username,
		Password: hashedPassword,
	}
}
