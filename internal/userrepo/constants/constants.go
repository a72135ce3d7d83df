package constants

const (
	// UsersCollection is the collection/table holding user records.
	UsersCollection = "users"
)
