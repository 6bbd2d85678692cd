package models

// Admin defines the admin model based on the 'admins' table
type Admin struct {
	ID       int64  `json:"id" db:"id" example:"1"`
	Username string `json:"username" db:"username" example:"admin"`
}

// AdminCredentials carries the stored hash for login only
type AdminCredentials struct {
	Admin        *Admin
	PasswordHash string
}
