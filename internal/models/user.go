package models

// User is a locally registered account. Emails are stored lower-cased.
type User struct {
	FullName     string `json:"fullName"`
	Email        string `json:"email"`
	PasswordHash string `json:"passwordHash"`
}

func (u User) RecordID() string { return u.Email }
