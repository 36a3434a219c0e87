// Package models holds the persisted entities of the user-management server.
package models

import "time"

// User is the stored account record. ID is assigned once at registration and
// never changes; every other field may be updated. PasswordHash, Email and
// Role are credential material owned by the identity component and are never
// exposed through transfer objects.
type User struct {
	ID            string
	UserName      string
	Email         string
	PasswordHash  string
	Role          string
	Name          string
	Age           int
	Gender        string
	MaritalStatus string
	Location      string
	PhoneNumber   string
	CreatedAt     time.Time
}
