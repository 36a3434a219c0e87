// Package common contains shared constants used across service components.
package common

// NoUserFoundMessage is the message attached to 404 envelopes for every
// user-lookup miss (list, get, update, delete, search).
const NoUserFoundMessage = "No User Found"

// AdministratorRole is the role required by the privileged endpoints.
const AdministratorRole = "Administrator"

// DefaultRole is assigned to accounts created through registration.
const DefaultRole = "User"
