// Package model defines the data structures used throughout the application.
package model

// User is a profile record keyed by the identity provider's subject id.
//
// WHY UID AS THE PRIMARY KEY?
// The provider already guarantees the subject id is stable and unique, so
// there is no internal id to generate. The same value is the Firestore
// document id and the SQLite primary key.
//
// CreatedAt is a string (RFC 3339, UTC) because that is what the clients
// already read; it is set once and never rewritten.
type User struct {
	UID         string `json:"uid"         firestore:"uid"`
	Email       string `json:"email"       firestore:"email"`
	DisplayName string `json:"displayName" firestore:"displayName"`
	PhotoURL    string `json:"photoURL"    firestore:"photoURL"` // external URL or data URI
	CreatedAt   string `json:"createdAt"   firestore:"createdAt"`
}
