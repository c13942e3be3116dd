// Package mongostore backs the broadcast pipeline with MongoDB collections:
// the user directory and preferences, in-app inboxes embedded in user
// documents, and delivery reports on notification documents.
package mongostore
