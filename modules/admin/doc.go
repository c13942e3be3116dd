// Package admin exposes the broadcast pipeline over HTTP for authenticated
// administrators.
package admin
