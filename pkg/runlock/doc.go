// Package runlock serializes broadcast runs per notification ID. Two admins
// submitting the same notification concurrently would otherwise double-send
// pushes and race on the delivery report.
package runlock
