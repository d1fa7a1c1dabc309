// Package group manages sender-key groups.
//
// Creating a group distributes the local sender key to every member
// over their 1:1 sessions. Group traffic itself travels as signed
// sender-key messages on the relay's per-group feed.
package group
