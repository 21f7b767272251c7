// Package domain holds the sample entities shared by the tests and the demo
// command: a Person mapped to the users table, an Order with its items and an
// Account with a generated field accessor.
package domain
