// Package models maps the gym aggregates onto GORM rows. Domain types carry no
// ORM tags; each model converts with ToDomain and FromDomain.
//
// Timestamps are stored in UTC. Calendar dates (check-in day, notification
// send day) are DATE columns holding the local date at UTC midnight, which is
// what the per-day unique indexes key on.
package models
