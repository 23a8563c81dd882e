// Package models defines the core data structures for courses and their edits.
package models

// Course is one row of the catalog.
type Course struct {
	// Code is the unique, immutable key of the course.
	Code string
	// TitleES is the Spanish title.
	TitleES string
	// TitleEN is the English title.
	TitleEN string
	// Credits is the number of academic credits (>= 0).
	Credits int
	// ContactHours is the number of contact hours (>= 0).
	ContactHours int
	// Year is the program year the course belongs to (>= 1).
	Year int
	// Semester is the semester within the year (>= 1).
	Semester int
	// Status is the lifecycle state, e.g. StatusActive.
	Status string
	// Description is free text editable through the UI.
	Description string
	// Comments is free text editable through the UI.
	Comments string
}

// CourseEdit carries the only two fields that may change after load.
// Both are applied together or not at all.
type CourseEdit struct {
	Description string
	Comments    string
}

// Apply returns a copy of c with the edit applied.
func (e CourseEdit) Apply(c Course) Course {
	c.Description = e.Description
	c.Comments = e.Comments
	return c
}

// Known course status values. Other values read from the catalog file are
// kept as-is.
const (
	// StatusActive marks a course that is currently offered.
	StatusActive = "Activo"
	// StatusInactive marks a course that is no longer offered.
	StatusInactive = "Inactivo"
)
