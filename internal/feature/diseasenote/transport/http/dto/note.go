// Package dto defines the JSON bodies of the disease note endpoints.
package dto

// NoteReq is the body of POST /disease-notes.
type NoteReq struct {
	Note string `json:"note" binding:"required"`
}

// NoteRes is one note. Date is RFC3339.
type NoteRes struct {
	ID   uint   `json:"id"`
	Note string `json:"note"`
	Date string `json:"date"`
}
