package models

import (
	"time"
)

// Rating is a single (subject, customer) review row. The pair is unique;
// re-submission overwrites the stored row.
type Rating struct {
	ID         int64     `db:"id" json:"id"`
	SubjectID  int64     `db:"subject_id" json:"subject_id"`
	CustomerID int64     `db:"customer_id" json:"customer_id"`
	Rating     int       `db:"rating" json:"rating"`
	Review     *string   `db:"review" json:"review,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`

	CustomerUsername *string `db:"customer_username" json:"customer_username,omitempty"`
}
