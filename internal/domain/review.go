package domain

import (
	"encoding/json"
	"fmt"
)

// PendingSlot is the key under which the single unsent review is kept.
const PendingSlot = "pending_request"

// ReviewForm is the payload the review page submits. The remote service owns the schema;
// nothing here is validated.
type ReviewForm struct {
	RestaurantID Ident   `json:"restaurant_id"`
	Name         string  `json:"name"`
	Rating       float64 `json:"rating"`
	Comments     string  `json:"comments"`
}

func (f ReviewForm) Payload() (json.RawMessage, error) {
	return json.Marshal(f)
}

// RejectedError is a client-error answer to a posted review. Posting the same review again
// cannot succeed, so it is never kept for a later replay.
type RejectedError struct {
	Status int
	Body   json.RawMessage // the server's JSON answer, nil when it sent none
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("review rejected: status %d", e.Status)
}
