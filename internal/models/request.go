package models

import "time"

// ItemRequest is a user's public ask for an item not yet in the catalog.
type ItemRequest struct {
	ID          int64     `json:"id"`
	Description string    `json:"description"`
	RequestorID int64     `json:"requestor_id"`
	Created     time.Time `json:"created"`
}

// ItemRequestDetail is a request together with the items created for it.
type ItemRequestDetail struct {
	ItemRequest
	Items []Item `json:"items"`
}
