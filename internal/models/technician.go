package models

// Technician holds capability, availability, and load for one field
// technician. CurrentLoad increments on each assignment; Available flips to
// false once CurrentLoad reaches MaxCapacity. There is no automatic recovery:
// re-opening availability is an operational action.
type Technician struct {
	ID          string   `json:"technician_id"`
	Name        string   `json:"name"`
	Skills      []string `json:"skills"`
	Available   bool     `json:"available"`
	CurrentLoad int      `json:"current_load"`
	MaxCapacity int      `json:"max_capacity"`
}
