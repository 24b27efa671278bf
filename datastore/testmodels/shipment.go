package testmodels

import "github.com/go-openapi/strfmt"

type Shipment struct {

	// Carrier code that owns the shipment.
	// Required: true
	Carrier *string `json:"Carrier"`

	// Timestamp when the shipment entered the system.
	// Required: true
	// Format: date-time
	CreatedAt *strfmt.DateTime `json:"CreatedAt"`

	// Destination postal code.
	Destination string `json:"Destination,omitempty"`

	// Concurrency token managed by the store.
	ETag string `json:"ETag,omitempty"`

	// Current status of the shipment.
	Status string `json:"Status,omitempty"`

	// Unique tracking number within the carrier.
	// Required: true
	TrackingNumber *string `json:"TrackingNumber"`

	// Timestamp when the shipment was last updated.
	// Required: true
	// Format: date-time
	UpdatedAt *strfmt.DateTime `json:"UpdatedAt"`
}
