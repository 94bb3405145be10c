package model

import (
	"strings"
	"time"
)

// Status is the closed set of appointment states the booking API reports.
type Status string

const (
	StatusAccepted  Status = "accepted"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
	StatusScheduled Status = "scheduled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusAccepted, StatusCancelled, StatusCompleted, StatusScheduled:
		return true
	}
	return false
}

type Service struct {
	ID    string
	Title string
	Price float64
}

type Address struct {
	State    string
	Area     string
	District string
	Landmark string
}

// Customer is the booking contact. Phone is the only field the booking API
// guarantees; names and email may be absent.
type Customer struct {
	FirstName string
	LastName  string
	Phone     string
	Email     string
}

type Appointment struct {
	ID        string
	Status    Status
	CreatedAt time.Time
	Service   Service
	Address   Address
	BookedBy  Customer
}

// CustomerName joins first and last name with interior whitespace collapsed.
// It returns "" when neither part is set; use DisplayName for UI output.
func (a Appointment) CustomerName() string {
	joined := strings.Join(strings.Fields(a.BookedBy.FirstName+" "+a.BookedBy.LastName), " ")
	return joined
}

// DisplayName is CustomerName with an "N/A" placeholder for nameless bookings.
func (a Appointment) DisplayName() string {
	if name := a.CustomerName(); name != "" {
		return name
	}
	return "N/A"
}
