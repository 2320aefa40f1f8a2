package models

import (
	"fmt"
	"time"
)

var (
	ErrInvalidContactMessage = fmt.Errorf("invalid contact message")
)

type ContactMessage struct {
	ID        uint
	Name      string
	Email     string
	Phone     string
	EventDate string `db:"event_date"`
	Message   string
	CreatedAt time.Time
}
