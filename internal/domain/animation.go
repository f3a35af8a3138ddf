package domain

import (
	"encoding/json"
	"time"
)

// Animation is a stored animation document. Data is kept opaque.
type Animation struct {
	ID          int64
	Name        string
	Description string
	Data        json.RawMessage
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
