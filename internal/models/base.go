package models

import (
	"github.com/google/uuid"
)

type IBase interface {
	GenIDIfEmpty()
	GenID()
	SetID(id string)
}

// Base carries the string _id shared by all stored records. IDs are UUIDs;
// they are opaque to the API and never shown to end users (document numbers
// are the human-facing identifier).
type Base struct {
	ID string `bson:"_id,omitempty" json:"id,omitempty"`
}

func (m *Base) GenIDIfEmpty() {
	if m.ID == "" {
		m.GenID()
	}
}

func (m *Base) GenID() {
	m.ID = uuid.NewString()
}

func (m *Base) SetID(id string) {
	m.ID = id
}

func NewBase() Base {
	return Base{
		ID: uuid.NewString(),
	}
}
