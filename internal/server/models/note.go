package models

import (
	"time"

	"github.com/google/uuid"
)

type Note struct {
	ID        uuid.UUID `db:"id"`
	OwnerID   uuid.UUID `db:"owner_id"`
	Title     string    `db:"title"`
	Content   string    `db:"content"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type NoteUpdate struct {
	Title   *string
	Content *string
}

func (u NoteUpdate) Empty() bool {
	return u.Title == nil && u.Content == nil
}

// NoteFilter selects a page of notes. A nil OwnerID lists every owner.
type NoteFilter struct {
	OwnerID *uuid.UUID
	Limit   int
	Offset  int
}
