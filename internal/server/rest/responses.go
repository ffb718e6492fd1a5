package rest

import (
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/server/models"
	"github.com/dmitrijs2005/gophnotes/internal/server/services"
)

type meOut struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func toMeOut(u *models.User) meOut {
	return meOut{
		ID:        u.ID.String(),
		Email:     u.Email,
		Role:      string(u.Role),
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

type userOut struct {
	meOut
	UpdatedAt time.Time `json:"updated_at"`
}

func toUserOut(u *models.User) userOut {
	return userOut{meOut: toMeOut(u), UpdatedAt: u.UpdatedAt}
}

type noteOut struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	OwnerID   string    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toNoteOut(n *models.Note) noteOut {
	return noteOut{
		ID:        n.ID.String(),
		Title:     n.Title,
		Content:   n.Content,
		OwnerID:   n.OwnerID.String(),
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}

type pageMeta struct {
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
	Total   int `json:"total"`
}

type listResponse[T any] struct {
	Status string    `json:"status"`
	Data   []T       `json:"data"`
	Meta   *pageMeta `json:"meta,omitempty"`
}

func toNoteList(p *services.NotePage) listResponse[noteOut] {
	data := make([]noteOut, 0, len(p.Items))
	for i := range p.Items {
		data = append(data, toNoteOut(&p.Items[i]))
	}
	return listResponse[noteOut]{
		Status: "success",
		Data:   data,
		Meta:   &pageMeta{Page: p.Page, PerPage: p.PerPage, Total: p.Total},
	}
}

func toUserList(users []models.User) listResponse[userOut] {
	data := make([]userOut, 0, len(users))
	for i := range users {
		data = append(data, toUserOut(&users[i]))
	}
	return listResponse[userOut]{Status: "success", Data: data}
}

type statusMessage struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
