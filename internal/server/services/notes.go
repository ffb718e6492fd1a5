package services

import (
	"context"
	"math"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/logging"
	"github.com/dmitrijs2005/gophnotes/internal/server/auth"
	"github.com/dmitrijs2005/gophnotes/internal/server/models"
	"github.com/dmitrijs2005/gophnotes/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// Paging bounds for note listings.
const (
	DefaultPerPage = 10
	MaxPerPage     = 100
)

const noteResource = "note"

// NotePage is one page of a note listing.
type NotePage struct {
	Items   []models.Note
	Page    int
	PerPage int
	Total   int
}

// NoteService is an ownership-checked note store. Admins may act on every
// note; other users only on their own.
type NoteService struct {
	repomanager repomanager.RepositoryManager
	log         logging.Logger
}

func NewNoteService(m repomanager.RepositoryManager, log logging.Logger) *NoteService {
	return &NoteService{repomanager: m, log: log.With("module", "notes")}
}

func (s *NoteService) Create(ctx context.Context, tok *auth.VerifiedToken, title, content string) (*models.Note, error) {
	owner, err := tok.UserID()
	if err != nil {
		return nil, err
	}
	return s.repomanager.Notes().Create(ctx, &models.Note{OwnerID: owner, Title: title, Content: content})
}

// ClampPaging normalises perPage (1..MaxPerPage) and page (1..math.MaxInt/perPage)
// so that the derived offset cannot overflow.
func ClampPaging(page, perPage int) (int, int) {
	perPage = min(max(perPage, 1), MaxPerPage)
	page = min(max(page, 1), math.MaxInt/perPage)
	return page, perPage
}

// List returns notes newest first: every note for admins, own notes for
// everyone else.
func (s *NoteService) List(ctx context.Context, tok *auth.VerifiedToken, page, perPage int) (*NotePage, error) {
	page, perPage = ClampPaging(page, perPage)

	filter := models.NoteFilter{Limit: perPage, Offset: (page - 1) * perPage}
	if !tok.IsAdmin() {
		owner, err := tok.UserID()
		if err != nil {
			return nil, err
		}
		filter.OwnerID = &owner
	}

	items, total, err := s.repomanager.Notes().List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &NotePage{Items: items, Page: page, PerPage: perPage, Total: total}, nil
}

func (s *NoteService) Get(ctx context.Context, tok *auth.VerifiedToken, id uuid.UUID) (*models.Note, error) {
	n, err := s.repomanager.Notes().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := auth.AuthorizeOwner(tok, n.OwnerID, noteResource, n.ID.String()); err != nil {
		return nil, err
	}
	return n, nil
}

// NotePatch produces the requested change. It runs only after the caller's
// access to the note is established, so a bad body never hides a 404 or 403.
type NotePatch func() (models.NoteUpdate, error)

// Fixed wraps an already decoded update.
func Fixed(upd models.NoteUpdate) NotePatch {
	return func() (models.NoteUpdate, error) { return upd, nil }
}

// Update applies a partial update. An empty update is a validation error.
func (s *NoteService) Update(ctx context.Context, tok *auth.VerifiedToken, id uuid.UUID, patch NotePatch) (*models.Note, error) {
	var out *models.Note
	err := s.repomanager.WithinTx(ctx, func(ctx context.Context, repos repomanager.Repositories) error {
		n, err := repos.Notes().Get(ctx, id)
		if err != nil {
			return err
		}
		if err := auth.AuthorizeOwner(tok, n.OwnerID, noteResource, n.ID.String()); err != nil {
			return err
		}
		upd, err := patch()
		if err != nil {
			return err
		}
		if upd.Empty() {
			return common.NewValidationError("body", "no updatable fields provided")
		}
		out, err = repos.Notes().Update(ctx, id, upd)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *NoteService) Delete(ctx context.Context, tok *auth.VerifiedToken, id uuid.UUID) error {
	return s.repomanager.WithinTx(ctx, func(ctx context.Context, repos repomanager.Repositories) error {
		n, err := repos.Notes().Get(ctx, id)
		if err != nil {
			return err
		}
		if err := auth.AuthorizeOwner(tok, n.OwnerID, noteResource, n.ID.String()); err != nil {
			return err
		}
		if err := repos.Notes().Delete(ctx, id); err != nil {
			return err
		}
		s.log.Info(ctx, "note deleted", "note_id", id.String(), "by", tok.Subject)
		return nil
	})
}
