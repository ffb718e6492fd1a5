package rest

import (
	"errors"
	"strconv"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/server/models"
	"github.com/dmitrijs2005/gophnotes/internal/server/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func noteNotFound(id string) *apiError {
	return notFound("Note not found.", fiber.Map{"note_id": id})
}

// noteID parses the :id parameter. Anything that is not a UUID cannot name
// a note, so it is reported as missing.
func noteID(c *fiber.Ctx) (uuid.UUID, error) {
	raw := c.Params("id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, noteNotFound(raw)
	}
	return id, nil
}

func mapNoteError(err error, id uuid.UUID) error {
	if errors.Is(err, common.ErrorNotFound) {
		return noteNotFound(id.String())
	}
	return err
}

func queryInt(c *fiber.Ctx, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, common.NewValidationError(key, "must be an integer")
	}
	return v, nil
}

func (s *Server) createNote(c *fiber.Ctx) error {
	tok, err := verifiedToken(c)
	if err != nil {
		return err
	}

	var p noteCreatePayload
	if err := bind(c, &p); err != nil {
		return err
	}

	n, err := s.notes.Create(c.UserContext(), tok, p.Title, p.Content)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(toNoteOut(n))
}

func (s *Server) listNotes(c *fiber.Ctx) error {
	tok, err := verifiedToken(c)
	if err != nil {
		return err
	}

	page, err := queryInt(c, "page", 1)
	if err != nil {
		return err
	}
	perPage, err := queryInt(c, "per_page", services.DefaultPerPage)
	if err != nil {
		return err
	}

	result, err := s.notes.List(c.UserContext(), tok, page, perPage)
	if err != nil {
		return err
	}
	return c.JSON(toNoteList(result))
}

func (s *Server) getNote(c *fiber.Ctx) error {
	tok, err := verifiedToken(c)
	if err != nil {
		return err
	}
	id, err := noteID(c)
	if err != nil {
		return err
	}

	n, err := s.notes.Get(c.UserContext(), tok, id)
	if err != nil {
		return mapNoteError(err, id)
	}
	return c.JSON(toNoteOut(n))
}

func (s *Server) updateNote(c *fiber.Ctx) error {
	tok, err := verifiedToken(c)
	if err != nil {
		return err
	}
	id, err := noteID(c)
	if err != nil {
		return err
	}

	patch := func() (models.NoteUpdate, error) {
		var p notePatchPayload
		if err := bind(c, &p); err != nil {
			return models.NoteUpdate{}, err
		}
		return p.update(), nil
	}

	n, err := s.notes.Update(c.UserContext(), tok, id, patch)
	if err != nil {
		return mapNoteError(err, id)
	}
	return c.JSON(toNoteOut(n))
}

func (s *Server) deleteNote(c *fiber.Ctx) error {
	tok, err := verifiedToken(c)
	if err != nil {
		return err
	}
	id, err := noteID(c)
	if err != nil {
		return err
	}

	if err := s.notes.Delete(c.UserContext(), tok, id); err != nil {
		return mapNoteError(err, id)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
