package rest

import (
	"errors"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/gofiber/fiber/v2"
)

func (s *Server) register(c *fiber.Ctx) error {
	var p registerPayload
	if err := bind(c, &p); err != nil {
		return err
	}

	pair, _, err := s.sessions.Register(c.UserContext(), p.Email, p.Password)
	if err != nil {
		if errors.Is(err, common.ErrConflict) {
			return conflictEmail(p.Email)
		}
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(pair)
}

func (s *Server) login(c *fiber.Ctx) error {
	var p loginPayload
	if err := bind(c, &p); err != nil {
		return err
	}

	pair, err := s.sessions.Login(c.UserContext(), p.Email, p.Password)
	if err != nil {
		return err
	}
	return c.JSON(pair)
}

func (s *Server) refresh(c *fiber.Ctx) error {
	raw, err := bearerToken(c)
	if err != nil {
		return err
	}

	pair, err := s.sessions.Refresh(c.UserContext(), raw)
	if err != nil {
		return err
	}
	return c.JSON(pair)
}

func (s *Server) me(c *fiber.Ctx) error {
	tok, err := verifiedToken(c)
	if err != nil {
		return err
	}

	user, err := s.sessions.Me(c.UserContext(), tok)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return notFound("User not found.", nil)
		}
		return err
	}
	return c.JSON(toMeOut(user))
}

func (s *Server) logout(c *fiber.Ctx) error {
	raw, err := bearerToken(c)
	if err != nil {
		return err
	}

	typ, err := s.sessions.Logout(c.UserContext(), raw)
	if err != nil {
		return err
	}
	return c.JSON(statusMessage{Status: "success", Message: string(typ) + " token revoked"})
}
