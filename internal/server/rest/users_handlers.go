package rest

import (
	"errors"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func userNotFound(id string) *apiError {
	return notFound("User not found.", fiber.Map{"user_id": id})
}

func (s *Server) listUsers(c *fiber.Ctx) error {
	users, err := s.users.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(toUserList(users))
}

func (s *Server) updateUser(c *fiber.Ctx) error {
	raw := c.Params("id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return userNotFound(raw)
	}

	var p userPatchPayload
	if err := bind(c, &p); err != nil {
		return err
	}

	u, err := s.users.Update(c.UserContext(), id, p.update())
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return userNotFound(raw)
		}
		return err
	}
	return c.JSON(toUserOut(u))
}
