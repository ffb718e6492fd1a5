package rest

import "github.com/gofiber/fiber/v2"

type healthOut struct {
	Status string `json:"status"`
	Env    string `json:"env"`
	DB     string `json:"db"`
}

// healthz always answers 200; a failed storage ping only flips "db".
func (s *Server) healthz(c *fiber.Ctx) error {
	db := "up"
	if err := s.health.Ping(c.UserContext()); err != nil {
		s.log.Warn(c.UserContext(), "storage ping failed", "error", err.Error())
		db = "down"
	}
	return c.JSON(healthOut{Status: "ok", Env: s.cfg.Env, DB: db})
}
