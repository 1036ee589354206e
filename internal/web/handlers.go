package web

import (
	"github.com/gofiber/fiber/v2"

	"github.com/joshsymonds/hitautotrack/internal/inbox"
)

const invalidCredentials = "Invalid credentials"

type loginView struct {
	Error    string
	Username string
}

type dashboardView struct {
	Query  string
	Emails []inbox.Record
}

func (s *Server) healthz(c *fiber.Ctx) error {
	return c.SendString("ok")
}

func (s *Server) index(c *fiber.Ctx) error {
	if !s.gate.Authorized(c) {
		return c.Redirect("/login")
	}
	return c.Redirect("/dashboard")
}

func (s *Server) loginForm(c *fiber.Ctx) error {
	return s.render(c, "login", fiber.StatusOK, loginView{})
}

func (s *Server) login(c *fiber.Ctx) error {
	username := c.FormValue("username")
	password := c.FormValue("password")
	if !s.auth.Check(username, password) {
		s.logger.WarnContext(c.UserContext(), "login rejected", "ip", c.IP())
		return s.render(c, "login", fiber.StatusOK, loginView{Error: invalidCredentials, Username: username})
	}
	if err := s.gate.Login(c); err != nil {
		return err
	}
	s.logger.InfoContext(c.UserContext(), "operator logged in", "ip", c.IP())
	return c.Redirect("/dashboard")
}

func (s *Server) logout(c *fiber.Ctx) error {
	if err := s.gate.Logout(c); err != nil {
		return err
	}
	return c.Redirect("/login")
}

func (s *Server) dashboard(c *fiber.Ctx) error {
	if !s.gate.Authorized(c) {
		return c.Redirect("/login")
	}
	records, err := s.mail.Aggregate(c.UserContext(), s.query, s.maxResults)
	if err != nil {
		return err
	}
	return s.render(c, "dashboard", fiber.StatusOK, dashboardView{Query: s.query, Emails: records})
}
