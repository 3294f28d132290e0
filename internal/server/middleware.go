package server

import (
	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"

	authdomain "github.com/Pet-projects-for-experience/Backend/internal/auth/domain"
)

const contextUserKey = "auth.user"

// AuthRequired resolves the session cookie to a user and aborts with 401
// when no valid session is present.
func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := s.resolveUser(c)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		c.Set(contextUserKey, user)
		c.Next()
	}
}

// OptionalAuth resolves the session when present and continues anonymous
// otherwise. Listing endpoints use it for visibility decisions.
func (s *Server) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if user, err := s.resolveUser(c); err == nil {
			c.Set(contextUserKey, user)
		}
		c.Next()
	}
}

func (s *Server) resolveUser(c *gin.Context) (*authdomain.User, error) {
	token, ok := s.sessions.ReadToken(c)
	if !ok {
		return nil, ErrUnauthorized
	}

	session, err := s.authsvc.Authenticate(c.Request.Context(), token)
	if err != nil {
		return nil, err
	}
	return s.authsvc.GetUser(c.Request.Context(), session.UserID)
}

func currentUser(c *gin.Context) *authdomain.User {
	v, ok := c.Get(contextUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*authdomain.User)
	return user
}

// actorID returns the authenticated user's id, zero when anonymous.
func actorID(c *gin.Context) snowflake.ID {
	if user := currentUser(c); user != nil {
		return user.ID
	}
	return 0
}
