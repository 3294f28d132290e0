package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) ListProfessions(c *gin.Context) {
	professions, err := s.referenceSv.ListProfessions(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"professions": professions})
}

func (s *Server) ListSkills(c *gin.Context) {
	skills, err := s.referenceSv.ListSkills(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"skills": skills})
}

func (s *Server) ListDirections(c *gin.Context) {
	directions, err := s.referenceSv.ListDirections(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"directions": directions})
}
