package server

import (
	"net/http"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"

	profiledomain "github.com/Pet-projects-for-experience/Backend/internal/profile/domain"
)

type specialistPayload struct {
	ProfessionID snowflake.ID   `json:"profession"`
	Level        *int16         `json:"level"`
	SkillIDs     []snowflake.ID `json:"skills"`
}

type updateProfilePayload struct {
	Name               *string             `json:"name"`
	About              *string             `json:"about"`
	PortfolioLink      *string             `json:"portfolio_link"`
	Country            *string             `json:"country"`
	City               *string             `json:"city"`
	Birthday           *dateValue          `json:"birthday"`
	ReadyToParticipate *bool               `json:"ready_to_participate"`
	Specialists        []specialistPayload `json:"specialists"`
}

func (s *Server) GetProfile(c *gin.Context) {
	profile, err := s.profileSvc.Get(c.Request.Context(), actorID(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (s *Server) UpdateProfile(c *gin.Context) {
	var payload updateProfilePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	req := profiledomain.UpdateProfileRequest{
		Name:               payload.Name,
		About:              payload.About,
		PortfolioLink:      payload.PortfolioLink,
		Country:            payload.Country,
		City:               payload.City,
		ReadyToParticipate: payload.ReadyToParticipate,
	}
	if payload.Birthday != nil {
		birthday := payload.Birthday.Time
		req.Birthday = &birthday
	}
	for _, spec := range payload.Specialists {
		req.Specialists = append(req.Specialists, profiledomain.SpecialistSpec{
			ProfessionID: spec.ProfessionID,
			Level:        spec.Level,
			SkillIDs:     spec.SkillIDs,
		})
	}

	profile, err := s.profileSvc.Update(c.Request.Context(), actorID(c), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}
