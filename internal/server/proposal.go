package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"

	proposaldomain "github.com/Pet-projects-for-experience/Backend/internal/proposal/domain"
	"github.com/Pet-projects-for-experience/Backend/internal/validation"
)

type createRequestPayload struct {
	ProjectID   snowflake.ID `json:"project"`
	PositionID  snowflake.ID `json:"position"`
	CoverLetter string       `json:"cover_letter"`
}

type createInvitationPayload struct {
	ProjectID   snowflake.ID `json:"project"`
	PositionID  snowflake.ID `json:"position"`
	UserID      snowflake.ID `json:"user"`
	CoverLetter string       `json:"cover_letter"`
}

// proposalView renders the status label instead of its stored value.
type proposalView struct {
	proposaldomain.Proposal
	Status string `json:"status"`
}

func newProposalView(proposal proposaldomain.Proposal) proposalView {
	return proposalView{
		Proposal: proposal,
		Status:   proposaldomain.StatusLabel(proposal.Status),
	}
}

func (s *Server) CreateRequest(c *gin.Context) {
	var payload createRequestPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	proposal, err := s.proposalSvc.CreateRequest(c.Request.Context(), actorID(c), proposaldomain.CreateRequestInput{
		ProjectID:   payload.ProjectID,
		PositionID:  payload.PositionID,
		CoverLetter: payload.CoverLetter,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newProposalView(*proposal))
}

func (s *Server) CreateInvitation(c *gin.Context) {
	var payload createInvitationPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	proposal, err := s.proposalSvc.CreateInvitation(c.Request.Context(), actorID(c), proposaldomain.CreateInvitationInput{
		ProjectID:   payload.ProjectID,
		PositionID:  payload.PositionID,
		UserID:      payload.UserID,
		CoverLetter: payload.CoverLetter,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newProposalView(*proposal))
}

func (s *Server) GetRequest(c *gin.Context) {
	s.getProposal(c, proposaldomain.KindRequest)
}

func (s *Server) GetInvitation(c *gin.Context) {
	s.getProposal(c, proposaldomain.KindInvitation)
}

func (s *Server) getProposal(c *gin.Context, kind string) {
	proposalID, ok := parsePathID(c, "id")
	if !ok {
		AbortWithError(c, proposaldomain.ErrProposalNotFound)
		return
	}

	proposal, err := s.proposalSvc.Get(c.Request.Context(), actorID(c), proposalID, kind)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	// Viewed marking is a discrete step after the fetch.
	if err := s.proposalSvc.MarkViewed(c.Request.Context(), actorID(c), proposalID, kind); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, newProposalView(*proposal))
}

func (s *Server) AnswerRequest(c *gin.Context) {
	s.answerProposal(c, proposaldomain.KindRequest)
}

func (s *Server) AnswerInvitation(c *gin.Context) {
	s.answerProposal(c, proposaldomain.KindInvitation)
}

func (s *Server) answerProposal(c *gin.Context, kind string) {
	proposalID, ok := parsePathID(c, "id")
	if !ok {
		AbortWithError(c, proposaldomain.ErrProposalNotFound)
		return
	}

	input, ok := bindAnswerInput(c)
	if !ok {
		AbortWithError(c, invalidRequestError())
		return
	}

	proposal, err := s.proposalSvc.Answer(c.Request.Context(), actorID(c), proposalID, kind, input)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, newProposalView(*proposal))
}

func bindAnswerInput(c *gin.Context) (proposaldomain.AnswerInput, bool) {
	var input proposaldomain.AnswerInput

	var raw map[string]json.RawMessage
	if err := c.ShouldBindJSON(&raw); err != nil {
		return input, false
	}

	for key := range raw {
		if key != "status" && key != "answer" {
			input.ExtraFields = true
		}
	}

	statusRaw, ok := raw["status"]
	if !ok {
		return input, false
	}
	var label string
	if err := json.Unmarshal(statusRaw, &label); err != nil {
		return input, false
	}
	status, known := proposaldomain.StatusFromLabel(label)
	if known {
		input.Status = status
	}

	if answerRaw, ok := raw["answer"]; ok {
		var answer string
		if err := json.Unmarshal(answerRaw, &answer); err != nil {
			return input, false
		}
		input.Answer = &answer
	}

	return input, true
}

func (s *Server) ListRequests(c *gin.Context) {
	s.listProposals(c, proposaldomain.KindRequest)
}

func (s *Server) ListInvitations(c *gin.Context) {
	s.listProposals(c, proposaldomain.KindInvitation)
}

func (s *Server) listProposals(c *gin.Context, kind string) {
	box := strings.TrimSpace(c.Query("box"))
	switch box {
	case "":
		box = proposaldomain.BoxInbox
	case proposaldomain.BoxInbox, proposaldomain.BoxOutbox:
	default:
		AbortWithError(c, validation.New("box", "invalid", "box must be inbox or outbox"))
		return
	}

	var pageSize int32
	if v, ok := queryInt(c, "page_size"); ok && v != nil {
		pageSize = int32(*v)
	}

	resp, err := s.proposalSvc.List(c.Request.Context(), actorID(c), proposaldomain.ListProposalsRequest{
		Kind:      kind,
		Box:       box,
		PageToken: c.Query("page_token"),
		PageSize:  pageSize,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	views := make([]proposalView, 0, len(resp.Proposals))
	for _, proposal := range resp.Proposals {
		views = append(views, newProposalView(proposal))
	}
	c.JSON(http.StatusOK, gin.H{
		"proposals":       views,
		"next_page_token": resp.PageInfo.NextPageToken,
		"has_more":        resp.PageInfo.HasMore,
	})
}
