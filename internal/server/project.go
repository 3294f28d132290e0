package server

import (
	"net/http"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"

	projectdomain "github.com/Pet-projects-for-experience/Backend/internal/project/domain"
	"github.com/Pet-projects-for-experience/Backend/pkg/db/pagination"
)

type slotPayload struct {
	ProfessionID snowflake.ID   `json:"profession"`
	Level        int16          `json:"level"`
	Count        int16          `json:"count"`
	IsRequired   bool           `json:"is_required"`
	SkillIDs     []snowflake.ID `json:"skills"`
}

type writeProjectPayload struct {
	Name            string         `json:"name"`
	Description     *string        `json:"description"`
	Started         *dateValue     `json:"started"`
	Ended           *dateValue     `json:"ended"`
	Busyness        *int16         `json:"busyness"`
	Status          *int16         `json:"status"`
	DirectionIDs    []snowflake.ID `json:"directions"`
	Link            *string        `json:"link"`
	Phone           *string        `json:"phone_number"`
	Telegram        *string        `json:"telegram_nick"`
	Email           *string        `json:"email"`
	RecruitmentOpen *bool          `json:"recruitment_open"`
	Specialists     []slotPayload  `json:"project_specialists"`
}

func (p writeProjectPayload) toRequest() projectdomain.WriteProjectRequest {
	req := projectdomain.WriteProjectRequest{
		Name:            p.Name,
		Description:     p.Description,
		Busyness:        p.Busyness,
		Status:          p.Status,
		DirectionIDs:    p.DirectionIDs,
		Link:            p.Link,
		Phone:           p.Phone,
		Telegram:        p.Telegram,
		Email:           p.Email,
		RecruitmentOpen: p.RecruitmentOpen,
	}
	if p.Started != nil {
		started := p.Started.Time
		req.Started = &started
	}
	if p.Ended != nil {
		ended := p.Ended.Time
		req.Ended = &ended
	}
	for _, slot := range p.Specialists {
		req.Specialists = append(req.Specialists, projectdomain.SlotSpec{
			ProfessionID: slot.ProfessionID,
			Level:        slot.Level,
			Count:        slot.Count,
			IsRequired:   slot.IsRequired,
			SkillIDs:     slot.SkillIDs,
		})
	}
	return req
}

// projectView decorates the stored project with its derived recruitment
// status.
type projectView struct {
	projectdomain.Project
	RecruitmentStatus string `json:"recruitment_status"`
}

func newProjectView(project projectdomain.Project) projectView {
	return projectView{
		Project:           project,
		RecruitmentStatus: project.RecruitmentStatus(),
	}
}

func newProjectViews(projects []projectdomain.Project) []projectView {
	views := make([]projectView, 0, len(projects))
	for _, project := range projects {
		views = append(views, newProjectView(project))
	}
	return views
}

type projectListResponse struct {
	pagination.OffsetPageInfo
	Projects []projectView `json:"projects"`
}

func (s *Server) CreateProject(c *gin.Context) {
	s.createProject(c, false)
}

func (s *Server) CreateDraft(c *gin.Context) {
	s.createProject(c, true)
}

func (s *Server) createProject(c *gin.Context, draft bool) {
	var payload writeProjectPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	create := s.projectSvc.Create
	if draft {
		create = s.projectSvc.CreateDraft
	}

	project, err := create(c.Request.Context(), actorID(c), payload.toRequest())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newProjectView(*project))
}

func (s *Server) UpdateProject(c *gin.Context) {
	s.updateProject(c, false)
}

func (s *Server) UpdateDraft(c *gin.Context) {
	s.updateProject(c, true)
}

func (s *Server) updateProject(c *gin.Context, draft bool) {
	projectID, ok := parsePathID(c, "id")
	if !ok {
		AbortWithError(c, projectdomain.ErrProjectNotFound)
		return
	}

	var payload writeProjectPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	update := s.projectSvc.Update
	if draft {
		update = s.projectSvc.UpdateDraft
	}

	project, err := update(c.Request.Context(), actorID(c), projectID, payload.toRequest())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, newProjectView(*project))
}

func (s *Server) GetProject(c *gin.Context) {
	projectID, ok := parsePathID(c, "id")
	if !ok {
		AbortWithError(c, projectdomain.ErrProjectNotFound)
		return
	}

	project, err := s.projectSvc.Get(c.Request.Context(), actorID(c), projectID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, newProjectView(*project))
}

// GetDraft reuses the visibility-checked read; drafts resolve only for
// their owner.
func (s *Server) GetDraft(c *gin.Context) {
	projectID, ok := parsePathID(c, "id")
	if !ok {
		AbortWithError(c, projectdomain.ErrProjectNotFound)
		return
	}

	project, err := s.projectSvc.Get(c.Request.Context(), actorID(c), projectID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if project.Status != projectdomain.StatusDraft {
		AbortWithError(c, projectdomain.ErrProjectNotFound)
		return
	}
	c.JSON(http.StatusOK, newProjectView(*project))
}

func (s *Server) DeleteProject(c *gin.Context) {
	projectID, ok := parsePathID(c, "id")
	if !ok {
		AbortWithError(c, projectdomain.ErrProjectNotFound)
		return
	}

	if err := s.projectSvc.Delete(c.Request.Context(), actorID(c), projectID); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) ListProjects(c *gin.Context) {
	req, ok := buildListProjectsRequest(c)
	if !ok {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.projectSvc.List(c.Request.Context(), actorID(c), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, projectListResponse{
		OffsetPageInfo: resp.OffsetPageInfo,
		Projects:       newProjectViews(resp.Projects),
	})
}

func buildListProjectsRequest(c *gin.Context) (projectdomain.ListProjectsRequest, bool) {
	var req projectdomain.ListProjectsRequest
	var ok bool

	if req.Statuses, ok = queryInt16List(c, "status"); !ok {
		return req, false
	}
	if req.Busyness, ok = queryInt16List(c, "busyness"); !ok {
		return req, false
	}
	if req.Levels, ok = queryInt16List(c, "level"); !ok {
		return req, false
	}
	if req.ProfessionIDs, ok = queryIDList(c, "profession"); !ok {
		return req, false
	}
	if req.SkillIDs, ok = queryIDList(c, "skill"); !ok {
		return req, false
	}
	if req.DirectionIDs, ok = queryIDList(c, "directions"); !ok {
		return req, false
	}
	if req.RecruitmentStatus, ok = queryInt(c, "recruitment_status"); !ok {
		return req, false
	}
	if req.ProjectRole, ok = queryInt(c, "project_role"); !ok {
		return req, false
	}
	req.Search = c.Query("search")
	req.FavoritesOnly = queryBool(c, "favorites")
	req.Page = bindOffsetPage(c)
	return req, true
}

func bindOffsetPage(c *gin.Context) pagination.Offset {
	var page pagination.Offset
	if v, ok := queryInt(c, "page"); ok && v != nil {
		page.Page = *v
	}
	if v, ok := queryInt(c, "page_size"); ok && v != nil {
		page.PageSize = *v
	}
	return page
}

func (s *Server) ListDrafts(c *gin.Context) {
	resp, err := s.projectSvc.ListDrafts(c.Request.Context(), actorID(c), bindOffsetPage(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, projectListResponse{
		OffsetPageInfo: resp.OffsetPageInfo,
		Projects:       newProjectViews(resp.Projects),
	})
}

func (s *Server) PreviewMain(c *gin.Context) {
	resp, err := s.projectSvc.PreviewMain(c.Request.Context(), bindOffsetPage(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, projectListResponse{
		OffsetPageInfo: resp.OffsetPageInfo,
		Projects:       newProjectViews(resp.Projects),
	})
}

func (s *Server) AddFavorite(c *gin.Context) {
	projectID, ok := parsePathID(c, "id")
	if !ok {
		AbortWithError(c, projectdomain.ErrProjectNotFound)
		return
	}

	if err := s.projectSvc.AddFavorite(c.Request.Context(), actorID(c), projectID); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "ok"})
}

func (s *Server) RemoveFavorite(c *gin.Context) {
	projectID, ok := parsePathID(c, "id")
	if !ok {
		AbortWithError(c, projectdomain.ErrProjectNotFound)
		return
	}

	if err := s.projectSvc.RemoveFavorite(c.Request.Context(), actorID(c), projectID); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) ExcludeParticipant(c *gin.Context) {
	projectID, ok := parsePathID(c, "id")
	if !ok {
		AbortWithError(c, projectdomain.ErrProjectNotFound)
		return
	}
	participantID, ok := parsePathID(c, "participant_id")
	if !ok {
		AbortWithError(c, projectdomain.ErrParticipantNotFound)
		return
	}

	if err := s.projectSvc.ExcludeParticipant(c.Request.Context(), actorID(c), projectID, participantID); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) ListParticipants(c *gin.Context) {
	projectID, ok := parsePathID(c, "id")
	if !ok {
		AbortWithError(c, projectdomain.ErrProjectNotFound)
		return
	}

	participants, err := s.projectSvc.ListParticipants(c.Request.Context(), actorID(c), projectID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"participants": participants})
}
