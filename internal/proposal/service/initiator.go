package service

import (
	"context"
	"errors"

	authdomain "github.com/Pet-projects-for-experience/Backend/internal/auth/domain"
	projectdomain "github.com/Pet-projects-for-experience/Backend/internal/project/domain"
	"github.com/Pet-projects-for-experience/Backend/internal/proposal/domain"
	"github.com/Pet-projects-for-experience/Backend/internal/validation"
)

// candidateInitiator covers a specialist asking to join a project.
type candidateInitiator struct {
	svc *Service
}

func (c *candidateInitiator) kind() string { return domain.KindRequest }

func (c *candidateInitiator) validateActor(ctx context.Context, in *createInput) error {
	if in.project.Status != projectdomain.StatusActive {
		return projectdomain.ErrProjectNotFound
	}
	if in.actorID == in.project.CreatorID || in.actorID == in.project.OwnerID {
		return validation.New("already", "already", "you cannot request to join your own project")
	}
	participating, err := c.svc.projectRepo.IsParticipant(ctx, c.svc.db, in.projectID, in.actorID)
	if err != nil {
		return err
	}
	if participating {
		return validation.New("already", "already", "you already participate in this project")
	}
	return nil
}

func (c *candidateInitiator) validatePosition(ctx context.Context, in *createInput) error {
	return nil
}

// ownerInitiator covers a project owner inviting a specialist.
type ownerInitiator struct {
	svc *Service
}

func (o *ownerInitiator) kind() string { return domain.KindInvitation }

func (o *ownerInitiator) validateActor(ctx context.Context, in *createInput) error {
	if in.actorID != in.project.CreatorID && in.actorID != in.project.OwnerID {
		return domain.ErrForbidden
	}
	if in.project.Status != projectdomain.StatusActive {
		return validation.New("position", "position", "only active projects can invite specialists")
	}
	if in.userID == in.project.CreatorID || in.userID == in.project.OwnerID {
		return validation.New("user", "user", "the project owner cannot be invited")
	}

	if _, err := o.svc.authSvc.GetUser(ctx, in.userID); err != nil {
		if errors.Is(err, authdomain.ErrUserNotFound) {
			return validation.New("user", "user", "this user does not exist")
		}
		return err
	}

	participating, err := o.svc.projectRepo.IsParticipant(ctx, o.svc.db, in.projectID, in.userID)
	if err != nil {
		return err
	}
	if participating {
		return validation.New("user", "user", "this user already participates in the project")
	}
	return nil
}

func (o *ownerInitiator) validatePosition(ctx context.Context, in *createInput) error {
	invited, err := o.svc.repo.HasInProgressInvitation(ctx, o.svc.db, in.userID, in.positionID)
	if err != nil {
		return err
	}
	if invited {
		return validation.New("user", "user", "this user already has a pending invitation for the position")
	}

	matches, err := o.svc.profileSvc.HasProfession(ctx, in.userID, in.position.ProfessionID)
	if err != nil {
		return err
	}
	if !matches {
		return validation.New("user", "user", "the user's specialties do not match the position")
	}
	return nil
}
