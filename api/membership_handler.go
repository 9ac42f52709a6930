package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/xraph/forge"

	"github.com/xraph/muster"
	"github.com/xraph/muster/catalog"
	"github.com/xraph/muster/id"
	"github.com/xraph/muster/membership"
	"github.com/xraph/muster/rank"
)

func (a *API) registerMembershipRoutes(router forge.Router) error {
	g := router.Group("/v1", forge.WithGroupTags("memberships"))

	if err := g.POST("/memberships", a.createMembership,
		forge.WithSummary("Create membership"),
		forge.WithDescription("Adds a user to a guild. New members start pending unless created as the guild creator."),
		forge.WithOperationID("createMembership"),
		forge.WithRequestSchema(CreateMembershipRequest{}),
		forge.WithCreatedResponse(&membership.Membership{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.GET("/memberships/:membershipId", a.getMembership,
		forge.WithSummary("Get membership"),
		forge.WithDescription("Returns details of a specific membership."),
		forge.WithOperationID("getMembership"),
		forge.WithResponseSchema(http.StatusOK, "Membership details", &membership.Membership{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.PUT("/memberships/:membershipId", a.updateMembership,
		forge.WithSummary("Update membership"),
		forge.WithDescription("Changes a member's role. Role changes require the members_change_role permission and a strictly higher rank than the target."),
		forge.WithOperationID("updateMembership"),
		forge.WithRequestSchema(UpdateMembershipRequest{}),
		forge.WithResponseSchema(http.StatusOK, "Updated membership", &membership.Membership{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.POST("/memberships/:membershipId/approve", a.approveMembership,
		forge.WithSummary("Approve membership"),
		forge.WithDescription("Approves a pending application, granting the member an active role."),
		forge.WithOperationID("approveMembership"),
		forge.WithRequestSchema(ApproveMembershipRequest{}),
		forge.WithResponseSchema(http.StatusOK, "Approved membership", &membership.Membership{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.DELETE("/memberships/:membershipId", a.deleteMembership,
		forge.WithSummary("Remove membership"),
		forge.WithDescription("Removes a member from the guild. Members may always remove themselves."),
		forge.WithOperationID("deleteMembership"),
		forge.WithNoContentResponse(),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	return g.GET("/memberships", a.listMemberships,
		forge.WithSummary("List memberships"),
		forge.WithDescription("Lists memberships with optional filters."),
		forge.WithOperationID("listMemberships"),
		forge.WithRequestSchema(ListMembershipsRequest{}),
		forge.WithResponseSchema(http.StatusOK, "Membership list", ListResponse[*membership.Membership]{}),
		forge.WithErrorResponses(),
	)
}

func (a *API) createMembership(ctx forge.Context, req *CreateMembershipRequest) (*membership.Membership, error) {
	if req.GuildID == "" {
		return nil, forge.BadRequest("guild_id is required")
	}
	if req.UserID == "" {
		return nil, forge.BadRequest("user_id is required")
	}

	guildID, err := id.ParseGuildID(req.GuildID)
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid guild ID: %v", err))
	}

	role := rank.RolePending
	if req.Role != "" {
		role, err = rank.Parse(req.Role)
		if err != nil {
			return nil, forge.BadRequest(err.Error())
		}
	}
	if req.IsCreator {
		role = rank.RoleAdmin
	}

	now := time.Now().UTC()
	m := &membership.Membership{
		ID:        id.NewMembershipID(),
		AppID:     req.AppID,
		GuildID:   guildID,
		UserID:    req.UserID,
		Role:      role,
		IsCreator: req.IsCreator,
		InvitedBy: req.InvitedBy,
		Metadata:  req.Metadata,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if role != rank.RolePending {
		m.ApprovedAt = &now
	}

	if err := a.eng.Store().CreateMembership(ctx.Context(), m); err != nil {
		return nil, mapError(err)
	}

	if a.eng.Plugins() != nil {
		a.eng.Plugins().EmitMembershipCreated(ctx.Context(), m)
	}

	return m, ctx.JSON(http.StatusCreated, m)
}

func (a *API) getMembership(ctx forge.Context, _ *GetMembershipRequest) (*membership.Membership, error) {
	memID, err := id.ParseMembershipID(ctx.Param("membershipId"))
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid membership ID: %v", err))
	}

	m, err := a.eng.Store().GetMembership(ctx.Context(), memID)
	if err != nil {
		return nil, mapError(err)
	}

	return m, ctx.JSON(http.StatusOK, m)
}

func (a *API) updateMembership(ctx forge.Context, req *UpdateMembershipRequest) (*membership.Membership, error) {
	memID, err := id.ParseMembershipID(ctx.Param("membershipId"))
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid membership ID: %v", err))
	}

	m, err := a.eng.Store().GetMembership(ctx.Context(), memID)
	if err != nil {
		return nil, mapError(err)
	}

	if req.Role != "" && rank.Role(req.Role) != m.Role {
		newRole, err := rank.Parse(req.Role)
		if err != nil {
			return nil, forge.BadRequest(err.Error())
		}
		if req.ActorID == "" {
			return nil, forge.BadRequest("actor_id is required for role changes")
		}

		scoped := muster.WithGuild(ctx.Context(), m.AppID, m.GuildID.String())
		if err := a.eng.Enforce(scoped, &muster.AuthorizeRequest{
			ActorID:       req.ActorID,
			AnyPermission: catalog.MembersChangeRole,
			TargetUserID:  m.UserID,
		}); err != nil {
			return nil, mapError(err)
		}

		// The hierarchy cap bounds the target's current rank; the
		// assigned rank must stay below the actor's as well, or a role
		// change becomes an escalation path.
		actor, err := a.eng.Store().GetMembershipByUser(scoped, m.GuildID, req.ActorID)
		if err != nil {
			return nil, mapError(err)
		}
		if actor != nil && !rank.CanManage(actor.Role, newRole) {
			return nil, forge.Forbidden("cannot assign a role at or above your own")
		}

		m.Role = newRole
		if newRole != rank.RolePending && m.ApprovedAt == nil {
			now := time.Now().UTC()
			m.ApprovedAt = &now
		}
	}
	if req.Metadata != nil {
		m.Metadata = req.Metadata
	}
	m.UpdatedAt = time.Now().UTC()

	if err := a.eng.Store().UpdateMembership(ctx.Context(), m); err != nil {
		return nil, mapError(err)
	}

	a.eng.InvalidateActor(ctx.Context(), m.GuildID, m.UserID)
	if a.eng.Plugins() != nil {
		a.eng.Plugins().EmitMembershipUpdated(ctx.Context(), m)
	}

	return m, ctx.JSON(http.StatusOK, m)
}

func (a *API) approveMembership(ctx forge.Context, req *ApproveMembershipRequest) (*membership.Membership, error) {
	memID, err := id.ParseMembershipID(ctx.Param("membershipId"))
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid membership ID: %v", err))
	}
	if req.ActorID == "" {
		return nil, forge.BadRequest("actor_id is required")
	}

	m, err := a.eng.Store().GetMembership(ctx.Context(), memID)
	if err != nil {
		return nil, mapError(err)
	}

	role := rank.RoleTrial
	if req.Role != "" {
		role, err = rank.Parse(req.Role)
		if err != nil {
			return nil, forge.BadRequest(err.Error())
		}
	}
	if role == rank.RolePending {
		return nil, forge.BadRequest("cannot approve into the pending role")
	}

	scoped := muster.WithGuild(ctx.Context(), m.AppID, m.GuildID.String())
	if err := a.eng.Enforce(scoped, &muster.AuthorizeRequest{
		ActorID:       req.ActorID,
		AnyPermission: catalog.MembersApprove,
		TargetUserID:  m.UserID,
	}); err != nil {
		return nil, mapError(err)
	}

	now := time.Now().UTC()
	m.Role = role
	m.ApprovedAt = &now
	m.UpdatedAt = now

	if err := a.eng.Store().UpdateMembership(ctx.Context(), m); err != nil {
		return nil, mapError(err)
	}

	a.eng.InvalidateActor(ctx.Context(), m.GuildID, m.UserID)
	if a.eng.Plugins() != nil {
		a.eng.Plugins().EmitMembershipUpdated(ctx.Context(), m)
	}

	return m, ctx.JSON(http.StatusOK, m)
}

func (a *API) deleteMembership(ctx forge.Context, req *DeleteMembershipRequest) (*struct{}, error) {
	memID, err := id.ParseMembershipID(ctx.Param("membershipId"))
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid membership ID: %v", err))
	}

	m, err := a.eng.Store().GetMembership(ctx.Context(), memID)
	if err != nil {
		return nil, mapError(err)
	}

	// Leaving the guild is always allowed; removing someone else goes
	// through the gate and the hierarchy cap.
	if req.ActorID != m.UserID {
		if req.ActorID == "" {
			return nil, forge.BadRequest("actor_id is required")
		}
		scoped := muster.WithGuild(ctx.Context(), m.AppID, m.GuildID.String())
		if err := a.eng.Enforce(scoped, &muster.AuthorizeRequest{
			ActorID:       req.ActorID,
			AnyPermission: catalog.MembersRemove,
			TargetUserID:  m.UserID,
		}); err != nil {
			return nil, mapError(err)
		}
	}

	if err := a.eng.Store().DeleteMembership(ctx.Context(), memID); err != nil {
		return nil, mapError(err)
	}

	a.eng.InvalidateActor(ctx.Context(), m.GuildID, m.UserID)
	if a.eng.Plugins() != nil {
		a.eng.Plugins().EmitMembershipDeleted(ctx.Context(), memID)
	}

	return nil, ctx.NoContent(http.StatusNoContent)
}

func (a *API) listMemberships(ctx forge.Context, req *ListMembershipsRequest) (*ListResponse[*membership.Membership], error) {
	filter := &membership.ListFilter{
		UserID: req.UserID,
		Role:   rank.Role(req.Role),
		Limit:  defaultLimit(req.Limit),
		Offset: req.Offset,
	}

	if req.GuildID != "" {
		guildID, err := id.ParseGuildID(req.GuildID)
		if err != nil {
			return nil, forge.BadRequest(fmt.Sprintf("invalid guild ID: %v", err))
		}
		filter.GuildID = &guildID
	}
	if req.Approved != "" {
		approved := req.Approved == "true"
		filter.Approved = &approved
	}

	items, err := a.eng.Store().ListMemberships(ctx.Context(), filter)
	if err != nil {
		return nil, mapError(err)
	}
	total, err := a.eng.Store().CountMemberships(ctx.Context(), filter)
	if err != nil {
		return nil, mapError(err)
	}

	resp := &ListResponse[*membership.Membership]{
		Items:  items,
		Total:  total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}
	return resp, ctx.JSON(http.StatusOK, resp)
}
