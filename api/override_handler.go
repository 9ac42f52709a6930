package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/xraph/forge"

	"github.com/xraph/muster"
	"github.com/xraph/muster/catalog"
	"github.com/xraph/muster/id"
	"github.com/xraph/muster/override"
	"github.com/xraph/muster/rank"
)

func (a *API) registerOverrideRoutes(router forge.Router) error {
	g := router.Group("/v1/guilds/:guildId/overrides", forge.WithGroupTags("overrides"))

	if err := g.GET("", a.listOverrides,
		forge.WithSummary("List overrides"),
		forge.WithDescription("Lists the guild's override patches, one per customized role."),
		forge.WithOperationID("listOverrides"),
		forge.WithRequestSchema(ListOverridesRequest{}),
		forge.WithResponseSchema(http.StatusOK, "Override list", []*override.Override{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.GET("/:role", a.getOverride,
		forge.WithSummary("Get override"),
		forge.WithDescription("Returns the override patch for one role. Absent patches read as empty."),
		forge.WithOperationID("getOverride"),
		forge.WithResponseSchema(http.StatusOK, "Override patch", OverrideGrantsResponse{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.PUT("/:role", a.setOverride,
		forge.WithSummary("Set override"),
		forge.WithDescription("Creates or replaces the override patch for one role. Requires guild_overrides_manage."),
		forge.WithOperationID("setOverride"),
		forge.WithRequestSchema(SetOverrideRequest{}),
		forge.WithResponseSchema(http.StatusOK, "Stored override", &override.Override{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	return g.DELETE("/:role", a.deleteOverride,
		forge.WithSummary("Delete override"),
		forge.WithDescription("Removes the override patch for one role, restoring catalog defaults."),
		forge.WithOperationID("deleteOverride"),
		forge.WithNoContentResponse(),
		forge.WithErrorResponses(),
	)
}

func (a *API) listOverrides(ctx forge.Context, req *ListOverridesRequest) ([]*override.Override, error) {
	guildID, err := id.ParseGuildID(ctx.Param("guildId"))
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid guild ID: %v", err))
	}

	filter := &override.ListFilter{
		GuildID: &guildID,
		Limit:   defaultLimit(req.Limit),
		Offset:  req.Offset,
	}

	overrides, err := a.eng.Store().ListOverrides(ctx.Context(), filter)
	if err != nil {
		return nil, mapError(err)
	}

	return overrides, ctx.JSON(http.StatusOK, overrides)
}

func (a *API) getOverride(ctx forge.Context, _ *OverrideRoleRequest) (*OverrideGrantsResponse, error) {
	guildID, err := id.ParseGuildID(ctx.Param("guildId"))
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid guild ID: %v", err))
	}
	role, err := rank.Parse(ctx.Param("role"))
	if err != nil {
		return nil, forge.BadRequest(err.Error())
	}

	grants, err := a.eng.Store().GetOverrides(ctx.Context(), guildID, role)
	if err != nil {
		return nil, mapError(err)
	}
	if grants == nil {
		grants = catalog.Overrides{}
	}

	resp := &OverrideGrantsResponse{
		GuildID: guildID.String(),
		Role:    role.String(),
		Grants:  grants,
	}
	return resp, ctx.JSON(http.StatusOK, resp)
}

func (a *API) setOverride(ctx forge.Context, req *SetOverrideRequest) (*override.Override, error) {
	guildID, err := id.ParseGuildID(ctx.Param("guildId"))
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid guild ID: %v", err))
	}
	role, err := rank.Parse(ctx.Param("role"))
	if err != nil {
		return nil, forge.BadRequest(err.Error())
	}
	if req.ActorID == "" {
		return nil, forge.BadRequest("actor_id is required")
	}

	scoped := muster.WithGuild(ctx.Context(), req.AppID, guildID.String())
	if err := a.eng.Enforce(scoped, &muster.AuthorizeRequest{
		ActorID:       req.ActorID,
		AnyPermission: catalog.GuildOverridesManage,
	}); err != nil {
		return nil, mapError(err)
	}

	now := time.Now().UTC()
	o := &override.Override{
		ID:        id.NewOverrideID(),
		AppID:     req.AppID,
		GuildID:   guildID,
		Role:      role,
		Grants:    catalog.Overrides(req.Grants),
		UpdatedBy: req.ActorID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := a.eng.Store().SetOverride(ctx.Context(), o); err != nil {
		return nil, mapError(err)
	}

	a.eng.InvalidateGuild(ctx.Context(), guildID)
	if a.eng.Plugins() != nil {
		a.eng.Plugins().EmitOverrideSet(ctx.Context(), o)
	}

	return o, ctx.JSON(http.StatusOK, o)
}

func (a *API) deleteOverride(ctx forge.Context, req *DeleteOverrideRequest) (*struct{}, error) {
	guildID, err := id.ParseGuildID(ctx.Param("guildId"))
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid guild ID: %v", err))
	}
	role, err := rank.Parse(ctx.Param("role"))
	if err != nil {
		return nil, forge.BadRequest(err.Error())
	}
	if req.ActorID == "" {
		return nil, forge.BadRequest("actor_id is required")
	}

	scoped := muster.WithGuild(ctx.Context(), "", guildID.String())
	if err := a.eng.Enforce(scoped, &muster.AuthorizeRequest{
		ActorID:       req.ActorID,
		AnyPermission: catalog.GuildOverridesManage,
	}); err != nil {
		return nil, mapError(err)
	}

	if err := a.eng.Store().DeleteOverride(ctx.Context(), guildID, role); err != nil {
		return nil, mapError(err)
	}

	a.eng.InvalidateGuild(ctx.Context(), guildID)
	if a.eng.Plugins() != nil {
		a.eng.Plugins().EmitOverrideDeleted(ctx.Context(), guildID, role.String())
	}

	return nil, ctx.NoContent(http.StatusNoContent)
}
