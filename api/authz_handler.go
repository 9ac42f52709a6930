package api

import (
	"net/http"

	"github.com/xraph/forge"

	"github.com/xraph/muster"
)

func (a *API) registerAuthzRoutes(router forge.Router) error {
	g := router.Group("/v1/authz", forge.WithGroupTags("authorization"))

	if err := g.POST("/check", a.check,
		forge.WithSummary("Authorization check"),
		forge.WithDescription("Evaluates whether the actor may perform the action in the guild."),
		forge.WithOperationID("authzCheck"),
		forge.WithRequestSchema(CheckRequest{}),
		forge.WithResponseSchema(http.StatusOK, "Check result", CheckResponse{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.POST("/enforce", a.enforce,
		forge.WithSummary("Enforce authorization"),
		forge.WithDescription("Returns 200 if allowed, 403 if denied."),
		forge.WithOperationID("authzEnforce"),
		forge.WithRequestSchema(CheckRequest{}),
		forge.WithResponseSchema(http.StatusOK, "Allowed", CheckResponse{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.POST("/batch-check", a.batchCheck,
		forge.WithSummary("Batch authorization check"),
		forge.WithDescription("Evaluates multiple authorization checks in one request."),
		forge.WithOperationID("authzBatchCheck"),
		forge.WithRequestSchema(BatchCheckRequest{}),
		forge.WithResponseSchema(http.StatusOK, "Batch results", BatchCheckResponse{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	return g.GET("/grants/:actorId", a.getGrants,
		forge.WithSummary("Effective grants"),
		forge.WithDescription("Returns the permission ids the actor effectively holds in the guild."),
		forge.WithOperationID("authzGrants"),
		forge.WithRequestSchema(GetGrantsRequest{}),
		forge.WithResponseSchema(http.StatusOK, "Effective grants", GrantsResponse{}),
		forge.WithErrorResponses(),
	)
}

func (a *API) check(ctx forge.Context, req *CheckRequest) (*CheckResponse, error) {
	if err := validateCheck(req); err != nil {
		return nil, err
	}

	scoped := muster.WithGuild(ctx.Context(), req.AppID, req.GuildID)
	result, err := a.eng.Authorize(scoped, toAuthorizeRequest(req))
	if err != nil {
		return nil, mapError(err)
	}

	resp := toCheckResponse(result)
	return resp, ctx.JSON(http.StatusOK, resp)
}

func (a *API) enforce(ctx forge.Context, req *CheckRequest) (*CheckResponse, error) {
	if err := validateCheck(req); err != nil {
		return nil, err
	}

	scoped := muster.WithGuild(ctx.Context(), req.AppID, req.GuildID)
	result, err := a.eng.Authorize(scoped, toAuthorizeRequest(req))
	if err != nil {
		return nil, mapError(err)
	}

	resp := toCheckResponse(result)
	if !result.Allowed {
		return resp, ctx.JSON(http.StatusForbidden, resp)
	}
	return resp, ctx.JSON(http.StatusOK, resp)
}

func (a *API) batchCheck(ctx forge.Context, req *BatchCheckRequest) (*BatchCheckResponse, error) {
	if len(req.Checks) == 0 {
		return nil, forge.BadRequest("checks cannot be empty")
	}

	results := make([]CheckResponse, len(req.Checks))
	for i, c := range req.Checks {
		if err := validateCheck(&c); err != nil {
			return nil, err
		}
		scoped := muster.WithGuild(ctx.Context(), c.AppID, c.GuildID)
		result, err := a.eng.Authorize(scoped, toAuthorizeRequest(&c))
		if err != nil {
			return nil, mapError(err)
		}
		results[i] = *toCheckResponse(result)
	}

	resp := &BatchCheckResponse{Results: results}
	return resp, ctx.JSON(http.StatusOK, resp)
}

func (a *API) getGrants(ctx forge.Context, req *GetGrantsRequest) (*GrantsResponse, error) {
	if req.GuildID == "" {
		return nil, forge.BadRequest("guild_id is required")
	}
	actorID := ctx.Param("actorId")

	scoped := muster.WithGuild(ctx.Context(), req.AppID, req.GuildID)
	grants, err := a.eng.GrantsFor(scoped, actorID)
	if err != nil {
		return nil, mapError(err)
	}

	resp := &GrantsResponse{ActorID: actorID, Grants: grants}
	return resp, ctx.JSON(http.StatusOK, resp)
}

func validateCheck(req *CheckRequest) error {
	if req.GuildID == "" || req.ActorID == "" {
		return forge.BadRequest("guild_id and actor_id are required")
	}
	if req.AnyPermission == "" && req.OwnPermission == "" {
		return forge.BadRequest("at least one of any_permission and own_permission is required")
	}
	return nil
}

func toAuthorizeRequest(r *CheckRequest) *muster.AuthorizeRequest {
	return &muster.AuthorizeRequest{
		ActorID:       r.ActorID,
		AnyPermission: r.AnyPermission,
		OwnPermission: r.OwnPermission,
		OwnerID:       r.OwnerID,
		TargetUserID:  r.TargetUserID,
		Metadata:      r.Metadata,
	}
}

func toCheckResponse(r *muster.AuthzResult) *CheckResponse {
	return &CheckResponse{
		Allowed:    r.Allowed,
		Decision:   string(r.Decision),
		Reason:     r.Reason,
		EvalTimeNs: r.EvalTimeNs,
	}
}
