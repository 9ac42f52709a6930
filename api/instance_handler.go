package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/xraph/forge"

	"github.com/xraph/muster"
	"github.com/xraph/muster/catalog"
	"github.com/xraph/muster/event"
	"github.com/xraph/muster/id"
)

func (a *API) registerInstanceRoutes(router forge.Router) error {
	g := router.Group("/v1", forge.WithGroupTags("instances"))

	if err := g.POST("/instances", a.createInstance,
		forge.WithSummary("Create instance"),
		forge.WithDescription("Creates a new event or siege instance with its capacity requirements."),
		forge.WithOperationID("createInstance"),
		forge.WithRequestSchema(CreateInstanceRequest{}),
		forge.WithCreatedResponse(&event.Instance{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.GET("/instances/:instanceId", a.getInstance,
		forge.WithSummary("Get instance"),
		forge.WithDescription("Returns details of a specific instance."),
		forge.WithOperationID("getInstance"),
		forge.WithResponseSchema(http.StatusOK, "Instance details", &event.Instance{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.PUT("/instances/:instanceId", a.updateInstance,
		forge.WithSummary("Update instance"),
		forge.WithDescription("Updates an existing instance."),
		forge.WithOperationID("updateInstance"),
		forge.WithRequestSchema(UpdateInstanceRequest{}),
		forge.WithResponseSchema(http.StatusOK, "Updated instance", &event.Instance{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.POST("/instances/:instanceId/cancel", a.cancelInstance,
		forge.WithSummary("Cancel instance"),
		forge.WithDescription("Cancels an instance. Canceled instances reject further signups."),
		forge.WithOperationID("cancelInstance"),
		forge.WithRequestSchema(CancelInstanceRequest{}),
		forge.WithResponseSchema(http.StatusOK, "Canceled instance", &event.Instance{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.DELETE("/instances/:instanceId", a.deleteInstance,
		forge.WithSummary("Delete instance"),
		forge.WithDescription("Deletes an instance and its roster."),
		forge.WithOperationID("deleteInstance"),
		forge.WithNoContentResponse(),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	return g.GET("/instances", a.listInstances,
		forge.WithSummary("List instances"),
		forge.WithDescription("Lists instances with optional filters."),
		forge.WithOperationID("listInstances"),
		forge.WithRequestSchema(ListInstancesRequest{}),
		forge.WithResponseSchema(http.StatusOK, "Instance list", ListResponse[*event.Instance]{}),
		forge.WithErrorResponses(),
	)
}

func (a *API) createInstance(ctx forge.Context, req *CreateInstanceRequest) (*event.Instance, error) {
	if req.GuildID == "" {
		return nil, forge.BadRequest("guild_id is required")
	}
	if req.ActorID == "" {
		return nil, forge.BadRequest("actor_id is required")
	}
	if req.Title == "" {
		return nil, forge.BadRequest("title is required")
	}

	guildID, err := id.ParseGuildID(req.GuildID)
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid guild ID: %v", err))
	}

	kind := event.Kind(req.Kind)
	if !kind.Valid() {
		return nil, forge.BadRequest(fmt.Sprintf("invalid kind %q", req.Kind))
	}

	startsAt, err := time.Parse(time.RFC3339, req.StartsAt)
	if err != nil {
		return nil, forge.BadRequest("invalid starts_at timestamp")
	}
	var endsAt *time.Time
	if req.EndsAt != "" {
		t, err := time.Parse(time.RFC3339, req.EndsAt)
		if err != nil {
			return nil, forge.BadRequest("invalid ends_at timestamp")
		}
		endsAt = &t
	}

	if err := muster.ValidateRequirements(req.Requirements); err != nil {
		return nil, mapError(err)
	}

	scoped := muster.WithGuild(ctx.Context(), req.AppID, guildID.String())
	if err := a.eng.Enforce(scoped, &muster.AuthorizeRequest{
		ActorID:       req.ActorID,
		AnyPermission: createPermission(kind),
	}); err != nil {
		return nil, mapError(err)
	}

	now := time.Now().UTC()
	inst := &event.Instance{
		ID:           id.NewInstanceID(),
		AppID:        req.AppID,
		GuildID:      guildID,
		Kind:         kind,
		Title:        req.Title,
		Description:  req.Description,
		StartsAt:     startsAt,
		EndsAt:       endsAt,
		Requirements: req.Requirements,
		CreatedBy:    req.ActorID,
		Metadata:     req.Metadata,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := a.eng.Store().CreateInstance(ctx.Context(), inst); err != nil {
		return nil, mapError(err)
	}

	if a.eng.Plugins() != nil {
		a.eng.Plugins().EmitInstanceCreated(ctx.Context(), inst)
	}

	return inst, ctx.JSON(http.StatusCreated, inst)
}

func (a *API) getInstance(ctx forge.Context, _ *GetInstanceRequest) (*event.Instance, error) {
	instID, err := id.ParseInstanceID(ctx.Param("instanceId"))
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid instance ID: %v", err))
	}

	inst, err := a.eng.Store().GetInstance(ctx.Context(), instID)
	if err != nil {
		return nil, mapError(err)
	}

	return inst, ctx.JSON(http.StatusOK, inst)
}

func (a *API) updateInstance(ctx forge.Context, req *UpdateInstanceRequest) (*event.Instance, error) {
	instID, err := id.ParseInstanceID(ctx.Param("instanceId"))
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid instance ID: %v", err))
	}
	if req.ActorID == "" {
		return nil, forge.BadRequest("actor_id is required")
	}

	inst, err := a.eng.Store().GetInstance(ctx.Context(), instID)
	if err != nil {
		return nil, mapError(err)
	}

	scoped := muster.WithGuild(ctx.Context(), inst.AppID, inst.GuildID.String())
	if err := a.eng.Enforce(scoped, &muster.AuthorizeRequest{
		ActorID:       req.ActorID,
		AnyPermission: editPermission(inst.Kind),
	}); err != nil {
		return nil, mapError(err)
	}

	if req.Title != "" {
		inst.Title = req.Title
	}
	if req.Description != "" {
		inst.Description = req.Description
	}
	if req.StartsAt != "" {
		t, err := time.Parse(time.RFC3339, req.StartsAt)
		if err != nil {
			return nil, forge.BadRequest("invalid starts_at timestamp")
		}
		inst.StartsAt = t
	}
	if req.EndsAt != "" {
		t, err := time.Parse(time.RFC3339, req.EndsAt)
		if err != nil {
			return nil, forge.BadRequest("invalid ends_at timestamp")
		}
		inst.EndsAt = &t
	}
	if req.Requirements != nil {
		if err := muster.ValidateRequirements(*req.Requirements); err != nil {
			return nil, mapError(err)
		}
		inst.Requirements = *req.Requirements
	}
	if req.Metadata != nil {
		inst.Metadata = req.Metadata
	}
	inst.UpdatedAt = time.Now().UTC()

	if err := a.eng.Store().UpdateInstance(ctx.Context(), inst); err != nil {
		return nil, mapError(err)
	}

	if a.eng.Plugins() != nil {
		a.eng.Plugins().EmitInstanceUpdated(ctx.Context(), inst)
	}

	return inst, ctx.JSON(http.StatusOK, inst)
}

func (a *API) cancelInstance(ctx forge.Context, req *CancelInstanceRequest) (*event.Instance, error) {
	instID, err := id.ParseInstanceID(ctx.Param("instanceId"))
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid instance ID: %v", err))
	}
	if req.ActorID == "" {
		return nil, forge.BadRequest("actor_id is required")
	}

	inst, err := a.eng.Store().GetInstance(ctx.Context(), instID)
	if err != nil {
		return nil, mapError(err)
	}

	scoped := muster.WithGuild(ctx.Context(), inst.AppID, inst.GuildID.String())
	if err := a.eng.Enforce(scoped, &muster.AuthorizeRequest{
		ActorID:       req.ActorID,
		AnyPermission: cancelPermission(inst.Kind),
	}); err != nil {
		return nil, mapError(err)
	}

	inst.IsCanceled = true
	inst.UpdatedAt = time.Now().UTC()

	if err := a.eng.Store().UpdateInstance(ctx.Context(), inst); err != nil {
		return nil, mapError(err)
	}

	if a.eng.Plugins() != nil {
		a.eng.Plugins().EmitInstanceUpdated(ctx.Context(), inst)
	}

	return inst, ctx.JSON(http.StatusOK, inst)
}

func (a *API) deleteInstance(ctx forge.Context, req *DeleteInstanceRequest) (*struct{}, error) {
	instID, err := id.ParseInstanceID(ctx.Param("instanceId"))
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid instance ID: %v", err))
	}
	if req.ActorID == "" {
		return nil, forge.BadRequest("actor_id is required")
	}

	inst, err := a.eng.Store().GetInstance(ctx.Context(), instID)
	if err != nil {
		return nil, mapError(err)
	}

	scoped := muster.WithGuild(ctx.Context(), inst.AppID, inst.GuildID.String())
	if err := a.eng.Enforce(scoped, &muster.AuthorizeRequest{
		ActorID:       req.ActorID,
		AnyPermission: editPermission(inst.Kind),
	}); err != nil {
		return nil, mapError(err)
	}

	if err := a.eng.Store().DeleteInstance(ctx.Context(), instID); err != nil {
		return nil, mapError(err)
	}

	if a.eng.Plugins() != nil {
		a.eng.Plugins().EmitInstanceDeleted(ctx.Context(), instID)
	}

	return nil, ctx.NoContent(http.StatusNoContent)
}

func (a *API) listInstances(ctx forge.Context, req *ListInstancesRequest) (*ListResponse[*event.Instance], error) {
	filter := &event.ListFilter{
		Kind:   event.Kind(req.Kind),
		Search: req.Search,
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
	if req.Canceled != "" {
		canceled := req.Canceled == "true"
		filter.IsCanceled = &canceled
	}
	if req.StartsAfter != "" {
		t, err := time.Parse(time.RFC3339, req.StartsAfter)
		if err != nil {
			return nil, forge.BadRequest("invalid starts_after timestamp")
		}
		filter.StartsAfter = &t
	}
	if req.StartsBefore != "" {
		t, err := time.Parse(time.RFC3339, req.StartsBefore)
		if err != nil {
			return nil, forge.BadRequest("invalid starts_before timestamp")
		}
		filter.StartsBefore = &t
	}

	items, err := a.eng.Store().ListInstances(ctx.Context(), filter)
	if err != nil {
		return nil, mapError(err)
	}
	total, err := a.eng.Store().CountInstances(ctx.Context(), filter)
	if err != nil {
		return nil, mapError(err)
	}

	resp := &ListResponse[*event.Instance]{
		Items:  items,
		Total:  total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}
	return resp, ctx.JSON(http.StatusOK, resp)
}

func createPermission(kind event.Kind) string {
	if kind == event.KindSiege {
		return catalog.SiegeCreate
	}
	return catalog.EventsCreate
}

func editPermission(kind event.Kind) string {
	if kind == event.KindSiege {
		return catalog.SiegeEditAny
	}
	return catalog.EventsEditAny
}

func cancelPermission(kind event.Kind) string {
	if kind == event.KindSiege {
		return catalog.SiegeEditAny
	}
	return catalog.EventsCancelAny
}
