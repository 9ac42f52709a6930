package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/xraph/forge"

	"github.com/xraph/muster"
	"github.com/xraph/muster/event"
	"github.com/xraph/muster/id"
	"github.com/xraph/muster/roster"
)

func (a *API) registerRosterRoutes(router forge.Router) error {
	g := router.Group("/v1/instances/:instanceId", forge.WithGroupTags("roster"))

	if err := g.POST("/signup", a.signup,
		forge.WithSummary("Sign up"),
		forge.WithDescription("Creates or moves the actor's roster entry. Authorization denials return 403, capacity denials 409."),
		forge.WithOperationID("rosterSignup"),
		forge.WithRequestSchema(SignupRequest{}),
		forge.WithResponseSchema(http.StatusOK, "Signup result", SignupResponse{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.POST("/withdraw", a.withdraw,
		forge.WithSummary("Withdraw"),
		forge.WithDescription("Deletes the actor's entry, freeing its seat. Idempotent."),
		forge.WithOperationID("rosterWithdraw"),
		forge.WithRequestSchema(WithdrawRequest{}),
		forge.WithResponseSchema(http.StatusOK, "Withdraw result", SignupResponse{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.POST("/confirm", a.confirm,
		forge.WithSummary("Confirm siege signup"),
		forge.WithDescription("Advances the actor's siege entry to confirmed."),
		forge.WithOperationID("rosterConfirm"),
		forge.WithRequestSchema(ConfirmRequest{}),
		forge.WithResponseSchema(http.StatusOK, "Confirm result", SignupResponse{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.POST("/checkin", a.checkIn,
		forge.WithSummary("Check in siege attendee"),
		forge.WithDescription("Records an attendee's presence at siege start. Checking in others requires siege_checkin_any."),
		forge.WithOperationID("rosterCheckIn"),
		forge.WithRequestSchema(CheckInRequest{}),
		forge.WithResponseSchema(http.StatusOK, "Check-in result", SignupResponse{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.GET("/roster", a.listEntries,
		forge.WithSummary("List roster entries"),
		forge.WithDescription("Lists the instance roster with optional filters."),
		forge.WithOperationID("listRosterEntries"),
		forge.WithRequestSchema(ListEntriesRequest{}),
		forge.WithResponseSchema(http.StatusOK, "Roster entries", ListResponse[*roster.Entry]{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	return g.GET("/counts", a.counts,
		forge.WithSummary("Occupancy counts"),
		forge.WithDescription("Returns occupancy totals, per-slot breakdowns, and slot-minimum readiness. Declined entries never occupy."),
		forge.WithOperationID("rosterCounts"),
		forge.WithResponseSchema(http.StatusOK, "Occupancy counts", CountsResponse{}),
		forge.WithErrorResponses(),
	)
}

func (a *API) signup(ctx forge.Context, req *SignupRequest) (*SignupResponse, error) {
	inst, scoped, err := a.scopedInstance(ctx)
	if err != nil {
		return nil, err
	}
	if req.ActorID == "" {
		return nil, forge.BadRequest("actor_id is required")
	}

	sr := &muster.SignupRequest{
		ActorID:    req.ActorID,
		InstanceID: inst.ID,
		Slot:       roster.Slot(req.Slot),
		Status:     roster.Status(req.Status),
		Note:       req.Note,
	}
	if req.CharacterID != "" {
		cid, err := id.ParseCharacterID(req.CharacterID)
		if err != nil {
			return nil, forge.BadRequest(fmt.Sprintf("invalid character ID: %v", err))
		}
		sr.CharacterID = cid
	}

	result, err := a.eng.Signup(scoped, sr)
	if err != nil {
		return nil, mapError(err)
	}

	resp := toSignupResponse(result)
	return resp, ctx.JSON(signupStatus(result), resp)
}

func (a *API) withdraw(ctx forge.Context, req *WithdrawRequest) (*SignupResponse, error) {
	inst, scoped, err := a.scopedInstance(ctx)
	if err != nil {
		return nil, err
	}
	if req.ActorID == "" {
		return nil, forge.BadRequest("actor_id is required")
	}

	result, err := a.eng.Withdraw(scoped, inst.ID, req.ActorID)
	if err != nil {
		return nil, mapError(err)
	}

	resp := toSignupResponse(result)
	return resp, ctx.JSON(http.StatusOK, resp)
}

func (a *API) confirm(ctx forge.Context, req *ConfirmRequest) (*SignupResponse, error) {
	inst, scoped, err := a.scopedInstance(ctx)
	if err != nil {
		return nil, err
	}
	if req.ActorID == "" {
		return nil, forge.BadRequest("actor_id is required")
	}

	result, err := a.eng.Confirm(scoped, inst.ID, req.ActorID)
	if err != nil {
		return nil, mapError(err)
	}

	resp := toSignupResponse(result)
	return resp, ctx.JSON(signupStatus(result), resp)
}

func (a *API) checkIn(ctx forge.Context, req *CheckInRequest) (*SignupResponse, error) {
	inst, scoped, err := a.scopedInstance(ctx)
	if err != nil {
		return nil, err
	}
	if req.ActorID == "" {
		return nil, forge.BadRequest("actor_id is required")
	}

	target := req.TargetActorID
	if target == "" {
		target = req.ActorID
	}

	result, err := a.eng.CheckIn(scoped, inst.ID, target, req.ActorID)
	if err != nil {
		return nil, mapError(err)
	}

	resp := toSignupResponse(result)
	return resp, ctx.JSON(signupStatus(result), resp)
}

func (a *API) listEntries(ctx forge.Context, req *ListEntriesRequest) (*ListResponse[*roster.Entry], error) {
	instID, err := id.ParseInstanceID(ctx.Param("instanceId"))
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid instance ID: %v", err))
	}

	filter := &roster.ListFilter{
		InstanceID: &instID,
		Slot:       roster.Slot(req.Slot),
		Status:     roster.Status(req.Status),
		Occupying:  req.Occupying,
		Limit:      defaultLimit(req.Limit),
		Offset:     req.Offset,
	}

	items, err := a.eng.Store().ListEntries(ctx.Context(), filter)
	if err != nil {
		return nil, mapError(err)
	}
	total, err := a.eng.Store().CountEntries(ctx.Context(), filter)
	if err != nil {
		return nil, mapError(err)
	}

	resp := &ListResponse[*roster.Entry]{
		Items:  items,
		Total:  total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}
	return resp, ctx.JSON(http.StatusOK, resp)
}

func (a *API) counts(ctx forge.Context, _ *GetInstanceRequest) (*CountsResponse, error) {
	inst, _, err := a.scopedInstance(ctx)
	if err != nil {
		return nil, err
	}

	counts, err := a.eng.Counts(ctx.Context(), inst.ID)
	if err != nil {
		return nil, mapError(err)
	}

	resp := &CountsResponse{
		Counts:        counts,
		MinimumsMet:   inst.Requirements.MinimumsMet(counts),
		UnmetMinimums: inst.Requirements.UnmetMinimums(counts),
	}
	return resp, ctx.JSON(http.StatusOK, resp)
}

// scopedInstance resolves the path instance and returns a context scoped
// to its guild, so engine authorization resolves against the right
// membership without requiring callers to pass guild ids.
func (a *API) scopedInstance(ctx forge.Context) (*event.Instance, context.Context, error) {
	instID, err := id.ParseInstanceID(ctx.Param("instanceId"))
	if err != nil {
		return nil, nil, forge.BadRequest(fmt.Sprintf("invalid instance ID: %v", err))
	}

	inst, err := a.eng.Store().GetInstance(ctx.Context(), instID)
	if err != nil {
		return nil, nil, mapError(err)
	}

	return inst, muster.WithGuild(ctx.Context(), inst.AppID, inst.GuildID.String()), nil
}

func toSignupResponse(r *muster.SignupResult) *SignupResponse {
	return &SignupResponse{
		Allowed:  r.Allowed,
		Decision: string(r.Decision),
		Reason:   r.Reason,
		Capacity: r.Capacity,
		Entry:    r.Entry,
		Counts:   r.Counts,
	}
}

func signupStatus(r *muster.SignupResult) int {
	switch {
	case r.Allowed:
		return http.StatusOK
	case r.Decision == muster.DecisionDenyCapacity:
		return http.StatusConflict
	default:
		return http.StatusForbidden
	}
}
