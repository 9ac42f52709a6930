package api

import (
	"net/http"

	"github.com/xraph/forge"

	"github.com/xraph/muster/catalog"
	"github.com/xraph/muster/rank"
)

func (a *API) registerCatalogRoutes(router forge.Router) error {
	g := router.Group("/v1/catalog", forge.WithGroupTags("catalog"))

	if err := g.GET("/permissions", a.listPermissions,
		forge.WithSummary("List permissions"),
		forge.WithDescription("Returns the static permission catalog."),
		forge.WithOperationID("listPermissions"),
		forge.WithRequestSchema(ListPermissionsRequest{}),
		forge.WithResponseSchema(http.StatusOK, "Permission catalog", []catalog.Permission{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.GET("/roles", a.listRoles,
		forge.WithSummary("List roles"),
		forge.WithDescription("Returns the fixed role hierarchy in descending rank order."),
		forge.WithOperationID("listRoles"),
		forge.WithResponseSchema(http.StatusOK, "Role hierarchy", []RoleInfo{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	return g.GET("/roles/:role/grants", a.getRoleGrants,
		forge.WithSummary("Default role grants"),
		forge.WithDescription("Returns the permissions a role holds by default, before guild overrides."),
		forge.WithOperationID("getRoleGrants"),
		forge.WithResponseSchema(http.StatusOK, "Default grants", RoleGrantsResponse{}),
		forge.WithErrorResponses(),
	)
}

func (a *API) listPermissions(ctx forge.Context, req *ListPermissionsRequest) ([]catalog.Permission, error) {
	var perms []catalog.Permission
	if req.Category != "" {
		perms = catalog.ByCategory(catalog.Category(req.Category))
	} else {
		perms = catalog.All()
	}
	return perms, ctx.JSON(http.StatusOK, perms)
}

func (a *API) listRoles(ctx forge.Context, _ *struct{}) ([]RoleInfo, error) {
	roles := rank.All()
	out := make([]RoleInfo, len(roles))
	for i, r := range roles {
		out[i] = RoleInfo{Role: r.String(), Rank: r.Rank()}
	}
	return out, ctx.JSON(http.StatusOK, out)
}

func (a *API) getRoleGrants(ctx forge.Context, _ *GetRoleGrantsRequest) (*RoleGrantsResponse, error) {
	role, err := rank.Parse(ctx.Param("role"))
	if err != nil {
		return nil, forge.BadRequest(err.Error())
	}

	resp := &RoleGrantsResponse{Role: role.String(), Grants: catalog.Grants(role)}
	return resp, ctx.JSON(http.StatusOK, resp)
}
