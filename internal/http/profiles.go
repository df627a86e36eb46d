package http

import (
	"context"
	"errors"
	"maps"
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BeeNag/tiy-front-end-final-project-back-end/internal/audit"
	"github.com/BeeNag/tiy-front-end-final-project-back-end/internal/database"
	"github.com/BeeNag/tiy-front-end-final-project-back-end/internal/entities"
)

// profileKind binds the profile routes to one account kind.
type profileKind struct {
	kind       entities.AccountKind
	resource   string
	newRequest func() profileRequest
	list       func(ctx context.Context, q database.ListQuery) (any, int64, error)
	get        func(ctx context.Context, accountPublicID string) (any, error)
	update     func(ctx context.Context, accountID uint, fields map[string]any) error
}

func archaeologistKind(store ProfileStore) profileKind {
	return profileKind{
		kind:       entities.AccountKindArchaeologist,
		resource:   "Archaeologist",
		newRequest: func() profileRequest { return &archaeologistRequest{} },
		list: func(ctx context.Context, q database.ListQuery) (any, int64, error) {
			return store.SearchArchaeologists(ctx, q)
		},
		get: func(ctx context.Context, id string) (any, error) {
			return store.GetArchaeologist(ctx, id)
		},
		update: store.UpdateArchaeologist,
	}
}

func companyKind(store ProfileStore) profileKind {
	return profileKind{
		kind:       entities.AccountKindCompany,
		resource:   "Company",
		newRequest: func() profileRequest { return &companyRequest{} },
		list: func(ctx context.Context, q database.ListQuery) (any, int64, error) {
			return store.SearchCompanies(ctx, q)
		},
		get: func(ctx context.Context, id string) (any, error) {
			return store.GetCompany(ctx, id)
		},
		update: store.UpdateCompany,
	}
}

// ProfilesController serves /archaeologists or /companies. One controller
// type handles both kinds; only the profileKind differs.
type ProfilesController struct {
	kind     profileKind
	accounts AccountService
	tokens   TokenService
	audit    *audit.Service
}

func NewProfilesController(kind entities.AccountKind, store ProfileStore, accounts AccountService, tokens TokenService, auditService *audit.Service) *ProfilesController {
	pk := archaeologistKind(store)
	if kind == entities.AccountKindCompany {
		pk = companyKind(store)
	}
	return &ProfilesController{
		kind:     pk,
		accounts: accounts,
		tokens:   tokens,
		audit:    auditService,
	}
}

// Register creates an account of this kind together with its profile.
// POST /FreeArch/archaeologists, POST /FreeArch/companies
func (pc *ProfilesController) Register(c *gin.Context) {
	req := pc.kind.newRequest()
	if err := c.ShouldBind(req); err != nil {
		respondBadRequest(c, MessageInvalidBody)
		return
	}
	if missing := req.missing(); len(missing) > 0 {
		respondError(c, missingError(missing), pc.kind.resource)
		return
	}

	in, err := req.registerInput()
	if err != nil {
		respondError(c, err, pc.kind.resource)
		return
	}

	account, err := pc.accounts.Register(c.Request.Context(), in)
	if err != nil {
		respondError(c, err, pc.kind.resource)
		return
	}

	pc.audit.LogAuth(account.ID, account.Email, actionRegister, clientInfo(c), nil)
	c.JSON(http.StatusOK, gin.H{"success": true, "id": account.PublicID})
}

// List searches profiles. GET /FreeArch/<kind>?q=&limit=&offset=
func (pc *ProfilesController) List(c *gin.Context) {
	q := parseListQuery(c)
	profiles, total, err := pc.kind.list(c.Request.Context(), q)
	if err != nil {
		respondError(c, err, pc.kind.resource)
		return
	}
	c.JSON(http.StatusOK, newPage(profiles, total, q))
}

// Get returns one profile by its account id. GET /FreeArch/<kind>/:id
func (pc *ProfilesController) Get(c *gin.Context) {
	profile, err := pc.kind.get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, pc.kind.resource)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "profile": profile})
}

// Update changes the caller's own profile. PUT /FreeArch/<kind>/:id
func (pc *ProfilesController) Update(c *gin.Context) {
	account, ok := pc.owner(c)
	if !ok {
		return
	}

	req := pc.kind.newRequest()
	if err := c.ShouldBind(req); err != nil {
		respondBadRequest(c, MessageInvalidBody)
		return
	}
	fields, err := req.columns()
	if err != nil {
		respondError(c, err, pc.kind.resource)
		return
	}
	if len(fields) == 0 {
		respondBadRequest(c, "No fields to update.")
		return
	}

	// An account registered through /users has no profile yet. The first
	// write creates it, so it must carry every required field.
	_, err = pc.kind.get(c.Request.Context(), account.PublicID)
	switch {
	case errors.Is(err, database.ErrNotFound):
		if missing := req.missing(); len(missing) > 0 {
			respondError(c, missingError(missing), pc.kind.resource)
			return
		}
	case err != nil:
		respondError(c, err, pc.kind.resource)
		return
	}

	if err := pc.kind.update(c.Request.Context(), account.ID, fields); err != nil {
		respondError(c, err, pc.kind.resource)
		return
	}
	pc.audit.LogListing(account.ID, "profile_update", string(pc.kind.kind), account.PublicID,
		"Updated "+strings.Join(slices.Sorted(maps.Keys(fields)), ", "))

	profile, err := pc.kind.get(c.Request.Context(), account.PublicID)
	if err != nil {
		respondError(c, err, pc.kind.resource)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "profile": profile})
}

// Delete removes the caller's account along with the profile.
// DELETE /FreeArch/<kind>/:id
func (pc *ProfilesController) Delete(c *gin.Context) {
	if _, ok := pc.owner(c); !ok {
		return
	}
	deleteAccount(c, pc.accounts, pc.tokens, pc.audit)
}

// owner loads the caller and checks that :id is their own profile.
func (pc *ProfilesController) owner(c *gin.Context) (*entities.Account, bool) {
	account, ok := currentAccount(c, pc.accounts)
	if !ok {
		return nil, false
	}
	if account.PublicID != c.Param("id") || account.Kind != pc.kind.kind {
		respondError(c, errForbidden, pc.kind.resource)
		return nil, false
	}
	return account, true
}
