package http

import (
	"maps"
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BeeNag/tiy-front-end-final-project-back-end/internal/audit"
	"github.com/BeeNag/tiy-front-end-final-project-back-end/internal/entities"
	"github.com/BeeNag/tiy-front-end-final-project-back-end/internal/ids"
)

const excavationResource = "Excavation"

// ExcavationsController lists digs. Any account may create one; only the
// account that listed it may change or remove it.
type ExcavationsController struct {
	store    ExcavationStore
	accounts AccountService
	audit    *audit.Service
}

func NewExcavationsController(store ExcavationStore, accounts AccountService, auditService *audit.Service) *ExcavationsController {
	return &ExcavationsController{
		store:    store,
		accounts: accounts,
		audit:    auditService,
	}
}

// Create lists a new excavation owned by the caller.
// POST /FreeArch/excavations
func (ec *ExcavationsController) Create(c *gin.Context) {
	account, ok := currentAccount(c, ec.accounts)
	if !ok {
		return
	}

	var req excavationRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBadRequest(c, MessageInvalidBody)
		return
	}
	if missing := missingFields(req.fields()); len(missing) > 0 {
		respondError(c, missingError(missing), excavationResource)
		return
	}

	excavation := req.entity()
	excavation.PublicID = ids.New()
	excavation.OwnerID = account.ID

	if err := ec.store.Create(c.Request.Context(), excavation); err != nil {
		respondError(c, err, excavationResource)
		return
	}

	ec.audit.LogListing(account.ID, "excavation_create", "excavation", excavation.PublicID, excavation.Name)
	c.JSON(http.StatusOK, gin.H{"success": true, "id": excavation.PublicID, "excavation": excavation})
}

// List searches excavations, newest first.
// GET /FreeArch/excavations?q=&limit=&offset=
func (ec *ExcavationsController) List(c *gin.Context) {
	q := parseListQuery(c)
	excavations, total, err := ec.store.Search(c.Request.Context(), q)
	if err != nil {
		respondError(c, err, excavationResource)
		return
	}
	c.JSON(http.StatusOK, newPage(excavations, total, q))
}

// Get returns one excavation. GET /FreeArch/excavations/:id
func (ec *ExcavationsController) Get(c *gin.Context) {
	excavation, err := ec.store.GetByPublicID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, excavationResource)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "excavation": excavation})
}

// Update changes an excavation the caller owns.
// PUT /FreeArch/excavations/:id
func (ec *ExcavationsController) Update(c *gin.Context) {
	account, excavation, ok := ec.owned(c)
	if !ok {
		return
	}

	var req excavationRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBadRequest(c, MessageInvalidBody)
		return
	}
	fields := columnsOf(req.fields())
	if len(fields) == 0 {
		respondBadRequest(c, "No fields to update.")
		return
	}

	if err := ec.store.Update(c.Request.Context(), excavation, fields); err != nil {
		respondError(c, err, excavationResource)
		return
	}

	ec.audit.LogListing(account.ID, "excavation_update", "excavation", excavation.PublicID,
		"Updated "+strings.Join(slices.Sorted(maps.Keys(fields)), ", "))
	c.JSON(http.StatusOK, gin.H{"success": true, "excavation": excavation})
}

// Delete removes an excavation the caller owns.
// DELETE /FreeArch/excavations/:id
func (ec *ExcavationsController) Delete(c *gin.Context) {
	account, excavation, ok := ec.owned(c)
	if !ok {
		return
	}

	if err := ec.store.Delete(c.Request.Context(), excavation.ID); err != nil {
		respondError(c, err, excavationResource)
		return
	}

	ec.audit.LogListing(account.ID, "excavation_delete", "excavation", excavation.PublicID, excavation.Name)
	c.JSON(http.StatusOK, gin.H{"success": true, "id": excavation.PublicID})
}

// owned loads :id and checks that the caller listed it. A missing
// excavation is a 404 before ownership is considered.
func (ec *ExcavationsController) owned(c *gin.Context) (*entities.Account, *entities.Excavation, bool) {
	account, ok := currentAccount(c, ec.accounts)
	if !ok {
		return nil, nil, false
	}
	excavation, err := ec.store.GetByPublicID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, excavationResource)
		return nil, nil, false
	}
	if excavation.OwnerID != account.ID {
		respondError(c, errForbidden, excavationResource)
		return nil, nil, false
	}
	return account, excavation, true
}
