package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"domainwatch/internal/models"
	"domainwatch/internal/services"
	"domainwatch/internal/validators"
)

type DomainHandler struct {
	domainService *services.DomainService
	checker       *services.CheckerService
}

func NewDomainHandler(domainService *services.DomainService, checker *services.CheckerService) *DomainHandler {
	return &DomainHandler{
		domainService: domainService,
		checker:       checker,
	}
}

type createDomainRequest struct {
	Domain  string `json:"domain" binding:"required"`
	Notes   string `json:"notes"`
	Enabled *bool  `json:"enabled"` // optional, default true
}

type updateDomainRequest struct {
	Notes   *string `json:"notes"`
	Enabled *bool   `json:"enabled"`
}

type domainResponse struct {
	*models.Domain
	DaysUntilExpiry *int `json:"days_until_expiry,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func toDomainResponse(d *models.Domain) domainResponse {
	return domainResponse{Domain: d, DaysUntilExpiry: d.DaysLeft(time.Now().UTC())}
}

// List returns all tracked domains.
// GET /api/v1/domains
func (h *DomainHandler) List(c *gin.Context) {
	domains, err := h.domainService.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to list domains"})
		return
	}

	out := make([]domainResponse, 0, len(domains))
	for _, d := range domains {
		out = append(out, toDomainResponse(d))
	}
	c.JSON(http.StatusOK, out)
}

// Create registers a new domain.
// POST /api/v1/domains
func (h *DomainHandler) Create(c *gin.Context) {
	var req createDomainRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "domain is required"})
		return
	}

	enabled := req.Enabled == nil || *req.Enabled
	domain, err := h.domainService.Create(req.Domain, req.Notes, enabled)
	switch {
	case errors.Is(err, validators.ErrInvalidDomain):
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid domain name"})
	case errors.Is(err, services.ErrDomainExists):
		c.JSON(http.StatusConflict, errorResponse{Error: "domain already exists"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to create domain"})
	default:
		c.JSON(http.StatusCreated, toDomainResponse(domain))
	}
}

// Get returns one domain with its computed days-until-expiry.
// GET /api/v1/domains/:id
func (h *DomainHandler) Get(c *gin.Context) {
	domain, ok := h.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, toDomainResponse(domain))
}

// Update changes notes and the enabled flag. WHOIS-derived fields are not
// editable here; they belong to the checker.
// PUT /api/v1/domains/:id
func (h *DomainHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req updateDomainRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	domain, err := h.domainService.Update(id, req.Notes, req.Enabled)
	switch {
	case errors.Is(err, services.ErrDomainNotFound):
		c.JSON(http.StatusNotFound, errorResponse{Error: "domain not found"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to update domain"})
	default:
		c.JSON(http.StatusOK, toDomainResponse(domain))
	}
}

// Delete removes a domain and, via cascade, its notification log.
// DELETE /api/v1/domains/:id
func (h *DomainHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	err := h.domainService.Delete(id)
	switch {
	case errors.Is(err, services.ErrDomainNotFound):
		c.JSON(http.StatusNotFound, errorResponse{Error: "domain not found"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to delete domain"})
	default:
		c.Status(http.StatusNoContent)
	}
}

// Check re-checks a single domain immediately and returns the refreshed
// record. No notifications are sent from single-domain checks.
// POST /api/v1/domains/:id/check
func (h *DomainHandler) Check(c *gin.Context) {
	domain, ok := h.lookup(c)
	if !ok {
		return
	}

	updated, err := h.checker.CheckDomain(domain.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to check domain"})
		return
	}
	c.JSON(http.StatusOK, toDomainResponse(updated))
}

// Export returns the portable domain list.
// GET /api/v1/domains/export
func (h *DomainHandler) Export(c *gin.Context) {
	file, err := h.domainService.Export()
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to export domains"})
		return
	}
	c.JSON(http.StatusOK, file)
}

type importRequest struct {
	Domains []models.DomainExportEntry `json:"domains" binding:"required"`
}

type importResponse struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// Import adds new domains from an export file; existing and invalid
// entries are skipped.
// POST /api/v1/domains/import
func (h *DomainHandler) Import(c *gin.Context) {
	var req importRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "domains list is required"})
		return
	}

	imported, skipped, err := h.domainService.Import(req.Domains)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "import failed"})
		return
	}
	c.JSON(http.StatusOK, importResponse{Imported: imported, Skipped: skipped})
}

// Stats summarizes the population for the dashboard.
// GET /api/v1/stats
func (h *DomainHandler) Stats(c *gin.Context) {
	stats, err := h.domainService.Stats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to compute stats"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid domain ID"})
		return 0, false
	}
	return id, true
}

func (h *DomainHandler) lookup(c *gin.Context) (*models.Domain, bool) {
	id, ok := parseID(c)
	if !ok {
		return nil, false
	}
	domain, err := h.domainService.GetByID(id)
	if errors.Is(err, services.ErrDomainNotFound) {
		c.JSON(http.StatusNotFound, errorResponse{Error: "domain not found"})
		return nil, false
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to load domain"})
		return nil, false
	}
	return domain, true
}
