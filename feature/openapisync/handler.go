package openapisync

import (
	"errors"
	"net/url"
	"strings"

	"openapi-sync/core/logger"
	"openapi-sync/core/middleware/rayid"
	"openapi-sync/core/reconcile"
	"openapi-sync/feature/openapisync/files"
	"openapi-sync/feature/openapisync/remote"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for collection synchronization.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RefreshRequest asks for a recomputation.
type RefreshRequest struct {
	// Trigger is disk-read (default) or cached-state.
	Trigger reconcile.Trigger `json:"trigger"`
	// CollectionSize, when set, reports the current request count instead of
	// triggering directly.
	CollectionSize *int `json:"collectionSize,omitempty"`
}

// DecisionRequest sets the decision of one endpoint.
type DecisionRequest struct {
	ID       string             `json:"id"`
	Decision reconcile.Decision `json:"decision"`
}

// BulkDecisionRequest sets the decision of every endpoint in a category.
type BulkDecisionRequest struct {
	Category reconcile.Category `json:"category"`
	Decision reconcile.Decision `json:"decision"`
}

// ApplyBody selects the sync mode of an apply.
type ApplyBody struct {
	Mode reconcile.Mode `json:"mode"`
}

// RegisterRoutes registers the sync routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/sync")
	group.Get("/", h.HandleCollections)
	group.Post("/:collection/diffs", h.HandleSubmitDiffs)
	group.Post("/:collection/refresh", h.HandleRefresh)
	group.Get("/:collection/review", h.HandleReview)
	group.Put("/:collection/decisions", h.HandleSetDecision)
	group.Post("/:collection/decisions/bulk", h.HandleBulkDecision)
	group.Get("/:collection/plan", h.HandlePlan)
	group.Post("/:collection/apply", h.HandleApply)
	group.Get("/:collection/history", h.HandleHistory)
	group.Get("/:collection/history/:name", h.HandleArchivedPlan)
}

func collectionParam(c *fiber.Ctx) (string, error) {
	name, err := url.PathUnescape(c.Params("collection"))
	if err != nil || name == "" {
		return "", fiber.NewError(fiber.StatusBadRequest, "invalid collection name")
	}
	return name, nil
}

// status maps service errors to HTTP status codes.
func status(err error) int {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Code
	case errors.Is(err, ErrUnknownSession), errors.Is(err, ErrUnknownPlan):
		return fiber.StatusNotFound
	case errors.Is(err, reconcile.ErrInvalidDecision), errors.Is(err, ErrNotBulkable):
		return fiber.StatusBadRequest
	case errors.Is(err, reconcile.ErrUnresolvedConflicts):
		return fiber.StatusConflict
	case errors.Is(err, ErrApplyDisabled), errors.Is(err, ErrNoArchive):
		return fiber.StatusNotImplemented
	case errors.Is(err, remote.ErrRemoteStatus), errors.Is(err, reconcile.ErrComparisonsUnavailable):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

func (h *Handler) fail(c *fiber.Ctx, l *zap.Logger, msg string, err error) error {
	code := status(err)
	if code >= fiber.StatusInternalServerError {
		l.Error(msg, zap.Error(err))
	} else {
		l.Warn(msg, zap.Error(err))
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}

// HandleCollections lists the collections with a session.
// @Summary List Collections
// @Description Lists the collections that have been reconciled since startup.
// @Tags sync
// @Produce json
// @Success 200 {object} map[string]interface{} "Collections"
// @Router /sync [get]
func (h *Handler) HandleCollections(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"collections": h.service.Collections()})
}

// HandleSubmitDiffs classifies comparisons posted by the caller.
// @Summary Submit Diffs
// @Description Classifies the spec diff, local diff and remote drift supplied in the body as JSON or YAML. Missing comparisons are treated as absent.
// @Tags sync
// @Accept json,x-yaml
// @Produce json
// @Param collection path string true "Collection name"
// @Success 200 {object} openapisync.Review "Review"
// @Failure 400 {object} map[string]string "Bad Request"
// @Router /sync/{collection}/diffs [post]
func (h *Handler) HandleSubmitDiffs(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	collection, err := collectionParam(c)
	if err != nil {
		return h.fail(c, l, "Invalid request", err)
	}

	ext := ".json"
	if strings.Contains(string(c.Request().Header.ContentType()), "yaml") {
		ext = ".yaml"
	}
	in, err := files.ParseInputs(c.Body(), ext)
	if err != nil {
		return h.fail(c, l, "Invalid diff payload", fiber.NewError(fiber.StatusBadRequest, err.Error()))
	}

	return c.JSON(h.service.Submit(c.Context(), collection, in))
}

// HandleRefresh recomputes the reconciliation of a collection.
// @Summary Refresh Collection
// @Description Recomputes the classification from the configured source. Cached-state triggers within the staleness window are suppressed.
// @Tags sync
// @Accept json
// @Produce json
// @Param collection path string true "Collection name"
// @Param request body openapisync.RefreshRequest false "Trigger"
// @Success 200 {object} map[string]interface{} "Review and whether it was recomputed"
// @Failure 400 {object} map[string]string "Bad Request"
// @Router /sync/{collection}/refresh [post]
func (h *Handler) HandleRefresh(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	collection, err := collectionParam(c)
	if err != nil {
		return h.fail(c, l, "Invalid request", err)
	}

	var req RefreshRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return h.fail(c, l, "Invalid refresh request", fiber.NewError(fiber.StatusBadRequest, err.Error()))
		}
	}

	var (
		review     *Review
		recomputed bool
	)
	switch {
	case req.CollectionSize != nil:
		review, recomputed, err = h.service.ObserveCollectionSize(c.Context(), collection, *req.CollectionSize)
	case req.Trigger == "" || req.Trigger == reconcile.TriggerDiskRead:
		review, recomputed, err = h.service.Refresh(c.Context(), collection, reconcile.TriggerDiskRead)
	case req.Trigger == reconcile.TriggerCachedState:
		review, recomputed, err = h.service.Refresh(c.Context(), collection, reconcile.TriggerCachedState)
	default:
		err = fiber.NewError(fiber.StatusBadRequest, "unknown trigger "+string(req.Trigger))
	}
	if err != nil {
		return h.fail(c, l, "Refresh failed", err)
	}

	return c.JSON(fiber.Map{"recomputed": recomputed, "review": review})
}

// HandleReview returns the classification and decisions of a collection.
// @Summary Review Collection
// @Tags sync
// @Produce json
// @Param collection path string true "Collection name"
// @Success 200 {object} openapisync.Review "Review"
// @Failure 404 {object} map[string]string "Not reconciled"
// @Router /sync/{collection}/review [get]
func (h *Handler) HandleReview(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	collection, err := collectionParam(c)
	if err != nil {
		return h.fail(c, l, "Invalid request", err)
	}

	review, err := h.service.Review(collection)
	if err != nil {
		return h.fail(c, l, "Review failed", err)
	}
	return c.JSON(review)
}

// HandleSetDecision records the decision of one endpoint.
// @Summary Set Decision
// @Tags sync
// @Accept json
// @Produce json
// @Param collection path string true "Collection name"
// @Param request body openapisync.DecisionRequest true "Decision"
// @Success 200 {object} openapisync.Review "Review"
// @Failure 400 {object} map[string]string "Invalid decision"
// @Failure 404 {object} map[string]string "Not reconciled"
// @Router /sync/{collection}/decisions [put]
func (h *Handler) HandleSetDecision(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	collection, err := collectionParam(c)
	if err != nil {
		return h.fail(c, l, "Invalid request", err)
	}

	var req DecisionRequest
	if err := c.BodyParser(&req); err != nil || req.ID == "" {
		return h.fail(c, l, "Invalid decision request", fiber.NewError(fiber.StatusBadRequest, "id and decision are required"))
	}

	review, err := h.service.SetDecision(c.Context(), collection, req.ID, req.Decision)
	if err != nil {
		return h.fail(c, l, "Set decision failed", err)
	}
	return c.JSON(review)
}

// HandleBulkDecision applies one decision to a whole category.
// @Summary Bulk Decision
// @Description Sets the decision of every endpoint in a category. Only categories with a binary choice are accepted.
// @Tags sync
// @Accept json
// @Produce json
// @Param collection path string true "Collection name"
// @Param request body openapisync.BulkDecisionRequest true "Category and decision"
// @Success 200 {object} map[string]interface{} "Updated count"
// @Failure 400 {object} map[string]string "Invalid category or decision"
// @Router /sync/{collection}/decisions/bulk [post]
func (h *Handler) HandleBulkDecision(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	collection, err := collectionParam(c)
	if err != nil {
		return h.fail(c, l, "Invalid request", err)
	}

	var req BulkDecisionRequest
	if err := c.BodyParser(&req); err != nil {
		return h.fail(c, l, "Invalid bulk request", fiber.NewError(fiber.StatusBadRequest, err.Error()))
	}
	if !req.Category.Valid() {
		return h.fail(c, l, "Invalid bulk request", fiber.NewError(fiber.StatusBadRequest, "unknown category "+string(req.Category)))
	}

	n, err := h.service.BulkSet(c.Context(), collection, req.Category, req.Decision)
	if err != nil {
		return h.fail(c, l, "Bulk decision failed", err)
	}
	return c.JSON(fiber.Map{"category": req.Category, "decision": req.Decision, "updated": n})
}

// HandlePlan returns the sync plan for the current decisions.
// @Summary Sync Plan
// @Tags sync
// @Produce json
// @Param collection path string true "Collection name"
// @Success 200 {object} map[string]interface{} "Plan and summary"
// @Failure 409 {object} map[string]interface{} "Unresolved conflicts"
// @Router /sync/{collection}/plan [get]
func (h *Handler) HandlePlan(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	collection, err := collectionParam(c)
	if err != nil {
		return h.fail(c, l, "Invalid request", err)
	}

	plan, err := h.service.Plan(collection)
	if errors.Is(err, reconcile.ErrUnresolvedConflicts) {
		unresolved := []string{}
		if review, rErr := h.service.Review(collection); rErr == nil {
			unresolved = review.Unresolved
		}
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":      err.Error(),
			"unresolved": unresolved,
		})
	}
	if err != nil {
		return h.fail(c, l, "Plan failed", err)
	}
	return c.JSON(fiber.Map{"plan": plan, "summary": plan.Summary()})
}

// HandleApply sends the plan to the apply collaborator.
// @Summary Apply Plan
// @Description Applies the sync plan. On success decisions are cleared and the collection is reconciled again.
// @Tags sync
// @Accept json
// @Produce json
// @Param collection path string true "Collection name"
// @Param request body openapisync.ApplyBody false "Mode"
// @Success 200 {object} openapisync.ApplyOutcome "Outcome"
// @Failure 409 {object} map[string]string "Unresolved conflicts"
// @Failure 502 {object} map[string]string "Apply rejected"
// @Router /sync/{collection}/apply [post]
func (h *Handler) HandleApply(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	collection, err := collectionParam(c)
	if err != nil {
		return h.fail(c, l, "Invalid request", err)
	}

	body := ApplyBody{Mode: reconcile.ModeSync}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&body); err != nil {
			return h.fail(c, l, "Invalid apply request", fiber.NewError(fiber.StatusBadRequest, err.Error()))
		}
	}
	if body.Mode == "" {
		body.Mode = reconcile.ModeSync
	}
	if !body.Mode.Valid() {
		return h.fail(c, l, "Invalid apply request", fiber.NewError(fiber.StatusBadRequest, "unknown mode "+string(body.Mode)))
	}

	l.Info("Applying sync plan", zap.String("collection", collection), zap.String("mode", string(body.Mode)))
	outcome, err := h.service.Apply(c.Context(), collection, body.Mode, rayid.FromCtx(c))
	if err != nil {
		return h.fail(c, l, "Apply failed", err)
	}
	return c.JSON(outcome)
}

// HandleHistory lists archived plans.
// @Summary Plan History
// @Tags sync
// @Produce json
// @Param collection path string true "Collection name"
// @Success 200 {object} map[string]interface{} "Archived plan names, newest first"
// @Router /sync/{collection}/history [get]
func (h *Handler) HandleHistory(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	collection, err := collectionParam(c)
	if err != nil {
		return h.fail(c, l, "Invalid request", err)
	}

	names, err := h.service.History(c.Context(), collection)
	if err != nil {
		return h.fail(c, l, "History failed", err)
	}
	return c.JSON(fiber.Map{"collection": collection, "plans": names})
}

// HandleArchivedPlan returns one archived plan.
// @Summary Archived Plan
// @Tags sync
// @Produce json
// @Param collection path string true "Collection name"
// @Param name path string true "Plan file name"
// @Success 200 {object} store.ArchivedPlan "Archived plan"
// @Failure 404 {object} map[string]string "Not found"
// @Router /sync/{collection}/history/{name} [get]
func (h *Handler) HandleArchivedPlan(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	collection, err := collectionParam(c)
	if err != nil {
		return h.fail(c, l, "Invalid request", err)
	}

	doc, err := h.service.ArchivedPlan(c.Context(), collection, c.Params("name"))
	if err != nil {
		return h.fail(c, l, "Archived plan lookup failed", err)
	}
	return c.JSON(doc)
}
