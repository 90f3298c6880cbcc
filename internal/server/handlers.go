package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dshills/qualitymap/internal/gateway"
	"github.com/dshills/qualitymap/internal/platform/logger"
	"github.com/dshills/qualitymap/internal/qualitymap"
	"github.com/dshills/qualitymap/internal/scorecard"
)

type Handler struct {
	log *logger.Logger
	gw  gateway.Gateway
}

func NewHandler(gw gateway.Gateway, log *logger.Logger) *Handler {
	return &Handler{log: log.With("handler", "QualityMapHandler"), gw: gw}
}

// GET /healthz
func (h *Handler) Health(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

// GET /api/criteria?team_id=
func (h *Handler) ListCriteria(c *gin.Context) {
	var teamID int64
	if raw := c.Query("team_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id < 0 {
			RespondError(c, http.StatusBadRequest, "invalid_team_id", errors.New("team_id must be a non-negative integer"))
			return
		}
		teamID = id
	}
	out, err := h.gw.FetchCriteria(c.Request.Context(), teamID)
	if err != nil {
		h.log.Error("ListCriteria failed", "error", err, "team_id", teamID)
		respondGatewayError(c, "load_criteria_failed", err)
		return
	}
	if out == nil {
		out = []scorecard.Criterion{}
	}
	c.JSON(http.StatusOK, out)
}

// GET /api/quality-maps/:id
func (h *Handler) GetQualityMap(c *gin.Context) {
	id, ok := mapID(c)
	if !ok {
		return
	}
	q, err := h.gw.FetchQualityMap(c.Request.Context(), id)
	if err != nil {
		respondGatewayError(c, "load_quality_map_failed", err)
		return
	}
	c.JSON(http.StatusOK, q)
}

// PATCH /api/quality-maps/:id
func (h *Handler) UpdateColumns(c *gin.Context) {
	id, ok := mapID(c)
	if !ok {
		return
	}
	var req qualitymap.ColumnUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	kind, ids := scorecard.KindChat, req.ChatIDs
	switch {
	case req.ChatIDs != nil && req.CallIDs != nil:
		RespondError(c, http.StatusBadRequest, "invalid_body", errors.New("send either chat_ids or call_ids, not both"))
		return
	case req.CallIDs != nil:
		kind, ids = scorecard.KindCall, req.CallIDs
	case req.ChatIDs == nil:
		RespondError(c, http.StatusBadRequest, "invalid_body", errors.New("chat_ids or call_ids is required"))
		return
	}

	ctx := c.Request.Context()
	if err := h.gw.UpdateColumnIDs(ctx, id, kind, ids); err != nil {
		h.log.Warn("UpdateColumns failed", "error", err, "quality_map_id", id, "kind", string(kind))
		respondGatewayError(c, "update_columns_failed", err)
		return
	}
	q, err := h.gw.FetchQualityMap(ctx, id)
	if err != nil {
		respondGatewayError(c, "load_quality_map_failed", err)
		return
	}
	c.JSON(http.StatusOK, q)
}

// POST /api/quality-deductions
func (h *Handler) UpsertChatDeduction(c *gin.Context) {
	h.upsertDeduction(c, scorecard.KindChat)
}

// POST /api/quality-call-deductions
func (h *Handler) UpsertCallDeduction(c *gin.Context) {
	h.upsertDeduction(c, scorecard.KindCall)
}

func (h *Handler) upsertDeduction(c *gin.Context, kind scorecard.ColumnKind) {
	var req qualitymap.UpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	engineReq := req.ToEngine(kind)
	switch {
	case req.QualityMapID <= 0:
		RespondError(c, http.StatusBadRequest, "invalid_body", errors.New("quality_map_id is required"))
		return
	case req.CriteriaID <= 0:
		RespondError(c, http.StatusBadRequest, "invalid_body", errors.New("criteria_id is required"))
		return
	case strings.TrimSpace(engineReq.ColumnID) == "":
		RespondError(c, http.StatusBadRequest, "invalid_body", errors.New(kind.IDField()+" is required"))
		return
	case req.Kind() != kind:
		RespondError(c, http.StatusBadRequest, "invalid_body", errors.New(req.Kind().IDField()+" is not accepted here"))
		return
	}

	saved, err := h.gw.UpsertDeduction(c.Request.Context(), engineReq)
	if err != nil {
		h.log.Warn("UpsertDeduction failed", "error", err, "quality_map_id", req.QualityMapID, "kind", string(kind))
		respondGatewayError(c, "upsert_deduction_failed", err)
		return
	}
	c.JSON(http.StatusOK, qualitymap.FromDeduction(kind, saved))
}

func mapID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		RespondError(c, http.StatusBadRequest, "invalid_quality_map_id", errors.New("id must be a positive integer"))
		return 0, false
	}
	return id, true
}
