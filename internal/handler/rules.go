package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Tondeptrai23/E-Commerce-API-sub004/internal/constants"
	apperrors "github.com/Tondeptrai23/E-Commerce-API-sub004/internal/errors"
	"github.com/Tondeptrai23/E-Commerce-API-sub004/pkg/querybuilder"
)

// QueryRulesHandler exposes the accepted query parameters per resource.
type QueryRulesHandler struct {
	registry *querybuilder.Registry
}

func NewQueryRulesHandler(registry *querybuilder.Registry) *QueryRulesHandler {
	return &QueryRulesHandler{registry: registry}
}

func (h *QueryRulesHandler) ListRules(c *gin.Context) {
	names := h.registry.Names()
	summaries := make([]querybuilder.RulesSummary, 0, len(names))
	for _, name := range names {
		b, err := h.registry.Get(name)
		if err != nil {
			continue
		}
		summaries = append(summaries, b.Describe())
	}
	c.JSON(http.StatusOK, gin.H{constants.ResponseFieldData: summaries})
}

func (h *QueryRulesHandler) GetRules(c *gin.Context) {
	b, err := h.registry.Get(c.Param("resource"))
	if err != nil {
		c.JSON(apperrors.ToHTTPStatus(err), constants.BuildErrorResponse(apperrors.GetErrorMessage(err), nil))
		return
	}
	c.JSON(http.StatusOK, gin.H{constants.ResponseFieldData: b.Describe()})
}
