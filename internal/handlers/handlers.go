package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
	"unicode"

	"basketcatalog/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

type Catalog interface {
	ListBaskets(ctx context.Context, q service.ListQuery) (*service.BasketList, error)
	GetBasketByID(ctx context.Context, id string) (*service.BasketSummary, error)
}

type Handler struct {
	catalog Catalog
	log     *logrus.Logger
}

func NewHandler(c Catalog, log *logrus.Logger) *Handler {
	return &Handler{catalog: c, log: log}
}

// NewRouter builds the gin engine with CORS for the given origins. "*" allows any origin.
func NewRouter(h *Handler, origins []string) *gin.Engine {
	rg := gin.Default()
	if len(origins) > 0 {
		cfg := cors.Config{
			AllowMethods: []string{"GET", "OPTIONS"},
			AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
			MaxAge:       12 * time.Hour,
		}
		if len(origins) == 1 && origins[0] == "*" {
			cfg.AllowAllOrigins = true
		} else {
			cfg.AllowOrigins = origins
		}
		rg.Use(cors.New(cfg))
	}
	h.Register(rg)
	return rg
}

func (h *Handler) Register(r gin.IRouter) {
	r.GET("/health", h.Health)
	r.GET("/baskets", h.ListBaskets)
	r.GET("/baskets/:id", h.GetBasket)
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type listRequest struct {
	Search    string `form:"search" binding:"max=100"`
	Category  string `form:"category"`
	RiskLevel string `form:"riskLevel"`
	Community *bool  `form:"community"`
	Sort      string `form:"sort"`
	Limit     *int   `form:"limit" binding:"omitempty,min=1,max=100"`
	Offset    *int   `form:"offset" binding:"omitempty,min=0,max=1000000"`
	Page      *int   `form:"page" binding:"omitempty,min=1,max=1000000"`
}

func (h *Handler) ListBaskets(c *gin.Context) {
	var req listRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.log.Warnf("invalid list query: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": bindingDetails(err)})
		return
	}

	res, err := h.catalog.ListBaskets(c.Request.Context(), service.ListQuery{
		Search:    req.Search,
		Category:  req.Category,
		RiskLevel: req.RiskLevel,
		Community: req.Community,
		Sort:      req.Sort,
		Limit:     req.Limit,
		Offset:    req.Offset,
		Page:      req.Page,
	})
	if err != nil {
		h.writeError(c, "Failed to fetch baskets", err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) GetBasket(c *gin.Context) {
	res, err := h.catalog.GetBasketByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, "Failed to fetch basket", err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) writeError(c *gin.Context, msg string, err error) {
	var (
		verr *service.ValidationError
		nf   *service.NotFoundError
	)
	switch {
	case errors.As(err, &verr):
		h.log.Warnf("%s: %v", c.Request.URL.Path, err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": verr.Fields})
	case errors.As(err, &nf):
		c.JSON(http.StatusNotFound, gin.H{"error": "Basket not found"})
	default:
		h.log.Errorf("%s: %v", c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msg, "message": "basket store unavailable"})
	}
}

// bindingDetails turns gin binding failures into field -> message pairs.
func bindingDetails(err error) map[string]string {
	details := map[string]string{}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			msg := "failed " + fe.Tag()
			if fe.Param() != "" {
				msg = fmt.Sprintf("must satisfy %s=%s", fe.Tag(), fe.Param())
			}
			details[lowerFirst(fe.Field())] = msg
		}
		return details
	}
	details["query"] = err.Error()
	return details
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}
