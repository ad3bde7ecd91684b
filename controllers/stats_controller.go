package controllers

import (
	"net/http"

	"blogapi/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type StatsController struct {
	db        *gorm.DB
	analytics *services.AnalyticsService
}

func NewStatsController(db *gorm.DB) *StatsController {
	return &StatsController{
		db:        db,
		analytics: services.NewAnalyticsService(db),
	}
}

// GetBlogStats godoc
// @Summary      Site-wide totals over published posts
// @Tags         stats
// @Produce      json
// @Success      200  {object}  services.BlogStats
// @Router       /stats [get]
func (sc *StatsController) GetBlogStats(c *gin.Context) {
	stats, err := sc.analytics.BlogStats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": stats})
}

// GetCategoryStats godoc
// @Summary      Published post count and views per category
// @Tags         stats
// @Produce      json
// @Success      200  {array}  models.CategoryStat
// @Router       /stats/categories [get]
func (sc *StatsController) GetCategoryStats(c *gin.Context) {
	stats, err := sc.analytics.CategoryStats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": stats})
}
