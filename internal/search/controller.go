package search

import (
	"errors"
	"net/http"
	"strings"

	"gigtune/internal/artists"
	"gigtune/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// SearchArtists handles GET /search/artists. Taxonomy filters arrive as
// repeated or comma-separated query parameters keyed by taxonomy name,
// e.g. ?performer_type=dj,live-band&vocal_type=soprano.
func (ctrl *Controller) SearchArtists(c *gin.Context) {
	var query SearchQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid query parameters", err.Error())
		return
	}

	termFilters := make(map[string][]string)
	for _, taxonomy := range artists.Taxonomies {
		values := c.QueryArray(taxonomy)
		var slugs []string
		for _, value := range values {
			slugs = append(slugs, strings.Split(value, ",")...)
		}
		if len(slugs) > 0 {
			termFilters[taxonomy] = slugs
		}
	}

	result, err := ctrl.service.SearchArtists(c.Request.Context(), query, termFilters)
	if err != nil {
		if errors.Is(err, artists.ErrValidation) {
			response.Error(c, http.StatusBadRequest, "Validation failed", err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, "Internal server error", nil)
		return
	}
	response.Success(c, http.StatusOK, "Search results", result)
}
