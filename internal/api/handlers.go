package api

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"distlab/domain/distribution"
	"distlab/internal/errors"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ParametersRequest is the body of explore and sensitivity requests.
// Omitted parameters take the family defaults.
type ParametersRequest struct {
	Parameters map[string]float64 `json:"parameters"`
}

// OverlayRequest is the body of an overlay request
type OverlayRequest struct {
	Families []distribution.ID `json:"families"`
}

func (s *Server) handleHealth() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

func (s *Server) handleListDistributions() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"distributions": s.explorer.Specs()})
	}
}

func (s *Server) handleGetDistribution() gin.HandlerFunc {
	return func(c *gin.Context) {
		spec, err := s.explorer.Spec(distribution.ID(c.Param("id")))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"spec":     spec,
			"defaults": spec.Defaults(),
		})
	}
}

func (s *Server) handleExplore() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ParametersRequest
		if err := bindOptionalJSON(c, &req); err != nil {
			respondError(c, err)
			return
		}

		id := distribution.ID(c.Param("id"))
		params, err := s.explorer.Parameters(id, req.Parameters)
		if err != nil {
			respondError(c, err)
			return
		}

		exp, err := s.explorer.Explore(c.Request.Context(), id, params)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"spec":        exp.Spec,
			"result":      exp.Result,
			"plot_series": exp.Result.PlotSeries(),
			"statistics":  exp.Statistics,
			"entries":     exp.Statistics.Entries(),
		})
	}
}

func (s *Server) handleExport() gin.HandlerFunc {
	return func(c *gin.Context) {
		overrides, err := queryParameters(c)
		if err != nil {
			respondError(c, err)
			return
		}

		id := distribution.ID(c.Param("id"))
		params, err := s.explorer.Parameters(id, overrides)
		if err != nil {
			respondError(c, err)
			return
		}

		exp, err := s.explorer.Explore(c.Request.Context(), id, params)
		if err != nil {
			respondError(c, err)
			return
		}

		var buf bytes.Buffer
		if err := s.exporter.Export(&buf, exp.Result, exp.Statistics); err != nil {
			respondError(c, errors.Wrap(err, "export failed"))
			return
		}

		c.Header("Content-Disposition", `attachment; filename="`+id.String()+`.xlsx"`)
		c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
	}
}

func (s *Server) handleOverlay() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req OverlayRequest
		if err := bindOptionalJSON(c, &req); err != nil {
			respondError(c, err)
			return
		}

		curves, err := s.explorer.Overlay(c.Request.Context(), req.Families)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"grid":   s.explorer.Grid(),
			"curves": curves,
		})
	}
}

func (s *Server) handleSensitivity() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ParametersRequest
		if err := bindOptionalJSON(c, &req); err != nil {
			respondError(c, err)
			return
		}

		id := distribution.ID(c.Param("family"))
		params, err := s.explorer.Parameters(id, req.Parameters)
		if err != nil {
			respondError(c, err)
			return
		}

		panels, err := s.explorer.Sensitivity(c.Request.Context(), id, params)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"grid":   s.explorer.Grid(),
			"panels": panels,
		})
	}
}

// bindOptionalJSON decodes the body when one is present
func bindOptionalJSON(c *gin.Context, dst interface{}) error {
	if c.Request.ContentLength == 0 {
		return nil
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		return errors.InvalidInput("malformed request body: " + err.Error())
	}
	return nil
}

// queryParameters parses every query value as a float parameter
func queryParameters(c *gin.Context) (distribution.ParameterSet, error) {
	params := distribution.ParameterSet{}
	for name, values := range c.Request.URL.Query() {
		if len(values) == 0 {
			continue
		}
		v, err := strconv.ParseFloat(values[len(values)-1], 64)
		if err != nil {
			return nil, errors.InvalidInput("parameter " + strconv.Quote(name) + " is not a number")
		}
		params[name] = v
	}
	return params, nil
}
