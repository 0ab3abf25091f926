package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/chartsync/chartsync/pkg/dialect"
	"github.com/chartsync/chartsync/pkg/journal"
	"github.com/chartsync/chartsync/pkg/params"
	"github.com/chartsync/chartsync/pkg/report"
	"github.com/chartsync/chartsync/pkg/types"
)

type reconcileResponse struct {
	report.Result
	Action types.Action `json:"action"`
}

// reconcile accepts one release's parameters and converges it
func (s *Server) reconcile(c *gin.Context) {
	var p params.Params
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	spec, err := p.Resolve()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	outcome, err := s.engine.Reconcile(c.Request.Context(), spec)
	if err != nil {
		status := http.StatusInternalServerError
		var immutableErr *types.ImmutableFieldError
		if errors.As(err, &immutableErr) {
			status = http.StatusConflict
		}
		c.JSON(status, report.FromError(spec.Name, err))
		return
	}

	c.JSON(http.StatusOK, reconcileResponse{
		Result: report.FromOutcome(outcome),
		Action: outcome.Action,
	})
}

// version reports the probed helm client version and dialect
func (s *Server) version(c *gin.Context) {
	version, err := s.engine.Version(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"version": version,
		"dialect": dialect.FromVersion(version).String(),
	})
}

// listReleases returns every release the tool reports
func (s *Server) listReleases(c *gin.Context) {
	releases, err := s.engine.ListReleases(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if releases == nil {
		releases = []types.ObservedRelease{}
	}
	c.JSON(http.StatusOK, releases)
}

// releaseStatus returns one release with its applied values
func (s *Server) releaseStatus(c *gin.Context) {
	name := c.Param("name")

	observed, err := s.engine.Status(c.Request.Context(), name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if observed == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "release not found: " + name})
		return
	}
	c.JSON(http.StatusOK, observed)
}

// releaseHistory returns the journaled runs for one release
func (s *Server) releaseHistory(c *gin.Context) {
	s.writeHistory(c, func(limit int) ([]*journal.Record, error) {
		return s.journal.ByRelease(c.Param("name"), limit)
	})
}

// history returns the most recent journaled runs across all releases
func (s *Server) history(c *gin.Context) {
	s.writeHistory(c, func(limit int) ([]*journal.Record, error) {
		return s.journal.List(limit)
	})
}

func (s *Server) writeHistory(c *gin.Context, fetch func(int) ([]*journal.Record, error)) {
	if s.journal == nil {
		c.JSON(http.StatusOK, []*journal.Record{})
		return
	}

	records, err := fetch(limitQuery(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if records == nil {
		records = []*journal.Record{}
	}
	c.JSON(http.StatusOK, records)
}

func limitQuery(c *gin.Context) int {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 0 {
		return 20
	}
	return limit
}
