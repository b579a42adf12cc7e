// Package web is the HTTP front: the grpc-web endpoint plus the few plain
// HTTP routes browsers need.
package web

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"tutor-scheduling-api/internal/auth"
	"tutor-scheduling-api/internal/export"
	"tutor-scheduling-api/internal/grpcweb"
	"tutor-scheduling-api/internal/model"
	"tutor-scheduling-api/internal/rpc"
	"tutor-scheduling-api/internal/scheduling"
)

// SyncStatus reports the last run of a data sync.
type SyncStatus interface {
	LatestStatus(typ model.SyncType) model.SyncStatus
}

type Server struct {
	Engine *scheduling.Engine
	Users  scheduling.UserDirectory
	Secret string
	Bridge http.Handler // grpc-web bridge; nil leaves the route out
	Sync   SyncStatus   // nil when data sync is disabled
	Log    *log.Logger
}

func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	if s.Bridge != nil {
		bridge := gin.WrapH(s.Bridge)
		r.POST("/"+rpc.ServiceName+"/:method", bridge)
		r.OPTIONS("/"+rpc.ServiceName+"/:method", bridge)
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authed := r.Group("/", s.requireToken)
	authed.GET("/appointments/:id/minutes.xlsx", s.minutesWorkbook)
	authed.GET("/sync/status/:type", s.syncStatus)
	return r
}

const claimsKey = "claims"

func (s *Server) requireToken(c *gin.Context) {
	grpcweb.CORS(c.Writer, c.Request)
	claims, err := auth.ParseBearer(c.GetHeader("Authorization"), s.Secret)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or missing token"})
		return
	}
	c.Set(claimsKey, claims)
	c.Next()
}

func claimsOf(c *gin.Context) *auth.Claims {
	return c.MustGet(claimsKey).(*auth.Claims)
}

func (s *Server) minutesWorkbook(c *gin.Context) {
	ctx := c.Request.Context()
	claims := claimsOf(c)

	a, err := s.Engine.GetAppointment(ctx, c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	if a.TutorID != claims.UserID && claims.Role != model.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "not the tutor of this session"})
		return
	}
	m, err := s.Engine.GetMinutes(ctx, a.ID)
	if err != nil {
		s.fail(c, err)
		return
	}
	a.TutorName = s.tutorName(ctx, a.TutorID)

	var buf bytes.Buffer
	if err := export.WriteMinutes(&buf, a, m); err != nil {
		s.fail(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="minutes-%s.xlsx"`, a.ID))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

func (s *Server) syncStatus(c *gin.Context) {
	if claimsOf(c).Role != model.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "admin only"})
		return
	}
	if s.Sync == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "data sync is not configured"})
		return
	}
	typ := model.SyncType(strings.ToUpper(c.Param("type")))
	if typ != model.SyncPersonal && typ != model.SyncRole {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown sync type"})
		return
	}
	st := s.Sync.LatestStatus(typ)
	c.JSON(http.StatusOK, gin.H{
		"last_run": scheduling.FormatTime(st.LastRun),
		"status":   st.Status,
		"details":  st.Details,
	})
}

func (s *Server) tutorName(ctx context.Context, id string) string {
	if s.Users == nil {
		return scheduling.UnknownTutor
	}
	name, err := s.Users.DisplayName(ctx, id)
	if err != nil || name == "" {
		return scheduling.UnknownTutor
	}
	return name
}

func (s *Server) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, scheduling.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, scheduling.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		if s.Log != nil {
			s.Log.Printf("web: %v", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
