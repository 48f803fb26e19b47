// Package http binds the replica RPC surface (internal/replicarpc) to
// concrete HTTP routes over gin, and provides a ReplicaClient that dials
// those routes from the client side.
//
// Big idea: the five unary replica RPCs are not gRPC here — they are one
// JSON route each, with HTTP status carrying transport outcome and the
// response body's `status.ok` field carrying logical outcome separately.
package http

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"quorumkv/internal/replicarpc"
)

// Server wires a replicarpc.Service onto a gin router.
type Server struct {
	svc *replicarpc.Service
}

// NewServer creates a Server over svc.
func NewServer(svc *replicarpc.Service) *Server {
	return &Server{svc: svc}
}

// Register mounts every replica route on r. It turns on r.UseRawPath and
// turns off r.UnescapePathValues so the :key segment arrives un-decoded and
// keyParam can safely unescape it itself — ReplicaClient always sends keys
// url.PathEscape'd, so a key containing "/" still routes as a single segment
// instead of splitting the path.
func (s *Server) Register(r *gin.Engine) {
	r.UseRawPath = true
	r.UnescapePathValues = false

	r.GET("/healthz", s.health)

	rpc := r.Group("/rpc")
	rpc.GET("/write-query/:key", s.writeQuery)
	rpc.GET("/read-query/:key", s.readQuery)
	rpc.POST("/write-prop", s.writeProp)
	rpc.POST("/acquire-lock", s.acquireLock)
	rpc.POST("/release-lock", s.releaseLock)

	r.GET("/debug/store", s.debugStore)
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// keyParam recovers the original key from the :key route segment, undoing
// the url.PathEscape the client applies before building the request URL.
func keyParam(c *gin.Context) string {
	key, err := url.PathUnescape(c.Param("key"))
	if err != nil {
		return c.Param("key")
	}
	return key
}

func (s *Server) writeQuery(c *gin.Context) {
	c.JSON(http.StatusOK, s.svc.WriteQuery(keyParam(c)))
}

func (s *Server) readQuery(c *gin.Context) {
	c.JSON(http.StatusOK, s.svc.ReadQuery(keyParam(c)))
}

func (s *Server) writeProp(c *gin.Context) {
	var req replicarpc.WritePropRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, s.svc.WriteProp(req))
}

func (s *Server) acquireLock(c *gin.Context) {
	var req replicarpc.LockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, s.svc.AcquireLock(req))
}

func (s *Server) releaseLock(c *gin.Context) {
	var req replicarpc.LockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, s.svc.ReleaseLock(req))
}

// debugStore exposes a non-durable, point-in-time dump of the replica's
// register state. Never consulted on startup — introspection only.
func (s *Server) debugStore(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"entries": s.svc.Dump()})
}
