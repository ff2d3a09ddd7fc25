// Package router mounts the ledger handlers on a gin engine.
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RouteRegistrar registers its routes under a parent group
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router mounts registrars under /api/<version>. Middleware added with
// Use wraps only those routes, not engine-level ones such as /health.
type Router struct {
	engine     *gin.Engine
	version    string
	middleware gin.HandlersChain
	registrars []RouteRegistrar
}

// RouterOption configures a Router
type RouterOption func(*Router)

// WithAPIVersion sets the version segment of the prefix
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) { r.version = version }
}

func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{engine: engine, version: "v1"}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Router) Use(middleware ...gin.HandlerFunc) *Router {
	r.middleware = append(r.middleware, middleware...)
	return r
}

func (r *Router) Register(registrars ...RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrars...)
	return r
}

// Setup creates the versioned group and mounts every registrar on it
func (r *Router) Setup() *gin.RouterGroup {
	api := r.engine.Group(r.BasePath(), r.middleware...)
	for _, reg := range r.registrars {
		reg.RegisterRoutes(api)
	}
	return api
}

func (r *Router) BasePath() string {
	return "/api/" + r.version
}

// Resource is the route table of one API resource, mounted at its prefix
type Resource struct {
	prefix     string
	middleware gin.HandlersChain
	routes     []route
}

type route struct {
	method, path string
	handlers     gin.HandlersChain
}

func NewResource(prefix string, middleware ...gin.HandlerFunc) *Resource {
	return &Resource{prefix: prefix, middleware: middleware}
}

// Handle adds a route relative to the resource prefix
func (res *Resource) Handle(method, path string, handlers ...gin.HandlerFunc) *Resource {
	res.routes = append(res.routes, route{method: method, path: path, handlers: handlers})
	return res
}

func (res *Resource) GET(path string, h ...gin.HandlerFunc) *Resource {
	return res.Handle(http.MethodGet, path, h...)
}

func (res *Resource) POST(path string, h ...gin.HandlerFunc) *Resource {
	return res.Handle(http.MethodPost, path, h...)
}

func (res *Resource) PUT(path string, h ...gin.HandlerFunc) *Resource {
	return res.Handle(http.MethodPut, path, h...)
}

func (res *Resource) PATCH(path string, h ...gin.HandlerFunc) *Resource {
	return res.Handle(http.MethodPatch, path, h...)
}

func (res *Resource) DELETE(path string, h ...gin.HandlerFunc) *Resource {
	return res.Handle(http.MethodDelete, path, h...)
}

// crud adds the five standard routes: create, list, get, update and delete
func (res *Resource) crud(create, list, get, update, remove gin.HandlerFunc) *Resource {
	return res.POST("", create).
		GET("", list).
		GET("/:id", get).
		PUT("/:id", update).
		DELETE("/:id", remove)
}

// RegisterRoutes implements RouteRegistrar
func (res *Resource) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group(res.prefix, res.middleware...)
	for _, rt := range res.routes {
		group.Handle(rt.method, rt.path, rt.handlers...)
	}
}

func (res *Resource) Prefix() string {
	return res.prefix
}
