// Package router quản lý việc định tuyến cho API.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	apphdl "farm_claims/internal/api/application/handler"
	claimhdl "farm_claims/internal/api/claim/handler"
)

// RoutePrefix là prefix chung cho mọi route API.
const RoutePrefix = "/api"

// Router quản lý việc định tuyến cho API.
type Router struct {
	app *fiber.App
}

// NewRouter tạo Router mới.
func NewRouter(app *fiber.App) *Router {
	return &Router{app: app}
}

// RegisterRouteWithMiddleware đăng ký route với middleware qua .Use() trên group.
//
// Lưu ý Fiber v3: truyền middleware trực tiếp vào router.Get/Post(path, mw, handler)
// khiến middleware KHÔNG được gọi. Phải tạo group rồi .Use() như dưới đây.
func RegisterRouteWithMiddleware(router fiber.Router, prefix string, method string, path string, middlewares []fiber.Handler, handler fiber.Handler) {
	routeGroup := router.Group(prefix)
	for _, mw := range middlewares {
		routeGroup.Use(mw)
	}

	switch method {
	case "GET":
		routeGroup.Get(path, handler)
	case "POST":
		routeGroup.Post(path, handler)
	case "PUT":
		routeGroup.Put(path, handler)
	case "DELETE":
		routeGroup.Delete(path, handler)
	}
}

// SetupRoutes đăng ký toàn bộ route của server.
func (r *Router) SetupRoutes() error {
	api := r.app.Group(RoutePrefix)

	applicationHandler, err := apphdl.NewApplicationHandler()
	if err != nil {
		return fmt.Errorf("tạo ApplicationHandler: %w", err)
	}
	claimHandler, err := claimhdl.NewClaimHandler()
	if err != nil {
		return fmt.Errorf("tạo ClaimHandler: %w", err)
	}

	// Applications
	RegisterRouteWithMiddleware(api, "/applications", "POST", "/", nil, applicationHandler.HandleCreate)
	RegisterRouteWithMiddleware(api, "/applications", "GET", "/get-by-reference/:reference", nil, applicationHandler.HandleGetByReference)

	// Claims
	RegisterRouteWithMiddleware(api, "/claims", "POST", "/", nil, claimHandler.HandleCreate)
	RegisterRouteWithMiddleware(api, "/claims", "GET", "/get-by-reference/:reference", nil, claimHandler.HandleGetByReference)
	RegisterRouteWithMiddleware(api, "/claims", "GET", "/get-by-application-reference/:reference", nil, claimHandler.HandleGetByApplicationReference)

	return nil
}
