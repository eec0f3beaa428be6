package http

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Register mounts every route. mutating wraps POST/PUT routes (the
// idempotency middleware in production); it may be nil.
func Register(e *echo.Echo, h *Handler, fines *FineHandler, admin *AdminHandler, mutating ...echo.MiddlewareFunc) {
	e.GET("/health", h.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	e.GET("/loans/:loan_id/fines/preview", fines.PreviewOverdueFine)
	e.GET("/users/:user_id/fines/summary", fines.GetUserFineSummary)
	e.GET("/fines/statistics", fines.GetFineStatistics)
	e.GET("/settings", admin.ListSettings)

	w := e.Group("", mutating...)
	w.POST("/loans/:loan_id/fines/overdue", fines.CreateOverdueFine)
	w.POST("/loans/:loan_id/fines/lost", fines.CreateLostBookFine)
	w.POST("/fines/:fine_id/pay", fines.PayFine)
	w.POST("/fines/:fine_id/waive", fines.WaiveFine)
	w.POST("/admin/sweep", admin.RunSweep)
	w.POST("/admin/reconcile", admin.Reconcile)
	w.PUT("/settings/:key", admin.UpdateSetting)
}
