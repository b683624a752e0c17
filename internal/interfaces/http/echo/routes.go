package echo

import e "github.com/labstack/echo/v4"

func RegisterRoutes(server *e.Echo, importHandler *ImportHandler, contractHandler *ContractHandler, userHandler *UserHandler) {
	api := server.Group("/api/v1")

	if importHandler != nil {
		api.POST("/imports/:entity", importHandler.Import)
		api.GET("/imports/runs", importHandler.ListRuns)
		api.GET("/imports/runs/:id", importHandler.GetRun)
	}
	if contractHandler != nil {
		api.GET("/contracts", contractHandler.ListContracts)
		api.GET("/contracts/total", contractHandler.Totals)
	}
	if userHandler != nil {
		api.GET("/users/:id", userHandler.GetUserByID)
	}
}
