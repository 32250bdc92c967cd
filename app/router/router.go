package router

import (
	"github.com/beego/beego/v2/server/web"

	"github.com/milvuschat/backend-go/app/bootstrap"
	"github.com/milvuschat/backend-go/app/controllers"
	"github.com/milvuschat/backend-go/app/middleware"
)

// Init registers all routes. Must be called after bootstrap finishes.
func Init() {
	web.InsertFilter("/*", web.BeforeRouter, middleware.CORSMiddleware)

	rootController := &controllers.RootController{}
	web.Router("/", rootController, "get:Index")
	web.Router("/test-openai", rootController, "get:TestOpenAI")

	chatController := &controllers.ChatController{}
	web.Router("/chat", chatController, "post:Chat")

	dataController := &controllers.DataController{}
	web.Router("/add-data", dataController, "post:AddData")
	web.Router("/add-sample-data", dataController, "post:AddSampleData")
	web.Router("/milvus-info", dataController, "get:Info")

	if app := bootstrap.GetApp(); app != nil && app.MetricsService() != nil {
		web.Handler("/metrics", app.MetricsService().Handler())
	}
}
