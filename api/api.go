/*
Copyright 2024 Blnk Finance Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package api

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/chihoangvnn/regiond"
	"github.com/chihoangvnn/regiond/api/middleware"
	"github.com/chihoangvnn/regiond/config"
)

type Api struct {
	regiond *regiond.Regiond
	router  *gin.Engine
}

func (a Api) Router() *gin.Engine {
	router := a.router
	router.GET("/regions/stats", a.GetRegionStats)
	router.POST("/regions/assign", a.AssignRegion)
	router.POST("/regions/bulk-assign", a.BulkAssignRegions)
	router.POST("/regions/rebalance", a.RebalanceRegions)
	router.GET("/regions/assignment/:accountId", a.GetAssignment)
	router.DELETE("/regions/assignment/:accountId", a.RemoveAssignment)
	router.GET("/regions/available", a.GetAvailableRegions)

	router.POST("/accounts", a.CreateAccount)
	router.GET("/accounts/:id", a.GetAccount)
	router.GET("/accounts", a.GetAllAccounts)

	router.POST("/jobs", a.CreateJob)

	return a.router
}

func NewAPI(r *regiond.Regiond) *Api {
	gin.SetMode(gin.ReleaseMode)
	conf, err := config.Fetch()
	if err != nil {
		return nil
	}
	router := gin.Default()
	router.Use(otelgin.Middleware("REGIOND"))
	router.Use(middleware.RateLimitMiddleware(conf))
	if conf.Server.Secure {
		router.Use(middleware.SecretKeyAuthMiddleware())
	}

	router.GET("/", func(c *gin.Context) {
		c.JSON(200, "server running...")
	})

	return &Api{regiond: r, router: router}
}
