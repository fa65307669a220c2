/*
 * Copyright 2023 FNNDSC
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package api

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/go-logr/logr"

	"github.com/fnndsc/pman/pkg/cluster"
)

// JobService is the slice of the job manager the HTTP layer depends on.
type JobService interface {
	Schedule(ctx context.Context, params cluster.JobParameters) (cluster.JobHandle, error)
	State(ctx context.Context, handle cluster.JobHandle) (cluster.JobStatus, error)
	Logs(ctx context.Context, handle cluster.JobHandle) (string, error)
	Cancel(ctx context.Context, handle cluster.JobHandle) error
}

type Router struct {
	jobs   JobService
	logger logr.Logger
}

func NewRouter(jobs JobService, logger logr.Logger) *Router {
	return &Router{jobs: jobs, logger: logger}
}

// New builds the gin engine with the job routes registered.
func New(jobs JobService, logger logr.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	NewRouter(jobs, logger).Register(r)
	return r
}

func (rt *Router) Register(r *gin.Engine) {
	v1 := r.Group("/api/v1/jobs")
	{
		v1.POST("", rt.HandleScheduleJob)
		v1.GET("/:name", rt.HandleJobState)
		v1.GET("/:name/logs", rt.HandleJobLogs)
		v1.DELETE("/:name", rt.HandleCancelJob)
	}
}
