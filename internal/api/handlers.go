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
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fnndsc/pman/pkg/cluster"
)

type scheduleJobRequest struct {
	Name            string   `json:"name" binding:"required"`
	Image           string   `json:"image" binding:"required"`
	Command         []string `json:"command"`
	NumberOfWorkers int32    `json:"number_of_workers"`
	CPULimit        string   `json:"cpu_limit"`
	MemoryLimit     string   `json:"memory_limit"`
	GPULimit        int64    `json:"gpu_limit"`
}

type jobResponse struct {
	Name string `json:"name"`
}

type jobStateResponse struct {
	Name   string            `json:"name"`
	Status cluster.JobStatus `json:"status"`
}

type jobLogsResponse struct {
	Name string `json:"name"`
	Logs string `json:"logs"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func (rt *Router) HandleScheduleJob(c *gin.Context) {
	var req scheduleJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Detail: err.Error()})
		return
	}
	params := cluster.JobParameters{
		Name:            req.Name,
		Image:           req.Image,
		Command:         req.Command,
		NumberOfWorkers: req.NumberOfWorkers,
		CPULimit:        req.CPULimit,
		MemoryLimit:     req.MemoryLimit,
		GPULimit:        req.GPULimit,
	}
	handle, err := rt.jobs.Schedule(c.Request.Context(), params)
	if err != nil {
		rt.logger.Error(err, "unable to schedule job", "job", req.Name)
		c.JSON(statusForError(err), errorResponse{Detail: err.Error()})
		return
	}
	c.JSON(http.StatusCreated, jobResponse{Name: handle.Name})
}

func (rt *Router) HandleJobState(c *gin.Context) {
	name := c.Param("name")
	status, err := rt.jobs.State(c.Request.Context(), cluster.JobHandle{Name: name})
	if err != nil {
		c.JSON(statusForError(err), errorResponse{Detail: err.Error()})
		return
	}
	c.JSON(http.StatusOK, jobStateResponse{Name: name, Status: status})
}

func (rt *Router) HandleJobLogs(c *gin.Context) {
	name := c.Param("name")
	logs, err := rt.jobs.Logs(c.Request.Context(), cluster.JobHandle{Name: name})
	if err != nil {
		c.JSON(statusForError(err), errorResponse{Detail: err.Error()})
		return
	}
	c.JSON(http.StatusOK, jobLogsResponse{Name: name, Logs: logs})
}

func (rt *Router) HandleCancelJob(c *gin.Context) {
	name := c.Param("name")
	if err := rt.jobs.Cancel(c.Request.Context(), cluster.JobHandle{Name: name}); err != nil {
		rt.logger.Error(err, "unable to cancel job", "job", name)
		c.JSON(statusForError(err), errorResponse{Detail: err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func statusForError(err error) int {
	switch {
	case cluster.IsValidation(err):
		return http.StatusBadRequest
	case cluster.IsNotFound(err):
		return http.StatusNotFound
	case cluster.IsUnsupportedTopology(err):
		return http.StatusConflict
	case cluster.IsSubmission(err):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
