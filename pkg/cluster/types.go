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

package cluster

import (
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// JobParameters describes a compute job to be scheduled on the cluster.
// Resource limits are string-encoded Kubernetes quantities ("2000m",
// "1024Mi"); malformed quantities are a caller contract violation and must be
// rejected through Validate before the parameters reach the builder.
type JobParameters struct {
	// Name uniquely identifies the job within the configured namespace.
	Name string
	// Image is the container image reference of the primary workload.
	Image string
	// Command is the argument vector run inside the primary container.
	Command []string
	// NumberOfWorkers sets both the desired parallelism and the required
	// completion count.
	NumberOfWorkers int32
	// CPULimit and MemoryLimit bound the primary container.
	CPULimit    string
	MemoryLimit string
	// GPULimit is the number of accelerators required by each worker,
	// zero for none.
	GPULimit int64
}

// Validate enforces the caller contract over JobParameters.
func (p JobParameters) Validate() error {
	if p.Name == "" {
		return ValidationErr.Errorf("job name must not be empty")
	}
	if p.Image == "" {
		return ValidationErr.Errorf("image must not be empty")
	}
	if p.NumberOfWorkers <= 0 {
		return ValidationErr.Errorf("number of workers must be positive, got %d", p.NumberOfWorkers)
	}
	if p.GPULimit < 0 {
		return ValidationErr.Errorf("gpu limit must not be negative, got %d", p.GPULimit)
	}
	if _, err := resource.ParseQuantity(p.CPULimit); err != nil {
		return ValidationErr.Errorf("invalid cpu limit %q: %v", p.CPULimit, err)
	}
	if _, err := resource.ParseQuantity(p.MemoryLimit); err != nil {
		return ValidationErr.Errorf("invalid memory limit %q: %v", p.MemoryLimit, err)
	}
	return nil
}

// JobHandle identifies a job accepted by the cluster. It is the only token
// callers need to retain between Schedule and later State/Logs/Cancel calls.
type JobHandle struct {
	Name string
}

// JobState is the normalized four-valued lifecycle summary derived from the
// cluster's raw job status.
type JobState string

const (
	JobStateInactive JobState = "inactive"
	JobStateRunning  JobState = "running"
	JobStateComplete JobState = "complete"
	JobStateFailed   JobState = "failed"
)

// JobStatus is a derived view over the orchestrator's raw status, computed
// fresh on every query and never persisted.
type JobStatus struct {
	State   JobState `json:"state"`
	Message string   `json:"message"`
	// Reason is set only when State is failed.
	Reason string `json:"reason,omitempty"`

	Active         int32        `json:"active"`
	Succeeded      int32        `json:"succeeded"`
	Failed         int32        `json:"failed"`
	StartTime      *metav1.Time `json:"startTime,omitempty"`
	CompletionTime *metav1.Time `json:"completionTime,omitempty"`
}
