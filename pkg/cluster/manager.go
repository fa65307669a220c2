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
	"context"
	"fmt"
	"strings"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/klog/v2"
	"sigs.k8s.io/yaml"

	"github.com/fnndsc/pman/pkg/config"
	"github.com/fnndsc/pman/pkg/constant"
)

// ClusterJobManager schedules compute jobs onto the cluster and reports
// their lifecycle. It owns no state beyond its configuration; the cluster is
// authoritative for everything it submits, so any number of callers may use
// it concurrently.
type ClusterJobManager struct {
	client  Client
	builder JobSpecBuilder
	logs    LogAggregator
}

func NewClusterJobManager(cfg config.Config, client Client) *ClusterJobManager {
	return &ClusterJobManager{
		client:  client,
		builder: NewJobSpecBuilder(cfg),
		logs:    NewLogAggregator(client),
	}
}

// Schedule validates the parameters, builds the workload descriptor and
// submits it. Success means the cluster accepted the job, not that it
// succeeded; outcomes are reported through State.
func (m *ClusterJobManager) Schedule(ctx context.Context, params JobParameters) (JobHandle, error) {
	logger := klog.FromContext(ctx)
	if err := params.Validate(); err != nil {
		return JobHandle{}, err
	}
	job := m.builder.Build(params)
	created, err := m.client.SubmitJob(ctx, job)
	if err != nil {
		return JobHandle{}, err
	}
	logger.V(1).Info("scheduled job", "job", created.Name, "workers", params.NumberOfWorkers)
	return JobHandle{Name: created.Name}, nil
}

// State reads the job's raw status and derives the normalized summary.
func (m *ClusterJobManager) State(ctx context.Context, handle JobHandle) (JobStatus, error) {
	job, err := m.client.GetJob(ctx, handle.Name)
	if err != nil {
		return JobStatus{}, err
	}
	return DeriveState(job.Status), nil
}

// Logs enumerates the job's pods and concatenates the aggregated log of each
// one. Aggregation is all-or-nothing per pod and across pods.
func (m *ClusterJobManager) Logs(ctx context.Context, handle JobHandle) (string, error) {
	pods, err := m.client.ListPods(ctx, constant.LabelJobName+"="+handle.Name)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	for i := range pods {
		out, err := m.logs.Aggregate(ctx, &pods[i])
		if err != nil {
			return "", err
		}
		sb.WriteString(out)
	}
	return sb.String(), nil
}

// Cancel tears the job down. Deleting an already-absent job is treated as
// success; callers relying on existence should check first.
func (m *ClusterJobManager) Cancel(ctx context.Context, handle JobHandle) error {
	return IgnoreNotFound(m.client.DeleteJob(ctx, handle.Name))
}

// podManifestTemplate is the single-container never-restart pod shape used
// for standalone pods created outside the job path.
const podManifestTemplate = `
apiVersion: v1
kind: Pod
metadata:
    name: %s
spec:
    restartPolicy: Never
    containers:
    - name: %s
      image: %s
`

// RunPod creates a standalone pod running the given image, outside the job
// path.
func (m *ClusterJobManager) RunPod(ctx context.Context, image, name string) (*corev1.Pod, error) {
	if name == "" || image == "" {
		return nil, ValidationErr.Errorf("pod name and image must not be empty")
	}
	manifest := fmt.Sprintf(podManifestTemplate, name, name, image)
	var pod corev1.Pod
	if err := yaml.Unmarshal([]byte(manifest), &pod); err != nil {
		return nil, ValidationErr.Errorf("invalid pod manifest for %s: %v", name, err)
	}
	return m.client.SubmitPod(ctx, &pod)
}

// PodStatus reads the status of a standalone pod.
func (m *ClusterJobManager) PodStatus(ctx context.Context, name string) (corev1.PodStatus, error) {
	pod, err := m.client.GetPod(ctx, name)
	if err != nil {
		return corev1.PodStatus{}, err
	}
	return pod.Status, nil
}

// RemovePod deletes a standalone pod.
func (m *ClusterJobManager) RemovePod(ctx context.Context, name string) error {
	return m.client.DeletePod(ctx, name)
}
