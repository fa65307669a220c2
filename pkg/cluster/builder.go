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
	"strconv"

	batchv1 "k8s.io/api/batch/v1"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/fnndsc/pman/pkg/config"
	"github.com/fnndsc/pman/pkg/constant"
	"github.com/fnndsc/pman/pkg/util"
)

const (
	// jobActiveDeadlineSeconds is a hard ceiling on job runtime, not
	// configurable.
	jobActiveDeadlineSeconds int64 = 3600

	envVarNumberOfWorkers = "NUMBER_OF_WORKERS"
	envVarCPULimit        = "CPU_LIMIT"
	envVarMemoryLimit     = "MEMORY_LIMIT"
)

// JobSpecBuilder translates JobParameters into a fully-specified batch/v1
// Job. It is a pure value: the storage topology and namespace are fixed at
// construction and every Build call is free of I/O and side effects.
type JobSpecBuilder struct {
	namespace string
	topology  Topology
}

func NewJobSpecBuilder(cfg config.Config) JobSpecBuilder {
	return JobSpecBuilder{
		namespace: cfg.Namespace,
		topology:  NewTopology(cfg),
	}
}

// Build produces the workload descriptor for the given parameters. It is
// total over validated parameters; Validate must have accepted them first.
//
// The primary container always sits at index 0 of the pod template; the
// publish helper, when present, is appended after it and log retrieval
// depends on that ordering.
func (b JobSpecBuilder) Build(params JobParameters) *batchv1.Job {
	job := &batchv1.Job{
		ObjectMeta: metav1.ObjectMeta{
			Name:      params.Name,
			Namespace: b.namespace,
		},
		Spec: batchv1.JobSpec{
			Parallelism:           util.Int32Addr(params.NumberOfWorkers),
			Completions:           util.Int32Addr(params.NumberOfWorkers),
			ActiveDeadlineSeconds: util.Int64Addr(jobActiveDeadlineSeconds),
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{
					Name: params.Name,
				},
				Spec: corev1.PodSpec{
					RestartPolicy: corev1.RestartPolicyNever,
					Containers:    []corev1.Container{b.primaryContainer(params)},
				},
			},
		},
	}

	// Accelerator constraints index container 0 directly, so they must be
	// attached before the topology appends any helper containers.
	if params.GPULimit > 0 {
		limits := job.Spec.Template.Spec.Containers[0].Resources.Limits
		limits[constant.ResourceNvidiaGPU] = *resource.NewQuantity(params.GPULimit, resource.DecimalSI)
		job.Spec.Template.Spec.NodeSelector = map[string]string{
			constant.NodeSelectorAcceleratorKey: constant.NodeSelectorAcceleratorValue,
		}
	}

	b.topology.Apply(job, params)
	return job
}

func (b JobSpecBuilder) primaryContainer(params JobParameters) corev1.Container {
	return corev1.Container{
		Name:    params.Name,
		Image:   params.Image,
		Command: params.Command,
		Env: []corev1.EnvVar{
			{Name: envVarNumberOfWorkers, Value: strconv.Itoa(int(params.NumberOfWorkers))},
			{Name: envVarCPULimit, Value: params.CPULimit},
			{Name: envVarMemoryLimit, Value: params.MemoryLimit},
		},
		Resources: corev1.ResourceRequirements{
			Limits: corev1.ResourceList{
				corev1.ResourceMemory: resource.MustParse(params.MemoryLimit),
				corev1.ResourceCPU:    resource.MustParse(params.CPULimit),
			},
			Requests: corev1.ResourceList{
				corev1.ResourceMemory: resource.MustParse("128Mi"),
				corev1.ResourceCPU:    resource.MustParse("250m"),
			},
		},
		VolumeMounts: []corev1.VolumeMount{
			{Name: sharedVolumeName, MountPath: sharedVolumeMountPath},
		},
	}
}
