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
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"

	"github.com/fnndsc/pman/pkg/config"
	"github.com/fnndsc/pman/pkg/constant"
)

func sharedFilesystemConfig() config.Config {
	return config.Config{
		Namespace:   "myproject",
		StorageMode: config.StorageModeSharedFilesystem,
		StoreBase:   "/tmp/share",
	}
}

func objectStorageConfig() config.Config {
	return config.Config{
		Namespace:   "myproject",
		StorageMode: config.StorageModeObjectStorage,
	}
}

func baseParams() JobParameters {
	return JobParameters{
		Name:            "job1",
		Image:           "fnndsc/pl-simplefsapp",
		Command:         []string{"simplefsapp.py", "/share/incoming", "/share/outgoing"},
		NumberOfWorkers: 4,
		CPULimit:        "2000m",
		MemoryLimit:     "1024Mi",
	}
}

func TestBuild_SharedFilesystem(t *testing.T) {
	builder := NewJobSpecBuilder(sharedFilesystemConfig())
	job := builder.Build(baseParams())

	assert.Equal(t, "job1", job.Name)
	assert.Equal(t, "myproject", job.Namespace)
	require.NotNil(t, job.Spec.Parallelism)
	require.NotNil(t, job.Spec.Completions)
	assert.Equal(t, int32(4), *job.Spec.Parallelism)
	assert.Equal(t, int32(4), *job.Spec.Completions)
	require.NotNil(t, job.Spec.ActiveDeadlineSeconds)
	assert.Equal(t, int64(3600), *job.Spec.ActiveDeadlineSeconds)
	assert.Equal(t, corev1.RestartPolicyNever, job.Spec.Template.Spec.RestartPolicy)

	require.Len(t, job.Spec.Template.Spec.Containers, 1)
	assert.Empty(t, job.Spec.Template.Spec.InitContainers)

	require.Len(t, job.Spec.Template.Spec.Volumes, 1)
	volume := job.Spec.Template.Spec.Volumes[0]
	assert.Equal(t, "shared-volume", volume.Name)
	require.NotNil(t, volume.HostPath)
	assert.Equal(t, "/tmp/share/key-job1", volume.HostPath.Path)
}

func TestBuild_PrimaryContainer(t *testing.T) {
	builder := NewJobSpecBuilder(sharedFilesystemConfig())
	params := baseParams()
	job := builder.Build(params)

	primary := job.Spec.Template.Spec.Containers[0]
	assert.Equal(t, params.Name, primary.Name)
	assert.Equal(t, params.Image, primary.Image)
	assert.Equal(t, params.Command, primary.Command)

	assert.Contains(t, primary.Env, corev1.EnvVar{Name: "NUMBER_OF_WORKERS", Value: "4"})
	assert.Contains(t, primary.Env, corev1.EnvVar{Name: "CPU_LIMIT", Value: "2000m"})
	assert.Contains(t, primary.Env, corev1.EnvVar{Name: "MEMORY_LIMIT", Value: "1024Mi"})

	assert.Equal(t, "1024Mi", primary.Resources.Limits.Memory().String())
	assert.Equal(t, int64(2000), primary.Resources.Limits.Cpu().MilliValue())
	assert.Equal(t, "128Mi", primary.Resources.Requests.Memory().String())
	assert.Equal(t, int64(250), primary.Resources.Requests.Cpu().MilliValue())

	require.Len(t, primary.VolumeMounts, 1)
	assert.Equal(t, "shared-volume", primary.VolumeMounts[0].Name)
	assert.Equal(t, "/share", primary.VolumeMounts[0].MountPath)
}

func TestBuild_GPULimit(t *testing.T) {
	tests := []struct {
		name             string
		gpuLimit         int64
		expectedSelector map[string]string
	}{
		{
			name:     "no gpu requested",
			gpuLimit: 0,
		},
		{
			name:             "two gpus requested",
			gpuLimit:         2,
			expectedSelector: map[string]string{"accelerator": "gpu-node"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := baseParams()
			params.GPULimit = tt.gpuLimit
			job := NewJobSpecBuilder(sharedFilesystemConfig()).Build(params)

			limits := job.Spec.Template.Spec.Containers[0].Resources.Limits
			quantity, ok := limits[constant.ResourceNvidiaGPU]
			if tt.gpuLimit > 0 {
				require.True(t, ok)
				assert.Equal(t, tt.gpuLimit, quantity.Value())
			} else {
				assert.False(t, ok)
			}
			assert.Equal(t, tt.expectedSelector, job.Spec.Template.Spec.NodeSelector)
		})
	}
}

func TestBuild_ObjectStorage(t *testing.T) {
	builder := NewJobSpecBuilder(objectStorageConfig())
	job := builder.Build(baseParams())

	spec := job.Spec.Template.Spec
	require.Len(t, spec.InitContainers, 1)
	require.Len(t, spec.Containers, 2)
	require.Len(t, spec.Volumes, 3)

	init := spec.InitContainers[0]
	assert.Equal(t, "init-storage", init.Name)
	assert.Equal(t, "fnndsc/pman-swift-publisher", init.Image)
	assert.Equal(t, []string{"python3", "get_data.py"}, init.Command)
	assert.Contains(t, init.Env, corev1.EnvVar{Name: "SWIFT_KEY", Value: "job1"})
	assert.Equal(t, "1024Mi", init.Resources.Limits.Memory().String())
	assert.Equal(t, int64(2000), init.Resources.Limits.Cpu().MilliValue())

	assert.Equal(t, "job1", spec.Containers[0].Name)

	publish := spec.Containers[1]
	assert.Equal(t, "publish", publish.Name)
	assert.Equal(t, []string{"python3", "watch.py"}, publish.Command)
	assert.Contains(t, publish.Env, corev1.EnvVar{Name: "SWIFT_KEY", Value: "job1"})
	assert.Contains(t, publish.Env, corev1.EnvVar{Name: "KUBECFG_PATH", Value: "/tmp/.kube/config"})
	assert.Contains(t, publish.Env, corev1.EnvVar{Name: "JOB_NAMESPACE", Value: "myproject"})
	require.Len(t, publish.VolumeMounts, 3)

	expectedVolumes := []corev1.Volume{
		{
			Name: "shared-volume",
			VolumeSource: corev1.VolumeSource{
				EmptyDir: &corev1.EmptyDirVolumeSource{},
			},
		},
		{
			Name: "swift-credentials",
			VolumeSource: corev1.VolumeSource{
				Secret: &corev1.SecretVolumeSource{SecretName: "swift-credentials"},
			},
		},
		{
			Name: "kubecfg-volume",
			VolumeSource: corev1.VolumeSource{
				Secret: &corev1.SecretVolumeSource{SecretName: "kubecfg"},
			},
		},
	}
	if diff := cmp.Diff(expectedVolumes, spec.Volumes); diff != "" {
		t.Errorf("unexpected volume set (-want +got):\n%s", diff)
	}
}

// The primary container must sit at index 0 regardless of storage mode and
// accelerator settings; log retrieval indexes it by that position.
func TestBuild_PrimaryContainerAlwaysFirst(t *testing.T) {
	configs := map[string]config.Config{
		"shared-filesystem": sharedFilesystemConfig(),
		"object-storage":    objectStorageConfig(),
	}
	for name, cfg := range configs {
		for _, gpu := range []int64{0, 1, 4} {
			params := baseParams()
			params.GPULimit = gpu
			job := NewJobSpecBuilder(cfg).Build(params)
			assert.Equal(t, params.Name, job.Spec.Template.Spec.Containers[0].Name,
				"mode %s, gpu %d", name, gpu)
		}
	}
}

func TestJobParameters_Validate(t *testing.T) {
	tests := []struct {
		name          string
		mutate        func(*JobParameters)
		errorExpected bool
	}{
		{
			name:   "valid parameters",
			mutate: func(p *JobParameters) {},
		},
		{
			name:          "empty name",
			mutate:        func(p *JobParameters) { p.Name = "" },
			errorExpected: true,
		},
		{
			name:          "empty image",
			mutate:        func(p *JobParameters) { p.Image = "" },
			errorExpected: true,
		},
		{
			name:          "non-positive workers",
			mutate:        func(p *JobParameters) { p.NumberOfWorkers = 0 },
			errorExpected: true,
		},
		{
			name:          "negative gpu limit",
			mutate:        func(p *JobParameters) { p.GPULimit = -1 },
			errorExpected: true,
		},
		{
			name:          "malformed cpu limit",
			mutate:        func(p *JobParameters) { p.CPULimit = "two cores" },
			errorExpected: true,
		},
		{
			name:          "malformed memory limit",
			mutate:        func(p *JobParameters) { p.MemoryLimit = "lots" },
			errorExpected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := baseParams()
			tt.mutate(&params)
			err := params.Validate()
			if tt.errorExpected {
				require.Error(t, err)
				assert.True(t, IsValidation(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
