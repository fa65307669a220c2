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
	"path"

	"golang.org/x/exp/slices"
	batchv1 "k8s.io/api/batch/v1"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/resource"

	"github.com/fnndsc/pman/pkg/config"
)

const (
	sharedVolumeName      = "shared-volume"
	sharedVolumeMountPath = "/share"

	initContainerName    = "init-storage"
	publishContainerName = "publish"
	stagingImage         = "fnndsc/pman-swift-publisher"

	swiftVolumeName        = "swift-credentials"
	swiftSecretName        = "swift-credentials"
	swiftVolumeMountPath   = "/etc/swift"
	kubecfgVolumeName      = "kubecfg-volume"
	kubecfgSecretName      = "kubecfg"
	kubecfgVolumeMountPath = "/tmp/.kube/"
	kubecfgPath            = "/tmp/.kube/config"

	envVarSwiftKey     = "SWIFT_KEY"
	envVarKubecfgPath  = "KUBECFG_PATH"
	envVarJobNamespace = "JOB_NAMESPACE"
)

// Topology is the shape a storage mode contributes to a workload: the volume
// set, the staging helper containers, and the container roles later log
// aggregation can expect to find in the job's pods.
type Topology interface {
	// Mode identifies the topology.
	Mode() config.StorageMode
	// Apply attaches the topology's volumes and helper containers to the
	// job's pod template. The primary container must already be present at
	// index 0 and is never displaced.
	Apply(job *batchv1.Job, params JobParameters)
	// MatchesPod reports whether a discovered pod has the container shape
	// this topology produces.
	MatchesPod(pod *corev1.Pod) bool
}

// NewTopology maps the configured storage mode onto its Topology. Config
// validation guarantees the mode is one of the two supported values.
func NewTopology(cfg config.Config) Topology {
	if cfg.StorageMode == config.StorageModeObjectStorage {
		return objectStorageTopology{namespace: cfg.Namespace}
	}
	return sharedFilesystemTopology{storeBase: cfg.StoreBase}
}

// sharedFilesystemTopology backs the shared scratch volume with a host
// directory namespaced by job name. No helper containers are involved.
type sharedFilesystemTopology struct {
	storeBase string
}

func (t sharedFilesystemTopology) Mode() config.StorageMode {
	return config.StorageModeSharedFilesystem
}

func (t sharedFilesystemTopology) Apply(job *batchv1.Job, params JobParameters) {
	job.Spec.Template.Spec.Volumes = []corev1.Volume{
		{
			Name: sharedVolumeName,
			VolumeSource: corev1.VolumeSource{
				HostPath: &corev1.HostPathVolumeSource{
					Path: path.Join(t.storeBase, "key-"+params.Name),
				},
			},
		},
	}
}

func (t sharedFilesystemTopology) MatchesPod(pod *corev1.Pod) bool {
	return len(pod.Spec.InitContainers) == 0 && len(pod.Spec.Containers) == 1
}

// objectStorageTopology stages data through object storage: an init container
// pulls inputs onto an ephemeral scratch volume before the primary container
// starts, and a publish container ships results out after it finishes.
type objectStorageTopology struct {
	namespace string
}

func (t objectStorageTopology) Mode() config.StorageMode {
	return config.StorageModeObjectStorage
}

func (t objectStorageTopology) Apply(job *batchv1.Job, params JobParameters) {
	spec := &job.Spec.Template.Spec
	spec.InitContainers = []corev1.Container{t.initContainer(params)}
	spec.Containers = append(spec.Containers, t.publishContainer(params))
	spec.Volumes = []corev1.Volume{
		{
			Name: sharedVolumeName,
			VolumeSource: corev1.VolumeSource{
				EmptyDir: &corev1.EmptyDirVolumeSource{},
			},
		},
		{
			Name: swiftVolumeName,
			VolumeSource: corev1.VolumeSource{
				Secret: &corev1.SecretVolumeSource{SecretName: swiftSecretName},
			},
		},
		{
			Name: kubecfgVolumeName,
			VolumeSource: corev1.VolumeSource{
				Secret: &corev1.SecretVolumeSource{SecretName: kubecfgSecretName},
			},
		},
	}
}

func (t objectStorageTopology) MatchesPod(pod *corev1.Pod) bool {
	initNames := containerNames(pod.Spec.InitContainers)
	names := containerNames(pod.Spec.Containers)
	return slices.Contains(initNames, initContainerName) && slices.Contains(names, publishContainerName)
}

func (t objectStorageTopology) initContainer(params JobParameters) corev1.Container {
	return corev1.Container{
		Name:    initContainerName,
		Image:   stagingImage,
		Command: []string{"python3", "get_data.py"},
		Env: []corev1.EnvVar{
			{Name: envVarSwiftKey, Value: params.Name},
		},
		Resources: stagingResourceProfile(),
		VolumeMounts: []corev1.VolumeMount{
			{Name: sharedVolumeName, MountPath: sharedVolumeMountPath},
			{Name: swiftVolumeName, MountPath: swiftVolumeMountPath, ReadOnly: true},
		},
	}
}

// The kubecfg secret mounted in the publish container is the one generated
// for the service account; it lets the publish step watch its own job.
func (t objectStorageTopology) publishContainer(params JobParameters) corev1.Container {
	return corev1.Container{
		Name:    publishContainerName,
		Image:   stagingImage,
		Command: []string{"python3", "watch.py"},
		Env: []corev1.EnvVar{
			{Name: envVarSwiftKey, Value: params.Name},
			{Name: envVarKubecfgPath, Value: kubecfgPath},
			{Name: envVarJobNamespace, Value: t.namespace},
		},
		Resources: stagingResourceProfile(),
		VolumeMounts: []corev1.VolumeMount{
			{Name: sharedVolumeName, MountPath: sharedVolumeMountPath},
			{Name: swiftVolumeName, MountPath: swiftVolumeMountPath, ReadOnly: true},
			{Name: kubecfgVolumeName, MountPath: kubecfgVolumeMountPath, ReadOnly: true},
		},
	}
}

// stagingResourceProfile is the fixed profile of both staging helpers.
func stagingResourceProfile() corev1.ResourceRequirements {
	return corev1.ResourceRequirements{
		Limits: corev1.ResourceList{
			corev1.ResourceMemory: resource.MustParse("1024Mi"),
			corev1.ResourceCPU:    resource.MustParse("2000m"),
		},
		Requests: corev1.ResourceList{
			corev1.ResourceMemory: resource.MustParse("128Mi"),
			corev1.ResourceCPU:    resource.MustParse("250m"),
		},
	}
}

func containerNames(containers []corev1.Container) []string {
	names := make([]string, 0, len(containers))
	for _, c := range containers {
		names = append(names, c.Name)
	}
	return names
}
