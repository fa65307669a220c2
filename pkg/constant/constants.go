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

package constant

import (
	v1 "k8s.io/api/core/v1"
)

const (
	// EnvVarStorageType selects the data-staging topology, one of
	// "shared-filesystem" or "object-storage"
	EnvVarStorageType = "STORAGE_TYPE"
	// EnvVarJobNamespace is the namespace jobs are scheduled into
	EnvVarJobNamespace = "JOB_NAMESPACE"
	// EnvVarStoreBase is the host directory backing shared-filesystem volumes
	EnvVarStoreBase = "STOREBASE"
)

const (
	// LabelJobName is the label the orchestrator stamps on every pod
	// belonging to a job; used as the selector when enumerating job pods
	LabelJobName = "job-name"
)

const (
	// ResourceNvidiaGPU is the extended resource advertised by the NVIDIA
	// device plugin
	ResourceNvidiaGPU v1.ResourceName = "nvidia.com/gpu"
	// NodeSelectorAcceleratorKey / Value pin GPU jobs onto accelerator nodes
	NodeSelectorAcceleratorKey   = "accelerator"
	NodeSelectorAcceleratorValue = "gpu-node"
)
